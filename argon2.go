package argon2

import (
	"context"
	"crypto/subtle"

	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/phc"
	"github.com/opd-ai/argon2/secmem"
	"github.com/sirupsen/logrus"
)

type (
	// Context holds the inputs of one derivation.
	Context = core.Context
	// Variant selects Argon2d, Argon2i or Argon2id.
	Variant = core.Variant
	// Version selects the 0x10 or 0x13 block accumulation rule.
	Version = core.Version
)

const (
	Argon2d  = core.VariantD
	Argon2i  = core.VariantI
	Argon2id = core.VariantID

	Version10      = core.Version10
	Version13      = core.Version13
	DefaultVersion = core.DefaultVersion
)

// HashRaw derives c.KeyLength bytes from c.
func HashRaw(c *Context) ([]byte, error) {
	return HashRawContext(context.Background(), c)
}

// HashRawContext is HashRaw with cancellation. A cancelled ctx stops the
// derivation at the next slice boundary with ErrAborted.
func HashRawContext(ctx context.Context, c *Context) ([]byte, error) {
	return core.Derive(ctx, c)
}

// HashEncoded derives a key from c and returns it as an encoded hash.
func HashEncoded(c *Context) (string, error) {
	return HashEncodedContext(context.Background(), c)
}

// HashEncodedContext is HashEncoded with cancellation.
func HashEncodedContext(ctx context.Context, c *Context) (string, error) {
	key, err := core.Derive(ctx, c)
	if err != nil {
		return "", err
	}
	defer secmem.ZeroBytes(key)

	encoded, err := Encode(c, key)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"function": "HashEncoded",
		"variant":  c.Variant.Name(),
		"state":    core.StateEncoded.String(),
	}).Debug("Encoded derived key")
	return encoded, nil
}

// Encode renders the parameters, salt, key id and associated data of c with
// key as an encoded hash.
func Encode(c *Context, key []byte) (string, error) {
	return phc.Encode(&phc.Hash{
		Variant:        c.Variant,
		Version:        c.Version,
		Memory:         c.Memory,
		Time:           c.Time,
		Lanes:          c.Lanes,
		KeyID:          c.KeyID,
		AssociatedData: c.AssociatedData,
		Salt:           c.Salt,
		Key:            key,
	})
}

// Decode parses an encoded hash into a Context without password or secret,
// and the key it carries. KeyLength is set to the length of the key.
func Decode(encoded string) (*Context, []byte, error) {
	h, err := phc.Decode(encoded)
	if err != nil {
		return nil, nil, err
	}
	return &Context{
		Salt:           h.Salt,
		AssociatedData: h.AssociatedData,
		KeyID:          h.KeyID,
		KeyLength:      uint32(len(h.Key)),
		Memory:         h.Memory,
		Time:           h.Time,
		Lanes:          h.Lanes,
		Variant:        h.Variant,
		Version:        h.Version,
	}, h.Key, nil
}

// Verify reports whether password matches the encoded hash. A mismatch
// returns false and a nil error; errors are reserved for malformed input and
// failed derivations.
func Verify(encoded string, password []byte) (bool, error) {
	return VerifyContext(context.Background(), encoded, password, nil)
}

// VerifyWithSecret is Verify for hashes derived with a secret key.
func VerifyWithSecret(encoded string, password, secret []byte) (bool, error) {
	return VerifyContext(context.Background(), encoded, password, secret)
}

// VerifyContext is VerifyWithSecret with cancellation. The candidate key is
// compared in constant time.
func VerifyContext(ctx context.Context, encoded string, password, secret []byte) (bool, error) {
	c, want, err := Decode(encoded)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Verify",
			"error":    err.Error(),
		}).Debug("Rejected encoded hash")
		return false, err
	}
	c.Password = password
	c.Secret = secret

	got, err := core.Derive(ctx, c)
	if err != nil {
		return false, err
	}
	defer secmem.ZeroBytes(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
