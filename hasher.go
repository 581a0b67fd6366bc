package argon2

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/monitor"
	"github.com/opd-ai/argon2/phc"
	"github.com/opd-ai/argon2/secmem"
	"github.com/sirupsen/logrus"
)

// Options configures a Hasher.
type Options struct {
	Variant Variant
	Version Version
	// Time is the number of passes.
	Time uint32
	// Memory is the memory cost in KiB.
	Memory uint32
	// Lanes is the degree of parallelism recorded in the hash.
	Lanes uint32
	// Threads caps the goroutines used per derivation; zero means one per
	// lane up to the number of CPUs.
	Threads    uint32
	SaltLength uint32
	KeyLength  uint32

	// Secret is an optional server-side key mixed into every hash. KeyID, if
	// set, is written to the encoded hash to name it.
	Secret []byte
	KeyID  []byte

	// Monitor, when set, records every derivation and verification.
	Monitor *monitor.Monitor
}

// NewOptions returns Argon2id v0x13 with three passes over 64 MiB, four
// lanes, a 16-byte salt and a 32-byte key.
func NewOptions() *Options {
	return &Options{
		Variant:    Argon2id,
		Version:    Version13,
		Time:       3,
		Memory:     64 * 1024,
		Lanes:      4,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// newContext returns a Context for password and salt under these options.
func (o *Options) newContext(password, salt []byte) *Context {
	return &Context{
		Password:  password,
		Salt:      salt,
		Secret:    o.Secret,
		KeyID:     o.KeyID,
		KeyLength: o.KeyLength,
		Memory:    o.Memory,
		Time:      o.Time,
		Lanes:     o.Lanes,
		Threads:   o.Threads,
		Variant:   o.Variant,
		Version:   o.Version,
	}
}

// Hasher produces and checks encoded password hashes with a fixed set of
// options and a fresh random salt per hash.
type Hasher struct {
	opts Options
	rand io.Reader
}

// NewHasher validates opts and returns a Hasher. The options are copied.
func NewHasher(opts *Options) (*Hasher, error) {
	if opts == nil {
		opts = NewOptions()
	}
	probe := opts.newContext(nil, make([]byte, opts.SaltLength))
	if err := probe.Validate(); err != nil {
		return nil, fmt.Errorf("hasher options: %w", err)
	}
	return &Hasher{opts: *opts, rand: rand.Reader}, nil
}

// Hash derives an encoded hash of password under a new random salt. The
// password buffer is not modified.
func (h *Hasher) Hash(ctx context.Context, password []byte) (string, error) {
	salt := make([]byte, h.opts.SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	c := h.opts.newContext(password, salt)
	key, err := h.derive(ctx, c)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Hasher.Hash",
			"error":      err.Error(),
			"error_kind": core.ErrorKind(err),
		}).Warn("Password hashing failed")
		return "", err
	}
	defer secmem.ZeroBytes(key)

	return Encode(c, key)
}

// Verify reports whether password matches encoded, using the Hasher's
// secret. The parameters are taken from encoded, not from the options, so
// hashes made under older options still verify.
func (h *Hasher) Verify(ctx context.Context, encoded string, password []byte) (bool, error) {
	c, want, err := Decode(encoded)
	if err != nil {
		h.recordVerification(false, err)
		return false, err
	}
	c.Password = password
	c.Secret = h.opts.Secret
	c.Threads = h.opts.Threads

	got, err := h.derive(ctx, c)
	if err != nil {
		h.recordVerification(false, err)
		return false, err
	}
	defer secmem.ZeroBytes(got)

	matched := subtle.ConstantTimeCompare(got, want) == 1
	h.recordVerification(matched, nil)
	return matched, nil
}

// NeedsRehash reports whether encoded was made with weaker or different
// parameters than the Hasher's options.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	parsed, err := phc.Decode(encoded)
	if err != nil {
		return false, err
	}

	switch {
	case parsed.Variant != h.opts.Variant,
		parsed.Version != h.opts.Version,
		parsed.Memory < h.opts.Memory,
		parsed.Time < h.opts.Time,
		parsed.Lanes < h.opts.Lanes,
		uint32(len(parsed.Key)) != h.opts.KeyLength,
		uint32(len(parsed.Salt)) < h.opts.SaltLength:
		return true, nil
	}
	return false, nil
}

// Options returns a copy of the Hasher's options.
func (h *Hasher) Options() Options {
	return h.opts
}

// derive runs one derivation and reports it to the monitor, if any.
func (h *Hasher) derive(ctx context.Context, c *Context) ([]byte, error) {
	if h.opts.Monitor == nil {
		return core.Derive(ctx, c)
	}
	start := h.opts.Monitor.Start()
	key, err := core.Derive(ctx, c)
	h.opts.Monitor.RecordDerivation(c, start, err)
	return key, err
}

func (h *Hasher) recordVerification(matched bool, err error) {
	if h.opts.Monitor != nil {
		h.opts.Monitor.RecordVerification(matched, err)
	}
}
