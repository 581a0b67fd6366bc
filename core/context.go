package core

import (
	"github.com/opd-ai/argon2/limits"
)

// Context holds the inputs of one derivation. All fields except KeyID,
// Threads, ClearPassword and ClearSecret affect the derived key.
//
// A Context is built per request. When ClearPassword or ClearSecret is set
// the corresponding buffer is wiped in place once it has been pre-hashed, so
// the same Context must not be reused for a second derivation.
type Context struct {
	Password       []byte
	Salt           []byte
	Secret         []byte
	AssociatedData []byte

	// KeyID names the secret in encoded hashes. It is not hashed.
	KeyID []byte

	// KeyLength is the length of the derived key in bytes.
	KeyLength uint32
	// Memory is the memory cost in KiB (one block per KiB).
	Memory uint32
	// Time is the number of passes over memory.
	Time uint32
	// Lanes is the degree of parallelism p.
	Lanes uint32
	// Threads caps the number of workers filling lanes. Zero means one
	// worker per lane, limited by the number of CPUs.
	Threads uint32

	Variant Variant
	Version Version

	ClearPassword bool
	ClearSecret   bool
}

// Validate checks every parameter against the bounds in package limits. It
// allocates nothing and leaves the Context unchanged.
func (c *Context) Validate() error {
	if err := limits.ValidateOutputLength(c.KeyLength); err != nil {
		return err
	}
	if err := limits.ValidateLength(len(c.Password), limits.MinPasswordLength, limits.MaxPasswordLength,
		limits.ErrPasswordTooShort, limits.ErrPasswordTooLong); err != nil {
		return err
	}
	if err := limits.ValidateSalt(c.Salt); err != nil {
		return err
	}
	if err := limits.ValidateLength(len(c.Secret), limits.MinSecretLength, limits.MaxSecretLength,
		limits.ErrSecretTooShort, limits.ErrSecretTooLong); err != nil {
		return err
	}
	if err := limits.ValidateLength(len(c.AssociatedData), limits.MinADLength, limits.MaxADLength,
		limits.ErrADTooShort, limits.ErrADTooLong); err != nil {
		return err
	}
	if err := limits.ValidateRange(uint64(c.Lanes), limits.MinLanes, limits.MaxLanes,
		limits.ErrLanesTooFew, limits.ErrLanesTooMany); err != nil {
		return err
	}
	if c.Threads != 0 {
		if err := limits.ValidateRange(uint64(c.Threads), limits.MinThreads, limits.MaxThreads,
			limits.ErrThreadsTooFew, limits.ErrThreadsTooMany); err != nil {
			return err
		}
	}
	if err := limits.ValidateMemory(c.Memory, c.Lanes); err != nil {
		return err
	}
	if err := limits.ValidateRange(uint64(c.Time), limits.MinTime, limits.MaxTime,
		limits.ErrTimeTooSmall, limits.ErrTimeTooLarge); err != nil {
		return err
	}
	if !c.Variant.Valid() {
		return limits.ErrIncorrectType
	}
	if !c.Version.Valid() {
		return limits.ErrIncorrectVersion
	}
	return nil
}

// MemoryBlocks returns the number of blocks actually allocated: Memory
// rounded down to a multiple of 4 * Lanes. Call only on a validated Context.
func (c *Context) MemoryBlocks() uint32 {
	segment := c.Memory / (limits.SyncPoints * c.Lanes)
	return segment * limits.SyncPoints * c.Lanes
}
