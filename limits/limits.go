package limits

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SyncPoints is the number of slices every pass is divided into.
	SyncPoints = 4

	// MinLanes and MaxLanes bound the degree of parallelism (p).
	MinLanes = 1
	MaxLanes = 0xFFFFFF

	// MinThreads and MaxThreads bound the number of workers filling lanes.
	MinThreads = 1
	MaxThreads = 0xFFFFFF

	// MinOutputLength is the shortest tag the engine will produce (4 bytes).
	MinOutputLength = 4
	// MaxOutputLength is the longest tag that still fits the 32-bit length prefix.
	MaxOutputLength = math.MaxUint32

	// MinMemoryPerLane is the minimum number of 1 KiB blocks per lane (2 per slice).
	MinMemoryPerLane = 2 * SyncPoints
	// MaxMemory is the largest memory cost in KiB the length fields can carry.
	MaxMemory = math.MaxUint32

	// MinTime and MaxTime bound the number of passes (t).
	MinTime = 1
	MaxTime = math.MaxUint32

	// MinPasswordLength and MaxPasswordLength bound the password in bytes.
	MinPasswordLength = 0
	MaxPasswordLength = math.MaxUint32

	// MinSaltLength is the shortest salt accepted (8 bytes).
	MinSaltLength = 8
	MaxSaltLength = math.MaxUint32

	// MinSecretLength and MaxSecretLength bound the optional secret key.
	MinSecretLength = 0
	MaxSecretLength = math.MaxUint32

	// MinADLength and MaxADLength bound the optional associated data.
	MinADLength = 0
	MaxADLength = math.MaxUint32
)

// ErrInvalidParameter is wrapped by every bound violation below. Violations are
// reported before any memory is allocated.
var ErrInvalidParameter = errors.New("invalid parameter")

var (
	ErrOutputTooShort   = fmt.Errorf("%w: output is too short", ErrInvalidParameter)
	ErrOutputTooLong    = fmt.Errorf("%w: output is too long", ErrInvalidParameter)
	ErrPasswordTooShort = fmt.Errorf("%w: password is too short", ErrInvalidParameter)
	ErrPasswordTooLong  = fmt.Errorf("%w: password is too long", ErrInvalidParameter)
	ErrSaltTooShort     = fmt.Errorf("%w: salt is too short", ErrInvalidParameter)
	ErrSaltTooLong      = fmt.Errorf("%w: salt is too long", ErrInvalidParameter)
	ErrADTooShort       = fmt.Errorf("%w: associated data is too short", ErrInvalidParameter)
	ErrADTooLong        = fmt.Errorf("%w: associated data is too long", ErrInvalidParameter)
	ErrSecretTooShort   = fmt.Errorf("%w: secret is too short", ErrInvalidParameter)
	ErrSecretTooLong    = fmt.Errorf("%w: secret is too long", ErrInvalidParameter)
	ErrTimeTooSmall     = fmt.Errorf("%w: time cost is too small", ErrInvalidParameter)
	ErrTimeTooLarge     = fmt.Errorf("%w: time cost is too large", ErrInvalidParameter)
	ErrMemoryTooLittle  = fmt.Errorf("%w: memory cost is too small", ErrInvalidParameter)
	ErrMemoryTooMuch    = fmt.Errorf("%w: memory cost is too large", ErrInvalidParameter)
	ErrLanesTooFew      = fmt.Errorf("%w: too few lanes", ErrInvalidParameter)
	ErrLanesTooMany     = fmt.Errorf("%w: too many lanes", ErrInvalidParameter)
	ErrThreadsTooFew    = fmt.Errorf("%w: not enough threads", ErrInvalidParameter)
	ErrThreadsTooMany   = fmt.Errorf("%w: too many threads", ErrInvalidParameter)
	ErrIncorrectType    = fmt.Errorf("%w: there is no such type of Argon2", ErrInvalidParameter)
	ErrIncorrectVersion = fmt.Errorf("%w: there is no such version of Argon2", ErrInvalidParameter)
)

// ValidateLength checks a buffer length against inclusive bounds and returns
// tooShort or tooLong wrapped with the actual and allowed sizes.
func ValidateLength(n int, min, max uint64, tooShort, tooLong error) error {
	size, err := Uint32Len(n)
	if err != nil {
		return fmt.Errorf("%w: %v", tooLong, err)
	}
	if uint64(size) < min {
		return fmt.Errorf("%w: length %d below minimum %d", tooShort, size, min)
	}
	if uint64(size) > max {
		return fmt.Errorf("%w: length %d exceeds limit %d", tooLong, size, max)
	}
	return nil
}

// ValidateRange checks a numeric parameter against inclusive bounds.
func ValidateRange(v, min, max uint64, tooSmall, tooLarge error) error {
	if v < min {
		return fmt.Errorf("%w: %d below minimum %d", tooSmall, v, min)
	}
	if v > max {
		return fmt.Errorf("%w: %d exceeds limit %d", tooLarge, v, max)
	}
	return nil
}

// ValidateMemory checks the memory cost (KiB) against the lane count: every
// lane needs at least MinMemoryPerLane blocks.
func ValidateMemory(memory, lanes uint32) error {
	floor := uint64(MinMemoryPerLane) * uint64(lanes)
	if uint64(memory) < floor {
		return fmt.Errorf("%w: %d KiB below minimum %d KiB for %d lanes", ErrMemoryTooLittle, memory, floor, lanes)
	}
	if uint64(memory) > MaxMemory {
		return fmt.Errorf("%w: %d KiB exceeds limit %d KiB", ErrMemoryTooMuch, memory, uint64(MaxMemory))
	}
	return nil
}

// ValidateOutputLength checks the requested tag length.
func ValidateOutputLength(n uint32) error {
	return ValidateRange(uint64(n), MinOutputLength, MaxOutputLength, ErrOutputTooShort, ErrOutputTooLong)
}

// ValidateSalt checks the salt length.
func ValidateSalt(salt []byte) error {
	return ValidateLength(len(salt), MinSaltLength, MaxSaltLength, ErrSaltTooShort, ErrSaltTooLong)
}
