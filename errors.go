package argon2

import (
	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/phc"
)

var (
	// ErrInvalidParameter is wrapped by every parameter bound violation,
	// such as ErrSaltTooShort or ErrMemoryTooLittle.
	ErrInvalidParameter = limits.ErrInvalidParameter
	// ErrAllocation reports that the memory matrix could not be allocated.
	ErrAllocation = core.ErrAllocation
	// ErrFormat is wrapped by every encoded-hash decoding failure.
	ErrFormat = phc.ErrFormat
	// ErrAborted reports a derivation stopped by its context.
	ErrAborted = core.ErrAborted

	ErrOutputTooShort   = limits.ErrOutputTooShort
	ErrSaltTooShort     = limits.ErrSaltTooShort
	ErrTimeTooSmall     = limits.ErrTimeTooSmall
	ErrMemoryTooLittle  = limits.ErrMemoryTooLittle
	ErrLanesTooFew      = limits.ErrLanesTooFew
	ErrLanesTooMany     = limits.ErrLanesTooMany
	ErrThreadsTooMany   = limits.ErrThreadsTooMany
	ErrIncorrectType    = limits.ErrIncorrectType
	ErrIncorrectVersion = limits.ErrIncorrectVersion
)
