// Package limits provides centralized parameter bounds and validation functions
// for Argon2 derivations. This package ensures the engine, the encoded-hash
// decoder and the command-line tool agree on what a valid parameter set is.
//
// # Parameter Bounds
//
//   - Lanes (p): 1 to 2^24-1.
//   - Threads: 1 to 2^24-1; the engine never uses more workers than lanes.
//   - Memory (m, KiB): at least MinMemoryPerLane (8) blocks per lane, at most
//     2^32-1. The effective block count is m rounded down to a multiple of
//     4*p.
//   - Time (t): 1 to 2^32-1 passes.
//   - Output: 4 to 2^32-1 bytes.
//   - Salt: at least 8 bytes.
//   - Password, secret and associated data: up to 2^32-1 bytes, so every
//     length fits the 4-byte little-endian prefix used when pre-hashing.
//
// # Error Types
//
// Every violation wraps ErrInvalidParameter, so callers can test the kind with
// errors.Is and still see which bound was crossed:
//
//	if err := limits.ValidateSalt(salt); err != nil {
//	    if errors.Is(err, limits.ErrInvalidParameter) {
//	        // reject the request, nothing was allocated
//	    }
//	}
//
// # Checked Conversions
//
// Uint32Len and BlockBytes guard the int/uint32 conversions the engine
// performs on buffer lengths and matrix sizes (CWE-190).
package limits
