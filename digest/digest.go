// Package digest adapts BLAKE2b to the two capabilities the Argon2 engine
// consumes: a fixed 64-byte hash of a message and the variable-length
// stretching function H' used to seed and finalize the memory matrix.
package digest

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// Size is the native BLAKE2b-512 digest length used for H0.
	Size = blake2b.Size
	// halfSize is the number of bytes kept from each chained digest by Long.
	halfSize = blake2b.Size / 2
)

// Sum512 hashes the concatenation of parts with BLAKE2b-512.
func Sum512(parts ...[]byte) [Size]byte {
	h, _ := blake2b.New512(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Long fills out with H'(len(out)) of the concatenation of parts.
//
//   - len(out) <= 64: BLAKE2b-len(out)(LE32(len(out)) || in)
//   - otherwise V1 = BLAKE2b-512(LE32(len(out)) || in), emit V1[:32], then
//     Vi = BLAKE2b-512(Vi-1) emitting 32 bytes each, and a final digest of
//     exactly the remaining length.
func Long(out []byte, parts ...[]byte) error {
	if len(out) == 0 {
		return fmt.Errorf("digest: empty output requested")
	}
	if uint64(len(out)) > 0xFFFFFFFF {
		return fmt.Errorf("digest: output length %d exceeds 32-bit prefix", len(out))
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(out)))

	if len(out) <= Size {
		h, err := blake2b.New(len(out), nil)
		if err != nil {
			return fmt.Errorf("digest: %w", err)
		}
		h.Write(prefix[:])
		for _, p := range parts {
			h.Write(p)
		}
		h.Sum(out[:0])
		return nil
	}

	h, _ := blake2b.New512(nil)
	h.Write(prefix[:])
	for _, p := range parts {
		h.Write(p)
	}
	var v [Size]byte
	h.Sum(v[:0])
	copied := copy(out, v[:halfSize])

	for len(out)-copied > Size {
		v = blake2b.Sum512(v[:])
		copied += copy(out[copied:], v[:halfSize])
	}

	last, err := blake2b.New(len(out)-copied, nil)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	last.Write(v[:])
	last.Sum(out[copied:copied])

	clear(v[:])
	return nil
}
