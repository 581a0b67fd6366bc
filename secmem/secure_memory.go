// Package secmem provides wiping helpers for buffers holding secret material:
// passwords, secret keys, pre-hash digests and the Argon2 memory matrix.
package secmem

import (
	"errors"
	"runtime"
)

// SecureWipe attempts to securely erase the contents of a byte slice
// containing sensitive data. It returns an error if the byte slice is nil.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	// Overwrite the data with zeros in place
	clear(data)

	// Attempt to prevent the compiler from optimizing out the zeroing
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes erases the contents of a byte slice containing sensitive data.
// This is a convenience function that ignores the error from SecureWipe.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// ZeroWords erases a slice of 64-bit words, such as the backing words of
// memory blocks.
func ZeroWords(words []uint64) {
	clear(words)
	runtime.KeepAlive(words)
}
