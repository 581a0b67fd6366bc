//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package core

import (
	"fmt"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/secmem"
)

// allocMatrix allocates n zeroed blocks on the Go heap. A failed allocation
// is reported as ErrAllocation instead of crashing the process.
func allocMatrix(n uint32) (memory []block.Block, release func(), err error) {
	if _, err := limits.BlockBytes(n); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	defer func() {
		if r := recover(); r != nil {
			memory, release = nil, nil
			err = fmt.Errorf("%w: %d KiB: %v", ErrAllocation, n, r)
		}
	}()

	memory = make([]block.Block, n)
	release = func() {
		for i := range memory {
			secmem.ZeroWords(memory[i][:])
		}
	}
	return memory, release, nil
}
