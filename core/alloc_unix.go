//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package core

import (
	"fmt"
	"unsafe"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/secmem"
	"golang.org/x/sys/unix"
)

// allocMatrix maps n zeroed blocks of anonymous private memory. The returned
// release function wipes and unmaps them; it must be called exactly once.
func allocMatrix(n uint32) ([]block.Block, func(), error) {
	size, err := limits.BlockBytes(n)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mmap %d KiB: %v", ErrAllocation, n, err)
	}

	memory := unsafe.Slice((*block.Block)(unsafe.Pointer(unsafe.SliceData(buf))), int(n))
	release := func() {
		secmem.ZeroBytes(buf)
		if err := unix.Munmap(buf); err != nil {
			NewLogger("allocMatrix").
				WithError(err, "munmap").
				WithField("blocks", n).
				Warn("Failed to unmap memory matrix")
		}
	}
	return memory, release, nil
}
