package limits

import (
	"fmt"
	"math"
)

// Uint32Len safely converts a buffer length to the uint32 carried by the
// length-prefixed serialization, checking for overflow.
//
// CWE-190: Integer Overflow or Wraparound
// gosec G115: Integer overflow check
func Uint32Len(n int) (uint32, error) {
	if n < 0 {
		return 0, fmt.Errorf("cannot convert negative length to uint32: %d", n)
	}
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("length exceeds uint32 max: %d (max: %d)", n, uint64(math.MaxUint32))
	}
	return uint32(n), nil
}

// BlockBytes returns the size in bytes of the given number of 1 KiB blocks,
// checking that it fits the platform int.
//
// CWE-190: Integer Overflow or Wraparound
func BlockBytes(blocks uint32) (int, error) {
	size := uint64(blocks) * 1024
	if size > math.MaxInt {
		return 0, fmt.Errorf("%d blocks exceed addressable memory", blocks)
	}
	return int(size), nil
}
