// Package block defines the 1024-byte Argon2 memory block and the compression
// function G that mixes two blocks into a third.
package block

import (
	"encoding/binary"
	"fmt"
)

const (
	// Size is the length of a block in bytes.
	Size = 1024
	// Words is the number of 64-bit words in a block.
	Words = Size / 8
	// AddressesInBlock is the number of pseudo-random words one address block
	// provides to data-independent addressing.
	AddressesInBlock = Words
)

// Block is a 1024-byte memory cell viewed as 128 little-endian 64-bit words.
type Block [Words]uint64

// XOR sets b = b ^ o word by word.
func (b *Block) XOR(o *Block) {
	for i := range b {
		b[i] ^= o[i]
	}
}

// Zero clears every word of the block.
func (b *Block) Zero() {
	clear(b[:])
}

// Load reads the block from exactly Size little-endian bytes.
func (b *Block) Load(src []byte) error {
	if len(src) != Size {
		return fmt.Errorf("block: load needs %d bytes, got %d", Size, len(src))
	}
	for i := range b {
		b[i] = binary.LittleEndian.Uint64(src[i*8:])
	}
	return nil
}

// Store writes the block into exactly Size little-endian bytes.
func (b *Block) Store(dst []byte) error {
	if len(dst) != Size {
		return fmt.Errorf("block: store needs %d bytes, got %d", Size, len(dst))
	}
	for i, w := range b {
		binary.LittleEndian.PutUint64(dst[i*8:], w)
	}
	return nil
}
