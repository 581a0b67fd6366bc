package core

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/digest"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/secmem"
)

// instance is the memory matrix of one derivation together with the
// geometry derived from its Context.
type instance struct {
	memory  []block.Block
	release func()

	passes        uint32
	memoryBlocks  uint32
	segmentLength uint32
	laneLength    uint32
	lanes         uint32
	variant       Variant
	version       Version
}

// newInstance allocates the matrix for a validated Context.
func newInstance(c *Context) (*instance, error) {
	blocks := c.MemoryBlocks()
	memory, release, err := allocMatrix(blocks)
	if err != nil {
		return nil, err
	}
	segment := blocks / (c.Lanes * limits.SyncPoints)
	return &instance{
		memory:        memory,
		release:       release,
		passes:        c.Time,
		memoryBlocks:  blocks,
		segmentLength: segment,
		laneLength:    segment * limits.SyncPoints,
		lanes:         c.Lanes,
		variant:       c.Variant,
		version:       c.Version,
	}, nil
}

// free wipes and releases the matrix. Safe to call more than once.
func (in *instance) free() {
	if in.release != nil {
		in.release()
		in.release = nil
	}
	in.memory = nil
}

// at returns the block at column col of lane.
func (in *instance) at(lane, col uint32) *block.Block {
	return &in.memory[lane*in.laneLength+col]
}

// initialHash computes H0 over the parameters and the length-prefixed
// password, salt, secret and associated data.
func initialHash(c *Context) [digest.Size]byte {
	var header [24]byte
	binary.LittleEndian.PutUint32(header[0:], c.Lanes)
	binary.LittleEndian.PutUint32(header[4:], c.KeyLength)
	binary.LittleEndian.PutUint32(header[8:], c.Memory)
	binary.LittleEndian.PutUint32(header[12:], c.Time)
	binary.LittleEndian.PutUint32(header[16:], uint32(c.Version))
	binary.LittleEndian.PutUint32(header[20:], uint32(c.Variant))

	parts := [][]byte{header[:]}
	for _, field := range [][]byte{c.Password, c.Salt, c.Secret, c.AssociatedData} {
		parts = append(parts, lengthPrefix(field), field)
	}
	return digest.Sum512(parts...)
}

// lengthPrefix returns LE32(len(b)). Lengths are bounded by Validate.
func lengthPrefix(b []byte) []byte {
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], uint32(len(b)))
	return p[:]
}

// fillFirstBlocks writes B[l][0] and B[l][1] = H'(1024)(H0 || LE32(col) || LE32(l))
// for every lane.
func (in *instance) fillFirstBlocks(h0 *[digest.Size]byte) error {
	var buf [block.Size]byte
	defer secmem.ZeroBytes(buf[:])

	var col, lane [4]byte
	for l := uint32(0); l < in.lanes; l++ {
		binary.LittleEndian.PutUint32(lane[:], l)
		for c := uint32(0); c < 2; c++ {
			binary.LittleEndian.PutUint32(col[:], c)
			if err := digest.Long(buf[:], h0[:], col[:], lane[:]); err != nil {
				return fmt.Errorf("seed block %d of lane %d: %w", c, l, err)
			}
			if err := in.at(l, c).Load(buf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalize XORs the last block of every lane and stretches the result to
// keyLength bytes with H'.
func (in *instance) finalize(keyLength uint32) ([]byte, error) {
	final := *in.at(0, in.laneLength-1)
	for l := uint32(1); l < in.lanes; l++ {
		final.XOR(in.at(l, in.laneLength-1))
	}

	var buf [block.Size]byte
	defer func() {
		secmem.ZeroWords(final[:])
		secmem.ZeroBytes(buf[:])
	}()
	if err := final.Store(buf[:]); err != nil {
		return nil, err
	}

	tag := make([]byte, keyLength)
	if err := digest.Long(tag, buf[:]); err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}
	return tag, nil
}
