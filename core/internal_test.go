package core

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/opd-ai/argon2/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance(lanes, segment uint32) *instance {
	return &instance{
		segmentLength: segment,
		laneLength:    segment * 4,
		lanes:         lanes,
		memoryBlocks:  segment * 4 * lanes,
	}
}

// TestIndexAlphaBounds verifies the reference column always lies inside the
// area allowed for the position, for extreme pseudo-random values.
func TestIndexAlphaBounds(t *testing.T) {
	in := testInstance(2, 8)

	for pass := uint32(0); pass < 2; pass++ {
		for slice := uint32(0); slice < 4; slice++ {
			for index := uint32(0); index < in.segmentLength; index++ {
				if pass == 0 && slice == 0 && index < 2 {
					continue
				}
				for _, sameLane := range []bool{true, false} {
					if pass == 0 && slice == 0 && !sameLane {
						continue
					}
					for _, r := range []uint32{0, 1, 0x7FFFFFFF, 0xFFFFFFFF} {
						col := in.indexAlpha(pass, slice, index, r, sameLane)
						current := slice*in.segmentLength + index
						require.Less(t, col, in.laneLength)
						if sameLane {
							assert.NotEqual(t, current, col, "pass=%d slice=%d index=%d", pass, slice, index)
						} else {
							segStart := slice * in.segmentLength
							inSegment := col >= segStart && col < segStart+in.segmentLength
							assert.False(t, inSegment, "pass=%d slice=%d index=%d col=%d", pass, slice, index, col)
						}
						if pass == 0 {
							if sameLane {
								assert.Less(t, col, current)
							} else {
								assert.Less(t, col, slice*in.segmentLength)
							}
						}
					}
				}
			}
		}
	}
}

// TestIndexAlphaMapping checks hand-computed positions.
func TestIndexAlphaMapping(t *testing.T) {
	in := testInstance(1, 8)

	// First pass, first slice: the only candidate for index 2 is column 0.
	assert.Equal(t, uint32(0), in.indexAlpha(0, 0, 2, 0xFFFFFFFF, true))
	assert.Equal(t, uint32(0), in.indexAlpha(0, 0, 2, 0, true))

	// A zero pseudo-random word selects the newest block of the area.
	assert.Equal(t, uint32(8+3-2), in.indexAlpha(0, 1, 3, 0, true))

	// Later passes start after the current segment and wrap around.
	assert.Equal(t, uint32((16+32-8+5-2)%32), in.indexAlpha(1, 1, 5, 0, true))
	assert.Equal(t, uint32(32-8+5-2), in.indexAlpha(1, 3, 5, 0, true))

	// The largest pseudo-random word selects the oldest block of the area.
	assert.Equal(t, uint32(16), in.indexAlpha(1, 1, 5, 0xFFFFFFFF, true))
}

// TestWorkerCount covers the worker cap rules.
func TestWorkerCount(t *testing.T) {
	cpus := runtime.NumCPU()

	assert.Equal(t, 1, workerCount(&Context{Lanes: 1}, 0))
	assert.Equal(t, min(4, cpus), workerCount(&Context{Lanes: 4}, 0))
	assert.Equal(t, 1, workerCount(&Context{Lanes: 4, Threads: 1}, 0))
	assert.Equal(t, min(4, cpus), workerCount(&Context{Lanes: 4, Threads: 100}, 0))
	assert.Equal(t, 3, workerCount(&Context{Lanes: 4}, 3))
	assert.Equal(t, 4, workerCount(&Context{Lanes: 4}, 16))
	assert.Equal(t, min(4, cpus), workerCount(&Context{Lanes: 4}, -2))
}

// TestInitialHashLayout rebuilds H0 from its documented serialization.
func TestInitialHashLayout(t *testing.T) {
	c := &Context{
		Password:       []byte("pw"),
		Salt:           []byte("saltsalt"),
		Secret:         []byte("k"),
		AssociatedData: []byte("ad!"),
		KeyLength:      16,
		Memory:         100,
		Time:           5,
		Lanes:          3,
		Variant:        VariantD,
		Version:        Version10,
	}

	var buf []byte
	for _, v := range []uint32{3, 16, 100, 5, 0x10, 0} {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	for _, field := range []string{"pw", "saltsalt", "k", "ad!"} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(field)))
		buf = append(buf, field...)
	}

	assert.Equal(t, digest.Sum512(buf), initialHash(c))
}

// TestMemoryBlocks covers the rounding of the memory cost.
func TestMemoryBlocks(t *testing.T) {
	tests := []struct {
		memory, lanes, want uint32
	}{
		{8, 1, 8},
		{9, 1, 8},
		{37, 2, 32},
		{100, 3, 96},
		{65536, 4, 65536},
	}
	for _, tt := range tests {
		c := &Context{Memory: tt.memory, Lanes: tt.lanes}
		assert.Equal(t, tt.want, c.MemoryBlocks(), "m=%d p=%d", tt.memory, tt.lanes)
	}
}

// TestAllocMatrix verifies the matrix is zeroed and released cleanly.
func TestAllocMatrix(t *testing.T) {
	memory, release, err := allocMatrix(16)
	require.NoError(t, err)
	require.Len(t, memory, 16)
	for i := range memory {
		for _, w := range memory[i] {
			require.Zero(t, w)
		}
	}
	memory[15][127] = 42
	release()
}

// TestVariantAndVersion covers the string forms and parsing.
func TestVariantAndVersion(t *testing.T) {
	for _, v := range []Variant{VariantD, VariantI, VariantID} {
		parsed, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
		assert.True(t, v.Valid())
	}
	assert.Equal(t, "Argon2id", VariantID.Name())
	assert.Equal(t, "Variant(9)", Variant(9).String())

	_, err := ParseVariant("x")
	assert.Error(t, err)

	assert.True(t, VariantID.dataIndependent(0, 1))
	assert.False(t, VariantID.dataIndependent(0, 2))
	assert.False(t, VariantID.dataIndependent(1, 0))
	assert.True(t, VariantI.dataIndependent(5, 3))
	assert.False(t, VariantD.dataIndependent(0, 0))

	assert.False(t, Version13.accumulates(0))
	assert.True(t, Version13.accumulates(1))
	assert.False(t, Version10.accumulates(1))
	assert.False(t, Version(0x11).Valid())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "filling", StateFilling.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(42)", State(42).String())
}
