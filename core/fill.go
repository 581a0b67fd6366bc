package core

import (
	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/limits"
)

// fillSegment computes the blocks of one (pass, lane, slice) segment. Lanes
// of the same slice touch disjoint columns and may run concurrently.
func (in *instance) fillSegment(pass, lane, slice uint32) {
	var address, input, zero block.Block

	independent := in.variant.dataIndependent(pass, slice)
	if independent {
		input[0] = uint64(pass)
		input[1] = uint64(lane)
		input[2] = uint64(slice)
		input[3] = uint64(in.memoryBlocks)
		input[4] = uint64(in.passes)
		input[5] = uint64(in.variant)
	}

	start := uint32(0)
	if pass == 0 && slice == 0 {
		// The first two columns are the seed blocks.
		start = 2
		if independent {
			nextAddresses(&address, &input, &zero)
		}
	}

	curr := lane*in.laneLength + slice*in.segmentLength + start
	prev := curr - 1
	if curr%in.laneLength == 0 {
		prev = curr + in.laneLength - 1
	}

	withXOR := in.version.accumulates(pass)
	for i := start; i < in.segmentLength; i, curr, prev = i+1, curr+1, prev+1 {
		if curr%in.laneLength == 1 {
			prev = curr - 1
		}

		var pseudoRand uint64
		if independent {
			if i%block.AddressesInBlock == 0 {
				nextAddresses(&address, &input, &zero)
			}
			pseudoRand = address[i%block.AddressesInBlock]
		} else {
			pseudoRand = in.memory[prev][0]
		}

		refLane := uint32((pseudoRand >> 32) % uint64(in.lanes))
		if pass == 0 && slice == 0 {
			refLane = lane
		}
		refIndex := in.indexAlpha(pass, slice, i, uint32(pseudoRand), refLane == lane)

		block.Fill(&in.memory[prev], in.at(refLane, refIndex), &in.memory[curr], withXOR)
	}
}

// nextAddresses bumps the counter in input and derives a fresh address block
// G(0, G(0, input)).
func nextAddresses(address, input, zero *block.Block) {
	input[6]++
	block.Fill(zero, input, address, false)
	block.Fill(zero, address, address, false)
}

// indexAlpha maps the low 32 bits of a pseudo-random word to a column of the
// reference lane. The reference area holds every finished block the current
// one may depend on: never itself, and for another lane never a block of the
// segment being filled.
func (in *instance) indexAlpha(pass, slice, index, pseudoRand uint32, sameLane bool) uint32 {
	var area uint32
	switch {
	case pass == 0 && slice == 0:
		area = index - 1
	case pass == 0 && sameLane:
		area = slice*in.segmentLength + index - 1
	case pass == 0:
		area = slice * in.segmentLength
		if index == 0 {
			area--
		}
	case sameLane:
		area = in.laneLength - in.segmentLength + index - 1
	default:
		area = in.laneLength - in.segmentLength
		if index == 0 {
			area--
		}
	}

	rel := uint64(pseudoRand)
	rel = rel * rel >> 32
	rel = uint64(area) - 1 - (uint64(area) * rel >> 32)

	var startPos uint32
	if pass != 0 && slice != limits.SyncPoints-1 {
		startPos = (slice + 1) * in.segmentLength
	}
	return uint32((uint64(startPos) + rel) % uint64(in.laneLength))
}
