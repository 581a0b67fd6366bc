package core

import (
	"fmt"

	"github.com/opd-ai/argon2/limits"
)

// Variant selects how reference blocks are addressed.
type Variant uint32

const (
	// VariantD uses data-dependent addressing: the reference block is chosen
	// from the contents of the previous block.
	VariantD Variant = 0
	// VariantI uses data-independent addressing derived only from position
	// counters.
	VariantI Variant = 1
	// VariantID addresses data-independently for the first half of the first
	// pass and data-dependently afterwards.
	VariantID Variant = 2
)

// String returns the tag used in encoded hashes: "d", "i" or "id".
func (v Variant) String() string {
	switch v {
	case VariantD:
		return "d"
	case VariantI:
		return "i"
	case VariantID:
		return "id"
	default:
		return fmt.Sprintf("Variant(%d)", uint32(v))
	}
}

// Name returns the display name, e.g. "Argon2id".
func (v Variant) Name() string {
	return "Argon2" + v.String()
}

// Valid reports whether v is one of the three defined variants.
func (v Variant) Valid() bool {
	return v == VariantD || v == VariantI || v == VariantID
}

// ParseVariant maps "d", "i" or "id" to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "d":
		return VariantD, nil
	case "i":
		return VariantI, nil
	case "id":
		return VariantID, nil
	}
	return 0, fmt.Errorf("%w: %q", limits.ErrIncorrectType, s)
}

// dataIndependent reports whether the segment at (pass, slice) draws its
// pseudo-random words from address blocks rather than from memory.
func (v Variant) dataIndependent(pass, slice uint32) bool {
	switch v {
	case VariantI:
		return true
	case VariantID:
		return pass == 0 && slice < limits.SyncPoints/2
	default:
		return false
	}
}

// Version selects the block accumulation rule.
type Version uint32

const (
	// Version10 is the legacy 1.0 format: every pass overwrites its cells.
	Version10 Version = 0x10
	// Version13 is the current 1.3 format: passes after the first XOR into
	// the cell they refine.
	Version13 Version = 0x13
)

// DefaultVersion is the version used when none is specified.
const DefaultVersion = Version13

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	return v == Version10 || v == Version13
}

// accumulates reports whether blocks written during pass are XORed into the
// existing cell contents.
func (v Version) accumulates(pass uint32) bool {
	return v != Version10 && pass != 0
}
