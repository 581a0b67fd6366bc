package core

import "fmt"

// State is the lifecycle stage of one derivation.
type State int

const (
	// StateUnconfigured is a Context that has not been validated yet.
	StateUnconfigured State = iota
	// StateInitialized means H0 is computed and the seed blocks are written.
	StateInitialized
	// StateFilling means passes over the matrix are in progress.
	StateFilling
	// StateFinalized means the tag has been produced and the matrix released.
	StateFinalized
	// StateEncoded means the tag has been rendered as an encoded hash.
	StateEncoded
	// StateFailed is terminal and reachable from every other state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateInitialized:
		return "initialized"
	case StateFilling:
		return "filling"
	case StateFinalized:
		return "finalized"
	case StateEncoded:
		return "encoded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
