package core

import (
	"context"
	"errors"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/secmem"
	"github.com/sirupsen/logrus"
)

// Tracer observes the intermediate values of a derivation. Implementations
// must not retain the memory slice passed to PassCompleted; it is wiped when
// the derivation ends.
type Tracer interface {
	// Initialized is called with the Context (after any password or secret
	// clearing) and the pre-hashing digest H0.
	Initialized(c *Context, h0 []byte)
	// PassCompleted is called after every pass with the whole matrix.
	PassCompleted(pass uint32, memory []block.Block)
	// Finalized is called with the derived tag.
	Finalized(tag []byte)
}

// NopTracer ignores every event.
type NopTracer struct{}

func (NopTracer) Initialized(*Context, []byte) {}

func (NopTracer) PassCompleted(uint32, []block.Block) {}

func (NopTracer) Finalized([]byte) {}

type deriveOptions struct {
	tracer  Tracer
	workers int
}

// Option configures a single call to Derive.
type Option func(*deriveOptions)

// WithTracer reports intermediate values to t.
func WithTracer(t Tracer) Option {
	return func(o *deriveOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithWorkers fixes the number of goroutines filling lanes, ignoring
// Context.Threads and the CPU count. It is still capped by the lane count.
func WithWorkers(n int) Option {
	return func(o *deriveOptions) {
		o.workers = n
	}
}

// Derive validates c, fills the memory matrix and returns the derived key of
// c.KeyLength bytes. Parameter errors wrap limits.ErrInvalidParameter and are
// reported before any memory is allocated. The matrix and every
// intermediate digest are wiped on all return paths.
//
// If ctx is cancelled the derivation stops at the next slice boundary and
// returns an error wrapping ErrAborted.
func Derive(ctx context.Context, c *Context, opts ...Option) (key []byte, err error) {
	o := deriveOptions{tracer: NopTracer{}}
	for _, opt := range opts {
		opt(&o)
	}

	logger := NewLogger("Derive").WithState(StateUnconfigured)
	if c == nil {
		return nil, limits.ErrInvalidParameter
	}
	logger.WithContext(c).Entry("deriving key")
	defer logger.Exit()

	if err := c.Validate(); err != nil {
		logger.WithError(err, "validate").WithState(StateFailed).Debug("Rejected derivation parameters")
		return nil, err
	}
	defer clearInputs(c)

	in, err := newInstance(c)
	if err != nil {
		logger.WithError(err, "allocate").WithState(StateFailed).Warn("Failed to allocate memory matrix")
		return nil, err
	}
	defer in.free()

	h0 := initialHash(c)
	defer secmem.ZeroBytes(h0[:])
	clearInputs(c)

	if err := in.fillFirstBlocks(&h0); err != nil {
		logger.WithError(err, "seed").WithState(StateFailed).Warn("Failed to seed memory matrix")
		return nil, err
	}
	o.tracer.Initialized(c, h0[:])

	workers := workerCount(c, o.workers)
	logger.WithState(StateFilling).WithFields(logrus.Fields{
		"memory_blocks":  in.memoryBlocks,
		"segment_length": in.segmentLength,
		"workers":        workers,
	}).Debug("Filling memory matrix")

	if err := in.fillMemory(ctx, workers, o.tracer); err != nil {
		entry := logger.WithError(err, "fill").WithState(StateFailed)
		if errors.Is(err, ErrAborted) {
			entry.Debug("Derivation aborted by caller")
		} else {
			entry.Warn("Failed to fill memory matrix")
		}
		return nil, err
	}

	key, err = in.finalize(c.KeyLength)
	if err != nil {
		logger.WithError(err, "finalize").WithState(StateFailed).Warn("Failed to finalize tag")
		return nil, err
	}
	o.tracer.Finalized(key)

	logger.WithState(StateFinalized).
		WithFields(OperationFields("derive", "success", logrus.Fields{"tag_size": len(key)})).
		Debug("Derivation complete")
	return key, nil
}

// clearInputs wipes the password and secret when c asks for it. The slices
// are truncated so a cleared buffer is never hashed again.
func clearInputs(c *Context) {
	if c.ClearPassword && c.Password != nil {
		secmem.ZeroBytes(c.Password)
		c.Password = c.Password[:0]
	}
	if c.ClearSecret && c.Secret != nil {
		secmem.ZeroBytes(c.Secret)
		c.Secret = c.Secret[:0]
	}
}
