package core

import (
	"context"
	"fmt"
	"runtime"

	"github.com/opd-ai/argon2/limits"
	"golang.org/x/sync/errgroup"
)

// workerCount returns how many lanes are filled concurrently: the requested
// count (Threads, or one per lane when zero) capped by the lane count and the
// number of CPUs, and never below one.
func workerCount(c *Context, override int) int {
	n := int(c.Lanes)
	if c.Threads != 0 {
		n = int(c.Threads)
	}
	if override > 0 {
		n = override
	} else {
		n = min(n, runtime.NumCPU())
	}
	n = min(n, int(c.Lanes))
	return max(n, 1)
}

// fillMemory runs every pass slice by slice. Within a slice the lanes are
// filled by up to workers goroutines; the slice completes only when every
// lane has, which is the synchronization point the next slice relies on.
// Cancellation of ctx is observed between slices.
func (in *instance) fillMemory(ctx context.Context, workers int, tracer Tracer) error {
	for pass := uint32(0); pass < in.passes; pass++ {
		for slice := uint32(0); slice < limits.SyncPoints; slice++ {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w at pass %d slice %d: %v", ErrAborted, pass, slice, err)
			}
			if err := in.fillSlice(pass, slice, workers); err != nil {
				return err
			}
		}
		tracer.PassCompleted(pass, in.memory)
	}
	return nil
}

// fillSlice fills segment (pass, lane, slice) for every lane and returns once
// all of them are written.
func (in *instance) fillSlice(pass, slice uint32, workers int) error {
	if workers == 1 {
		for lane := uint32(0); lane < in.lanes; lane++ {
			in.fillSegment(pass, lane, slice)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lane := uint32(0); lane < in.lanes; lane++ {
		lane := lane
		g.Go(func() error {
			in.fillSegment(pass, lane, slice)
			return nil
		})
	}
	return g.Wait()
}
