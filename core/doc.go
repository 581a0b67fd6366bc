// Package core implements the Argon2 memory-hard function: parameter
// validation, the initial digest H0, the lane seeds, segment filling with
// data-dependent (Argon2d), data-independent (Argon2i) and hybrid (Argon2id)
// addressing, the parallel lane scheduler and the finalizer.
//
// A derivation is a single call to Derive:
//
//	c := &core.Context{
//	    Password:  []byte("password"),
//	    Salt:      []byte("somesalt"),
//	    KeyLength: 32,
//	    Memory:    64 * 1024,
//	    Time:      3,
//	    Lanes:     4,
//	    Variant:   core.VariantID,
//	    Version:   core.Version13,
//	}
//	key, err := core.Derive(ctx, c)
//
// The matrix is allocated per call, filled pass by pass and slice by slice,
// with the lanes of a slice distributed over a bounded set of goroutines.
// Output never depends on the number of goroutines.
package core
