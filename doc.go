// Package argon2 implements the Argon2 memory-hard password hashing and key
// derivation function in its three variants (Argon2d, Argon2i, Argon2id) and
// both versions (0x10 and 0x13), together with the standard encoded-hash
// string format.
//
// # Getting Started
//
// Derive a raw key from a fully specified Context:
//
//	c := &argon2.Context{
//	    Password:  []byte("password"),
//	    Salt:      []byte("somesalt"),
//	    KeyLength: 32,
//	    Memory:    64 * 1024, // KiB
//	    Time:      3,
//	    Lanes:     4,
//	    Variant:   argon2.Argon2id,
//	    Version:   argon2.Version13,
//	}
//	key, err := argon2.HashRaw(c)
//
// Or store and check passwords with a Hasher, which draws a random salt per
// password and produces encoded hashes:
//
//	h, err := argon2.NewHasher(argon2.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	encoded, err := h.Hash(ctx, []byte("correct horse battery staple"))
//	ok, err := h.Verify(ctx, encoded, []byte("correct horse battery staple"))
//
// # Encoded Hashes
//
// Encoded hashes have the form
//
//	$argon2id$v=19$m=65536,t=3,p=4$<base64 salt>$<base64 key>
//
// and carry everything Verify needs except the password and the optional
// secret. See package phc for the exact grammar.
//
// # Errors
//
// Parameter violations wrap ErrInvalidParameter and are detected before any
// memory is allocated. ErrAllocation reports that the memory matrix could not
// be obtained, ErrFormat a malformed encoded hash and ErrAborted a cancelled
// derivation. A password that does not match is not an error: Verify returns
// false and a nil error.
//
// # Concurrency
//
// Every call allocates its own memory matrix and worker goroutines; all
// functions and Hasher methods are safe for concurrent use. Lanes are filled
// in parallel, bounded by Context.Threads and the number of CPUs, and the
// result never depends on the degree of concurrency.
package argon2
