package core

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/limits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xargon2 "golang.org/x/crypto/argon2"
)

// paddedSalt returns s followed by zero bytes up to 16 bytes.
func paddedSalt(s string) []byte {
	salt := make([]byte, 16)
	copy(salt, s)
	return salt
}

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestDeriveArgon2iVectors checks the Argon2i vectors of the reference test
// suite for both versions.
func TestDeriveArgon2iVectors(t *testing.T) {
	tests := []struct {
		name     string
		version  Version
		time     uint32
		logM     uint
		lanes    uint32
		password string
		salt     string
		want     string
		slow     bool
	}{
		{"v10 t2 m16", Version10, 2, 16, 1, "password", "somesalt", "894af4ff2e2d26f3ce15f77a7e1c25db45b4e20439e9961772ba199caddb001e", false},
		{"v10 t2 m20", Version10, 2, 20, 1, "password", "somesalt", "58d4d929aeeafa40cc049f032035784fb085e8e0d0c5a51ea067341a93d6d286", true},
		{"v10 t2 m18", Version10, 2, 18, 1, "password", "somesalt", "55292398cce8fc78685e610d004ca9bda5c325a0a2e6285a0de5f816df139aa6", true},
		{"v10 t2 m8", Version10, 2, 8, 1, "password", "somesalt", "e346b1e1aa7ca58c9bb862e223ba5604064398d4394e49e90972c6b54cef43ed", false},
		{"v10 t2 m8 p2", Version10, 2, 8, 2, "password", "somesalt", "524179ce5cc9608228bddd4c2b78e394efa3fb0068703390abbd8afb1fa86368", false},
		{"v10 t1 m16", Version10, 1, 16, 1, "password", "somesalt", "b49199e4ecb0f6659e6947f945e391c940b17106e1d0b0a9888006c7f87a789b", false},
		{"v10 t4 m16", Version10, 4, 16, 1, "password", "somesalt", "72207b3312d79995fbe7b30664837ae1246f9a98e07eac34835ca3498e705f85", false},
		{"v10 different password", Version10, 2, 16, 1, "differentpassword", "somesalt", "8e286f605ed7383987a4aac25a28a04808593b6e17613bc31457146c4f3f4361", false},
		{"v10 different salt", Version10, 2, 16, 1, "password", "diffsalt", "8f65b47d902fb2aee5e0b2bdc9041b249fc11f06f35551e0bee52716b41e8311", false},
		{"v13 t2 m16", Version13, 2, 16, 1, "password", "somesalt", "1c7eeef9e0e969b3024722fc864a1ca9f6ca20da73f9bf3f1731881beae2039e", false},
		{"v13 t2 m20", Version13, 2, 20, 1, "password", "somesalt", "253068ce02908829f9c8a026dc7cf4bd4497fd781faa1665a0d0b10d699e0ebd", true},
		{"v13 t2 m18", Version13, 2, 18, 1, "password", "somesalt", "5c6dfd2712110cf88f1426059b01d87f8210d5368da0e7ee68586e9d4af4954b", true},
		{"v13 t2 m8", Version13, 2, 8, 1, "password", "somesalt", "dfebf9d4eadd6859f4cc6a9bb20043fd9da7e1e36bdacdbb05ca569f463269f8", false},
		{"v13 t2 m8 p2", Version13, 2, 8, 2, "password", "somesalt", "aea9db129d7f8c50d410a6599b0fb3d786a60ec16a3030b9ddd21ee7b6470f7f", false},
		{"v13 t1 m16", Version13, 1, 16, 1, "password", "somesalt", "fabd1ddbd86a101d326ac2abe79660202b10192925d2fd2483085df94df0c91a", false},
		{"v13 t4 m16", Version13, 4, 16, 1, "password", "somesalt", "b3b4cb3d6e2c1cb1e7bffdb966ab3ceafae701d6b7789c3f1e6c6b22d82d99d5", false},
		{"v13 different password", Version13, 2, 16, 1, "differentpassword", "somesalt", "b2db9d7c0d1288951aec4b6e1cd3835ea29a7da2ac13e6f48554a26b127146f9", false},
		{"v13 different salt", Version13, 2, 16, 1, "password", "diffsalt", "bb6686865f2c1093f70f543c9535f807d5b42d5dc6d71f14a4a7a291913e05e0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.slow && testing.Short() {
				t.Skip("large memory vector skipped in short mode")
			}
			c := &Context{
				Password:  []byte(tt.password),
				Salt:      paddedSalt(tt.salt),
				KeyLength: 32,
				Memory:    1 << tt.logM,
				Time:      tt.time,
				Lanes:     tt.lanes,
				Variant:   VariantI,
				Version:   tt.version,
			}
			key, err := Derive(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(key))
		})
	}
}

// TestDeriveRFC9106Vectors checks the test vectors of RFC 9106 section 5,
// which exercise secret, associated data and several lanes.
func TestDeriveRFC9106Vectors(t *testing.T) {
	tests := []struct {
		variant Variant
		want    string
	}{
		{VariantD, "512b391b6f1162975371d30919734294f868e3be3984f3c1a13a4db9fabe4acb"},
		{VariantI, "c814d9d1dc7f37aa13f0d77f2494bda1c8de6b016dd388d29952a4c4672b6ce8"},
		{VariantID, "0d640df58d78766c08c037a34a8b53c9d01ef0452d75b65eb52520e96b01e659"},
	}

	for _, tt := range tests {
		t.Run(tt.variant.Name(), func(t *testing.T) {
			c := &Context{
				Password:       bytes.Repeat([]byte{0x01}, 32),
				Salt:           bytes.Repeat([]byte{0x02}, 16),
				Secret:         bytes.Repeat([]byte{0x03}, 8),
				AssociatedData: bytes.Repeat([]byte{0x04}, 12),
				KeyLength:      32,
				Memory:         32,
				Time:           3,
				Lanes:          4,
				Variant:        tt.variant,
				Version:        Version13,
			}
			key, err := Derive(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, mustHex(t, tt.want), key)
		})
	}
}

// TestDeriveArgon2idVector checks the reference Argon2id example.
func TestDeriveArgon2idVector(t *testing.T) {
	c := &Context{
		Password:  []byte("password"),
		Salt:      []byte("somesalt"),
		KeyLength: 32,
		Memory:    65536,
		Time:      2,
		Lanes:     1,
		Variant:   VariantID,
		Version:   Version13,
	}
	key, err := Derive(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "09316115d5cf24ed5a15a31a3ba326e5cf32edc24702987c02b6566f61913cf7", hex.EncodeToString(key))
}

// TestDeriveMatchesXCrypto cross-checks Argon2i and Argon2id against
// golang.org/x/crypto/argon2, including memory sizes that are not a
// multiple of 4 * lanes and tags longer than one digest.
func TestDeriveMatchesXCrypto(t *testing.T) {
	tests := []struct {
		name      string
		time      uint32
		memory    uint32
		lanes     uint8
		keyLength uint32
	}{
		{"minimum", 1, 8, 1, 32},
		{"rounded memory", 2, 37, 2, 32},
		{"four lanes", 3, 256, 4, 16},
		{"long tag", 1, 64, 2, 100},
		{"short tag", 2, 64, 1, 4},
		{"more lanes than cpus", 1, 512, 16, 32},
	}

	password := []byte("correct horse battery staple")
	salt := []byte("0123456789abcdef")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []Variant{VariantI, VariantID} {
				c := &Context{
					Password:  password,
					Salt:      salt,
					KeyLength: tt.keyLength,
					Memory:    tt.memory,
					Time:      tt.time,
					Lanes:     uint32(tt.lanes),
					Variant:   v,
					Version:   Version13,
				}
				key, err := Derive(context.Background(), c)
				require.NoError(t, err)

				var want []byte
				if v == VariantI {
					want = xargon2.Key(password, salt, tt.time, tt.memory, tt.lanes, tt.keyLength)
				} else {
					want = xargon2.IDKey(password, salt, tt.time, tt.memory, tt.lanes, tt.keyLength)
				}
				assert.Equal(t, want, key, v.Name())
			}
		})
	}
}

// TestDeriveWorkerCountInvariance verifies that the output does not depend
// on how many goroutines fill the lanes.
func TestDeriveWorkerCountInvariance(t *testing.T) {
	for _, v := range []Variant{VariantD, VariantI, VariantID} {
		t.Run(v.Name(), func(t *testing.T) {
			var reference []byte
			for _, workers := range []int{1, 2, 3, 8} {
				c := &Context{
					Password:  []byte("password"),
					Salt:      []byte("somesalt"),
					KeyLength: 32,
					Memory:    256,
					Time:      2,
					Lanes:     8,
					Variant:   v,
					Version:   Version13,
				}
				key, err := Derive(context.Background(), c, WithWorkers(workers))
				require.NoError(t, err)
				if reference == nil {
					reference = key
					continue
				}
				assert.Equal(t, reference, key, "workers=%d", workers)
			}
		})
	}
}

// TestDeriveThreadsDoNotAffectOutput verifies Threads only changes scheduling.
func TestDeriveThreadsDoNotAffectOutput(t *testing.T) {
	base := func(threads uint32) *Context {
		return &Context{
			Password:  []byte("password"),
			Salt:      []byte("somesalt"),
			KeyLength: 32,
			Memory:    64,
			Time:      1,
			Lanes:     4,
			Threads:   threads,
			Variant:   VariantID,
			Version:   Version13,
		}
	}
	auto, err := Derive(context.Background(), base(0))
	require.NoError(t, err)
	single, err := Derive(context.Background(), base(1))
	require.NoError(t, err)
	many, err := Derive(context.Background(), base(64))
	require.NoError(t, err)

	assert.Equal(t, auto, single)
	assert.Equal(t, auto, many)
}

// TestDeriveParameterSensitivity verifies each input changes the output.
func TestDeriveParameterSensitivity(t *testing.T) {
	base := func() *Context {
		return &Context{
			Password:  []byte("password"),
			Salt:      []byte("somesalt"),
			KeyLength: 32,
			Memory:    64,
			Time:      2,
			Lanes:     2,
			Variant:   VariantID,
			Version:   Version13,
		}
	}
	reference, err := Derive(context.Background(), base())
	require.NoError(t, err)

	mutations := map[string]func(c *Context){
		"password":        func(c *Context) { c.Password = []byte("passwore") },
		"salt":            func(c *Context) { c.Salt = []byte("somesalu") },
		"secret":          func(c *Context) { c.Secret = []byte("pepper") },
		"associated data": func(c *Context) { c.AssociatedData = []byte("context") },
		"memory":          func(c *Context) { c.Memory = 72 },
		"memory rounding": func(c *Context) { c.Memory = 65 },
		"time":            func(c *Context) { c.Time = 3 },
		"lanes":           func(c *Context) { c.Lanes = 1 },
		"variant d":       func(c *Context) { c.Variant = VariantD },
		"variant i":       func(c *Context) { c.Variant = VariantI },
		"version":         func(c *Context) { c.Version = Version10 },
		"key length":      func(c *Context) { c.KeyLength = 33 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			key, err := Derive(context.Background(), c)
			require.NoError(t, err)
			assert.NotEqual(t, reference[:32], key[:32])
		})
	}
}

// TestDeriveMemoryBoundary verifies m = 8p is accepted and m = 8p - 1 is
// rejected before allocation.
func TestDeriveMemoryBoundary(t *testing.T) {
	for _, lanes := range []uint32{1, 2, 4} {
		c := &Context{
			Password:  []byte("password"),
			Salt:      []byte("somesalt"),
			KeyLength: 32,
			Memory:    8 * lanes,
			Time:      1,
			Lanes:     lanes,
			Variant:   VariantID,
			Version:   Version13,
		}
		key, err := Derive(context.Background(), c)
		require.NoError(t, err, "lanes=%d", lanes)
		assert.Len(t, key, 32)

		c.Memory = 8*lanes - 1
		_, err = Derive(context.Background(), c)
		assert.ErrorIs(t, err, limits.ErrMemoryTooLittle)
		assert.ErrorIs(t, err, limits.ErrInvalidParameter)
	}
}

// TestDeriveRejectsInvalidParameters covers the validation failures.
func TestDeriveRejectsInvalidParameters(t *testing.T) {
	valid := func() *Context {
		return &Context{
			Password:  []byte("password"),
			Salt:      []byte("somesalt"),
			KeyLength: 32,
			Memory:    64,
			Time:      1,
			Lanes:     1,
			Variant:   VariantI,
			Version:   Version13,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Context)
		wantErr error
	}{
		{"short salt", func(c *Context) { c.Salt = []byte{1} }, limits.ErrSaltTooShort},
		{"short output", func(c *Context) { c.KeyLength = 3 }, limits.ErrOutputTooShort},
		{"zero time", func(c *Context) { c.Time = 0 }, limits.ErrTimeTooSmall},
		{"zero lanes", func(c *Context) { c.Lanes = 0 }, limits.ErrLanesTooFew},
		{"too many lanes", func(c *Context) { c.Lanes = limits.MaxLanes + 1 }, limits.ErrLanesTooMany},
		{"too many threads", func(c *Context) { c.Threads = limits.MaxThreads + 1 }, limits.ErrThreadsTooMany},
		{"memory too little", func(c *Context) { c.Memory = 1 }, limits.ErrMemoryTooLittle},
		{"unknown variant", func(c *Context) { c.Variant = 7 }, limits.ErrIncorrectType},
		{"unknown version", func(c *Context) { c.Version = 0x11 }, limits.ErrIncorrectVersion},
		{"zero version", func(c *Context) { c.Version = 0 }, limits.ErrIncorrectVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			_, err := Derive(context.Background(), c)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, limits.ErrInvalidParameter)
			assert.Equal(t, "invalid_parameter", ErrorKind(err))
		})
	}

	_, err := Derive(context.Background(), nil)
	assert.ErrorIs(t, err, limits.ErrInvalidParameter)
}

// TestDeriveAborted verifies a cancelled context stops the derivation.
func TestDeriveAborted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Context{
		Password:      []byte("password"),
		Salt:          []byte("somesalt"),
		KeyLength:     32,
		Memory:        64,
		Time:          1,
		Lanes:         1,
		Variant:       VariantID,
		Version:       Version13,
		ClearPassword: true,
	}
	key, err := Derive(ctx, c)
	assert.Nil(t, key)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "aborted", ErrorKind(err))
	assert.Empty(t, c.Password, "password must be cleared on the abort path")
}

// TestDeriveClearsInputs verifies the clear flags wipe the caller's buffers
// without changing the derived key.
func TestDeriveClearsInputs(t *testing.T) {
	newContext := func(clear bool) (*Context, []byte, []byte) {
		password := []byte("password")
		secret := []byte("secret-key")
		return &Context{
			Password:      password,
			Salt:          []byte("somesalt"),
			Secret:        secret,
			KeyLength:     32,
			Memory:        64,
			Time:          1,
			Lanes:         1,
			Variant:       VariantID,
			Version:       Version13,
			ClearPassword: clear,
			ClearSecret:   clear,
		}, password, secret
	}

	kept, password, secret := newContext(false)
	want, err := Derive(context.Background(), kept)
	require.NoError(t, err)
	assert.Equal(t, []byte("password"), password)
	assert.Equal(t, []byte("secret-key"), secret)

	cleared, password, secret := newContext(true)
	got, err := Derive(context.Background(), cleared)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, make([]byte, 8), password)
	assert.Equal(t, make([]byte, 10), secret)
	assert.Empty(t, cleared.Password)
	assert.Empty(t, cleared.Secret)
}

type recordingTracer struct {
	h0     []byte
	passes []uint32
	first  block.Block
	tag    []byte
}

func (r *recordingTracer) Initialized(_ *Context, h0 []byte) {
	r.h0 = append([]byte(nil), h0...)
}

func (r *recordingTracer) PassCompleted(pass uint32, memory []block.Block) {
	r.passes = append(r.passes, pass)
	r.first = memory[0]
}

func (r *recordingTracer) Finalized(tag []byte) {
	r.tag = append([]byte(nil), tag...)
}

// TestDeriveTracer verifies the tracer sees H0, every pass and the tag.
func TestDeriveTracer(t *testing.T) {
	c := &Context{
		Password:  []byte("password"),
		Salt:      []byte("somesalt"),
		KeyLength: 32,
		Memory:    32,
		Time:      3,
		Lanes:     2,
		Variant:   VariantD,
		Version:   Version13,
	}
	want := initialHash(c)

	tracer := &recordingTracer{}
	key, err := Derive(context.Background(), c, WithTracer(tracer))
	require.NoError(t, err)

	assert.Equal(t, want[:], tracer.h0)
	assert.Equal(t, []uint32{0, 1, 2}, tracer.passes)
	assert.NotEqual(t, block.Block{}, tracer.first)
	assert.Equal(t, key, tracer.tag)
}

func BenchmarkDerive(b *testing.B) {
	for _, v := range []Variant{VariantD, VariantI, VariantID} {
		b.Run(v.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(4096 * block.Size)
			for i := 0; i < b.N; i++ {
				c := &Context{
					Password:  []byte("password"),
					Salt:      []byte("somesalt"),
					KeyLength: 32,
					Memory:    4096,
					Time:      3,
					Lanes:     4,
					Variant:   v,
					Version:   Version13,
				}
				if _, err := Derive(context.Background(), c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
