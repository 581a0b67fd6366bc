package block

import "math/bits"

// Compress returns G(x, y): R = x ^ y, then P(R) ^ R, where P applies the
// BlaMka round to the eight rows and then the eight columns of R.
func Compress(x, y *Block) Block {
	var r, q Block
	for i := range r {
		r[i] = x[i] ^ y[i]
	}
	q = r
	permute(&r)
	r.XOR(&q)
	return r
}

// Fill computes G(prev, ref) into next. With withXOR the result is folded
// into the existing contents of next instead of replacing them. ref and next
// may point to the same block.
func Fill(prev, ref, next *Block, withXOR bool) {
	var r, q Block
	for i := range r {
		r[i] = prev[i] ^ ref[i]
	}
	q = r
	if withXOR {
		q.XOR(next)
	}
	permute(&r)
	for i := range next {
		next[i] = q[i] ^ r[i]
	}
}

// permute applies P to the 16-word rows (0..15), (16..31), ..., (112..127),
// then to the interleaved columns (0,1,16,17,...,112,113), ...,
// (14,15,30,31,...,126,127).
func permute(b *Block) {
	for i := 0; i < Words; i += 16 {
		round(
			&b[i], &b[i+1], &b[i+2], &b[i+3],
			&b[i+4], &b[i+5], &b[i+6], &b[i+7],
			&b[i+8], &b[i+9], &b[i+10], &b[i+11],
			&b[i+12], &b[i+13], &b[i+14], &b[i+15],
		)
	}
	for i := 0; i < 16; i += 2 {
		round(
			&b[i], &b[i+1], &b[i+16], &b[i+17],
			&b[i+32], &b[i+33], &b[i+48], &b[i+49],
			&b[i+64], &b[i+65], &b[i+80], &b[i+81],
			&b[i+96], &b[i+97], &b[i+112], &b[i+113],
		)
	}
}

// round is one BLAKE2b round without message words, using the BlaMka
// multiply-add in place of plain addition.
func round(t00, t01, t02, t03, t04, t05, t06, t07, t08, t09, t10, t11, t12, t13, t14, t15 *uint64) {
	v00, v01, v02, v03 := *t00, *t01, *t02, *t03
	v04, v05, v06, v07 := *t04, *t05, *t06, *t07
	v08, v09, v10, v11 := *t08, *t09, *t10, *t11
	v12, v13, v14, v15 := *t12, *t13, *t14, *t15

	v00, v04, v08, v12 = g(v00, v04, v08, v12)
	v01, v05, v09, v13 = g(v01, v05, v09, v13)
	v02, v06, v10, v14 = g(v02, v06, v10, v14)
	v03, v07, v11, v15 = g(v03, v07, v11, v15)

	v00, v05, v10, v15 = g(v00, v05, v10, v15)
	v01, v06, v11, v12 = g(v01, v06, v11, v12)
	v02, v07, v08, v13 = g(v02, v07, v08, v13)
	v03, v04, v09, v14 = g(v03, v04, v09, v14)

	*t00, *t01, *t02, *t03 = v00, v01, v02, v03
	*t04, *t05, *t06, *t07 = v04, v05, v06, v07
	*t08, *t09, *t10, *t11 = v08, v09, v10, v11
	*t12, *t13, *t14, *t15 = v12, v13, v14, v15
}

// g is the BlaMka mixing function. All arithmetic wraps modulo 2^64.
func g(a, b, c, d uint64) (uint64, uint64, uint64, uint64) {
	a = fBlaMka(a, b)
	d = bits.RotateLeft64(d^a, -32)
	c = fBlaMka(c, d)
	b = bits.RotateLeft64(b^c, -24)

	a = fBlaMka(a, b)
	d = bits.RotateLeft64(d^a, -16)
	c = fBlaMka(c, d)
	b = bits.RotateLeft64(b^c, -63)

	return a, b, c, d
}

// fBlaMka returns x + y + 2*lo(x)*lo(y) where lo takes the low 32 bits.
func fBlaMka(x, y uint64) uint64 {
	return x + y + 2*uint64(uint32(x))*uint64(uint32(y))
}
