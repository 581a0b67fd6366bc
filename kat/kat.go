// Package kat writes known-answer logs of Argon2 derivations: the inputs,
// the pre-hashing digest, the matrix after every pass and the tag, in the
// text layout used by the published Argon2 test vectors.
package kat

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/opd-ai/argon2/block"
	"github.com/opd-ai/argon2/core"
)

// wordsPerBlockThreshold is the matrix size above which only the first word
// of every block is logged.
const wordsPerBlockThreshold = block.Words

// Writer is a core.Tracer that renders a derivation to an io.Writer. The
// first write error is kept and returned by Err; later events are dropped.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer logging to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (k *Writer) Err() error {
	return k.err
}

func (k *Writer) printf(format string, args ...interface{}) {
	if k.err != nil {
		return
	}
	_, k.err = fmt.Fprintf(k.w, format, args...)
}

func (k *Writer) bytesLine(label string, b []byte, cleared bool) {
	if cleared {
		k.printf("%s[%d]: CLEARED\n", label, len(b))
		return
	}
	k.printf("%s[%d]: %s\n", label, len(b), hexBytes(b))
}

func hexBytes(b []byte) string {
	var line bytes.Buffer
	for _, x := range b {
		fmt.Fprintf(&line, "%2.2x ", x)
	}
	return line.String()
}

// Initialized logs the parameters, the inputs and H0.
func (k *Writer) Initialized(c *core.Context, h0 []byte) {
	k.printf("=======================================\n")
	k.printf("%s version number %d\n", c.Variant.Name(), uint32(c.Version))
	k.printf("=======================================\n")
	k.printf("Memory: %d KiB, Iterations: %d, Parallelism: %d lanes, Tag length: %d bytes\n",
		c.Memory, c.Time, c.Lanes, c.KeyLength)
	k.bytesLine("Password", c.Password, c.ClearPassword)
	k.bytesLine("Salt", c.Salt, false)
	k.bytesLine("Secret", c.Secret, c.ClearSecret)
	k.bytesLine("Associated data", c.AssociatedData, false)
	k.printf("Pre-hashing digest: %s\n", hexBytes(h0))
}

// PassCompleted logs every block of the matrix, one word per block for
// matrices larger than 128 blocks and all words otherwise.
func (k *Writer) PassCompleted(pass uint32, memory []block.Block) {
	k.printf("\n After pass %d:\n", pass)
	words := block.Words
	if len(memory) > wordsPerBlockThreshold {
		words = 1
	}
	for i := range memory {
		for j := 0; j < words; j++ {
			k.printf("Block %.4d [%3d]: %016x\n", i, j, memory[i][j])
		}
	}
}

// Finalized logs the tag.
func (k *Writer) Finalized(tag []byte) {
	k.printf("Tag: %s\n", hexBytes(tag))
}

// Generate derives c while logging it to w and returns the tag.
func Generate(ctx context.Context, w io.Writer, c *core.Context) ([]byte, error) {
	k := NewWriter(w)
	tag, err := core.Derive(ctx, c, core.WithTracer(k))
	if err != nil {
		return nil, err
	}
	if k.Err() != nil {
		return nil, fmt.Errorf("kat: %w", k.Err())
	}
	return tag, nil
}

// ReferenceContext returns the inputs of the published test vectors for
// variant and version: a 32-byte password of 0x01, a 16-byte salt of 0x02,
// an 8-byte secret of 0x03, 12 bytes of associated data of 0x04, 32 KiB,
// three passes, four lanes and a 32-byte tag.
func ReferenceContext(variant core.Variant, version core.Version) *core.Context {
	return &core.Context{
		Password:       bytes.Repeat([]byte{0x01}, 32),
		Salt:           bytes.Repeat([]byte{0x02}, 16),
		Secret:         bytes.Repeat([]byte{0x03}, 8),
		AssociatedData: bytes.Repeat([]byte{0x04}, 12),
		KeyLength:      32,
		Memory:         32,
		Time:           3,
		Lanes:          4,
		Threads:        4,
		Variant:        variant,
		Version:        version,
	}
}
