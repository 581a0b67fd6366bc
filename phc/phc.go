package phc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/limits"
)

// ErrFormat is wrapped by every decoding failure.
var ErrFormat = errors.New("decoding failed")

// MinKeyLength is the shortest key an encoded hash may carry.
const MinKeyLength = limits.MinOutputLength

var b64 = base64.RawStdEncoding.Strict()

// Hash is the content of an encoded hash.
type Hash struct {
	Variant core.Variant
	Version core.Version
	Memory  uint32
	Time    uint32
	Lanes   uint32

	// KeyID and AssociatedData are optional and omitted when empty.
	KeyID          []byte
	AssociatedData []byte

	Salt []byte
	Key  []byte
}

// validate checks the fields that the encoded form carries.
func (h *Hash) validate() error {
	if !h.Variant.Valid() {
		return limits.ErrIncorrectType
	}
	if !h.Version.Valid() {
		return limits.ErrIncorrectVersion
	}
	if err := limits.ValidateRange(uint64(h.Lanes), limits.MinLanes, limits.MaxLanes,
		limits.ErrLanesTooFew, limits.ErrLanesTooMany); err != nil {
		return err
	}
	if err := limits.ValidateMemory(h.Memory, h.Lanes); err != nil {
		return err
	}
	if err := limits.ValidateRange(uint64(h.Time), limits.MinTime, limits.MaxTime,
		limits.ErrTimeTooSmall, limits.ErrTimeTooLarge); err != nil {
		return err
	}
	if err := limits.ValidateSalt(h.Salt); err != nil {
		return err
	}
	return limits.ValidateLength(len(h.Key), MinKeyLength, limits.MaxOutputLength,
		limits.ErrOutputTooShort, limits.ErrOutputTooLong)
}

// Encode renders h. The version segment is always written, also for
// version 0x10 hashes.
func Encode(h *Hash) (string, error) {
	if err := h.validate(); err != nil {
		return "", fmt.Errorf("phc: encode: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("$argon2")
	sb.WriteString(h.Variant.String())
	fmt.Fprintf(&sb, "$v=%d$m=%d,t=%d,p=%d", uint32(h.Version), h.Memory, h.Time, h.Lanes)
	if len(h.KeyID) > 0 {
		sb.WriteString(",keyid=")
		sb.WriteString(b64.EncodeToString(h.KeyID))
	}
	if len(h.AssociatedData) > 0 {
		sb.WriteString(",data=")
		sb.WriteString(b64.EncodeToString(h.AssociatedData))
	}
	sb.WriteByte('$')
	sb.WriteString(b64.EncodeToString(h.Salt))
	sb.WriteByte('$')
	sb.WriteString(b64.EncodeToString(h.Key))
	return sb.String(), nil
}

// Decode parses an encoded hash. Any deviation from the grammar, a
// non-canonical number, invalid base64, trailing input or an out-of-range
// parameter yields an error wrapping ErrFormat.
func Decode(s string) (*Hash, error) {
	d := decoder{rest: s}
	h := &Hash{}

	d.expect("$argon2")
	variant := d.until("$")
	if d.err == nil {
		v, err := core.ParseVariant(variant)
		if err != nil {
			d.fail("unknown type %q", variant)
		}
		h.Variant = v
	}

	h.Version = core.Version10
	if d.optional("$v=") {
		h.Version = core.Version(d.decimal("version"))
	}

	d.expect("$m=")
	h.Memory = d.decimal("memory")
	d.expect(",t=")
	h.Time = d.decimal("time")
	d.expect(",p=")
	h.Lanes = d.decimal("lanes")

	if d.optional(",keyid=") {
		h.KeyID = d.binary("keyid")
	}
	if d.optional(",data=") {
		h.AssociatedData = d.binary("data")
	}

	d.expect("$")
	h.Salt = d.binary("salt")
	d.expect("$")
	h.Key = d.binary("key")

	if d.err == nil && d.rest != "" {
		d.fail("trailing data %q", d.rest)
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return h, nil
}

// decoder consumes an encoded hash from left to right. After the first
// failure every method is a no-op and err holds the cause.
type decoder struct {
	rest string
	err  error
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) expect(prefix string) {
	if d.err != nil {
		return
	}
	rest, ok := strings.CutPrefix(d.rest, prefix)
	if !ok {
		d.fail("expected %q", prefix)
		return
	}
	d.rest = rest
}

func (d *decoder) optional(prefix string) bool {
	if d.err != nil {
		return false
	}
	rest, ok := strings.CutPrefix(d.rest, prefix)
	if ok {
		d.rest = rest
	}
	return ok
}

// until returns the input up to, not including, the first byte of stop.
func (d *decoder) until(stop string) string {
	if d.err != nil {
		return ""
	}
	i := strings.IndexAny(d.rest, stop)
	if i < 0 {
		i = len(d.rest)
	}
	tok := d.rest[:i]
	d.rest = d.rest[i:]
	return tok
}

// decimal reads a canonical unsigned 32-bit decimal number.
func (d *decoder) decimal(name string) uint32 {
	if d.err != nil {
		return 0
	}
	i := 0
	for i < len(d.rest) && d.rest[i] >= '0' && d.rest[i] <= '9' {
		i++
	}
	digits := d.rest[:i]
	switch {
	case digits == "":
		d.fail("%s: missing number", name)
		return 0
	case len(digits) > 1 && digits[0] == '0':
		d.fail("%s: leading zero in %q", name, digits)
		return 0
	}
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		d.fail("%s: %v", name, err)
		return 0
	}
	d.rest = d.rest[i:]
	return uint32(v)
}

// binary reads an unpadded base64 field ending at '$', ',' or the end of
// the input.
func (d *decoder) binary(name string) []byte {
	tok := d.until("$,")
	if d.err != nil {
		return nil
	}
	if tok == "" {
		d.fail("%s: empty field", name)
		return nil
	}
	// The base64 decoder skips line breaks; the encoded form has none.
	if strings.ContainsAny(tok, "\r\n") {
		d.fail("%s: line break in base64", name)
		return nil
	}
	b, err := b64.DecodeString(tok)
	if err != nil {
		d.fail("%s: %v", name, err)
		return nil
	}
	return b
}
