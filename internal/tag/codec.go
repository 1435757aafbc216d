package tag

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	magic         = "CTAG"
	formatVersion = 1

	maxNameLen  = 1 << 10
	maxItems    = 1 << 20
	maxStrBytes = 1 << 16
)

// ErrFormat reports a tag stream that cannot be decoded.
var ErrFormat = errors.New("malformed tag data")

// Encode writes t to w.
func Encode(w io.Writer, t *Tag) error {
	bw := bufio.NewWriter(w)
	enc := &encoder{w: bw}
	enc.raw([]byte(magic))
	enc.u16(formatVersion)
	enc.str(t.group)
	enc.element(t.root)
	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

// Marshal encodes t into a byte slice.
func Marshal(t *Tag) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a tag from r.
func Decode(r io.Reader) (*Tag, error) {
	dec := &decoder{r: bufio.NewReader(r)}
	head := dec.raw(len(magic))
	if dec.err == nil && string(head) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, head)
	}
	if version := dec.u16(); dec.err == nil && version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}
	group := dec.str()
	root := dec.element(0)
	if dec.err != nil {
		return nil, dec.err
	}
	return &Tag{group: group, root: root}, nil
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) raw(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) put(v any) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *encoder) u16(v uint16) { e.put(v) }

func (e *encoder) u32(v uint32) { e.put(v) }

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.raw([]byte(s))
}

func (e *encoder) element(el *Element) {
	e.u32(uint32(len(el.fields)))
	for _, f := range el.fields {
		e.str(f.name)
		e.put(uint8(f.value.Kind))
		e.value(f.value)
	}
	e.u32(uint32(len(el.blocks)))
	for _, b := range el.blocks {
		e.str(b.name)
		e.u32(uint32(len(b.elements)))
		for _, child := range b.elements {
			e.element(child)
		}
	}
}

func (e *encoder) value(v Value) {
	switch v.Kind {
	case KindString:
		e.str(v.Str)
	case KindInt:
		e.put(v.Int)
	case KindReal:
		e.finite(v.Real)
		e.put(v.Real)
	case KindPoint, KindVector:
		e.finite(v.Vec[:]...)
		e.put(v.Vec)
	case KindFlags:
		bits := v.Flags.Values()
		e.u32(uint32(len(bits)))
		packed := make([]byte, (len(bits)+7)/8)
		for i, bit := range bits {
			if bit {
				packed[i/8] |= 1 << (i % 8)
			}
		}
		e.raw(packed)
	case KindReference:
		e.str(v.Ref.Group)
		e.str(v.Ref.Path)
	default:
		if e.err == nil {
			e.err = fmt.Errorf("%w: cannot encode kind %d", ErrFormat, v.Kind)
		}
	}
}

func (e *encoder) finite(values ...float64) {
	for _, v := range values {
		if e.err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			e.err = fmt.Errorf("%w: non-finite real %v", ErrFormat, v)
		}
	}
}

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: "+format, append([]any{ErrFormat}, args...)...)
	}
}

func (d *decoder) raw(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.fail("read %d bytes: %v", n, err)
		return nil
	}
	return buf
}

func (d *decoder) get(v any) {
	if d.err != nil {
		return
	}
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		d.fail("read value: %v", err)
	}
}

func (d *decoder) u16() uint16 {
	var v uint16
	d.get(&v)
	return v
}

func (d *decoder) u32() uint32 {
	var v uint32
	d.get(&v)
	return v
}

func (d *decoder) count(limit int, what string) int {
	n := d.u32()
	if d.err == nil && n > uint32(limit) {
		d.fail("%s count %d exceeds %d", what, n, limit)
		return 0
	}
	return int(n)
}

func (d *decoder) str() string {
	n := d.count(maxStrBytes, "string")
	return string(d.raw(n))
}

func (d *decoder) element(depth int) *Element {
	el := &Element{}
	if depth > 64 {
		d.fail("nesting deeper than 64")
		return el
	}
	fields := d.count(maxItems, "field")
	for i := 0; i < fields && d.err == nil; i++ {
		name := d.str()
		if len(name) > maxNameLen {
			d.fail("field name too long")
			break
		}
		var kind uint8
		d.get(&kind)
		el.fields = append(el.fields, field{name: name, value: d.value(Kind(kind))})
	}
	blocks := d.count(maxItems, "block")
	for i := 0; i < blocks && d.err == nil; i++ {
		b := &Block{name: d.str()}
		n := d.count(maxItems, "element")
		for j := 0; j < n && d.err == nil; j++ {
			b.elements = append(b.elements, d.element(depth+1))
		}
		el.blocks = append(el.blocks, b)
	}
	return el
}

func (d *decoder) value(kind Kind) Value {
	v := Value{Kind: kind}
	switch kind {
	case KindString:
		v.Str = d.str()
	case KindInt:
		d.get(&v.Int)
	case KindReal:
		d.get(&v.Real)
		if d.err == nil && (math.IsNaN(v.Real) || math.IsInf(v.Real, 0)) {
			d.fail("non-finite real")
		}
	case KindPoint, KindVector:
		d.get(&v.Vec)
	case KindFlags:
		n := d.count(maxItems, "flag")
		packed := d.raw((n + 7) / 8)
		v.Flags = &Flags{bits: make([]bool, n)}
		for i := 0; i < n && d.err == nil; i++ {
			v.Flags.bits[i] = packed[i/8]&(1<<(i%8)) != 0
		}
	case KindReference:
		v.Ref.Group = d.str()
		v.Ref.Path = d.str()
	default:
		d.fail("unknown field kind %d", kind)
	}
	return v
}
