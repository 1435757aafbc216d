package tag

import (
	"errors"
	"fmt"
)

var (
	// ErrIndex reports an element or flag index outside the current size.
	ErrIndex = errors.New("index out of range")
	// ErrKind reports a field read with a different type than it was written with.
	ErrKind = errors.New("field kind mismatch")
)

type field struct {
	name  string
	value Value
}

// Element is one entry of a block, or the root of a tag.
type Element struct {
	fields []field
	blocks []*Block
}

func (e *Element) lookup(name string) (int, bool) {
	for i := range e.fields {
		if e.fields[i].name == name {
			return i, true
		}
	}
	return -1, false
}

func (e *Element) set(name string, value Value) {
	if i, ok := e.lookup(name); ok {
		e.fields[i].value = value
		return
	}
	e.fields = append(e.fields, field{name: name, value: value})
}

// Value returns the raw value of a field.
func (e *Element) Value(name string) (Value, bool) {
	i, ok := e.lookup(name)
	if !ok {
		return Value{}, false
	}
	return e.fields[i].value, true
}

func (e *Element) get(name string, kind Kind) (Value, error) {
	v, ok := e.Value(name)
	if !ok {
		return Value{Kind: kind}, nil
	}
	if v.Kind != kind {
		return Value{}, fmt.Errorf("%w: %q is %s, read as %s", ErrKind, name, v.Kind, kind)
	}
	return v, nil
}

// FieldNames returns field names in write order.
func (e *Element) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		names = append(names, f.name)
	}
	return names
}

// DeleteField removes a field and reports whether it was present.
func (e *Element) DeleteField(name string) bool {
	i, ok := e.lookup(name)
	if !ok {
		return false
	}
	e.fields = append(e.fields[:i], e.fields[i+1:]...)
	return true
}

// KeepFields removes every field not named in keep. Blocks are untouched.
func (e *Element) KeepFields(keep ...string) {
	kept := e.fields[:0]
	for _, f := range e.fields {
		for _, name := range keep {
			if f.name == name {
				kept = append(kept, f)
				break
			}
		}
	}
	clear(e.fields[len(kept):])
	e.fields = kept
}

// SetString stores a string field.
func (e *Element) SetString(name, value string) {
	e.set(name, Value{Kind: KindString, Str: value})
}

// String reads a string field. Missing fields read as "".
func (e *Element) String(name string) (string, error) {
	v, err := e.get(name, KindString)
	return v.Str, err
}

// SetInt stores an integer field.
func (e *Element) SetInt(name string, value int64) {
	e.set(name, Value{Kind: KindInt, Int: value})
}

// Int reads an integer field. Missing fields read as 0.
func (e *Element) Int(name string) (int64, error) {
	v, err := e.get(name, KindInt)
	return v.Int, err
}

// SetReal stores a real field.
func (e *Element) SetReal(name string, value float64) {
	e.set(name, Value{Kind: KindReal, Real: value})
}

// Real reads a real field. Missing fields read as 0.
func (e *Element) Real(name string) (float64, error) {
	v, err := e.get(name, KindReal)
	return v.Real, err
}

// SetPoint stores a 3D point field.
func (e *Element) SetPoint(name string, value [3]float64) {
	e.set(name, Value{Kind: KindPoint, Vec: value})
}

// Point reads a 3D point field.
func (e *Element) Point(name string) ([3]float64, error) {
	v, err := e.get(name, KindPoint)
	return v.Vec, err
}

// SetVector stores a 3D vector field.
func (e *Element) SetVector(name string, value [3]float64) {
	e.set(name, Value{Kind: KindVector, Vec: value})
}

// Vector reads a 3D vector field.
func (e *Element) Vector(name string) ([3]float64, error) {
	v, err := e.get(name, KindVector)
	return v.Vec, err
}

// SetReference stores a tag reference field.
func (e *Element) SetReference(name string, ref Reference) {
	e.set(name, Value{Kind: KindReference, Ref: ref})
}

// Reference reads a tag reference field.
func (e *Element) Reference(name string) (Reference, error) {
	v, err := e.get(name, KindReference)
	return v.Ref, err
}

// Flags returns the flag set stored under name, creating an empty one.
func (e *Element) Flags(name string) (*Flags, error) {
	if i, ok := e.lookup(name); ok {
		v := e.fields[i].value
		if v.Kind != KindFlags {
			return nil, fmt.Errorf("%w: %q is %s, read as %s", ErrKind, name, v.Kind, KindFlags)
		}
		return v.Flags, nil
	}
	flags := &Flags{}
	e.fields = append(e.fields, field{name: name, value: Value{Kind: KindFlags, Flags: flags}})
	return flags, nil
}

// Block returns the child block with the given name, creating it when absent.
func (e *Element) Block(name string) *Block {
	for _, b := range e.blocks {
		if b.name == name {
			return b
		}
	}
	b := &Block{name: name}
	e.blocks = append(e.blocks, b)
	return b
}

// DeleteBlock removes the named child block and its elements, reporting
// whether it was present.
func (e *Element) DeleteBlock(name string) bool {
	for i, b := range e.blocks {
		if b.name == name {
			e.blocks = append(e.blocks[:i], e.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// Blocks returns child blocks in creation order.
func (e *Element) Blocks() []*Block {
	out := make([]*Block, len(e.blocks))
	copy(out, e.blocks)
	return out
}
