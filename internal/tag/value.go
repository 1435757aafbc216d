package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type stored in a field.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindReal
	KindPoint
	KindVector
	KindFlags
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindPoint:
		return "point3d"
	case KindVector:
		return "vector3d"
	case KindFlags:
		return "flags"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Reference points at another tag: Path is relative to the tags root without
// extension and Group is the tag extension.
type Reference struct {
	Group string
	Path  string
}

// IsZero reports whether the reference is unset.
func (r Reference) IsZero() bool {
	return r.Path == ""
}

func (r Reference) String() string {
	if r.IsZero() {
		return "<none>"
	}
	return r.Path + "." + r.Group
}

// Value is a typed field value.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Real  float64
	Vec   [3]float64
	Flags *Flags
	Ref   Reference
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', 6, 64)
	case KindPoint, KindVector:
		return fmt.Sprintf("%s %s %s",
			strconv.FormatFloat(v.Vec[0], 'g', 6, 64),
			strconv.FormatFloat(v.Vec[1], 'g', 6, 64),
			strconv.FormatFloat(v.Vec[2], 'g', 6, 64))
	case KindFlags:
		return v.Flags.String()
	case KindReference:
		return v.Ref.String()
	default:
		return ""
	}
}

// Flags is an indexed set of booleans. Slots exist only after Resize; Set on
// an index outside the current size fails.
type Flags struct {
	bits []bool
}

// Len returns the number of slots.
func (f *Flags) Len() int {
	if f == nil {
		return 0
	}
	return len(f.bits)
}

// Resize sets the number of slots, keeping existing values and clearing new ones.
func (f *Flags) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(f.bits) {
		f.bits = f.bits[:n]
		return
	}
	f.bits = append(f.bits, make([]bool, n-len(f.bits))...)
}

// Set stores value in slot i.
func (f *Flags) Set(i int, value bool) error {
	if i < 0 || i >= len(f.bits) {
		return fmt.Errorf("%w: flag %d of %d", ErrIndex, i, len(f.bits))
	}
	f.bits[i] = value
	return nil
}

// Get returns slot i, or false when i is out of range.
func (f *Flags) Get(i int) bool {
	if f == nil || i < 0 || i >= len(f.bits) {
		return false
	}
	return f.bits[i]
}

// Values returns a copy of all slots.
func (f *Flags) Values() []bool {
	if f == nil {
		return nil
	}
	out := make([]bool, len(f.bits))
	copy(out, f.bits)
	return out
}

func (f *Flags) String() string {
	if f == nil || len(f.bits) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, bit := range f.bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
