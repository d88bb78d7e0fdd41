// Package value defines the pivot representation shared by every decoder
// and encoder: a recursive tagged union able to hold any document a
// supported input format can produce.
package value

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindArray
	KindMap
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "byte string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Entry is a single key/value pair in a map value. Keys are full Values
// because some source formats permit non-string keys.
type Entry struct {
	Key   Value
	Value Value
}

// Value holds one decoded document node. Only the fields belonging to the
// active Kind are meaningful.
//
// Integers keep the sign split of the source data: negative values live
// in Int (always < 0 when used), everything else in Uint. Map entries
// keep the source order; encoders that cannot preserve it say so in
// their own contract rather than the model's.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Bytes []byte

	Items   []Value
	Entries []Entry
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewInt returns an integer value from a signed integer.
func NewInt(i int64) Value {
	if i < 0 {
		return Value{Kind: KindInteger, Int: i}
	}
	return Value{Kind: KindInteger, Uint: uint64(i)}
}

// NewUint returns an integer value from an unsigned integer.
func NewUint(u uint64) Value {
	return Value{Kind: KindInteger, Uint: u}
}

// NewFloat returns a floating-point value.
func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewBytes returns a byte-string value.
func NewBytes(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: b}
}

// NewArray returns an array value over the given items.
func NewArray(items ...Value) Value {
	return Value{Kind: KindArray, Items: items}
}

// NewMap returns a map value over the given entries, kept in order.
func NewMap(entries ...Entry) Value {
	return Value{Kind: KindMap, Entries: entries}
}

const maxInt64 = uint64(1<<63 - 1)

// Int64 returns the integer as an int64 when the value is an integer
// that fits.
func (v Value) Int64() (int64, bool) {
	if v.Kind != KindInteger {
		return 0, false
	}
	if v.Int < 0 {
		return v.Int, true
	}
	if v.Uint > maxInt64 {
		return 0, false
	}
	return int64(v.Uint), true
}

// Uint64 returns the integer as a uint64 when the value is a
// non-negative integer.
func (v Value) Uint64() (uint64, bool) {
	if v.Kind != KindInteger || v.Int < 0 {
		return 0, false
	}
	return v.Uint, true
}

// Get returns the value for a string key in a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if e.Key.Kind == KindString && e.Key.Str == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports semantic equality. Integers compare numerically across
// the sign split; maps compare as unordered sets of entries, since not
// every encoder preserves key order.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInteger:
		if (v.Int < 0) != (o.Int < 0) {
			return false
		}
		if v.Int < 0 {
			return v.Int == o.Int
		}
		return v.Uint == o.Uint
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindBytes:
		if len(v.Bytes) != len(o.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != o.Bytes[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return entriesEqual(v.Entries, o.Entries)
	}
	return false
}

func entriesEqual(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for i, eb := range b {
			if used[i] {
				continue
			}
			if ea.Key.Equal(eb.Key) && ea.Value.Equal(eb.Value) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
