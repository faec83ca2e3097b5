// Package value implements the JSON-like document tree used for request
// payloads, remote results and configuration overlays.
//
// A Value is one of Null, String, Number, Bool, *Map or *List. Containers are
// pointers and are mutated in place by their methods; use Clone for a deep copy.
package value

import (
	"sort"
	"strconv"
)

// Value is a node of a document tree.
type Value interface {
	isValue()
}

// Null is the absent value and the placeholder used to pad sequences.
type Null struct{}

// String is a text scalar.
type String string

// Number is a numeric scalar kept in its textual JSON form.
type Number string

// Bool is a boolean scalar.
type Bool bool

func (Null) isValue()   {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (*Map) isValue()   {}
func (*List) isValue()  {}

// Type enumerates the variants of Value.
type Type int

const (
	TypeNull Type = iota
	TypeString
	TypeNumber
	TypeBool
	TypeMap
	TypeList
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeMap:
		return "mapping"
	case TypeList:
		return "sequence"
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// TypeOf returns the variant of v. A nil interface or nil container is TypeNull.
func TypeOf(v Value) Type {
	switch x := v.(type) {
	case String:
		return TypeString
	case Number:
		return TypeNumber
	case Bool:
		return TypeBool
	case *Map:
		if x == nil {
			return TypeNull
		}
		return TypeMap
	case *List:
		if x == nil {
			return TypeNull
		}
		return TypeList
	}
	return TypeNull
}

// IsNull reports whether v is Null, a nil interface or a nil container.
func IsNull(v Value) bool { return TypeOf(v) == TypeNull }

// IsScalar reports whether v is a String, Number or Bool.
func IsScalar(v Value) bool {
	switch TypeOf(v) {
	case TypeString, TypeNumber, TypeBool:
		return true
	}
	return false
}

// Map is an ordered mapping with unique string keys.
type Map struct {
	keys  []string
	items map[string]Value
}

// NewMap returns an empty mapping.
func NewMap() *Map {
	return &Map{items: map[string]Value{}}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.items[key]
	return v, ok
}

// Set stores v under key. A new key is appended to the key order.
func (m *Map) Set(key string, v Value) *Map {
	if v == nil {
		v = Null{}
	}
	if m.items == nil {
		m.items = map[string]Value{}
	}
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
	return m
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Range calls fn for each entry in key order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{keys: make([]string, len(m.keys)), items: make(map[string]Value, len(m.items))}
	copy(out.keys, m.keys)
	for k, v := range m.items {
		out.items[k] = Clone(v)
	}
	return out
}

// List is an ordered sequence of values.
type List struct {
	items []Value
}

// NewList returns a sequence holding items.
func NewList(items ...Value) *List {
	l := &List{items: make([]Value, 0, len(items))}
	for _, v := range items {
		l.Append(v)
	}
	return l
}

// Len returns the number of elements.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Index returns element i. It panics when i is out of range.
func (l *List) Index(i int) Value { return l.items[i] }

// SetIndex replaces element i, padding with Null when i is beyond the end.
func (l *List) SetIndex(i int, v Value) {
	l.Pad(i + 1)
	if v == nil {
		v = Null{}
	}
	l.items[i] = v
}

// Pad appends Null placeholders until the sequence has at least n elements.
func (l *List) Pad(n int) {
	for len(l.items) < n {
		l.items = append(l.items, Null{})
	}
}

// Append adds v at the end.
func (l *List) Append(v Value) *List {
	if v == nil {
		v = Null{}
	}
	l.items = append(l.items, v)
	return l
}

// Items returns the elements. The slice is a copy; the elements are shared.
func (l *List) Items() []Value {
	if l == nil {
		return nil
	}
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

// Clone returns a deep copy.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	out := &List{items: make([]Value, len(l.items))}
	for i, v := range l.items {
		out.items[i] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of v. Scalars are immutable and returned as is.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Map:
		if x == nil {
			return Null{}
		}
		return x.Clone()
	case *List:
		if x == nil {
			return Null{}
		}
		return x.Clone()
	case nil:
		return Null{}
	}
	return v
}

// Equal reports structural equality. Mapping key order is not significant;
// sequence order is.
func Equal(a, b Value) bool {
	ta, tb := TypeOf(a), TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta {
	case TypeNull:
		return true
	case TypeString, TypeBool:
		return a == b
	case TypeNumber:
		return numbersEqual(a.(Number), b.(Number))
	case TypeMap:
		ma, mb := a.(*Map), b.(*Map)
		if ma.Len() != mb.Len() {
			return false
		}
		for _, k := range ma.keys {
			vb, ok := mb.items[k]
			if !ok || !Equal(ma.items[k], vb) {
				return false
			}
		}
		return true
	case TypeList:
		la, lb := a.(*List), b.(*List)
		if la.Len() != lb.Len() {
			return false
		}
		for i := range la.items {
			if !Equal(la.items[i], lb.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b Number) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(string(a), 64)
	fb, errB := strconv.ParseFloat(string(b), 64)
	return errA == nil && errB == nil && fa == fb
}

// Text returns the text of a scalar and false for other variants.
func Text(v Value) (string, bool) {
	switch x := v.(type) {
	case String:
		return string(x), true
	case Number:
		return string(x), true
	case Bool:
		return strconv.FormatBool(bool(x)), true
	}
	return "", false
}

// Path walks v through mapping keys and returns the value found.
func Path(v Value, keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		m, ok := cur.(*Map)
		if !ok || m == nil {
			return nil, false
		}
		if cur, ok = m.Get(k); !ok {
			return nil, false
		}
	}
	return cur, true
}

// PathString is Path followed by Text; missing values yield "".
func PathString(v Value, keys ...string) string {
	x, ok := Path(v, keys...)
	if !ok {
		return ""
	}
	s, _ := Text(x)
	return s
}

// SortedKeys returns the keys of m sorted lexically.
func SortedKeys(m *Map) []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}
