package bencode

import (
	"bytes"
	"fmt"
)

// Kind identifies which of the four bencode types a Value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger
	KindByteString
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindByteString:
		return "byte string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span is the half-open byte range [Start, End) a decoded value occupied in its source buffer.
type Span struct {
	Start, End int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Value is a decoded or constructed bencode value. Exactly one of the kind-specific payloads is
// meaningful, selected by Kind. Values must not be modified after construction: byte strings from
// the decoder alias the source buffer.
type Value struct {
	kind Kind
	i    int64
	b    []byte
	list []Value
	dict []DictEntry
	// Set only on values produced by the decoder.
	src  []byte
	span Span
}

// DictEntry is a single key/value pair of a dictionary. Decoded dictionaries keep their entries
// in encounter order.
type DictEntry struct {
	Key   []byte
	Value Value
}

func NewInt(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

func NewBytes(b []byte) Value {
	return Value{kind: KindByteString, b: b}
}

func NewString(s string) Value {
	return Value{kind: KindByteString, b: []byte(s)}
}

func NewList(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, list: elems}
}

// NewDict builds a dictionary from entries. Panics if a key is repeated, since a dictionary with
// duplicate keys has no valid encoding.
func NewDict(entries ...DictEntry) Value {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[string(e.Key)]; ok {
			panic(fmt.Sprintf("duplicate dictionary key %q", e.Key))
		}
		seen[string(e.Key)] = struct{}{}
	}
	if entries == nil {
		entries = []DictEntry{}
	}
	return Value{kind: KindDictionary, dict: entries}
}

// Entry is shorthand for building dictionary entries with string keys.
func Entry(key string, v Value) DictEntry {
	return DictEntry{Key: []byte(key), Value: v}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

func (v Value) Bytes() ([]byte, bool) {
	return v.b, v.kind == KindByteString
}

func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

func (v Value) Dict() ([]DictEntry, bool) {
	return v.dict, v.kind == KindDictionary
}

// Lookup returns the value stored under key. It reports false if v is not a dictionary or the key
// is absent.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindDictionary {
		return Value{}, false
	}
	for _, e := range v.dict {
		if string(e.Key) == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Len is the number of bytes, elements or entries, depending on Kind.
func (v Value) Len() int {
	switch v.kind {
	case KindByteString:
		return len(v.b)
	case KindList:
		return len(v.list)
	case KindDictionary:
		return len(v.dict)
	default:
		return 0
	}
}

// Span is where the value was found in its source buffer. The zero Span is returned for values
// that weren't decoded.
func (v Value) Span() Span {
	return v.span
}

// Raw returns the exact source bytes the value was decoded from, or nil for constructed values.
// The returned slice aliases the buffer passed to the decoder.
func (v Value) Raw() []byte {
	if v.src == nil {
		return nil
	}
	return v.src[v.span.Start:v.span.End:v.span.End]
}

// Equal reports whether two values have the same structure and contents. Dictionary entry order
// and source spans are ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i == o.i
	case KindByteString:
		return bytes.Equal(v.b, o.b)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for _, e := range v.dict {
			ov, ok := o.Lookup(string(e.Key))
			if !ok || !e.Value.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) String() string {
	return RenderString(v)
}
