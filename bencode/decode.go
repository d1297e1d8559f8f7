package bencode

import (
	"fmt"
	"strconv"
)

// DefaultMaxDepth bounds list and dictionary nesting so that hostile input can't exhaust the
// stack. Real metainfo rarely nests beyond four levels.
const DefaultMaxDepth = 256

// A read-only cursor over buf. Every parse method takes the offset of the first byte of a token
// and returns the offset just past it.
type decoder struct {
	buf      []byte
	maxDepth int
}

func (d *decoder) errorf(off int, kind error, format string, args ...interface{}) error {
	return &SyntaxError{
		Offset: int64(off),
		Kind:   kind,
		what:   fmt.Sprintf(format, args...),
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (d *decoder) parse(off, depth int) (Value, int, error) {
	if off < 0 || off > len(d.buf) {
		return Value{}, off, d.errorf(off, ErrUnexpectedEnd, "offset outside buffer of length %d", len(d.buf))
	}
	if off == len(d.buf) {
		return Value{}, off, d.errorf(off, ErrUnexpectedEnd, "expected value")
	}
	switch c := d.buf[off]; {
	case c == 'i':
		return d.parseInt(off)
	case c == 'l':
		return d.parseList(off, depth)
	case c == 'd':
		return d.parseDict(off, depth)
	case isDigit(c):
		return d.parseString(off)
	case c == '-':
		return Value{}, off, d.errorf(off, ErrInvalidLength, "negative string length")
	default:
		return Value{}, off, d.errorf(off, ErrUnexpectedToken, "%q does not start a value", c)
	}
}

func (d *decoder) decoded(v Value, start, end int) (Value, int, error) {
	v.src = d.buf
	v.span = Span{start, end}
	return v, end, nil
}

// i<digits>e
func (d *decoder) parseInt(off int) (Value, int, error) {
	p := off + 1
	if p < len(d.buf) && d.buf[p] == '-' {
		p++
	}
	digits := p
	for p < len(d.buf) && isDigit(d.buf[p]) {
		p++
	}
	if p == len(d.buf) {
		return Value{}, off, d.errorf(p, ErrUnexpectedEnd, "integer started at %d is not terminated", off)
	}
	if p == digits {
		return Value{}, off, d.errorf(p, ErrInvalidInteger, "expected digit, got %q", d.buf[p])
	}
	if d.buf[p] != 'e' {
		return Value{}, off, d.errorf(p, ErrInvalidInteger, "expected 'e', got %q", d.buf[p])
	}
	lit := d.buf[off+1 : p]
	if d.buf[digits] == '0' {
		if p-digits > 1 {
			return Value{}, off, d.errorf(digits, ErrInvalidInteger, "leading zero in %q", lit)
		}
		if digits != off+1 {
			return Value{}, off, d.errorf(off+1, ErrInvalidInteger, "negative zero")
		}
	}
	i, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return Value{}, off, d.errorf(off+1, ErrInvalidInteger, "%q: %v", lit, err)
	}
	return d.decoded(NewInt(i), off, p+1)
}

// <length>:<bytes>
func (d *decoder) parseString(off int) (Value, int, error) {
	p := off
	for p < len(d.buf) && isDigit(d.buf[p]) {
		p++
	}
	if p == len(d.buf) {
		return Value{}, off, d.errorf(p, ErrUnexpectedEnd, "string length at %d is not terminated", off)
	}
	if p == off {
		return Value{}, off, d.errorf(p, ErrInvalidLength, "expected digit, got %q", d.buf[p])
	}
	if d.buf[p] != ':' {
		return Value{}, off, d.errorf(p, ErrInvalidLength, "expected ':', got %q", d.buf[p])
	}
	lit := d.buf[off:p]
	if lit[0] == '0' && len(lit) > 1 {
		return Value{}, off, d.errorf(off, ErrInvalidLength, "leading zero in %q", lit)
	}
	length, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return Value{}, off, d.errorf(off, ErrInvalidLength, "%q: %v", lit, err)
	}
	start := p + 1
	if length > int64(len(d.buf)-start) {
		return Value{}, off, d.errorf(start, ErrUnexpectedEnd,
			"string claims %d bytes, %d remain", length, len(d.buf)-start)
	}
	end := start + int(length)
	return d.decoded(NewBytes(d.buf[start:end:end]), off, end)
}

func (d *decoder) checkDepth(off, depth int) error {
	if depth >= d.maxDepth {
		return d.errorf(off, ErrNestingTooDeep, "more than %d levels", d.maxDepth)
	}
	return nil
}

// l<value>*e
func (d *decoder) parseList(off, depth int) (Value, int, error) {
	if err := d.checkDepth(off, depth); err != nil {
		return Value{}, off, err
	}
	elems := []Value{}
	p := off + 1
	for {
		if p == len(d.buf) {
			return Value{}, off, d.errorf(p, ErrUnterminatedContainer, "list started at %d", off)
		}
		if d.buf[p] == 'e' {
			return d.decoded(NewList(elems...), off, p+1)
		}
		elem, next, err := d.parse(p, depth+1)
		if err != nil {
			return Value{}, off, err
		}
		elems = append(elems, elem)
		p = next
	}
}

// d(<string><value>)*e
func (d *decoder) parseDict(off, depth int) (Value, int, error) {
	if err := d.checkDepth(off, depth); err != nil {
		return Value{}, off, err
	}
	entries := []DictEntry{}
	seen := make(map[string]struct{})
	p := off + 1
	for {
		if p == len(d.buf) {
			return Value{}, off, d.errorf(p, ErrUnterminatedContainer, "dictionary started at %d", off)
		}
		if d.buf[p] == 'e' {
			break
		}
		if !isDigit(d.buf[p]) {
			return Value{}, off, d.errorf(p, ErrNonStringDictKey, "key starts with %q", d.buf[p])
		}
		key, next, err := d.parseString(p)
		if err != nil {
			return Value{}, off, err
		}
		if _, ok := seen[string(key.b)]; ok {
			return Value{}, off, d.errorf(p, ErrDuplicateKey, "%q", key.b)
		}
		seen[string(key.b)] = struct{}{}
		p = next
		if p < len(d.buf) && d.buf[p] == 'e' {
			return Value{}, off, d.errorf(p, ErrUnexpectedToken, "key %q has no value", key.b)
		}
		value, next, err := d.parse(p, depth+1)
		if err != nil {
			return Value{}, off, err
		}
		entries = append(entries, DictEntry{Key: key.b, Value: value})
		p = next
	}
	// Bypass NewDict: keys were already checked for uniqueness above.
	return d.decoded(Value{kind: KindDictionary, dict: entries}, off, p+1)
}
