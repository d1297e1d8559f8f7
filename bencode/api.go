package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

//----------------------------------------------------------------------------
// Errors
//----------------------------------------------------------------------------

// Kinds of syntax error. A *SyntaxError unwraps to exactly one of these, so callers can use
// errors.Is to find out what went wrong without parsing the message.
var (
	// The buffer ran out in the middle of a token.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	// A string length prefix is malformed or negative.
	ErrInvalidLength = errors.New("invalid string length")
	// An integer literal is non-numeric, has a leading zero, is "-0" or overflows int64.
	ErrInvalidInteger = errors.New("invalid integer")
	// A dictionary key is not a byte string.
	ErrNonStringDictKey = errors.New("dictionary key is not a string")
	// A list or dictionary is missing its closing 'e'.
	ErrUnterminatedContainer = errors.New("unterminated container")
	// The same key occurs twice in one dictionary.
	ErrDuplicateKey = errors.New("duplicate dictionary key")
	// Lists and dictionaries are nested deeper than the decoder allows.
	ErrNestingTooDeep = errors.New("nesting too deep")
	// A byte that can't start any value was found where a value was expected.
	ErrUnexpectedToken = errors.New("unexpected token")
)

type SyntaxError struct {
	Offset int64 // location of the error
	Kind   error // one of the Err* kinds above
	what   string
}

func (e *SyntaxError) Error() string {
	return "bencode: syntax error (offset: " +
		strconv.FormatInt(e.Offset, 10) +
		"): " + e.Kind.Error() + ": " + e.what
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// The zero Value, or a container holding one, was given to an Encoder.
var ErrInvalidValue = errors.New("bencode: invalid Value")

// Returned by DecodeAll when a complete value was read but bytes remain after it.
type ErrUnusedTrailingBytes struct {
	NumUnusedBytes int
}

func (me ErrUnusedTrailingBytes) Error() string {
	return "bencode: " + strconv.Itoa(me.NumUnusedBytes) + " unused trailing bytes"
}

//----------------------------------------------------------------------------
// Stateless interface
//----------------------------------------------------------------------------

// Decode parses exactly one value starting at offset and returns it along with the offset just
// past its terminator. The returned Value borrows from buf.
func Decode(buf []byte, offset int) (Value, int, error) {
	d := decoder{buf: buf, maxDepth: DefaultMaxDepth}
	return d.parse(offset, 0)
}

// DecodeAll parses buf as a single value, and fails if anything follows it.
func DecodeAll(buf []byte) (Value, error) {
	v, end, err := Decode(buf, 0)
	if err != nil {
		return Value{}, err
	}
	if end != len(buf) {
		return v, ErrUnusedTrailingBytes{len(buf) - end}
	}
	return v, nil
}

// Encode returns the canonical encoding of v. It panics if v is or contains the zero Value.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	e := encoder{w: &buf}
	e.encode(v)
	return buf.Bytes()
}

//----------------------------------------------------------------------------
// Stateful interface
//----------------------------------------------------------------------------

// Decoder reads consecutive values out of a single buffer, such as a stream of messages that have
// been read into memory.
type Decoder struct {
	buf []byte
	// Offset of the next value to be decoded.
	Offset int
	// Maximum list and dictionary nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Decode returns the next value, or io.EOF when the buffer is exhausted between values. After an
// error the Offset is not advanced.
func (d *Decoder) Decode() (Value, error) {
	if d.Offset == len(d.buf) {
		return Value{}, io.EOF
	}
	maxDepth := d.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	dec := decoder{buf: d.buf, maxDepth: maxDepth}
	v, end, err := dec.parse(d.Offset, 0)
	if err != nil {
		return Value{}, err
	}
	d.Offset = end
	return v, nil
}

type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{bufio.NewWriter(w)}
}

// Encode writes the canonical encoding of v. Nothing is written if v is or contains the zero
// Value.
func (e *Encoder) Encode(v Value) error {
	if err := checkEncodable(v); err != nil {
		return err
	}
	enc := encoder{w: e.w}
	enc.encode(v)
	return e.w.Flush()
}
