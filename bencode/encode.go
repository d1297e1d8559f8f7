package bencode

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
)

type encodeWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

// Write errors are left to the underlying writer: bytes.Buffer never fails, and bufio.Writer
// holds on to the first error until Flush.
type encoder struct {
	w       encodeWriter
	scratch [20]byte
}

func (e *encoder) writeInt(i int64) {
	e.w.Write(strconv.AppendInt(e.scratch[:0], i, 10))
}

func (e *encoder) writeString(b []byte) {
	e.writeInt(int64(len(b)))
	e.w.WriteByte(':')
	e.w.Write(b)
}

func (e *encoder) encode(v Value) {
	switch v.kind {
	case KindInteger:
		e.w.WriteByte('i')
		e.writeInt(v.i)
		e.w.WriteByte('e')
	case KindByteString:
		e.writeString(v.b)
	case KindList:
		e.w.WriteByte('l')
		for _, elem := range v.list {
			e.encode(elem)
		}
		e.w.WriteByte('e')
	case KindDictionary:
		e.w.WriteByte('d')
		for _, entry := range sortedEntries(v.dict) {
			e.writeString(entry.Key)
			e.encode(entry.Value)
		}
		e.w.WriteByte('e')
	default:
		panic("bencode: encoding invalid Value")
	}
}

// Finds a zero Value anywhere inside v, which has no encoding.
func checkEncodable(v Value) error {
	switch v.kind {
	case KindInteger, KindByteString:
		return nil
	case KindList:
		for i, elem := range v.list {
			if err := checkEncodable(elem); err != nil {
				return fmt.Errorf("list element %d: %w", i, err)
			}
		}
		return nil
	case KindDictionary:
		for _, entry := range v.dict {
			if err := checkEncodable(entry.Value); err != nil {
				return fmt.Errorf("key %q: %w", entry.Key, err)
			}
		}
		return nil
	default:
		return ErrInvalidValue
	}
}

// Returns the entries in ascending byte-wise key order, without disturbing the original order.
func sortedEntries(entries []DictEntry) []DictEntry {
	if slices.IsSortedFunc(entries, compareEntries) {
		return entries
	}
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, compareEntries)
	return sorted
}

func compareEntries(a, b DictEntry) int {
	return bytes.Compare(a.Key, b.Key)
}
