package bencode

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Render writes a JSON-like, human-readable form of v to w. Byte strings are shown as quoted text;
// bytes that aren't valid UTF-8 come out as \x escapes, since bencode strings carry no encoding.
// Dictionary keys are shown in canonical order.
func Render(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	render(bw, v)
	return bw.Flush()
}

func RenderString(v Value) string {
	var sb strings.Builder
	render(&sb, v)
	return sb.String()
}

func render(w encodeWriter, v Value) {
	switch v.kind {
	case KindInteger:
		w.WriteString(strconv.FormatInt(v.i, 10))
	case KindByteString:
		w.WriteString(strconv.Quote(string(v.b)))
	case KindList:
		w.WriteByte('[')
		for i, elem := range v.list {
			if i != 0 {
				w.WriteByte(',')
			}
			render(w, elem)
		}
		w.WriteByte(']')
	case KindDictionary:
		w.WriteByte('{')
		for i, entry := range sortedEntries(v.dict) {
			if i != 0 {
				w.WriteByte(',')
			}
			w.WriteString(strconv.Quote(string(entry.Key)))
			w.WriteByte(':')
			render(w, entry.Value)
		}
		w.WriteByte('}')
	default:
		w.WriteString("null")
	}
}
