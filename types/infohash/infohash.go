package infohash

import (
	"crypto/sha1"
	"encoding"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

const Size = sha1.Size

// 20-byte SHA1 hash used for info and pieces.
type T [Size]byte

var _ fmt.Formatter = (*T)(nil)

func (t T) Format(f fmt.State, c rune) {
	// Every verb gets hex: raw digest bytes are never useful in output.
	f.Write([]byte(t.HexString()))
}

func (t T) Bytes() []byte {
	return t[:]
}

func (t T) AsString() string {
	return string(t[:])
}

func (t T) String() string {
	return t.HexString()
}

func (t T) HexString() string {
	return hex.EncodeToString(t[:])
}

// The raw digest percent-encoded for use in a tracker query string. Spaces are %20, not '+',
// because some trackers decode the query byte-wise.
func (t T) QueryEscaped() string {
	return strings.ReplaceAll(url.QueryEscape(string(t[:])), "+", "%20")
}

func (t T) IsZero() bool {
	return t == T{}
}

func (t *T) FromHexString(s string) (err error) {
	if len(s) != 2*Size {
		err = fmt.Errorf("hash hex string has bad length: %d", len(s))
		return
	}
	_, err = hex.Decode(t[:], []byte(s))
	return
}

var (
	_ encoding.TextUnmarshaler = (*T)(nil)
	_ encoding.TextMarshaler   = T{}
)

func (t *T) UnmarshalText(b []byte) error {
	return t.FromHexString(string(b))
}

func (t T) MarshalText() (text []byte, err error) {
	return []byte(t.HexString()), nil
}

func FromHexString(s string) (h T) {
	err := h.FromHexString(s)
	if err != nil {
		panic(err)
	}
	return
}

// FromBytes copies a 20-byte digest, such as one read off the wire.
func FromBytes(b []byte) (h T, err error) {
	if len(b) != Size {
		err = fmt.Errorf("hash has bad length: %d", len(b))
		return
	}
	copy(h[:], b)
	return
}

// HashBytes is the SHA-1 of b. For an info hash, b must be the exact bytes the info dictionary
// occupied in the metainfo, not a re-encoding of it.
func HashBytes(b []byte) T {
	return sha1.Sum(b)
}
