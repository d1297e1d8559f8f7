package infohash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytes(t *testing.T) {
	// SHA-1 of the empty string.
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", HashBytes(nil).HexString())
	h := HashBytes([]byte("d4:name1:ae"))
	assert.Equal(t, h.HexString(), h.String())
	assert.Equal(t, h.HexString(), fmt.Sprintf("%v", h))
}

func TestHexRoundTrip(t *testing.T) {
	h := HashBytes([]byte("abc"))
	var h2 T
	require.NoError(t, h2.FromHexString(h.HexString()))
	assert.Equal(t, h, h2)
	text, err := h.MarshalText()
	require.NoError(t, err)
	var h3 T
	require.NoError(t, h3.UnmarshalText(text))
	assert.Equal(t, h, h3)
	assert.Error(t, h3.FromHexString("abc"))
	assert.Error(t, h3.FromHexString("zz39a3ee5e6b4b0d3255bfef95601890afd80709"))
	assert.Panics(t, func() { FromHexString("nope") })
}

func TestFromBytes(t *testing.T) {
	h := HashBytes([]byte("x"))
	h2, err := FromBytes(h.Bytes())
	require.NoError(t, err)
	assert.Equal(t, h, h2)
	_, err = FromBytes(make([]byte, 19))
	assert.Error(t, err)
}

func TestQueryEscaped(t *testing.T) {
	var h T
	copy(h[:], "\x12\x34 abcdefghijklmno~\xff")
	assert.Equal(t, "%124%20abcdefghijklmno~%FF", h.QueryEscaped())
	assert.True(t, T{}.IsZero())
	assert.False(t, h.IsZero())
}
