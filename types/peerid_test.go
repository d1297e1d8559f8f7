package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPeerID(t *testing.T) {
	a := RandomPeerID(DefaultPeerIDPrefix)
	b := RandomPeerID(DefaultPeerIDPrefix)
	assert.True(t, strings.HasPrefix(string(a[:]), DefaultPeerIDPrefix))
	assert.NotEqual(t, a, b)
	for _, c := range a[len(DefaultPeerIDPrefix):] {
		assert.Contains(t, peerIDAlphabet, string(c))
	}
}

func TestPeerIDFromString(t *testing.T) {
	id, err := PeerIDFromString("11111222223333344444")
	require.NoError(t, err)
	assert.EqualValues(t, "11111222223333344444", id[:])
	_, err = PeerIDFromString("short")
	assert.Error(t, err)
}
