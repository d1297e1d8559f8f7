// Package types holds small value types shared by the tracker and peer protocol packages.
package types

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/bencodec/torrent/version"
)

// Peer client ID.
type PeerID [20]byte

var _ slog.LogValuer = PeerID{}

func (me PeerID) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("%+q", me[:]))
}

func (me PeerID) String() string {
	return fmt.Sprintf("%+q", me[:])
}

// Azureus-style client prefix, see BEP 20.
var DefaultPeerIDPrefix = version.DefaultBep20Prefix

const peerIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomPeerID fills whatever prefix leaves of the ID with random alphanumerics.
func RandomPeerID(prefix string) (id PeerID) {
	n := copy(id[:], prefix)
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	for i := n; i < len(id); i++ {
		id[i] = peerIDAlphabet[int(b[i])%len(peerIDAlphabet)]
	}
	return
}

// PeerIDFromString takes exactly 20 bytes, as given on the command line or in the environment.
func PeerIDFromString(s string) (id PeerID, err error) {
	if len(s) != len(id) {
		err = fmt.Errorf("peer id must be %d bytes, got %d", len(id), len(s))
		return
	}
	copy(id[:], s)
	return
}
