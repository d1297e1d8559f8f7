package peer_protocol

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/anacrolix/missinggo/v2/panicif"

	"github.com/bencodec/torrent/internal/ctxrw"
	"github.com/bencodec/torrent/metainfo"
)

const Protocol = "\x13BitTorrent protocol"

// Protocol string, reserved bytes, info hash and peer ID.
const HandshakeLength = len(Protocol) + 8 + metainfo.HashSize + 20

var (
	ErrBadHandshakeLength = errors.New("handshake has wrong length")
	ErrBadProtocol        = errors.New("unexpected protocol string")
	ErrInfoHashMismatch   = errors.New("peer handshook for a different info hash")
)

type ExtensionBit uint

// https://www.bittorrent.org/beps/bep_0004.html
// https://wiki.theory.org/BitTorrentSpecification.html#Reserved_Bytes
const (
	ExtensionBitDht  = 0 // http://www.bittorrent.org/beps/bep_0005.html
	ExtensionBitFast = 2 // http://www.bittorrent.org/beps/bep_0006.html
	// BEP 52, and BEP 4.
	ExtensionBitV2Upgrade                    = 4
	ExtensionBitAzureusExtensionNegotiation1 = 16
	ExtensionBitAzureusExtensionNegotiation2 = 17
	// LibTorrent Extension Protocol, http://www.bittorrent.org/beps/bep_0010.html
	ExtensionBitLtep = 20
	// https://wiki.theory.org/BitTorrent_Location-aware_Protocol_1
	ExtensionBitLocationAwareProtocol    = 43
	ExtensionBitAzureusMessagingProtocol = 63 // https://www.bittorrent.org/beps/bep_0004.html
)

func handshakeWriter(w io.Writer, bb <-chan []byte, done chan<- error) {
	var err error
	for b := range bb {
		_, err = w.Write(b)
		if err != nil {
			break
		}
	}
	done <- err
}

type (
	PeerExtensionBits [8]byte
)

var bitTags = []struct {
	bit ExtensionBit
	tag string
}{
	// Ordered by their bit position left to right.
	{ExtensionBitAzureusMessagingProtocol, "amp"},
	{ExtensionBitLocationAwareProtocol, "loc"},
	{ExtensionBitLtep, "ltep"},
	{ExtensionBitAzureusExtensionNegotiation2, "azen2"},
	{ExtensionBitAzureusExtensionNegotiation1, "azen1"},
	{ExtensionBitV2Upgrade, "v2"},
	{ExtensionBitFast, "fast"},
	{ExtensionBitDht, "dht"},
}

func (pex PeerExtensionBits) String() string {
	pexHex := hex.EncodeToString(pex[:])
	tags := make([]string, 0, len(bitTags)+1)
	for _, bitTag := range bitTags {
		if pex.GetBit(bitTag.bit) {
			tags = append(tags, bitTag.tag)
			pex.SetBit(bitTag.bit, false)
		}
	}
	unknownCount := bits.OnesCount64(binary.BigEndian.Uint64(pex[:]))
	if unknownCount != 0 {
		tags = append(tags, fmt.Sprintf("%v unknown", unknownCount))
	}
	return fmt.Sprintf("%v (%s)", pexHex, strings.Join(tags, ", "))
}

func NewPeerExtensionBytes(bits ...ExtensionBit) (ret PeerExtensionBits) {
	for _, b := range bits {
		ret.SetBit(b, true)
	}
	return
}

func (pex PeerExtensionBits) SupportsExtended() bool {
	return pex.GetBit(ExtensionBitLtep)
}

func (pex PeerExtensionBits) SupportsDHT() bool {
	return pex.GetBit(ExtensionBitDht)
}

func (pex PeerExtensionBits) SupportsFast() bool {
	return pex.GetBit(ExtensionBitFast)
}

func (pex *PeerExtensionBits) SetBit(bit ExtensionBit, on bool) {
	if on {
		pex[7-bit/8] |= 1 << (bit % 8)
	} else {
		pex[7-bit/8] &^= 1 << (bit % 8)
	}
}

func (pex PeerExtensionBits) GetBit(bit ExtensionBit) bool {
	return pex[7-bit/8]&(1<<(bit%8)) != 0
}

// The 68 bytes each side sends first on a BitTorrent connection.
type HandshakeMessage struct {
	PeerExtensionBits
	InfoHash metainfo.Hash
	PeerID   [20]byte
}

func (me HandshakeMessage) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, HandshakeLength)
	b = append(b, Protocol...)
	b = append(b, me.PeerExtensionBits[:]...)
	b = append(b, me.InfoHash[:]...)
	b = append(b, me.PeerID[:]...)
	panicif.NotEq(len(b), HandshakeLength)
	return b, nil
}

func (me *HandshakeMessage) UnmarshalBinary(b []byte) error {
	if len(b) != HandshakeLength {
		return fmt.Errorf("%w: %d", ErrBadHandshakeLength, len(b))
	}
	p := b[:len(Protocol)]
	// This gets optimized to runtime.memequal
	if string(p) != Protocol {
		return fmt.Errorf("%w: %q", ErrBadProtocol, p)
	}
	b = b[len(p):]
	read := func(dst []byte) {
		n := copy(dst, b)
		panicif.NotEq(n, len(dst))
		b = b[n:]
	}
	read(me.PeerExtensionBits[:])
	read(me.InfoHash[:])
	read(me.PeerID[:])
	panicif.NotEq(len(b), 0)
	return nil
}

type HandshakeResult struct {
	PeerExtensionBits
	PeerID [20]byte
	metainfo.Hash
}

// ih is nil if we expect the peer to declare the InfoHash, such as when the peer initiated the
// connection. Otherwise the peer must answer with the same info hash.
func Handshake(
	ctx context.Context,
	sock io.ReadWriter,
	ih *metainfo.Hash,
	peerID [20]byte,
	extensions PeerExtensionBits,
) (
	res HandshakeResult, err error,
) {
	sock = ctxrw.WrapReadWriter(ctx, sock)
	// Bytes to be sent to the peer. Should never block the sender.
	postCh := make(chan []byte, 4)
	// A single error value sent when the writer completes.
	writeDone := make(chan error, 1)
	// Performs writes to the socket and ensures posts don't block.
	go handshakeWriter(sock, postCh, writeDone)

	defer func() {
		close(postCh) // Done writing.
		if err != nil {
			return
		}
		// Wait until writes complete before returning from handshake.
		err = <-writeDone
		if err != nil {
			err = fmt.Errorf("error writing: %w", err)
		}
	}()

	post := func(bb []byte) {
		panicif.SendBlocks(postCh, bb)
	}

	post([]byte(Protocol))
	post(extensions[:])
	if ih != nil { // We already know what we want.
		post(ih[:])
		post(peerID[:])
	}

	// Read in one hit to avoid potential overhead in underlying reader.
	b := make([]byte, HandshakeLength)
	_, err = io.ReadFull(sock, b)
	if err != nil {
		return res, fmt.Errorf("while reading: %w", err)
	}
	var msg HandshakeMessage
	err = msg.UnmarshalBinary(b)
	if err != nil {
		return
	}
	res = HandshakeResult{
		PeerExtensionBits: msg.PeerExtensionBits,
		PeerID:            msg.PeerID,
		Hash:              msg.InfoHash,
	}
	if ih == nil { // We were waiting for the peer to tell us what they wanted.
		post(res.Hash[:])
		post(peerID[:])
	} else if res.Hash != *ih {
		err = fmt.Errorf("%w: got %v", ErrInfoHashMismatch, res.Hash)
	}
	return
}
