package peer_protocol

import (
	"context"
	"net"

	"github.com/anacrolix/log"

	"github.com/bencodec/torrent/metainfo"
)

var logger = log.Default.WithNames("peer_protocol")

// DialHandshake connects to addr over TCP and handshakes for ih. The connection is returned open
// on success, for the caller to continue with the wire protocol or close.
func DialHandshake(
	ctx context.Context,
	addr string,
	ih metainfo.Hash,
	peerID [20]byte,
	extensions PeerExtensionBits,
) (conn net.Conn, res HandshakeResult, err error) {
	var d net.Dialer
	conn, err = d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return
	}
	res, err = Handshake(ctx, conn, &ih, peerID, extensions)
	if err != nil {
		logger.Levelf(log.Debug, "handshake with %v failed: %v", addr, err)
		conn.Close()
		conn = nil
		return
	}
	logger.Levelf(log.Debug, "handshook with %v: peer id %+q, extensions %v", addr, res.PeerID[:], res.PeerExtensionBits)
	return
}
