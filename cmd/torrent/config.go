package main

import (
	"time"

	"github.com/bencodec/torrent/internal/envx"
	pp "github.com/bencodec/torrent/peer_protocol"
	"github.com/bencodec/torrent/tracker"
	"github.com/bencodec/torrent/types"
)

const defaultListenPort = 6881

type clientConfig struct {
	PeerID         types.PeerID
	ListenPort     uint16
	TrackerTimeout time.Duration
	// Reserved bits sent in handshakes.
	Extensions pp.PeerExtensionBits
}

func configFromEnv() (cfg clientConfig, err error) {
	if s := envx.String("", envx.PeerID); s != "" {
		cfg.PeerID, err = types.PeerIDFromString(s)
		if err != nil {
			return
		}
	} else {
		cfg.PeerID = types.RandomPeerID(types.DefaultPeerIDPrefix)
	}
	cfg.ListenPort = envx.Int[uint16](defaultListenPort, envx.ListenPort)
	cfg.TrackerTimeout = envx.Duration(tracker.DefaultTrackerAnnounceTimeout, envx.TrackerTimeout)
	if !envx.Boolean(false, envx.DisableExtensions) {
		cfg.Extensions = pp.NewPeerExtensionBytes(pp.ExtensionBitLtep)
	}
	return
}
