package main

import (
	"context"
	"fmt"
	"io"

	"github.com/anacrolix/log"

	"github.com/bencodec/torrent/tracker"
)

type PeersCmd struct {
	Path string `arg:"positional,required" help:"torrent file path or URL"`
}

func peersErr(cmd PeersCmd, w io.Writer) error {
	mi, err := loadMetainfo(cmd.Path)
	if err != nil {
		return err
	}
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	res, trackerUrl, err := tracker.AnnounceTiers(
		context.Background(),
		mi.UpvertedAnnounceList().Clone(),
		tracker.Announce{
			Request: tracker.AnnounceRequest{
				InfoHash: mi.HashInfoBytes(),
				PeerId:   cfg.PeerID,
				Left:     mi.Info.TotalLength(),
				Port:     cfg.ListenPort,
				Event:    tracker.Started,
			},
			Timeout: cfg.TrackerTimeout,
		})
	if err != nil {
		return fmt.Errorf("announcing: %w", err)
	}
	logger.Levelf(log.Debug, "%q returned %d peers, interval %d", trackerUrl, len(res.Peers), res.Interval)
	if res.WarningMessage != "" {
		logger.Levelf(log.Warning, "tracker %q: %s", trackerUrl, res.WarningMessage)
	}
	for _, p := range res.Peers {
		addrPort, ok := p.ToNetipAddrPort()
		if !ok {
			logger.Levelf(log.Warning, "bad peer address %v", p)
			continue
		}
		fmt.Fprintln(w, addrPort)
	}
	return nil
}
