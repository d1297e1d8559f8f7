package main

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/bencodec/torrent/metainfo"
	"github.com/bencodec/torrent/tracker"
)

type AnnounceCmd struct {
	Event    tracker.AnnounceEvent
	Tracker  string        `arg:"positional,required"`
	InfoHash metainfo.Hash `arg:"positional,required"`
}

func announceErr(flags AnnounceCmd, w io.Writer) error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	response, err := tracker.Announce{
		TrackerUrl: flags.Tracker,
		Request: tracker.AnnounceRequest{
			InfoHash: flags.InfoHash,
			PeerId:   cfg.PeerID,
			Port:     cfg.ListenPort,
			Left:     -1,
			NumWant:  -1,
			Event:    flags.Event,
		},
		Timeout: cfg.TrackerTimeout,
	}.Do(context.Background())
	if err != nil {
		return fmt.Errorf("doing announce: %w", err)
	}
	spew.Fdump(w, response)
	return nil
}
