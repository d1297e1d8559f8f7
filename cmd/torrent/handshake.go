package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/anacrolix/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	pp "github.com/bencodec/torrent/peer_protocol"
)

type HandshakeCmd struct {
	Timeout  time.Duration `default:"10s" help:"handshake timeout per peer"`
	DialRate float64       `default:"10" help:"dials per second"`
	Path     string        `arg:"positional,required" help:"torrent file path or URL"`
	Peers    []string      `arg:"positional,required" help:"peer addresses as host:port"`
}

func handshakeErr(cmd HandshakeCmd, w io.Writer) error {
	mi, err := loadMetainfo(cmd.Path)
	if err != nil {
		return err
	}
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	ih := mi.HashInfoBytes()
	limiter := rate.NewLimiter(rate.Limit(cmd.DialRate), 1)
	results := make([]pp.HandshakeResult, len(cmd.Peers))
	var eg errgroup.Group
	for i, addr := range cmd.Peers {
		eg.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
			defer cancel()
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("%v: %w", addr, err)
			}
			conn, res, err := pp.DialHandshake(ctx, addr, ih, cfg.PeerID, cfg.Extensions)
			if err != nil {
				return fmt.Errorf("handshaking with %v: %w", addr, err)
			}
			conn.Close()
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	for i, res := range results {
		logger.Levelf(log.Debug, "%v supports %v", cmd.Peers[i], res.PeerExtensionBits)
		fmt.Fprintf(w, "Peer ID: %x\n", res.PeerID)
	}
	return nil
}
