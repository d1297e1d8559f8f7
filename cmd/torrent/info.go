package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/xerrors"

	"github.com/bencodec/torrent/metainfo"
)

type InfoCmd struct {
	Path string `arg:"positional,required" help:"torrent file path or URL"`
}

func loadMetainfo(path string) (*metainfo.MetaInfo, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		response, err := http.Get(path)
		if err != nil {
			return nil, xerrors.Errorf("downloading torrent file: %w", err)
		}
		defer response.Body.Close()
		mi, err := metainfo.Load(response.Body)
		if err != nil {
			return nil, xerrors.Errorf("loading torrent file %q: %w", path, err)
		}
		return mi, nil
	}
	mi, err := metainfo.LoadFromFile(path)
	if err != nil {
		return nil, xerrors.Errorf("loading torrent file %q: %w", path, err)
	}
	return mi, nil
}

func infoErr(cmd InfoCmd, w io.Writer) error {
	mi, err := loadMetainfo(cmd.Path)
	if err != nil {
		return err
	}
	info := &mi.Info
	hashes, err := info.PieceHashes()
	if err != nil {
		return err
	}
	total := info.TotalLength()
	fmt.Fprintf(w, "Tracker URL: %s\n", mi.Announce)
	fmt.Fprintf(w, "Length: %d (%s)\n", total, humanize.Bytes(uint64(total)))
	fmt.Fprintf(w, "Info Hash: %s\n", mi.HashInfoBytes().HexString())
	fmt.Fprintf(w, "Piece Length: %d\n", info.PieceLength)
	if info.IsDir() {
		fmt.Fprintf(w, "Files:\n")
		for _, f := range info.UpvertedFiles() {
			fmt.Fprintf(w, "%s (%s)\n", f.DisplayPath(info), humanize.Bytes(uint64(f.Length)))
		}
	}
	fmt.Fprintf(w, "Piece Hashes:\n")
	for _, h := range hashes {
		fmt.Fprintln(w, h.HexString())
	}
	return nil
}
