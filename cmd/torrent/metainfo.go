package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bradfitz/iter"

	"github.com/bencodec/torrent/metainfo"
)

type MetainfoCmd struct {
	JustName    bool
	PieceHashes bool
	Files       bool
	Path        string `arg:"positional,required" help:"torrent file path or URL"`
}

func metainfoErr(cmd MetainfoCmd, w io.Writer) error {
	mi, err := loadMetainfo(cmd.Path)
	if err != nil {
		return err
	}
	return pprintMetainfo(w, mi, cmd)
}

func pprintMetainfo(w io.Writer, metainfo *metainfo.MetaInfo, flags MetainfoCmd) error {
	info := &metainfo.Info
	if flags.JustName {
		_, err := fmt.Fprintf(w, "%s\n", info.BestName())
		return err
	}
	d := map[string]interface{}{
		"Name":         info.Name,
		"Name.Utf8":    info.NameUtf8,
		"NumPieces":    info.NumPieces(),
		"PieceLength":  info.PieceLength,
		"InfoHash":     metainfo.HashInfoBytes().HexString(),
		"NumFiles":     len(info.UpvertedFiles()),
		"TotalLength":  info.TotalLength(),
		"Private":      info.IsPrivate(),
		"Announce":     metainfo.Announce,
		"AnnounceList": metainfo.AnnounceList,
		"UrlList":      metainfo.UrlList,
	}
	if !metainfo.CreationDate.IsZero() {
		d["CreationDate"] = metainfo.CreationDate.UTC()
	}
	if metainfo.Comment != "" {
		d["Comment"] = metainfo.Comment
	}
	if metainfo.CreatedBy != "" {
		d["CreatedBy"] = metainfo.CreatedBy
	}
	if flags.Files {
		d["Files"] = info.UpvertedFiles()
	}
	if flags.PieceHashes {
		d["PieceHashes"] = func() (ret []string) {
			for i := range iter.N(info.NumPieces()) {
				ret = append(ret, info.Piece(i).V1Hash().Unwrap().HexString())
			}
			return
		}()
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
