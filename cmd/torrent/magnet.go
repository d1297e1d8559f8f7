package main

import (
	"fmt"
	"io"
)

type MagnetCmd struct {
	Path string `arg:"positional,required" help:"torrent file path or URL"`
}

func magnetErr(cmd MagnetCmd, w io.Writer) error {
	mi, err := loadMetainfo(cmd.Path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, mi.Magnet().String())
	return err
}
