// Prints the info hash of each torrent file given.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/anacrolix/log"
	"github.com/anacrolix/tagflag"

	"github.com/bencodec/torrent/metainfo"
)

func printInfoHashes(w io.Writer, paths []string) error {
	for _, path := range paths {
		mi, err := metainfo.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		fmt.Fprintf(w, "%s: %s\n", mi.HashInfoBytes().HexString(), path)
	}
	return nil
}

func main() {
	var args struct {
		tagflag.StartPos
		Files []string `arity:"+" help:"torrent files"`
	}
	tagflag.Parse(&args)
	if err := printInfoHashes(os.Stdout, args.Files); err != nil {
		log.Levelf(log.Error, "%v", err)
		os.Exit(1)
	}
}
