// Checks torrent data on disk against the piece hashes in the torrent file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anacrolix/log"
	"github.com/anacrolix/tagflag"
	"github.com/dustin/go-humanize"

	"github.com/bencodec/torrent/metainfo"
)

var flags = struct {
	Torrent string `help:"path of the torrent file"`
	Path    string `help:"path of the torrent data"`
	Summary bool   `help:"display summary at the end"`
}{
	Torrent: "/path/to/the.torrent",
	Path:    "/torrent/data",
}

// Files are expected at dataPath/<name>/<path...> for multi-file torrents, and at dataPath itself
// for single files.
func dataFilePaths(info *metainfo.Info, dataPath string) (ret []string) {
	if !info.IsDir() {
		return []string{dataPath}
	}
	for _, fi := range info.UpvertedFiles() {
		ret = append(ret, filepath.Join(append([]string{dataPath, info.BestName()}, fi.BestPath()...)...))
	}
	return
}

// A reader over the concatenation of the torrent's files, opening each only when reached.
type spanReader struct {
	paths []string
	cur   *os.File
}

func (me *spanReader) Read(b []byte) (int, error) {
	for {
		if me.cur == nil {
			if len(me.paths) == 0 {
				return 0, io.EOF
			}
			f, err := os.Open(me.paths[0])
			if err != nil {
				return 0, err
			}
			me.paths = me.paths[1:]
			me.cur = f
		}
		n, err := me.cur.Read(b)
		if err == io.EOF {
			me.cur.Close()
			me.cur = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (me *spanReader) Close() error {
	if me.cur == nil {
		return nil
	}
	return me.cur.Close()
}

func verify(info *metainfo.Info, dataPath string, onPiece func(i int, good bool)) error {
	numPieces := info.NumPieces()
	if info.PieceLength <= 0 {
		return fmt.Errorf("bad piece length %d", info.PieceLength)
	}
	if expected := (info.TotalLength() + info.PieceLength - 1) / info.PieceLength; int64(numPieces) != expected {
		return fmt.Errorf("have %d piece hashes for %d pieces of data", numPieces, expected)
	}
	r := &spanReader{paths: dataFilePaths(info, dataPath)}
	defer r.Close()
	buf := make([]byte, info.PieceLength)
	for i := range numPieces {
		p := info.Piece(i)
		b := buf[:p.Length()]
		if _, err := io.ReadFull(r, b); err != nil {
			return fmt.Errorf("reading piece %d: %w", i, err)
		}
		onPiece(i, p.Verify(b))
	}
	return nil
}

func verifySummary(w io.Writer, sMap map[bool][]int) {
	fmt.Fprintln(w, "----------------")
	fmt.Fprintln(w, " TORRENT-VERIFY ")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "Number of correct pieces: %d\n", len(sMap[true]))
	fmt.Fprintf(w, "Number of wrong pieces: %d\n", len(sMap[false]))
}

func main() {
	tagflag.Parse(&flags)
	metaInfo, err := metainfo.LoadFromFile(flags.Torrent)
	if err != nil {
		log.Levelf(log.Error, "%v", err)
		os.Exit(1)
	}
	info := &metaInfo.Info
	log.Printf("%d files, %s in %d pieces", len(info.UpvertedFiles()), humanize.Bytes(uint64(info.TotalLength())), info.NumPieces())
	summaryMap := make(map[bool][]int)
	err = verify(info, flags.Path, func(i int, good bool) {
		summaryMap[good] = append(summaryMap[good], i)
		fmt.Println(i, good)
	})
	if err != nil {
		log.Levelf(log.Error, "%v", err)
		os.Exit(1)
	}
	if flags.Summary {
		verifySummary(os.Stdout, summaryMap)
	}
}
