package metainfo

import (
	"strings"

	"github.com/bencodec/torrent/bencode"
)

// Information specific to a single file inside the MetaInfo structure.
type FileInfo struct {
	Length   int64
	Path     []string
	PathUtf8 []string

	// Where the file starts in the concatenation of all files. Only set on values from
	// Info.UpvertedFiles.
	TorrentOffset int64
}

func filesFromValue(v bencode.Value, path string) ([]FileInfo, error) {
	elems, _ := v.List()
	files := make([]FileInfo, 0, len(elems))
	for i, elem := range elems {
		fi, err := fileInfoFromValue(elem, indexed(path, i))
		if err != nil {
			return nil, err
		}
		files = append(files, fi)
	}
	return files, nil
}

func fileInfoFromValue(v bencode.Value, path string) (fi FileInfo, err error) {
	d, err := newDict(v, path)
	if err != nil {
		return
	}
	fi.Length, err = d.requireInt("length")
	if err != nil {
		return
	}
	if fi.Length < 0 {
		err = invalid(d.field("length"), "a non-negative integer")
		return
	}
	pathValue, err := d.require("path", bencode.KindList)
	if err != nil {
		return
	}
	fi.Path, err = stringList(pathValue, d.field("path"), raw)
	if err != nil {
		return
	}
	if len(fi.Path) == 0 {
		err = invalid(d.field("path"), "at least one path segment")
		return
	}
	if pu, ok := d.Lookup("path.utf-8"); ok {
		fi.PathUtf8, err = stringList(pu, d.field("path.utf-8"), text)
	}
	return
}

func (fi *FileInfo) DisplayPath(info *Info) string {
	if info.IsDir() {
		return strings.Join(fi.BestPath(), "/")
	} else {
		return info.BestName()
	}
}

func (fi FileInfo) BestPath() []string {
	if len(fi.PathUtf8) != 0 {
		return fi.PathUtf8
	}
	return fi.Path
}
