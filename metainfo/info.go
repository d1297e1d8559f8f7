package metainfo

import (
	"iter"
	"slices"

	"github.com/bencodec/torrent/bencode"
)

// The info dictionary. See BEP 3.
type Info struct {
	PieceLength int64
	// Concatenated 20-byte SHA-1 hashes, one per piece.
	Pieces   []byte
	Name     string
	NameUtf8 string
	Length   int64 // Single-file mode, mutually exclusive with Files
	Private  *bool // BEP27
	Source   string
	Files    []FileInfo // Multi-file mode, mutually exclusive with Length
}

func infoFromValue(v bencode.Value, path string) (info Info, err error) {
	d, err := newDict(v, path)
	if err != nil {
		return
	}
	name, err := d.requireBytes("name")
	if err != nil {
		return
	}
	info.Name = string(name)
	info.NameUtf8, err = d.optText("name.utf-8")
	if err != nil {
		return
	}
	info.PieceLength, err = d.requireInt("piece length")
	if err != nil {
		return
	}
	if info.PieceLength <= 0 {
		err = invalid(d.field("piece length"), "a positive integer")
		return
	}
	info.Pieces, err = d.requireBytes("pieces")
	if err != nil {
		return
	}
	if len(info.Pieces)%HashSize != 0 {
		err = &ValidationError{Field: d.field("pieces"), Kind: ErrInvalidPieceTableLength}
		return
	}
	lengthValue, haveLength, err := d.get("length", bencode.KindInteger)
	if err != nil {
		return
	}
	filesValue, haveFiles, err := d.get("files", bencode.KindList)
	if err != nil {
		return
	}
	switch {
	case haveLength && haveFiles:
		err = &ValidationError{Field: path, Kind: ErrConflictingFileMode, Expected: "length or files, not both"}
		return
	case !haveLength && !haveFiles:
		err = &ValidationError{Field: path, Kind: ErrConflictingFileMode, Expected: "length or files"}
		return
	case haveLength:
		info.Length, _ = lengthValue.Int()
		if info.Length < 0 {
			err = invalid(d.field("length"), "a non-negative integer")
			return
		}
	default:
		info.Files, err = filesFromValue(filesValue, d.field("files"))
		if err != nil {
			return
		}
		if len(info.Files) == 0 {
			err = invalid(d.field("files"), "at least one file")
			return
		}
	}
	pv, ok, err := d.get("private", bencode.KindInteger)
	if err != nil {
		return
	}
	if ok {
		i, _ := pv.Int()
		private := i != 0
		info.Private = &private
	}
	info.Source, err = d.optText("source")
	return
}

func (info *Info) TotalLength() (ret int64) {
	for fi := range info.UpvertedFilesIter() {
		ret += fi.Length
	}
	return
}

func (info *Info) NumPieces() (num int) {
	return len(info.Pieces) / HashSize
}

// Whether the torrent is laid out as a directory of files, rather than a single file called Name.
func (info *Info) IsDir() bool {
	return len(info.Files) != 0
}

// The files field, converted up from the old single-file in the parent info dict if necessary. This
// is a helper to avoid having to conditionally handle single and multi-file torrent infos.
func (info *Info) UpvertedFiles() (files []FileInfo) {
	return slices.Collect(info.UpvertedFilesIter())
}

// Like UpvertedFiles, with TorrentOffset filled in as it goes.
func (info *Info) UpvertedFilesIter() iter.Seq[FileInfo] {
	return func(yield func(FileInfo) bool) {
		if len(info.Files) == 0 {
			yield(FileInfo{
				Length: info.Length,
				// Callers should determine that Info.Name is the basename, and
				// thus a regular file.
				Path: nil,
			})
			return
		}
		var offset int64
		for _, fi := range info.Files {
			fi.TorrentOffset = offset
			offset += fi.Length
			if !yield(fi) {
				return
			}
		}
	}
}

func (info *Info) Piece(index int) Piece {
	return Piece{info, index}
}

// PieceHashes splits Pieces into the per-piece hashes.
func (info *Info) PieceHashes() ([]Hash, error) {
	return PieceHashes(info.Pieces)
}

func (info *Info) BestName() string {
	if info.NameUtf8 != "" {
		return info.NameUtf8
	}
	return info.Name
}

func (info *Info) IsPrivate() bool {
	return info.Private != nil && *info.Private
}
