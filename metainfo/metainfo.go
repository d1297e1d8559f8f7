package metainfo

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bencodec/torrent/bencode"
)

// MetaInfo is the type you should use when reading torrent files. See Load and LoadFromFile
// functions. All the fields are intended to be read-only.
type MetaInfo struct {
	Announce     string
	AnnounceList AnnounceList
	Info         Info
	// The exact bytes of the info dictionary in the source document. This is what the info hash is
	// computed over.
	InfoBytes    []byte
	CreationDate time.Time // Zero if absent or not an integer.
	Comment      string
	CreatedBy    string
	Encoding     string
	UrlList      UrlList // BEP 19 WebSeeds
}

// Load a MetaInfo from an io.Reader. Returns a non-nil error in case of failure.
func Load(r io.Reader) (*MetaInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// b is ours, so the borrowed fields can keep pointing into it.
	return FromBytes(b)
}

// Convenience function for loading a MetaInfo from a file.
func LoadFromFile(filename string) (*MetaInfo, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromBytes(b)
}

// FromBytes decodes and validates a complete metainfo document. InfoBytes and Info.Pieces alias
// b, so b must not be modified while the MetaInfo is in use.
func FromBytes(b []byte) (*MetaInfo, error) {
	v, err := bencode.DecodeAll(b)
	if err != nil {
		return nil, fmt.Errorf("decoding metainfo: %w", err)
	}
	return FromValue(v)
}

// FromValue extracts a MetaInfo from a decoded top-level dictionary. The value must have come from
// the decoder, since the info hash depends on the source bytes of the info dictionary.
func FromValue(v bencode.Value) (mi *MetaInfo, err error) {
	root, err := newDict(v, "")
	if err != nil {
		return
	}
	var ret MetaInfo
	ret.Announce, err = root.requireText("announce")
	if err != nil {
		return
	}
	if alv, ok := root.Lookup("announce-list"); ok {
		ret.AnnounceList, err = announceListFromValue(alv, "announce-list")
		if err != nil {
			return
		}
	}
	infoValue, err := root.require("info", bencode.KindDictionary)
	if err != nil {
		return
	}
	ret.InfoBytes = infoValue.Raw()
	if ret.InfoBytes == nil {
		err = invalid("info", "a decoded dictionary")
		return
	}
	ret.Info, err = infoFromValue(infoValue, "info")
	if err != nil {
		return
	}
	// Lots of torrents in the wild get this wrong, so a bad type is ignored, as other clients do.
	if cd, ok, cdErr := root.get("creation date", bencode.KindInteger); ok && cdErr == nil {
		i, _ := cd.Int()
		ret.CreationDate = time.Unix(i, 0)
	}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"comment", &ret.Comment},
		{"created by", &ret.CreatedBy},
		{"encoding", &ret.Encoding},
	} {
		*f.dst, err = root.optText(f.key)
		if err != nil {
			return
		}
	}
	if ul, ok := root.Lookup("url-list"); ok {
		ret.UrlList, err = urlListFromValue(ul, "url-list")
		if err != nil {
			return
		}
	}
	return &ret, nil
}

// HashInfoBytes is the info hash: the SHA-1 of InfoBytes.
func (mi *MetaInfo) HashInfoBytes() (infoHash Hash) {
	return HashBytes(mi.InfoBytes)
}

// Returns the announce-list converted from the old single announce field if necessary.
func (mi *MetaInfo) UpvertedAnnounceList() AnnounceList {
	if mi.AnnounceList.OverridesAnnounce(mi.Announce) {
		return mi.AnnounceList.Clone()
	}
	if mi.Announce != "" {
		return [][]string{{mi.Announce}}
	}
	return nil
}
