package metainfo

import (
	"github.com/bencodec/torrent/bencode"
)

// BEP 19 web seeds. Torrents carry either a single URL string or a list of them.
type UrlList []string

func urlListFromValue(v bencode.Value, path string) (UrlList, error) {
	if b, ok := v.Bytes(); ok {
		s, err := text(path, b)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return UrlList{s}, nil
	}
	if v.Kind() != bencode.KindList {
		return nil, mismatch(path, "byte string or list")
	}
	return stringList(v, path, text)
}
