package metainfo

import (
	"slices"

	"github.com/bencodec/torrent/bencode"
)

// Tiers of tracker URLs, in order of preference. See BEP 12.
type AnnounceList [][]string

func announceListFromValue(v bencode.Value, path string) (AnnounceList, error) {
	tiers, ok := v.List()
	if !ok {
		return nil, mismatch(path, bencode.KindList.String())
	}
	al := make(AnnounceList, 0, len(tiers))
	for i, tier := range tiers {
		urls, err := stringList(tier, indexed(path, i), text)
		if err != nil {
			return nil, err
		}
		al = append(al, urls)
	}
	return al, nil
}

func (al AnnounceList) Clone() (ret AnnounceList) {
	for _, tier := range al {
		ret = append(ret, slices.Clone(tier))
	}
	return
}

// Whether the AnnounceList should be preferred over a single URL announce.
func (al AnnounceList) OverridesAnnounce(announce string) bool {
	for _, tier := range al {
		for _, url := range tier {
			if url != "" || announce == "" {
				return true
			}
		}
	}
	return false
}

func (al AnnounceList) DistinctValues() (ret []string) {
	seen := make(map[string]struct{})
	for _, tier := range al {
		for _, v := range tier {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				ret = append(ret, v)
			}
		}
	}
	return
}
