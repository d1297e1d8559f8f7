package metainfo

import (
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	g "github.com/anacrolix/generics"
)

// Magnet link components. Only BitTorrent v1 info hashes are handled.
type Magnet struct {
	InfoHash    Hash
	Trackers    []string   // "tr" values
	DisplayName string     // "dn" value, if not empty
	Params      url.Values // Everything else, such as "ws", "x.pe" and extra "xt" values.
}

const btihPrefix = "urn:btih:"

func (m Magnet) String() string {
	vs := make(url.Values, len(m.Params)+2)
	for k, v := range m.Params {
		vs[k] = append([]string(nil), v...)
	}
	for _, tr := range m.Trackers {
		vs.Add("tr", tr)
	}
	if m.DisplayName != "" {
		vs.Add("dn", m.DisplayName)
	}
	// Some clients only accept the xt parameter first, with the urn unescaped.
	u := url.URL{
		Scheme:   "magnet",
		RawQuery: "xt=" + btihPrefix + m.InfoHash.HexString(),
	}
	if len(vs) != 0 {
		u.RawQuery += "&" + vs.Encode()
	}
	return u.String()
}

// Magnet builds a link for the torrent from its info hash, trackers, name and web seeds.
func (mi *MetaInfo) Magnet() (m Magnet) {
	m.InfoHash = mi.HashInfoBytes()
	m.Trackers = mi.UpvertedAnnounceList().DistinctValues()
	m.DisplayName = mi.Info.BestName()
	for _, ws := range mi.UrlList {
		addParam(&m.Params, "ws", ws)
	}
	return
}

func ParseMagnetUri(uri string) (m Magnet, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		err = fmt.Errorf("parsing uri: %w", err)
		return
	}
	if u.Scheme != "magnet" {
		err = fmt.Errorf("unexpected scheme %q", u.Scheme)
		return
	}
	q := u.Query()
	found := false
	for _, xt := range q["xt"] {
		encoded, ok := strings.CutPrefix(xt, btihPrefix)
		if found || !ok {
			addParam(&m.Params, "xt", xt)
			continue
		}
		m.InfoHash, err = parseBtih(encoded)
		if err != nil {
			err = fmt.Errorf("parsing xt %q: %w", xt, err)
			return
		}
		found = true
	}
	if !found {
		err = errors.New("missing v1 infohash")
		return
	}
	q.Del("xt")
	m.DisplayName = popFirst(q, "dn").UnwrapOrZeroValue()
	m.Trackers = q["tr"]
	q.Del("tr")
	for k, vs := range q {
		for _, v := range vs {
			addParam(&m.Params, k, v)
		}
	}
	return
}

// Hex, or the older base32 form.
func parseBtih(encoded string) (ih Hash, err error) {
	var n int
	switch len(encoded) {
	case 40:
		n, err = hex.Decode(ih[:], []byte(encoded))
	case 32:
		n, err = base32.StdEncoding.Decode(ih[:], []byte(strings.ToUpper(encoded)))
	default:
		err = fmt.Errorf("unhandled encoding (length %d)", len(encoded))
		return
	}
	if err == nil && n != len(ih) {
		err = fmt.Errorf("decoded %d bytes", n)
	}
	return
}

func addParam(vs *url.Values, k, v string) {
	if *vs == nil {
		*vs = make(url.Values)
	}
	vs.Add(k, v)
}

func popFirst(vs url.Values, key string) g.Option[string] {
	sl := vs[key]
	if len(sl) == 0 {
		return g.None[string]()
	}
	if len(sl) == 1 {
		vs.Del(key)
	} else {
		vs[key] = sl[1:]
	}
	return g.Some(sl[0])
}
