package httpTracker

import (
	"bytes"
	"context"
	"expvar"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/anacrolix/missinggo/httptoo"

	"github.com/bencodec/torrent/tracker/shared"
	"github.com/bencodec/torrent/types/infohash"
	"github.com/bencodec/torrent/version"
)

var vars = expvar.NewMap("tracker/http")

type AnnounceRequest struct {
	InfoHash   infohash.T
	PeerId     [20]byte
	Downloaded int64
	// -1 if unknown.
	Left     int64
	Uploaded int64
	Event    shared.AnnounceEvent
	Key      int32
	// Zero leaves it up to the tracker.
	NumWant int32
	Port    uint16
}

func setAnnounceParams(_url *url.URL, ar *AnnounceRequest, opts AnnounceOpt) {
	q := _url.Query()

	q.Set("key", strconv.FormatInt(int64(ar.Key), 10))
	q.Set("peer_id", string(ar.PeerId[:]))
	// AFAICT, port is mandatory, and there's no implied port key.
	q.Set("port", strconv.FormatUint(uint64(ar.Port), 10))
	q.Set("uploaded", strconv.FormatInt(ar.Uploaded, 10))
	q.Set("downloaded", strconv.FormatInt(ar.Downloaded, 10))

	// The AWS S3 tracker returns "400 Bad Request: left(-1) was not in the valid range 0 -
	// 9223372036854775807" if left is out of range, or "500 Internal Server Error: Internal Server
	// Error" if omitted entirely.
	left := ar.Left
	if left < 0 {
		left = math.MaxInt64
	}
	q.Set("left", strconv.FormatInt(left, 10))

	if ar.Event != shared.AnnounceEventNone {
		q.Set("event", ar.Event.String())
	}
	if ar.NumWant != 0 {
		q.Set("numwant", strconv.FormatInt(int64(ar.NumWant), 10))
	}
	// http://stackoverflow.com/questions/17418004/why-does-tracker-server-not-understand-my-request-bittorrent-protocol
	q.Set("compact", "1")
	// BEP 3 mentions having an "ip" param, and BEP 7 says we can list addresses for other
	// address-families, although it's not encouraged.
	if opts.ClientIp4 != nil {
		q.Set("ip", opts.ClientIp4.String())
		q.Set("ipv4", opts.ClientIp4.String())
	}
	if opts.ClientIp6 != nil {
		q.Set("ipv6", opts.ClientIp6.String())
	}
	qstr := q.Encode()
	// url.Values.Encode sorts and escapes everything, but its escaping turns 0x20 in the info hash
	// into "+", which some trackers decode literally.
	if qstr != "" {
		qstr += "&"
	}
	_url.RawQuery = qstr + "info_hash=" + ar.InfoHash.QueryEscaped()
}

type AnnounceOpt struct {
	UserAgent  string
	HostHeader string
	ClientIp4  net.IP
	ClientIp6  net.IP
}

type Client struct {
	hc   *http.Client
	url_ *url.URL
}

type NewClientOpts struct {
	// Zero means no timeout beyond the announce context.
	Timeout time.Duration
	Proxy   func(*http.Request) (*url.URL, error)
}

func NewClient(url_ *url.URL, opts NewClientOpts) Client {
	return Client{
		url_: url_,
		hc: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               opts.Proxy,
				TLSHandshakeTimeout: 15 * time.Second,
			},
		},
	}
}

// Uses an existing http.Client, such as one from httptest.
func NewClientWithHttpClient(url_ *url.URL, hc *http.Client) Client {
	return Client{url_: url_, hc: hc}
}

func (cl Client) Announce(ctx context.Context, ar AnnounceRequest, opt AnnounceOpt) (ret AnnounceResponse, err error) {
	_url := httptoo.CopyURL(cl.url_)
	setAnnounceParams(_url, &ar, opt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, _url.String(), nil)
	if err != nil {
		return
	}
	userAgent := opt.UserAgent
	if userAgent == "" {
		userAgent = version.DefaultHttpUserAgent
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Host = opt.HostHeader
	resp, err := cl.hc.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		err = fmt.Errorf("reading response body: %w", err)
		return
	}
	if resp.StatusCode != 200 {
		err = fmt.Errorf("response from tracker: %s: %s", resp.Status, buf.String())
		return
	}
	trackerResponse, err := responseFromBytes(buf.Bytes())
	if err != nil {
		return
	}
	if trackerResponse.FailureReason != "" {
		err = &FailureError{Reason: trackerResponse.FailureReason}
		return
	}
	vars.Add("successful http announces", 1)
	ret.Interval = trackerResponse.Interval
	ret.Leechers = trackerResponse.Incomplete
	ret.Seeders = trackerResponse.Complete
	ret.WarningMessage = trackerResponse.WarningMessage
	if len(trackerResponse.Peers.List) != 0 {
		vars.Add("http responses with nonempty peers key", 1)
	}
	ret.Peers = trackerResponse.Peers.List
	if len(trackerResponse.Peers6) != 0 {
		vars.Add("http responses with nonempty peers6 key", 1)
	}
	for _, na := range trackerResponse.Peers6 {
		ret.Peers = append(ret.Peers, Peer{}.FromNodeAddr(na))
	}
	return
}

// The tracker answered, but with a "failure reason" instead of peers.
type FailureError struct {
	Reason string
}

func (me *FailureError) Error() string {
	return fmt.Sprintf("tracker gave failure reason: %q", me.Reason)
}

type AnnounceResponse struct {
	Interval       int32 // Minimum seconds the local peer should wait before next announce.
	Leechers       int32
	Seeders        int32
	Peers          []Peer
	WarningMessage string
}
