// Package tracker announces to BitTorrent trackers. Only HTTP(S) trackers are supported.
package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/anacrolix/log"

	httpTracker "github.com/bencodec/torrent/tracker/http"
	"github.com/bencodec/torrent/tracker/shared"
)

type (
	AnnounceRequest  = httpTracker.AnnounceRequest
	AnnounceResponse = httpTracker.AnnounceResponse
	AnnounceEvent    = shared.AnnounceEvent
	Peer             = httpTracker.Peer
)

const (
	None      = shared.AnnounceEventNone
	Started   = shared.AnnounceEventStarted
	Stopped   = shared.AnnounceEventStopped
	Completed = shared.AnnounceEventCompleted
)

var (
	ParseCompactPeers  = httpTracker.ParseCompactPeers
	ErrBadCompactPeers = httpTracker.ErrBadCompactPeers
)

var ErrBadScheme = errors.New("unknown scheme")

const DefaultTrackerAnnounceTimeout = 15 * time.Second

var logger = log.Default.WithNames("tracker")

type Announce struct {
	TrackerUrl string
	Request    AnnounceRequest
	// Used instead of a fresh client when set.
	HttpClient *http.Client
	UserAgent  string
	// Applied to the whole announce when non-zero.
	Timeout time.Duration
}

func (me Announce) Do(ctx context.Context) (res AnnounceResponse, err error) {
	_url, err := url.Parse(me.TrackerUrl)
	if err != nil {
		return
	}
	if me.Timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, me.Timeout)
		defer cancel()
	}
	switch _url.Scheme {
	case "http", "https":
	default:
		err = ErrBadScheme
		return
	}
	var cl httpTracker.Client
	if me.HttpClient != nil {
		cl = httpTracker.NewClientWithHttpClient(_url, me.HttpClient)
	} else {
		cl = httpTracker.NewClient(_url, httpTracker.NewClientOpts{})
	}
	return cl.Announce(ctx, me.Request, httpTracker.AnnounceOpt{
		UserAgent: me.UserAgent,
	})
}
