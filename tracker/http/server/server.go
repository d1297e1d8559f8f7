// Package httpTrackerServer is a minimal in-memory HTTP tracker. It remembers who announced for
// each info hash and hands them back to later announcers, which is enough to exercise clients.
package httpTrackerServer

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"sync"

	"github.com/anacrolix/dht/v2/krpc"
	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"

	"github.com/bencodec/torrent/bencode"
	httpTracker "github.com/bencodec/torrent/tracker/http"
	"github.com/bencodec/torrent/tracker/shared"
	"github.com/bencodec/torrent/types/infohash"
)

type Handler struct {
	// Seconds announcers are told to wait. Defaults to 5 minutes.
	Interval g.Option[int32]
	// Called to derive an announcer's IP if non-nil. If not specified, the Request.RemoteAddr is
	// used. Necessary for instances running behind reverse proxies for example.
	RequestHost func(r *http.Request) (netip.Addr, error)
	// Limits the peers returned per announce. Zero means no limit.
	MaxPeers int

	mu     sync.Mutex
	swarms map[infohash.T]map[[20]byte]swarmPeer
}

type swarmPeer struct {
	addr netip.AddrPort
	left int64
}

func unmarshalQueryKeyToArray(w http.ResponseWriter, key string, query url.Values) (ret [20]byte, ok bool) {
	str := query.Get(key)
	if len(str) != len(ret) {
		http.Error(w, fmt.Sprintf("%v has wrong length", key), http.StatusBadRequest)
		return
	}
	copy(ret[:], str)
	ok = true
	return
}

func (me *Handler) requestHostAddr(r *http.Request) (_ netip.Addr, err error) {
	if me.RequestHost != nil {
		return me.RequestHost(r)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return
	}
	return netip.ParseAddr(host)
}

var requestHeadersLogger = log.Default.WithNames("request", "headers")

func failure(w http.ResponseWriter, reason string) {
	w.Write(bencode.Encode(httpTracker.HttpResponse{FailureReason: reason}.ToValue()))
}

func (me *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vs := r.URL.Query()
	var event shared.AnnounceEvent
	err := event.UnmarshalText([]byte(vs.Get("event")))
	if err != nil {
		failure(w, err.Error())
		return
	}
	infoHash, ok := unmarshalQueryKeyToArray(w, "info_hash", vs)
	if !ok {
		return
	}
	peerId, ok := unmarshalQueryKeyToArray(w, "peer_id", vs)
	if !ok {
		return
	}
	requestHeadersLogger.Levelf(log.Debug, "request RemoteAddr=%q, header=%q", r.RemoteAddr, r.Header)
	addr, err := me.requestHostAddr(r)
	if err != nil {
		log.Printf("error getting requester IP: %v", err)
		http.Error(w, "error determining your IP", http.StatusBadGateway)
		return
	}
	portU64, err := strconv.ParseUint(vs.Get("port"), 10, 16)
	if err != nil {
		failure(w, "bad port")
		return
	}
	left, err := strconv.ParseInt(vs.Get("left"), 10, 64)
	if err != nil {
		left = -1
	}
	addrPort := netip.AddrPortFrom(addr.Unmap(), uint16(portU64))
	peers, seeders, leechers := me.announce(infohash.T(infoHash), peerId, swarmPeer{addrPort, left}, event)

	var resp httpTracker.HttpResponse
	resp.Interval = me.Interval.UnwrapOr(5 * 60)
	resp.Complete = seeders
	resp.Incomplete = leechers
	resp.Peers.Compact = vs.Get("compact") != "0"
	for _, peer := range peers {
		if peer.Addr().Is4() || !resp.Peers.Compact {
			resp.Peers.List = append(resp.Peers.List, httpTracker.Peer{
				IP:   peer.Addr().AsSlice(),
				Port: int(peer.Port()),
			})
		} else {
			resp.Peers6 = append(resp.Peers6, krpc.NodeAddr{
				IP:   peer.Addr().AsSlice(),
				Port: int(peer.Port()),
			})
		}
	}
	err = bencode.NewEncoder(w).Encode(resp.ToValue())
	if err != nil {
		log.Printf("error encoding and writing response body: %v", err)
	}
}

// Records the announcer and returns everyone else in the swarm.
func (me *Handler) announce(
	ih infohash.T, id [20]byte, p swarmPeer, event shared.AnnounceEvent,
) (others []netip.AddrPort, seeders, leechers int32) {
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.swarms == nil {
		me.swarms = make(map[infohash.T]map[[20]byte]swarmPeer)
	}
	swarm := me.swarms[ih]
	if swarm == nil {
		swarm = make(map[[20]byte]swarmPeer)
		me.swarms[ih] = swarm
	}
	if event == shared.AnnounceEventStopped {
		delete(swarm, id)
	} else {
		swarm[id] = p
	}
	for otherId, other := range swarm {
		if other.left == 0 {
			seeders++
		} else {
			leechers++
		}
		if otherId == id {
			continue
		}
		if me.MaxPeers != 0 && len(others) >= me.MaxPeers {
			continue
		}
		others = append(others, other.addr)
	}
	return
}
