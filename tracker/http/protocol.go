package httpTracker

import (
	"errors"
	"fmt"
	"math"

	"github.com/anacrolix/dht/v2/krpc"
	pkgerrors "github.com/pkg/errors"

	"github.com/bencodec/torrent/bencode"
)

// Returned for compact peer strings that don't split into whole records.
var ErrBadCompactPeers = errors.New("compact peers length is not a multiple of the record size")

type HttpResponse struct {
	FailureReason  string
	WarningMessage string
	Interval       int32
	MinInterval    int32
	TrackerId      string
	Complete       int32
	Incomplete     int32
	Peers          Peers
	// BEP 7
	Peers6 krpc.CompactIPv6NodeAddrs
}

type Peers struct {
	List    []Peer
	Compact bool
}

// Encodes the peers the way a tracker would send them.
func (me Peers) ToValue() bencode.Value {
	if me.Compact {
		cnas := make([]krpc.NodeAddr, 0, len(me.List))
		for _, peer := range me.List {
			cnas = append(cnas, krpc.NodeAddr{
				IP:   peer.IP.To4(),
				Port: peer.Port,
			})
		}
		b, err := krpc.CompactIPv4NodeAddrs(cnas).MarshalBinary()
		if err != nil {
			panic(err)
		}
		return bencode.NewBytes(b)
	}
	list := make([]bencode.Value, 0, len(me.List))
	for _, p := range me.List {
		entries := []bencode.DictEntry{
			bencode.Entry("ip", bencode.NewString(p.IP.String())),
			bencode.Entry("port", bencode.NewInt(int64(p.Port))),
		}
		if len(p.ID) != 0 {
			entries = append(entries, bencode.Entry("peer id", bencode.NewBytes(p.ID)))
		}
		list = append(list, bencode.NewDict(entries...))
	}
	return bencode.NewList(list...)
}

func (me *Peers) fromValue(v bencode.Value) (err error) {
	switch v.Kind() {
	case bencode.KindByteString:
		vars.Add("http responses with string peers", 1)
		b, _ := v.Bytes()
		me.Compact = true
		me.List, err = ParseCompactPeers(b)
		return
	case bencode.KindList:
		vars.Add("http responses with list peers", 1)
		me.Compact = false
		elems, _ := v.List()
		for i, elem := range elems {
			if elem.Kind() != bencode.KindDictionary {
				return fmt.Errorf("peer %d is a %v", i, elem.Kind())
			}
			var p Peer
			if err = p.fromDict(elem); err != nil {
				return fmt.Errorf("peer %d: %w", i, err)
			}
			me.List = append(me.List, p)
		}
		return
	default:
		vars.Add("http responses with unhandled peers type", 1)
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
}

// ParseCompactPeers splits a BEP 23 compact peer string into 6-byte IPv4 address and port
// records.
func ParseCompactPeers(b []byte) ([]Peer, error) {
	if err := checkCompactLength(b, 6); err != nil {
		return nil, err
	}
	var cnas krpc.CompactIPv4NodeAddrs
	if err := cnas.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	peers := make([]Peer, 0, len(cnas))
	for _, cp := range cnas {
		peers = append(peers, Peer{}.FromNodeAddr(cp))
	}
	return peers, nil
}

func checkCompactLength(b []byte, recordSize int) error {
	if len(b)%recordSize != 0 {
		return fmt.Errorf("%w: %d bytes, records are %d", ErrBadCompactPeers, len(b), recordSize)
	}
	return nil
}

func responseFromBytes(b []byte) (ret HttpResponse, err error) {
	v, err := bencode.DecodeAll(b)
	// Some trackers append junk after the response dict.
	var trailing bencode.ErrUnusedTrailingBytes
	if errors.As(err, &trailing) {
		err = nil
	}
	if err != nil {
		err = pkgerrors.Wrapf(err, "decoding %q", b)
		return
	}
	if v.Kind() != bencode.KindDictionary {
		err = fmt.Errorf("tracker response is a %v", v.Kind())
		return
	}
	if fr, ok := v.Lookup("failure reason"); ok {
		b, ok := fr.Bytes()
		if !ok {
			err = fmt.Errorf("%q is a %v", "failure reason", fr.Kind())
			return
		}
		ret.FailureReason = string(b)
		// Nothing else in the response is meaningful.
		return
	}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"warning message", &ret.WarningMessage},
		{"tracker id", &ret.TrackerId},
	} {
		if sv, ok := v.Lookup(f.key); ok {
			b, ok := sv.Bytes()
			if !ok {
				err = fmt.Errorf("%q is a %v", f.key, sv.Kind())
				return
			}
			*f.dst = string(b)
		}
	}
	for _, f := range []struct {
		key string
		dst *int32
	}{
		{"interval", &ret.Interval},
		{"min interval", &ret.MinInterval},
		{"complete", &ret.Complete},
		{"incomplete", &ret.Incomplete},
	} {
		if iv, ok := v.Lookup(f.key); ok {
			i, ok := iv.Int()
			if !ok {
				err = fmt.Errorf("%q is a %v", f.key, iv.Kind())
				return
			}
			if i < math.MinInt32 || i > math.MaxInt32 {
				err = fmt.Errorf("%q out of range: %d", f.key, i)
				return
			}
			*f.dst = int32(i)
		}
	}
	if pv, ok := v.Lookup("peers"); ok {
		if err = ret.Peers.fromValue(pv); err != nil {
			err = pkgerrors.Wrap(err, "parsing peers")
			return
		}
	}
	if pv, ok := v.Lookup("peers6"); ok {
		b, ok := pv.Bytes()
		if !ok {
			err = fmt.Errorf("peers6 is a %v", pv.Kind())
			return
		}
		err = checkCompactLength(b, 18)
		if err == nil {
			err = ret.Peers6.UnmarshalBinary(b)
		}
		if err != nil {
			err = pkgerrors.Wrap(err, "parsing peers6")
			return
		}
	}
	return
}

// Encodes the response as a tracker would send it.
func (me HttpResponse) ToValue() bencode.Value {
	if me.FailureReason != "" {
		return bencode.NewDict(bencode.Entry("failure reason", bencode.NewString(me.FailureReason)))
	}
	entries := []bencode.DictEntry{
		bencode.Entry("interval", bencode.NewInt(int64(me.Interval))),
		bencode.Entry("complete", bencode.NewInt(int64(me.Complete))),
		bencode.Entry("incomplete", bencode.NewInt(int64(me.Incomplete))),
		bencode.Entry("peers", me.Peers.ToValue()),
	}
	if me.MinInterval != 0 {
		entries = append(entries, bencode.Entry("min interval", bencode.NewInt(int64(me.MinInterval))))
	}
	if me.WarningMessage != "" {
		entries = append(entries, bencode.Entry("warning message", bencode.NewString(me.WarningMessage)))
	}
	if me.TrackerId != "" {
		entries = append(entries, bencode.Entry("tracker id", bencode.NewString(me.TrackerId)))
	}
	if len(me.Peers6) != 0 {
		b, err := me.Peers6.MarshalBinary()
		if err != nil {
			panic(err)
		}
		entries = append(entries, bencode.Entry("peers6", bencode.NewBytes(b)))
	}
	return bencode.NewDict(entries...)
}
