// Announces torrents to every one of their trackers at once and dumps the responses.
package main

import (
	"context"
	"os"
	"sync"

	"github.com/anacrolix/log"
	"github.com/anacrolix/tagflag"
	"github.com/davecgh/go-spew/spew"

	"github.com/bencodec/torrent/metainfo"
	"github.com/bencodec/torrent/tracker"
	"github.com/bencodec/torrent/types"
)

type announceResult struct {
	trackerUrl string
	tracker.AnnounceResponse
	error
}

func announceAll(ctx context.Context, mi *metainfo.MetaInfo, req tracker.AnnounceRequest) (ret []announceResult) {
	req.InfoHash = mi.HashInfoBytes()
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, u := range mi.UpvertedAnnounceList().DistinctValues() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := tracker.Announce{
				TrackerUrl: u,
				Request:    req,
				Timeout:    tracker.DefaultTrackerAnnounceTimeout,
			}.Do(ctx)
			mu.Lock()
			ret = append(ret, announceResult{u, resp, err})
			mu.Unlock()
		}()
	}
	wg.Wait()
	return
}

func main() {
	flags := struct {
		tagflag.StartPos
		Torrents []string `arity:"+"`
	}{}
	tagflag.Parse(&flags)
	ar := tracker.AnnounceRequest{
		PeerId:  types.RandomPeerID(types.DefaultPeerIDPrefix),
		NumWant: -1,
		Left:    -1,
		Port:    6881,
	}
	failed := false
	for _, arg := range flags.Torrents {
		mi, err := metainfo.LoadFromFile(arg)
		if err != nil {
			log.Levelf(log.Error, "loading %q: %v", arg, err)
			os.Exit(1)
		}
		for _, res := range announceAll(context.Background(), mi, ar) {
			if res.error != nil {
				log.Printf("error announcing to %q: %s", res.trackerUrl, res.error)
				failed = true
				continue
			}
			log.Printf("tracker response from %q: %s", res.trackerUrl, spew.Sdump(res.AnnounceResponse))
		}
	}
	if failed {
		os.Exit(1)
	}
}
