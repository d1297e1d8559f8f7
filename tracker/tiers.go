package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/anacrolix/log"
)

// AnnounceTiers announces to the tiers of an announce-list in order, per BEP 12: trackers within a
// tier are tried in turn, and later tiers only when every tracker in the earlier ones failed. A
// tracker that answers is moved to the front of its tier, so tiers is modified and callers wanting
// to keep their list should pass a clone.
//
// template supplies everything but the TrackerUrl. The URL that answered is returned with the
// response.
func AnnounceTiers(ctx context.Context, tiers [][]string, template Announce) (res AnnounceResponse, trackerUrl string, err error) {
	var errs []error
	for _, tier := range tiers {
		for i, u := range tier {
			if ctx.Err() != nil {
				err = errors.Join(append(errs, context.Cause(ctx))...)
				return
			}
			a := template
			a.TrackerUrl = u
			res, err = a.Do(ctx)
			if err == nil {
				copy(tier[1:i+1], tier[:i])
				tier[0] = u
				trackerUrl = u
				return
			}
			logger.Levelf(log.Debug, "announcing to %q: %v", u, err)
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
		}
	}
	if len(errs) == 0 {
		err = errors.New("no trackers")
		return
	}
	err = errors.Join(errs...)
	return
}
