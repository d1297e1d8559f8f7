package shared

import (
	"testing"

	qt "github.com/go-quicktest/qt"
)

func TestAnnounceEventText(t *testing.T) {
	for _, e := range []AnnounceEvent{AnnounceEventCompleted, AnnounceEventStarted, AnnounceEventStopped} {
		var got AnnounceEvent
		qt.Assert(t, qt.IsNil(got.UnmarshalText([]byte(e.String()))))
		qt.Check(t, qt.Equals(got, e))
	}
	var got AnnounceEvent = AnnounceEventStarted
	qt.Assert(t, qt.IsNil(got.UnmarshalText([]byte("none"))))
	qt.Check(t, qt.Equals(got, AnnounceEventNone))
	qt.Check(t, qt.Equals(got.String(), ""))
	qt.Check(t, qt.ErrorMatches(got.UnmarshalText([]byte("paused")), `unknown event "paused"`))
}
