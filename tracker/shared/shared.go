package shared

import "fmt"

type AnnounceEvent int32

// See BEP 3, "event".
const (
	// Default event, equivalent to unspecified
	AnnounceEventNone AnnounceEvent = iota
	// Local peer just completed the torrent.
	AnnounceEventCompleted
	// local peer has just resumed this torrent.
	AnnounceEventStarted
	// Local peer is leaving the swarm.
	AnnounceEventStopped
)

// The value sent in the "event" query parameter. Empty for AnnounceEventNone.
func (e AnnounceEvent) String() string {
	switch e {
	case AnnounceEventCompleted:
		return "completed"
	case AnnounceEventStarted:
		return "started"
	case AnnounceEventStopped:
		return "stopped"
	default:
		return ""
	}
}

func (e *AnnounceEvent) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "none":
		*e = AnnounceEventNone
	case "completed":
		*e = AnnounceEventCompleted
	case "started":
		*e = AnnounceEventStarted
	case "stopped":
		*e = AnnounceEventStopped
	default:
		return fmt.Errorf("unknown event %q", text)
	}
	return nil
}
