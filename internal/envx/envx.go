// Package envx reads typed settings from environment variables.
package envx

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anacrolix/log"
	"github.com/pkg/errors"
)

const (
	// A 20 byte peer ID to use instead of a random one.
	PeerID = "TORRENT_PEER_ID"
	// The port reported to trackers and peers.
	ListenPort = "TORRENT_LISTEN_PORT"
	// Bounds each tracker announce, as a time.Duration string.
	TrackerTimeout = "TORRENT_TRACKER_TIMEOUT"
	// Advertise no reserved extension bits in handshakes.
	DisableExtensions = "TORRENT_DISABLE_EXTENSIONS"
)

var logger = log.Default.WithNames("envx")

// Int retrieve a integer flag from the environment, checks each key in order
// first to parse successfully is returned.
func Int[T int | int64 | uint16](fallback T, keys ...string) T {
	return envval(fallback, func(s string) (T, error) {
		decoded, err := strconv.ParseInt(s, 10, 64)
		if err == nil && int64(T(decoded)) != decoded {
			err = errors.New("out of range")
		}
		return T(decoded), errors.Wrapf(err, "integer '%s' is invalid", s)
	}, keys...)
}

// Boolean retrieve a boolean flag from the environment, checks each key in order
// first to parse successfully is returned.
func Boolean(fallback bool, keys ...string) bool {
	return envval(fallback, func(s string) (bool, error) {
		decoded, err := strconv.ParseBool(s)
		return decoded, errors.Wrapf(err, "boolean '%s' is invalid", s)
	}, keys...)
}

// String retrieve a string value from the environment, checks each key in order
// first string found is returned.
func String(fallback string, keys ...string) string {
	return envval(fallback, func(s string) (string, error) {
		// we'll never receive an empty string because envval skips empty strings.
		return s, nil
	}, keys...)
}

// Duration retrieves a time.Duration from the environment, checks each key in order
// first successful parse to a duration is returned.
func Duration(fallback time.Duration, keys ...string) time.Duration {
	return envval(fallback, func(s string) (time.Duration, error) {
		decoded, err := time.ParseDuration(s)
		return decoded, errors.Wrapf(err, "time.Duration '%s' is invalid", s)
	}, keys...)
}

func envval[T any](fallback T, parse func(string) (T, error), keys ...string) T {
	for _, k := range keys {
		s := strings.TrimSpace(os.Getenv(k))
		if s == "" {
			continue
		}

		decoded, err := parse(s)
		if err != nil {
			logger.Levelf(log.Warning, "%s stored an invalid value %v", k, err)
			continue
		}

		return decoded
	}

	return fallback
}
