package metainfo

import (
	"fmt"

	"github.com/bencodec/torrent/types/infohash"
)

// This type has been moved to allow avoiding importing everything in metainfo to get at it.

const HashSize = infohash.Size

type Hash = infohash.T

var (
	NewHashFromHex = infohash.FromHexString
	HashBytes      = infohash.HashBytes
)

// PieceHashes splits a piece table into its 20-byte hashes, in piece order. The extractor already
// rejects bad tables, but pieces may come from elsewhere.
func PieceHashes(pieces []byte) ([]Hash, error) {
	if len(pieces)%HashSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformedPieceTable, len(pieces), HashSize)
	}
	ret := make([]Hash, 0, len(pieces)/HashSize)
	for off := 0; off < len(pieces); off += HashSize {
		ret = append(ret, Hash(pieces[off:off+HashSize]))
	}
	return ret, nil
}
