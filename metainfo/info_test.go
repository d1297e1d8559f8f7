package metainfo

import (
	"crypto/sha1"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceHashes(t *testing.T) {
	hashes, err := PieceHashes([]byte(strings.Repeat("a", 20) + strings.Repeat("b", 20)))
	require.NoError(t, err)
	require.Len(t, hashes, 2)
	assert.EqualValues(t, strings.Repeat("a", 20), hashes[0].AsString())
	assert.EqualValues(t, strings.Repeat("b", 20), hashes[1].AsString())

	hashes, err = PieceHashes(nil)
	require.NoError(t, err)
	assert.Empty(t, hashes)

	_, err = PieceHashes(make([]byte, 39))
	assert.ErrorIs(t, err, ErrMalformedPieceTable)
}

func TestFixturePieceHashes(t *testing.T) {
	mi, err := LoadFromFile("testdata/multi.torrent")
	require.NoError(t, err)
	hashes, err := mi.Info.PieceHashes()
	require.NoError(t, err)
	require.Len(t, hashes, 3)
	const piecesHex = "f187cebb22cb0444557b525de5b371e58e7199ef" +
		"b78f576611ec06f96af3ca654c22172a5d746c40" +
		"c5fd961c9f737a955a308050062e7a2c34ee67c3"
	for i, h := range hashes {
		assert.Equal(t, piecesHex[i*40:(i+1)*40], h.HexString())
		assert.Equal(t, h, mi.Info.Piece(i).V1Hash().Unwrap())
	}
}

func TestPieceLengths(t *testing.T) {
	mi, err := LoadFromFile("testdata/multi.torrent")
	require.NoError(t, err)
	info := &mi.Info
	require.Equal(t, 3, info.NumPieces())
	assert.EqualValues(t, 16384, info.Piece(0).Length())
	assert.EqualValues(t, 16384, info.Piece(1).Length())
	assert.EqualValues(t, 40010-2*16384, info.Piece(2).Length())
	assert.EqualValues(t, 2*16384, info.Piece(2).Offset())
	assert.False(t, info.Piece(3).V1Hash().Ok)
	assert.False(t, info.Piece(-1).V1Hash().Ok)
	assert.Panics(t, func() { info.Piece(3).Length() })
	assert.Panics(t, func() { info.Piece(-1).Length() })
}

func TestPieceVerify(t *testing.T) {
	data := []byte("abcdefg")
	h0 := sha1.Sum(data[:4])
	h1 := sha1.Sum(data[4:])
	info := Info{Name: "a", Length: 7, PieceLength: 4, Pieces: append(h0[:], h1[:]...)}
	assert.True(t, info.Piece(0).Verify(data[:4]))
	assert.True(t, info.Piece(1).Verify(data[4:]))
	assert.False(t, info.Piece(1).Verify(data[:4]))
	assert.False(t, info.Piece(2).Verify(nil))
}

func TestSingleFileUpverted(t *testing.T) {
	info := Info{Name: "a", Length: 7, PieceLength: 4, Pieces: make([]byte, 40)}
	files := info.UpvertedFiles()
	require.Len(t, files, 1)
	assert.EqualValues(t, 7, files[0].Length)
	assert.Equal(t, "a", files[0].DisplayPath(&info))
	assert.EqualValues(t, 3, info.Piece(1).Length())
}

func TestBestName(t *testing.T) {
	info := Info{Name: "\xff", NameUtf8: "ok"}
	assert.Equal(t, "ok", info.BestName())
	info.NameUtf8 = ""
	assert.Equal(t, "\xff", info.BestName())
}

func TestNonUtf8NameAccepted(t *testing.T) {
	input := "d8:announce9:http://a/4:infod6:lengthi1e4:name2:\xff\xfe12:piece lengthi1e6:pieces20:" +
		strings.Repeat("z", 20) + "ee"
	mi, err := FromBytes([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "\xff\xfe", mi.Info.Name)
}

func TestAnnounceListOverridesAnnounce(t *testing.T) {
	assert.True(t, (AnnounceList{{"http://a"}}).OverridesAnnounce("http://b"))
	assert.False(t, (AnnounceList{{""}}).OverridesAnnounce("http://b"))
	assert.False(t, AnnounceList(nil).OverridesAnnounce("http://b"))
	assert.Equal(t, []string{"a", "b", "c"}, AnnounceList{{"a", "b"}, {"b", "c"}}.DistinctValues())
}

func TestAnnounceListCloneIsDeep(t *testing.T) {
	al := AnnounceList{{"a"}}
	c := al.Clone()
	c[0][0] = "b"
	assert.Equal(t, "a", al[0][0])
}
