package metainfo

import (
	"bytes"
	"errors"
	"os"
	"path"
	"strings"
	"testing"

	qt "github.com/go-quicktest/qt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bencodec/torrent/bencode"
)

func testFile(t *testing.T, filename string) *MetaInfo {
	mi, err := LoadFromFile(filename)
	require.NoError(t, err)
	info := mi.Info

	if !info.IsDir() {
		t.Logf("Single file: %s (length: %d)\n", info.BestName(), info.Length)
	} else {
		t.Logf("Multiple files: %s\n", info.BestName())
		for _, f := range info.Files {
			t.Logf(" - %s (length: %d)\n", path.Join(f.Path...), f.Length)
		}
	}

	for _, group := range mi.AnnounceList {
		for _, tracker := range group {
			t.Logf("Tracker: %s\n", tracker)
		}
	}

	raw, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, mi.InfoBytes))
	return mi
}

func TestFile(t *testing.T) {
	testFile(t, "testdata/single.torrent")
	testFile(t, "testdata/multi.torrent")
	testFile(t, "testdata/unsorted-info.torrent")
	_, err := LoadFromFile("testdata/minimal-trailing-newline.torrent")
	qt.Check(t, qt.ErrorMatches(err, ".*unused trailing bytes"))
	var trailing bencode.ErrUnusedTrailingBytes
	qt.Check(t, qt.IsTrue(errors.As(err, &trailing)))
}

func TestSingleFile(t *testing.T) {
	mi := testFile(t, "testdata/single.torrent")
	assert.Equal(t, "http://tracker.example.com/announce", mi.Announce)
	assert.EqualValues(t, AnnounceList{
		{"http://tracker.example.com/announce"},
		{"udp://backup.example.org:6969", "http://backup.example.org/announce"},
	}, mi.AnnounceList)
	assert.Equal(t, "single file", mi.Comment)
	assert.Equal(t, "mktorrent 1.1", mi.CreatedBy)
	assert.EqualValues(t, 1700000000, mi.CreationDate.Unix())
	assert.Equal(t, "debian.iso", mi.Info.Name)
	assert.EqualValues(t, 16384, mi.Info.PieceLength)
	assert.EqualValues(t, 20000, mi.Info.Length)
	assert.Nil(t, mi.Info.Files)
	assert.Nil(t, mi.Info.Private)
	assert.False(t, mi.Info.IsDir())
	assert.EqualValues(t, 20000, mi.Info.TotalLength())
	assert.Equal(t, 2, mi.Info.NumPieces())
	assert.Equal(t, "c27674b5dedddb6286686cb9bb03bfc2aacd50fd", mi.HashInfoBytes().HexString())
}

func TestMultiFile(t *testing.T) {
	mi := testFile(t, "testdata/multi.torrent")
	info := mi.Info
	assert.True(t, info.IsDir())
	assert.True(t, info.IsPrivate())
	require.Len(t, info.Files, 2)
	assert.EqualValues(t, []string{"sub", "b.bin"}, info.Files[1].Path)
	assert.EqualValues(t, 40010, info.TotalLength())
	files := info.UpvertedFiles()
	assert.EqualValues(t, 10, files[1].TorrentOffset)
	assert.Equal(t, "sub/b.bin", files[1].DisplayPath(&info))
	assert.EqualValues(t, UrlList{"http://seed1.example.com/", "http://seed2.example.com/"}, mi.UrlList)
	assert.Nil(t, mi.AnnounceList)
	assert.EqualValues(t, AnnounceList{{"http://tracker.example.com/announce"}}, mi.UpvertedAnnounceList())
	assert.Equal(t, "1122c62e4580bb5cc4d5b2f6cc2253ebda64d1c8", mi.HashInfoBytes().HexString())
}

// Documents that differ only outside the info dictionary have the same info hash.
func TestInfoHashIgnoresOuterDocument(t *testing.T) {
	a := testFile(t, "testdata/single.torrent")
	b := testFile(t, "testdata/single-reordered.torrent")
	assert.NotEqual(t, a.Announce, b.Announce)
	assert.Equal(t, a.HashInfoBytes(), b.HashInfoBytes())
}

// The hash is taken over the info dictionary as it appears in the file. Re-encoding would sort the
// keys and give a different answer.
func TestInfoHashUsesSourceBytes(t *testing.T) {
	mi := testFile(t, "testdata/unsorted-info.torrent")
	assert.Equal(t, "4b3f3128d01a1e4b7431c13281dedaf8ec8fa6fd", mi.HashInfoBytes().HexString())

	v, err := bencode.DecodeAll(mi.InfoBytes)
	require.NoError(t, err)
	reencoded := bencode.Encode(v)
	assert.NotEqual(t, mi.InfoBytes, reencoded)
	assert.Equal(t, "c27674b5dedddb6286686cb9bb03bfc2aacd50fd", HashBytes(reencoded).HexString())
}

func TestLoadFromReader(t *testing.T) {
	f, err := os.Open("testdata/single.torrent")
	require.NoError(t, err)
	defer f.Close()
	mi, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, "debian.iso", mi.Info.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile("testdata/nope.torrent")
	assert.True(t, os.IsNotExist(err))
}

var (
	twoPieces   = strings.Repeat("a", 20) + strings.Repeat("b", 20)
	validInfo   = "d6:lengthi5e4:name1:a12:piece lengthi4e6:pieces40:" + twoPieces + "e"
	validPrefix = "d8:announce9:http://a/4:info"
)

func testExtractError(t *testing.T, input string, kind error, field string) {
	t.Helper()
	_, err := FromBytes([]byte(input))
	require.Error(t, err, input)
	assert.ErrorIs(t, err, kind, input)
	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve), "%q: %v", input, err) {
		assert.Equal(t, field, ve.Field, input)
	}
}

func TestExtractErrors(t *testing.T) {
	testExtractError(t, "le", ErrTypeMismatch, "")
	testExtractError(t, "d4:info"+validInfo+"e", ErrMissingField, "announce")
	testExtractError(t, "d8:announcei1e4:info"+validInfo+"e", ErrTypeMismatch, "announce")
	testExtractError(t, "d8:announce2:\xff\xfe4:info"+validInfo+"e", ErrTypeMismatch, "announce")
	testExtractError(t, "d8:announce9:http://a/e", ErrMissingField, "info")
	testExtractError(t, validPrefix+"le"+"e", ErrTypeMismatch, "info")
	testExtractError(t, "d8:announce9:http://a/13:announce-listl3:urle4:info"+validInfo+"e",
		ErrTypeMismatch, "announce-list[0]")
	testExtractError(t, "d8:announce9:http://a/13:announce-listlli1eee4:info"+validInfo+"e",
		ErrTypeMismatch, "announce-list[0][0]")
	testExtractError(t, validPrefix+"d6:lengthi5e12:piece lengthi4e6:pieces0:ee",
		ErrMissingField, "info.name")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a6:pieces0:ee",
		ErrMissingField, "info.piece length")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a12:piece length1:46:pieces0:ee",
		ErrTypeMismatch, "info.piece length")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a12:piece lengthi0e6:pieces0:ee",
		ErrInvalidValue, "info.piece length")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a12:piece lengthi4eee",
		ErrMissingField, "info.pieces")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a12:piece lengthi4e6:pieces39:"+twoPieces[:39]+"ee",
		ErrInvalidPieceTableLength, "info.pieces")
	testExtractError(t, validPrefix+"d4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrConflictingFileMode, "info")
	testExtractError(t, validPrefix+"d5:filesle6:lengthi5e4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrConflictingFileMode, "info")
	testExtractError(t, validPrefix+"d6:lengthi-1e4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrInvalidValue, "info.length")
	testExtractError(t, validPrefix+"d5:filesli1ee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrTypeMismatch, "info.files[0]")
	testExtractError(t, validPrefix+"d5:filesld4:pathl1:aeee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrMissingField, "info.files[0].length")
	testExtractError(t, validPrefix+"d5:filesld6:lengthi1eee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrMissingField, "info.files[0].path")
	testExtractError(t, validPrefix+"d5:filesld6:lengthi1e4:pathleee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrInvalidValue, "info.files[0].path")
	testExtractError(t, validPrefix+"d5:filesld6:lengthi1e4:pathli1eeee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrTypeMismatch, "info.files[0].path[0]")
	testExtractError(t, validPrefix+"d5:filesld6:lengthi1e4:pathl1:ae10:path.utf-81:aee4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrTypeMismatch, "info.files[0].path.utf-8")
	testExtractError(t, validPrefix+"d5:filesle4:name1:a12:piece lengthi4e6:pieces0:ee",
		ErrInvalidValue, "info.files")
	testExtractError(t, validPrefix+"d6:lengthi5e4:name1:a12:piece lengthi4e6:pieces0:7:private3:yese",
		ErrTypeMismatch, "info.private")
}

func TestExtractDecodeErrorPassesThrough(t *testing.T) {
	_, err := FromBytes([]byte("d8:announce9:http://a/4:infod"))
	assert.ErrorIs(t, err, bencode.ErrUnterminatedContainer)
	var se *bencode.SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := FromBytes([]byte(validPrefix + "d6:lengthi5e4:name1:a12:piece length1:46:pieces0:ee"))
	assert.EqualError(t, err, "metainfo: info.piece length: type mismatch: expected integer")
}

func TestExtractMinimal(t *testing.T) {
	mi, err := FromBytes([]byte(validPrefix + validInfo + "e"))
	require.NoError(t, err)
	assert.EqualValues(t, validInfo, mi.InfoBytes)
	assert.Equal(t, HashBytes([]byte(validInfo)), mi.HashInfoBytes())
	assert.Equal(t, 2, mi.Info.NumPieces())
}

// Some tools write creation date as a formatted string. It is ignored rather than rejected.
func TestStringCreationDate(t *testing.T) {
	mi, err := FromBytes([]byte("d8:announce9:http://a/13:creation date23:29.03.2018 22:18:14 UTC4:info" + validInfo + "e"))
	require.NoError(t, err)
	assert.True(t, mi.CreationDate.IsZero())
	mi, err = FromBytes([]byte("d8:announce9:http://a/13:creation dateli1ee4:info" + validInfo + "e"))
	require.NoError(t, err)
	assert.True(t, mi.CreationDate.IsZero())
}

func TestPrivate(t *testing.T) {
	for _, test := range []struct {
		private string
		want    bool
	}{
		{"i1e", true},
		{"i0e", false},
	} {
		mi, err := FromBytes([]byte(validPrefix +
			"d6:lengthi5e4:name1:a12:piece lengthi4e6:pieces0:7:private" + test.private + "ee"))
		require.NoError(t, err, test.private)
		if assert.NotNil(t, mi.Info.Private, test.private) {
			assert.Equal(t, test.want, *mi.Info.Private)
		}
	}
}

func TestFlatUrlList(t *testing.T) {
	mi, err := FromBytes([]byte("d8:announce9:http://a/4:info" + validInfo + "8:url-list20:https://archive.org/e"))
	require.NoError(t, err)
	assert.EqualValues(t, UrlList{"https://archive.org/"}, mi.UrlList)
	_, err = FromBytes([]byte("d8:announce9:http://a/4:info" + validInfo + "8:url-listi1ee"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFromValueNeedsDecodedInfo(t *testing.T) {
	v := bencode.NewDict(
		bencode.Entry("announce", bencode.NewString("http://a/")),
		bencode.Entry("info", bencode.NewDict(
			bencode.Entry("length", bencode.NewInt(1)),
			bencode.Entry("name", bencode.NewString("a")),
			bencode.Entry("piece length", bencode.NewInt(1)),
			bencode.Entry("pieces", bencode.NewString(strings.Repeat("x", 20))),
		)),
	)
	_, err := FromValue(v)
	assert.ErrorIs(t, err, ErrInvalidValue)

	mi, err := FromBytes(bencode.Encode(v))
	require.NoError(t, err)
	assert.EqualValues(t, 1, mi.Info.Length)
}
