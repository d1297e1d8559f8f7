package main

import (
	"bytes"
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bencodec/torrent/bencode"
	"github.com/bencodec/torrent/metainfo"
)

const pieceLength = 8

func pieces(data []byte) []byte {
	var ret []byte
	for len(data) > 0 {
		n := min(pieceLength, len(data))
		h := sha1.Sum(data[:n])
		ret = append(ret, h[:]...)
		data = data[n:]
	}
	return ret
}

func multiFileInfo(t *testing.T, files map[string][]byte, order []string) *metainfo.Info {
	var all []byte
	var fileValues []bencode.Value
	for _, name := range order {
		all = append(all, files[name]...)
		fileValues = append(fileValues, bencode.NewDict(
			bencode.Entry("length", bencode.NewInt(int64(len(files[name])))),
			bencode.Entry("path", bencode.NewList(bencode.NewString(name))),
		))
	}
	b := bencode.Encode(bencode.NewDict(
		bencode.Entry("announce", bencode.NewString("http://a/")),
		bencode.Entry("info", bencode.NewDict(
			bencode.Entry("name", bencode.NewString("dir")),
			bencode.Entry("files", bencode.NewList(fileValues...)),
			bencode.Entry("piece length", bencode.NewInt(pieceLength)),
			bencode.Entry("pieces", bencode.NewBytes(pieces(all))),
		)),
	))
	mi, err := metainfo.FromBytes(b)
	require.NoError(t, err)
	return &mi.Info
}

func collect(t *testing.T, info *metainfo.Info, dataPath string) (ret []bool) {
	require.NoError(t, verify(info, dataPath, func(i int, good bool) {
		require.Len(t, ret, i)
		ret = append(ret, good)
	}))
	return
}

func TestVerifyMultiFile(t *testing.T) {
	files := map[string][]byte{
		"a": []byte("hello wor"),
		"b": {},
		"c": []byte("ld, and more"),
	}
	order := []string{"a", "b", "c"}
	info := multiFileInfo(t, files, order)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir"), 0o755))
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "dir", name), data, 0o644))
	}
	assert.Equal(t, []bool{true, true, true}, collect(t, info, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir", "c"), []byte("ld, AND more"), 0o644))
	assert.Equal(t, []bool{true, false, true}, collect(t, info, dir))
}

func TestVerifyShortData(t *testing.T) {
	info := multiFileInfo(t, map[string][]byte{"a": []byte("0123456789")}, []string{"a"})
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir", "a"), []byte("0123"), 0o644))
	err := verify(info, dir, func(int, bool) {})
	assert.ErrorContains(t, err, "reading piece 0")
}

func TestVerifyMissingFile(t *testing.T) {
	info := multiFileInfo(t, map[string][]byte{"a": []byte("0123456789")}, []string{"a"})
	err := verify(info, t.TempDir(), func(int, bool) {})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerifyPieceCountMismatch(t *testing.T) {
	mi, err := metainfo.LoadFromFile("../../metainfo/testdata/single.torrent")
	require.NoError(t, err)
	info := mi.Info
	info.Length = 100000
	err = verify(&info, t.TempDir(), func(int, bool) {})
	assert.ErrorContains(t, err, "have 2 piece hashes for 7 pieces")
}

func TestVerifySummary(t *testing.T) {
	var buf bytes.Buffer
	verifySummary(&buf, map[bool][]int{true: {0, 2}, false: {1}})
	assert.Contains(t, buf.String(), "Number of correct pieces: 2\n")
	assert.Contains(t, buf.String(), "Number of wrong pieces: 1\n")
}
