package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/xerrors"

	"github.com/bencodec/torrent/bencode"
)

type DecodeCmd struct {
	Value string `arg:"positional,required" help:"a single bencoded value, such as 5:hello"`
}

func decodeErr(cmd DecodeCmd, w io.Writer) error {
	v, err := bencode.DecodeAll([]byte(cmd.Value))
	if err != nil {
		return xerrors.Errorf("decoding %q: %w", cmd.Value, err)
	}
	if err := bencode.Render(w, v); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// Converts to plain Go values, which spew shows far more readably than Value's internals.
func plainValue(v bencode.Value) interface{} {
	switch v.Kind() {
	case bencode.KindInteger:
		i, _ := v.Int()
		return i
	case bencode.KindByteString:
		b, _ := v.Bytes()
		return string(b)
	case bencode.KindList:
		elems, _ := v.List()
		ret := make([]interface{}, 0, len(elems))
		for _, elem := range elems {
			ret = append(ret, plainValue(elem))
		}
		return ret
	case bencode.KindDictionary:
		entries, _ := v.Dict()
		ret := make(map[string]interface{}, len(entries))
		for _, e := range entries {
			ret[string(e.Key)] = plainValue(e.Value)
		}
		return ret
	default:
		return nil
	}
}

// Dumps every value in a stream of concatenated bencoded values.
func spewBencodingErr(r io.Reader, w io.Writer) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d := bencode.NewDecoder(b)
	for i := 0; ; i++ {
		v, err := d.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding message index %d: %w", i, err)
		}
		spew.Fdump(w, plainValue(v))
	}
	return nil
}
