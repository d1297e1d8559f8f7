package metainfo

import (
	"strconv"
	"unicode/utf8"

	"github.com/bencodec/torrent/bencode"
)

// A dictionary being picked apart, remembering where it sits so errors can name the full path to
// a field.
type dict struct {
	bencode.Value
	path string
}

func newDict(v bencode.Value, path string) (dict, error) {
	if v.Kind() != bencode.KindDictionary {
		return dict{}, mismatch(path, bencode.KindDictionary.String())
	}
	return dict{v, path}, nil
}

func (d dict) field(key string) string {
	if d.path == "" {
		return key
	}
	return d.path + "." + key
}

func indexed(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// get fetches key and checks its kind. Absent keys are reported through ok, not err.
func (d dict) get(key string, kind bencode.Kind) (v bencode.Value, ok bool, err error) {
	v, ok = d.Lookup(key)
	if ok && v.Kind() != kind {
		err = mismatch(d.field(key), kind.String())
	}
	return
}

func (d dict) require(key string, kind bencode.Kind) (bencode.Value, error) {
	v, ok, err := d.get(key, kind)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, missing(d.field(key))
	}
	return v, nil
}

func (d dict) requireInt(key string) (int64, error) {
	v, err := d.require(key, bencode.KindInteger)
	i, _ := v.Int()
	return i, err
}

func (d dict) requireBytes(key string) ([]byte, error) {
	v, err := d.require(key, bencode.KindByteString)
	b, _ := v.Bytes()
	return b, err
}

func (d dict) requireText(key string) (string, error) {
	b, err := d.requireBytes(key)
	if err != nil {
		return "", err
	}
	return text(d.field(key), b)
}

// optText returns "" for an absent key.
func (d dict) optText(key string) (string, error) {
	v, ok, err := d.get(key, bencode.KindByteString)
	if !ok || err != nil {
		return "", err
	}
	b, _ := v.Bytes()
	return text(d.field(key), b)
}

func text(field string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", mismatch(field, "UTF-8 text")
	}
	return string(b), nil
}

func raw(field string, b []byte) (string, error) {
	return string(b), nil
}

// Converts a list of byte strings, such as a path or an announce tier, using conv on each element.
func stringList(v bencode.Value, path string, conv func(field string, b []byte) (string, error)) ([]string, error) {
	elems, ok := v.List()
	if !ok {
		return nil, mismatch(path, bencode.KindList.String())
	}
	ret := make([]string, 0, len(elems))
	for i, elem := range elems {
		b, ok := elem.Bytes()
		if !ok {
			return nil, mismatch(indexed(path, i), bencode.KindByteString.String())
		}
		s, err := conv(indexed(path, i), b)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}
