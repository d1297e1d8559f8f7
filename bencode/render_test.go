package bencode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	for _, test := range []struct {
		data     string
		rendered string
	}{
		{"i52e", "52"},
		{"i-52e", "-52"},
		{"4:spam", `"spam"`},
		{"0:", `""`},
		{"l4:spam4:eggse", `["spam","eggs"]`},
		{"le", `[]`},
		{"d3:cow3:moo4:spam4:eggse", `{"cow":"moo","spam":"eggs"}`},
		{"d4:spam4:eggs3:cow3:mooe", `{"cow":"moo","spam":"eggs"}`},
		{"d4:listli1ei2eee", `{"list":[1,2]}`},
		{"3:a\"b", `"a\"b"`},
		// Not text. Shown escaped rather than mangled.
		{"2:\xff\x00", `"\xff\x00"`},
	} {
		v, err := DecodeAll([]byte(test.data))
		require.NoError(t, err, test.data)
		assert.Equal(t, test.rendered, RenderString(v), test.data)
	}
}

func TestRenderToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewList(NewInt(1), NewString("x"))))
	assert.Equal(t, `[1,"x"]`, buf.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dictionary", KindDictionary.String())
	assert.Equal(t, "Kind(0)", KindInvalid.String())
}
