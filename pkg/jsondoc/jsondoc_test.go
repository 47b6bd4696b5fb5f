package jsondoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty object", input: `{}`},
		{name: "whitespace around object", input: "  {\"a\":1}\n"},
		{name: "empty input", input: ``, wantErr: ErrInvalid},
		{name: "truncated", input: `{"Config": {`, wantErr: ErrInvalid},
		{name: "trailing garbage", input: `{} x`, wantErr: ErrInvalid},
		{name: "array top level", input: `[1,2]`, wantErr: ErrNotObject},
		{name: "string top level", input: `"hello"`, wantErr: ErrNotObject},
		{name: "null top level", input: `null`, wantErr: ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestObject_Object(t *testing.T) {
	root, err := Parse([]byte(`{"HostConfig": {"Memory": 1}, "Config": null, "Bad": 3}`))
	require.NoError(t, err)

	host, ok, err := root.Object("HostConfig")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "HostConfig", host.Path())

	_, ok, err = root.Object("Config")
	assert.NoError(t, err)
	assert.False(t, ok, "null is treated as absent")

	_, ok, err = root.Object("Missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = root.Object("Bad")
	assert.False(t, ok)
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "Bad", typeErr.Path)
	assert.Equal(t, "object", typeErr.Want)
	assert.Equal(t, "number", typeErr.Got)
}

func TestObject_Int64(t *testing.T) {
	root, err := Parse([]byte(`{"H": {
		"Int": 2000000000,
		"Neg": -5,
		"Frac": 1.5,
		"Exp": 1e9,
		"Huge": 99999999999999999999,
		"Str": "2",
		"Null": null
	}}`))
	require.NoError(t, err)
	h, _, err := root.Object("H")
	require.NoError(t, err)

	n, ok, err := h.Int64("Int")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2000000000), n)

	n, ok, err = h.Int64("Neg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-5), n)

	for _, key := range []string{"Frac", "Exp", "Huge", "Str"} {
		_, ok, err = h.Int64(key)
		assert.False(t, ok, key)
		var typeErr *TypeError
		assert.True(t, errors.As(err, &typeErr), key)
		assert.Equal(t, "H."+key, typeErr.Path)
	}

	_, ok, err = h.Int64("Null")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = h.Int64("Absent")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestObject_Uint64(t *testing.T) {
	root, err := Parse([]byte(`{"Max": 18446744073709551615, "Neg": -1, "Bool": true}`))
	require.NoError(t, err)

	n, ok, err := root.Uint64("Max")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(18446744073709551615), n)

	_, _, err = root.Uint64("Neg")
	assert.Error(t, err)

	_, _, err = root.Uint64("Bool")
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "boolean", typeErr.Got)
}

func TestObject_LiteralKeys(t *testing.T) {
	root, err := Parse([]byte(`{"a.b": "dotted", "a": {"b": "nested"}, "dup": "first", "dup": "second"}`))
	require.NoError(t, err)

	s, ok, err := root.String("a.b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dotted", s)

	s, _, err = root.String("dup")
	require.NoError(t, err)
	assert.Equal(t, "first", s)

	assert.True(t, root.Has("a"))
	assert.False(t, root.Has("b"))
}

func TestArray(t *testing.T) {
	root, err := Parse([]byte(`{"Cmd": ["-c", "echo \"hi\""], "Mixed": ["a", 1], "Str": "x", "Empty": []}`))
	require.NoError(t, err)

	cmd, ok, err := root.Array("Cmd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, cmd.Len())
	items, err := cmd.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", `echo "hi"`}, items)

	mixed, _, err := root.Array("Mixed")
	require.NoError(t, err)
	_, err = mixed.Strings()
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "Mixed[1]", typeErr.Path)

	_, ok, err = root.Array("Str")
	assert.False(t, ok)
	assert.Error(t, err)

	empty, ok, err := root.Array("Empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, empty.Len())

	var seen []int
	stop := errors.New("stop")
	err = cmd.Each(func(i int, _ Value) error {
		seen = append(seen, i)
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0}, seen)
}
