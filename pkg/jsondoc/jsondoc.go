// Package jsondoc provides typed, read-only access to a parsed JSON document.
//
// Lookups distinguish three outcomes: the key is absent (or JSON null), the
// key holds a value of the requested type, or the key holds a value of some
// other type. Values are never coerced between types, and integers are read
// from their literal token so fractions and out-of-range numbers are reported
// as mismatches rather than rounded.
package jsondoc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalid is returned when the input is not well-formed JSON.
	ErrInvalid = errors.New("invalid JSON document")

	// ErrNotObject is returned when the top-level value is not an object.
	ErrNotObject = errors.New("top-level JSON value is not an object")
)

// TypeError reports a value whose JSON type does not match the requested one.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: want %s, got %s", e.Path, e.Want, e.Got)
}

// Object is a JSON object node.
type Object struct {
	res  gjson.Result
	path string
}

// Array is a JSON array node.
type Array struct {
	items []gjson.Result
	path  string
}

// Value is a single JSON value at a known path.
type Value struct {
	res  gjson.Result
	path string
}

// Parse validates data and returns its top-level object.
func Parse(data []byte) (Object, error) {
	if !gjson.ValidBytes(data) {
		return Object{}, ErrInvalid
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return Object{}, fmt.Errorf("%w: got %s", ErrNotObject, kindOf(res))
	}
	return Object{res: res}, nil
}

// Path returns the dotted key path of the object, empty for the root.
func (o Object) Path() string {
	return o.path
}

// Has reports whether key is present with a non-null value.
func (o Object) Has(key string) bool {
	res, ok := o.lookup(key)
	return ok && res.Type != gjson.Null
}

// Object returns the nested object at key. ok is false when the key is
// absent or null.
func (o Object) Object(key string) (Object, bool, error) {
	res, path, ok := o.child(key)
	if !ok {
		return Object{}, false, nil
	}
	if !res.IsObject() {
		return Object{}, false, &TypeError{Path: path, Want: "object", Got: kindOf(res)}
	}
	return Object{res: res, path: path}, true, nil
}

// Array returns the array at key. ok is false when the key is absent or null.
func (o Object) Array(key string) (Array, bool, error) {
	res, path, ok := o.child(key)
	if !ok {
		return Array{}, false, nil
	}
	if !res.IsArray() {
		return Array{}, false, &TypeError{Path: path, Want: "array", Got: kindOf(res)}
	}
	return Array{items: res.Array(), path: path}, true, nil
}

// Int64 returns the integer at key. ok is false when the key is absent or null.
func (o Object) Int64(key string) (int64, bool, error) {
	res, path, ok := o.child(key)
	if !ok {
		return 0, false, nil
	}
	if res.Type != gjson.Number {
		return 0, false, &TypeError{Path: path, Want: "integer", Got: kindOf(res)}
	}
	n, err := strconv.ParseInt(res.Raw, 10, 64)
	if err != nil {
		return 0, false, &TypeError{Path: path, Want: "integer", Got: "number " + res.Raw}
	}
	return n, true, nil
}

// Uint64 returns the unsigned integer at key. ok is false when the key is absent or null.
func (o Object) Uint64(key string) (uint64, bool, error) {
	res, path, ok := o.child(key)
	if !ok {
		return 0, false, nil
	}
	if res.Type != gjson.Number {
		return 0, false, &TypeError{Path: path, Want: "unsigned integer", Got: kindOf(res)}
	}
	n, err := strconv.ParseUint(res.Raw, 10, 64)
	if err != nil {
		return 0, false, &TypeError{Path: path, Want: "unsigned integer", Got: "number " + res.Raw}
	}
	return n, true, nil
}

// String returns the string at key. ok is false when the key is absent or null.
func (o Object) String(key string) (string, bool, error) {
	res, path, ok := o.child(key)
	if !ok {
		return "", false, nil
	}
	return Value{res: res, path: path}.stringValue()
}

// child looks up key, treating JSON null as absent.
func (o Object) child(key string) (gjson.Result, string, bool) {
	res, ok := o.lookup(key)
	if !ok || res.Type == gjson.Null {
		return gjson.Result{}, "", false
	}
	return res, joinPath(o.path, key), true
}

// lookup compares keys literally, so names containing gjson path syntax are
// matched as written. The first occurrence wins for duplicate keys.
func (o Object) lookup(key string) (gjson.Result, bool) {
	var found gjson.Result
	var ok bool
	o.res.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// Path returns the dotted key path of the array.
func (a Array) Path() string {
	return a.path
}

// Len returns the number of elements.
func (a Array) Len() int {
	return len(a.items)
}

// Each calls fn for every element in order and stops at the first error.
func (a Array) Each(fn func(i int, v Value) error) error {
	for i, item := range a.items {
		if err := fn(i, Value{res: item, path: fmt.Sprintf("%s[%d]", a.path, i)}); err != nil {
			return err
		}
	}
	return nil
}

// Strings returns every element as a string, failing on the first non-string.
func (a Array) Strings() ([]string, error) {
	out := make([]string, 0, len(a.items))
	err := a.Each(func(_ int, v Value) error {
		s, err := v.String()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Path returns the key path of the value, with array indexes.
func (v Value) Path() string {
	return v.path
}

// String returns the value as a string without coercion.
func (v Value) String() (string, error) {
	s, _, err := v.stringValue()
	return s, err
}

func (v Value) stringValue() (string, bool, error) {
	if v.res.Type != gjson.String {
		return "", false, &TypeError{Path: v.path, Want: "string", Got: kindOf(v.res)}
	}
	return v.res.Str, true, nil
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func kindOf(res gjson.Result) string {
	switch res.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.JSON:
		if res.IsArray() {
			return "array"
		}
		return "object"
	default:
		return "unknown"
	}
}
