// Package gojson decodes JSON documents into option values with
// goccy/go-json, keeping object keys in document order.
//
// Objects become optgrammar.Map, arrays []any, numbers json.Number (so
// integers survive untouched), and strings, booleans and null their Go
// equivalents.
package gojson

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	og "github.com/reoring/optgrammar"
)

// ErrDuplicateKey is returned when Options.DisallowDuplicateKeys is set and
// an object repeats a key.
var ErrDuplicateKey = errors.New("gojson: duplicate key")

// Options tune decoding.
type Options struct {
	// DisallowDuplicateKeys rejects objects that repeat a key. By default
	// the last value wins and the key keeps its first position.
	DisallowDuplicateKeys bool
}

// Decode decodes a single JSON document.
func Decode(data []byte) (any, error) {
	return DecodeReaderWithOptions(bytes.NewReader(data), Options{})
}

// DecodeReader decodes a single JSON document read from r.
func DecodeReader(r io.Reader) (any, error) {
	return DecodeReaderWithOptions(r, Options{})
}

// DecodeWithOptions is Decode with explicit Options.
func DecodeWithOptions(data []byte, opt Options) (any, error) {
	return DecodeReaderWithOptions(bytes.NewReader(data), opt)
}

// DecodeReaderWithOptions is DecodeReader with explicit Options. Input
// after the first document is an error.
func DecodeReaderWithOptions(r io.Reader, opt Options) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := decoder{dec: dec, opt: opt}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := d.value(tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("gojson: unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

type decoder struct {
	dec *j.Decoder
	opt Options
}

// value builds the value that starts with tok. path is a JSON Pointer used
// in error messages.
func (d decoder) value(tok j.Token, path string) (any, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return d.object(path)
		case '[':
			return d.array(path)
		}
		return nil, fmt.Errorf("gojson: unexpected delimiter %q at %s", rune(t), pointer(path))
	case j.Number:
		return stdjson.Number(string(t)), nil
	case float64:
		return t, nil
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("gojson: unexpected token %T at %s", tok, pointer(path))
}

func (d decoder) object(path string) (any, error) {
	m := og.Map{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("gojson: expected object key at %s, got %v", pointer(path), tok)
		}
		if d.opt.DisallowDuplicateKeys {
			if _, dup := m.Get(key); dup {
				return nil, fmt.Errorf("%w %q at %s", ErrDuplicateKey, key, pointer(path))
			}
		}
		tok, err = d.dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := d.value(tok, path+"/"+pointerEscaper.Replace(key))
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := d.dec.Token(); err != nil { // '}'
		return nil, err
	}
	return m, nil
}

func (d decoder) array(path string) (any, error) {
	out := []any{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := d.value(tok, fmt.Sprintf("%s/%d", path, len(out)))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := d.dec.Token(); err != nil { // ']'
		return nil, err
	}
	return out, nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
