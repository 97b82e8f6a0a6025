package optgrammar

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/reoring/optgrammar/codec"
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an insertion-ordered mapping. It is the value type to use when
// the order of the produced Params matters; the decoders under source/
// produce Maps for every object they read.
type Map []Entry

// NewMap builds a Map from alternating keys and values. It panics when
// given an odd number of arguments or a non-string key.
func NewMap(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic("optgrammar.NewMap: odd number of arguments")
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("optgrammar.NewMap: key %v is not a string", kv[i]))
		}
		m.Set(k, kv[i+1])
	}
	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. An existing key keeps its position.
func (m *Map) Set(key string, v any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = v
			return
		}
	}
	*m = append(*m, Entry{Key: key, Value: v})
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Key
	}
	return out
}

// entries returns the pairs of a mapping value in iteration order. Go maps
// have no order of their own and are walked by sorted key.
func entries(v any) ([]Entry, bool) {
	switch t := v.(type) {
	case Map:
		return t, true
	case *Map:
		if t == nil {
			return nil, false
		}
		return *t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, Entry{Key: stringify(iter.Key().Interface()), Value: iter.Value().Interface()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, true
}

func hasKey(es []Entry, key string) bool {
	for _, e := range es {
		if e.Key == key {
			return true
		}
	}
	return false
}

// elements returns the members of a sequence value. []byte is a scalar and
// a Map is a mapping, so neither counts.
func elements(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []byte, Map, *Map:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

func isStringLike(v any) bool {
	switch v.(type) {
	case nil, json.Number:
		return false
	case []byte:
		return true
	}
	return reflect.TypeOf(v).Kind() == reflect.String
}

func isInteger(v any) bool {
	if n, ok := v.(json.Number); ok {
		_, err := n.Float64()
		return err == nil
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isBoolean(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Bool
}

func bytesOf(v any) []byte {
	if b, ok := v.([]byte); ok {
		return b
	}
	return []byte(stringify(v))
}

// stringify is the generic string conversion used for scalar wire values.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case time.Time:
		return codec.FormatTimestamp(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return codec.FormatTimestamp(*t)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
