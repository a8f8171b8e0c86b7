package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotArray and ErrNotObject report a payload of the wrong JSON shape.
var (
	ErrNotArray  = errors.New("expected a JSON array")
	ErrNotObject = errors.New("expected a JSON object")
)

// RawObject is a loosely typed client object. Clients send numbers as
// strings and vice versa, and some fields under several names, so values are
// read through the accessors below.
type RawObject map[string]any

// decodeLoose decodes raw, unwrapping one level of JSON-in-a-string.
func decodeLoose(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return decodeLoose([]byte(s))
	}
	return v, nil
}

// ParseRawArray accepts a JSON array of objects or a JSON string containing
// one. An empty payload yields a nil slice.
func ParseRawArray(raw []byte) ([]RawObject, error) {
	v, err := decodeLoose(raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	out := make([]RawObject, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, ErrNotObject)
		}
		out = append(out, RawObject(obj))
	}
	return out, nil
}

// ParseRawObject accepts a JSON object or a JSON string containing one. An
// empty payload yields an empty object.
func ParseRawObject(raw []byte) (RawObject, error) {
	v, err := decodeLoose(raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return RawObject{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return RawObject(obj), nil
}

// ParseStringList accepts a JSON array of strings, a JSON string holding
// one, or a single bare path.
func ParseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") && !strings.HasPrefix(raw, `"`) {
		return []string{raw}, nil
	}
	v, err := decodeLoose([]byte(raw))
	if err != nil {
		return nil, err
	}
	return toStringSlice(v)
}

// IsEmpty reports an object without keys.
func (o RawObject) IsEmpty() bool {
	return len(o) == 0
}

// Has reports whether any of keys is present, even with a null value.
func (o RawObject) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := o[k]; ok {
			return true
		}
	}
	return false
}

// String returns the first non-blank value among keys as trimmed text.
func (o RawObject) String(keys ...string) *string {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return &s
		}
	}
	return nil
}

// Int64 returns the first value among keys that parses as an integer.
// Present but unparsable values are an error.
func (o RawObject) Int64(keys ...string) (*int64, error) {
	for _, k := range keys {
		s := o.String(k)
		if s == nil {
			continue
		}
		n, err := strconv.ParseInt(*s, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(*s, 64)
			if ferr != nil || f != float64(int64(f)) {
				return nil, fmt.Errorf("%s must be an integer", k)
			}
			n = int64(f)
		}
		return &n, nil
	}
	return nil, nil
}

// StringSlice reads a list of strings stored under key, either as an array
// or as a JSON-encoded string.
func (o RawObject) StringSlice(key string) ([]string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		list, err := ParseStringList(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return list, nil
	}
	list, err := toStringSlice(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return list, nil
}

// Object returns the nested object under key, decoding JSON strings.
func (o RawObject) Object(key string) (RawObject, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case map[string]any:
		return RawObject(t), nil
	case string:
		return ParseRawObject([]byte(t))
	}
	return nil, fmt.Errorf("%s: %w", key, ErrNotObject)
}

func toStringSlice(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case json.Number:
			out = append(out, t.String())
		default:
			return nil, fmt.Errorf("unexpected list element %v", item)
		}
	}
	return out, nil
}

// RawObjectFromForm turns form values into a RawObject, keeping the first
// value of each key.
func RawObjectFromForm(values map[string][]string) RawObject {
	obj := make(RawObject, len(values))
	for k, v := range values {
		if len(v) > 0 {
			obj[k] = v[0]
		}
	}
	return obj
}
