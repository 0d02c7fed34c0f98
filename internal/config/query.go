package config

import (
	"net/url"
	"strings"
	"sync"
)

// arrayMarker marks a query key whose values accumulate into a list.
const arrayMarker = "[]"

// Value is a parsed query parameter: a single string, or a list for keys ending in "[]".
type Value struct {
	values  []string
	list    bool
	defined bool
}

// String returns the single value. ok is false when the segment had no "=".
// For list values it returns the first element.
func (v Value) String() (string, bool) {
	if !v.defined || len(v.values) == 0 {
		return "", false
	}
	return v.values[0], true
}

// Strings returns the value as a list: lists as-is, defined singles as one element.
func (v Value) Strings() []string {
	if !v.defined {
		return nil
	}
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

// isList reports whether the key carried the array marker.
func (v Value) isList() bool {
	return v.list
}

// Params maps parameter names to values, remembering first-occurrence key order.
type Params struct {
	keys   []string
	values map[string]Value
}

// Get returns the value for name.
func (p Params) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Lookup returns the single string for name, if defined.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p.values[name]
	if !ok {
		return "", false
	}
	return v.String()
}

// Keys returns parameter names in first-occurrence order.
func (p Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of distinct parameter names.
func (p Params) Len() int {
	return len(p.keys)
}

func (p *Params) set(key string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// ParseQuery parses a raw query string such as "?a=1&b[]=2&b[]=3".
// It never fails: segments without "=" yield an undefined value.
func ParseQuery(raw string) Params {
	var params Params

	raw = strings.TrimPrefix(raw, "?")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return params
	}

	for _, segment := range strings.Split(raw, "&") {
		parts := strings.Split(segment, "=")
		key := unescape(parts[0])
		val := ""
		defined := len(parts) > 1
		if defined {
			val = unescape(parts[1])
		}

		if name, ok := strings.CutSuffix(key, arrayMarker); ok {
			current := params.values[name]
			if !current.isList() {
				current = Value{list: true, defined: true}
			}
			if defined {
				current.values = append(current.values, val)
			}
			params.set(name, current)
			continue
		}

		v := Value{defined: defined}
		if defined {
			v.values = []string{val}
		}
		params.set(key, v)
	}

	return params
}

func unescape(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}

// BuildQueryString encodes params as "?k=v&...", or "" when empty.
func BuildQueryString(params url.Values) string {
	encoded := params.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// Query lazily parses a raw query string once and caches the result.
type Query struct {
	raw    string
	once   sync.Once
	params Params
}

// NewQuery creates a query for raw; parsing happens on first use.
func NewQuery(raw string) *Query {
	return &Query{raw: raw}
}

// Params returns the parsed parameters, parsing on first call.
func (q *Query) Params() Params {
	q.once.Do(func() {
		q.params = ParseQuery(q.raw)
	})
	return q.params
}

// Get returns the single string value for name.
func (q *Query) Get(name string) (string, bool) {
	return q.Params().Lookup(name)
}
