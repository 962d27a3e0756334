package httpx

import "strings"

// Header maps header names to values. Keys are stored as received; the
// case is not normalized, and a repeated key keeps its last value.
type Header map[string]string

// Get returns the value for key. An exact match wins; otherwise any
// case-insensitive match is used.
func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	if v, ok := h[key]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[key] = value
}

func (h Header) Del(key string) {
	if h == nil {
		return
	}
	delete(h, key)
}

// Clone returns a copy of h.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	h2 := make(Header, len(h))
	for k, v := range h {
		h2[k] = v
	}
	return h2
}
