package fetchx

import (
	"strings"

	"dqx0.com/go/webclient/fetchx/internal/http1"
)

// Suppress is a sentinel header value: setting a header to Suppress
// omits it, including any engine default, from the wire entirely.
// Content-Length and Connection are always written by the engine;
// caller values for them, Suppress included, are ignored.
const Suppress = http1.Suppress

// Header holds request and response headers with lowercase keys.
// Repeated names collapse into one comma-joined value in received
// order, so a Header is a plain map rather than a multimap.
type Header map[string]string

func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[strings.ToLower(key)]
}

func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[strings.ToLower(key)] = value
}

// Add appends value to any existing value for key, joining with ",".
func (h Header) Add(key, value string) {
	if h == nil {
		return
	}
	k := strings.ToLower(key)
	if prev, ok := h[k]; ok {
		h[k] = prev + "," + value
		return
	}
	h[k] = value
}

func (h Header) Del(key string) {
	if h == nil {
		return
	}
	delete(h, strings.ToLower(key))
}

func (h Header) clone() Header {
	if h == nil {
		return Header{}
	}
	c := make(Header, len(h))
	for k, v := range h {
		c[strings.ToLower(k)] = v
	}
	return c
}
