package http1

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Suppress is a sentinel header value: mapping a header name to
// Suppress omits that header (including any engine default) from the
// wire entirely. Content-Length and Connection are always written by
// the engine; caller values for them, Suppress included, are ignored.
const Suppress = "\x00suppress"

var ErrBadHeader = errors.New("http1: unsafe header field")

// Wire describes one serialized request head plus its body.
type Wire struct {
	Method    string
	Path      string            // origin-form, or absolute-form through a plain proxy
	Host      string            // Host header value; empty suppresses the header
	Header    map[string]string // caller headers, lowercase keys
	Body      []byte
	ForceLen  bool // emit Content-Length even for an empty body (POST/PUT/PATCH)
	KeepAlive bool
	Cookie    string // preassembled Cookie value, empty for none
	UserAgent string
	Referer   string // default Referer (redirect hops); a caller value wins
}

// WriteRequest serializes w and its body. Engine-controlled headers come
// first, caller headers last. Flushing is left to the caller.
func WriteRequest(bw *bufio.Writer, w *Wire) error {
	if _, err := fmt.Fprintf(bw, "%s %s HTTP/1.1\r\n", w.Method, w.Path); err != nil {
		return err
	}
	if w.Host != "" {
		if _, err := fmt.Fprintf(bw, "Host: %s\r\n", w.Host); err != nil {
			return err
		}
	}
	if len(w.Body) > 0 || w.ForceLen {
		if _, err := fmt.Fprintf(bw, "Content-Length: %d\r\n", len(w.Body)); err != nil {
			return err
		}
	}
	conn := "close"
	if w.KeepAlive {
		conn = "keep-alive"
	}
	if _, err := fmt.Fprintf(bw, "Connection: %s\r\n", conn); err != nil {
		return err
	}
	if w.Cookie != "" {
		if !httpguts.ValidHeaderFieldValue(w.Cookie) {
			return ErrBadHeader
		}
		if _, err := fmt.Fprintf(bw, "Cookie: %s\r\n", w.Cookie); err != nil {
			return err
		}
	}
	if err := writeDefault(bw, w.Header, "user-agent", w.UserAgent); err != nil {
		return err
	}
	if err := writeDefault(bw, w.Header, "referer", w.Referer); err != nil {
		return err
	}
	if err := writeDefault(bw, w.Header, "te", "trailers"); err != nil {
		return err
	}
	for k, v := range w.Header {
		switch k {
		case "host", "content-length", "connection", "cookie", "user-agent", "referer", "te":
			continue // engine-controlled, handled above
		}
		if v == Suppress {
			continue
		}
		if !httpguts.ValidHeaderFieldName(k) || !httpguts.ValidHeaderFieldValue(v) {
			return ErrBadHeader
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", canonicalHeaderKey(k), v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(bw, "\r\n"); err != nil {
		return err
	}
	if len(w.Body) > 0 {
		if _, err := bw.Write(w.Body); err != nil {
			return err
		}
	}
	return nil
}

// writeDefault emits an engine default header unless the caller overrode
// it (the caller's value is written instead) or suppressed it.
func writeDefault(bw *bufio.Writer, hdr map[string]string, name, def string) error {
	if v, ok := hdr[name]; ok {
		if v == Suppress {
			return nil
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return ErrBadHeader
		}
		def = v
	}
	if def == "" {
		return nil
	}
	key := canonicalHeaderKey(name)
	if name == "te" {
		key = "TE"
	}
	_, err := fmt.Fprintf(bw, "%s: %s\r\n", key, def)
	return err
}

// canonicalHeaderKey upper-cases the first letter of each "-"-separated
// word and lower-cases the rest, the textproto canonical form, written
// out here to avoid importing textproto.
func canonicalHeaderKey(s string) string {
	b := []byte(strings.ToLower(s))
	upper := true
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			if upper {
				b[i] = byte(c - 'a' + 'A')
			}
			upper = false
			continue
		}
		upper = c == '-'
	}
	return string(b)
}
