package http1

import (
	"bufio"
	"errors"
	"strings"
)

var (
	ErrMalformedStatus = errors.New("http1: malformed status line")
	ErrMalformedHeader = errors.New("http1: malformed header")
	ErrLineTooLong     = errors.New("http1: line too long")
)

// ReadStatusLine parses "HTTP/<major.minor> <code> <reason>". The reason
// phrase may be empty. version carries only the digits, e.g. "1.1".
func ReadStatusLine(br *bufio.Reader, limit int) (version string, code int, reason string, err error) {
	line, err := ReadLine(br, limit)
	if err != nil {
		return "", 0, "", err
	}
	proto, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") || !validVersion(proto[5:]) {
		return "", 0, "", ErrMalformedStatus
	}
	st, reason, _ := strings.Cut(rest, " ")
	if len(st) != 3 {
		return "", 0, "", ErrMalformedStatus
	}
	for i := 0; i < 3; i++ {
		d := st[i]
		if d < '0' || d > '9' {
			return "", 0, "", ErrMalformedStatus
		}
		code = code*10 + int(d-'0')
	}
	return proto[5:], code, reason, nil
}

func validVersion(v string) bool {
	dot := strings.IndexByte(v, '.')
	if dot <= 0 || dot == len(v)-1 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if i == dot {
			continue
		}
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// HeaderBlock is one parsed header (or trailer) block. Fields holds
// lowercase keys with duplicates comma-joined; SetCookies preserves the
// raw Set-Cookie values, which cannot survive comma-joining because
// cookie expiry dates contain commas themselves.
type HeaderBlock struct {
	Fields     map[string]string
	SetCookies []string
}

// ReadHeaders reads one header block up to the blank line. Keys are
// lowercased; a repeated name joins values with "," in received order;
// an obs-fold continuation line appends to the prior value with a
// single space.
func ReadHeaders(br *bufio.Reader, limit int) (*HeaderBlock, error) {
	blk := &HeaderBlock{Fields: make(map[string]string)}
	h := blk.Fields
	last := ""
	for {
		line, err := ReadLine(br, limit)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return blk, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			if last == "" {
				return nil, ErrMalformedHeader
			}
			cont := strings.TrimLeft(line, " \t")
			h[last] += " " + cont
			if last == "set-cookie" && len(blk.SetCookies) > 0 {
				blk.SetCookies[len(blk.SetCookies)-1] += " " + cont
			}
			continue
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, ErrMalformedHeader
		}
		k := strings.ToLower(strings.TrimSpace(line[:i]))
		v := strings.TrimSpace(line[i+1:])
		if prev, ok := h[k]; ok {
			h[k] = prev + "," + v
		} else {
			h[k] = v
		}
		if k == "set-cookie" {
			blk.SetCookies = append(blk.SetCookies, v)
		}
		last = k
	}
}

// MergeHeaders folds src (e.g. chunked trailers) into dst with the same
// duplicate-joining policy as ReadHeaders.
func MergeHeaders(dst, src map[string]string) {
	for k, v := range src {
		if prev, ok := dst[k]; ok {
			dst[k] = prev + "," + v
		} else {
			dst[k] = v
		}
	}
}

// Chunked reports whether te names chunked as its final transfer coding.
func Chunked(te string) bool {
	if i := strings.LastIndexByte(te, ','); i >= 0 {
		te = te[i+1:]
	}
	return strings.EqualFold(strings.TrimSpace(te), "chunked")
}

// ReadLine reads one CRLF- or LF-terminated line, excluding the
// terminator. limit bounds the line length in bytes; 0 means unbounded.
func ReadLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if limit > 0 && sb.Len() > limit {
			return "", ErrLineTooLong
		}
	}
	return sb.String(), nil
}
