package http1

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, w *Wire) string {
	t.Helper()
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	require.NoError(t, WriteRequest(bw, w))
	require.NoError(t, bw.Flush())
	return buf.String()
}

func TestWriteRequest_Basic(t *testing.T) {
	out := serialize(t, &Wire{
		Method:    "GET",
		Path:      "/x?q=1",
		Host:      "example.com",
		KeepAlive: true,
		UserAgent: "fetchx/1.0",
	})
	assert.True(t, strings.HasPrefix(out, "GET /x?q=1 HTTP/1.1\r\n"))
	assert.Contains(t, out, "Host: example.com\r\n")
	assert.Contains(t, out, "Connection: keep-alive\r\n")
	assert.Contains(t, out, "User-Agent: fetchx/1.0\r\n")
	assert.Contains(t, out, "TE: trailers\r\n")
	assert.NotContains(t, out, "Content-Length")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
}

func TestWriteRequest_BodyAndForceLen(t *testing.T) {
	out := serialize(t, &Wire{
		Method: "POST", Path: "/a", Host: "h", Body: []byte("x=1"),
	})
	assert.Contains(t, out, "Content-Length: 3\r\n")
	assert.Contains(t, out, "Connection: close\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nx=1"))

	// POST with an empty body still advertises a length.
	out = serialize(t, &Wire{Method: "POST", Path: "/a", Host: "h", ForceLen: true})
	assert.Contains(t, out, "Content-Length: 0\r\n")
}

func TestWriteRequest_CallerHeadersAndOverrides(t *testing.T) {
	out := serialize(t, &Wire{
		Method: "GET", Path: "/", Host: "h", KeepAlive: true,
		UserAgent: "default-agent",
		Header: map[string]string{
			"user-agent": "custom-agent",
			"x-extra":    "v",
		},
	})
	assert.Contains(t, out, "User-Agent: custom-agent\r\n")
	assert.NotContains(t, out, "default-agent")
	assert.Contains(t, out, "X-Extra: v\r\n")
}

func TestWriteRequest_Suppress(t *testing.T) {
	out := serialize(t, &Wire{
		Method: "GET", Path: "/", Host: "h", KeepAlive: true,
		UserAgent: "fetchx/1.0",
		Header: map[string]string{
			"user-agent": Suppress,
			"te":         Suppress,
		},
	})
	assert.NotContains(t, out, "User-Agent")
	assert.NotContains(t, out, "TE:")
}

func TestWriteRequest_Cookie(t *testing.T) {
	out := serialize(t, &Wire{
		Method: "GET", Path: "/", Host: "h", KeepAlive: true,
		Cookie: "sid=abc; theme=dark",
	})
	assert.Contains(t, out, "Cookie: sid=abc; theme=dark\r\n")
}

func TestWriteRequest_UnsafeHeader(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	err := WriteRequest(bw, &Wire{
		Method: "GET", Path: "/", Host: "h",
		Header: map[string]string{"x-bad": "evil\r\nInjected: yes"},
	})
	assert.ErrorIs(t, err, ErrBadHeader)

	err = WriteRequest(bw, &Wire{
		Method: "GET", Path: "/", Host: "h",
		Header: map[string]string{"bad name": "v"},
	})
	assert.ErrorIs(t, err, ErrBadHeader)
}
