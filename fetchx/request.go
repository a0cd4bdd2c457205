package fetchx

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// TLSProfile selects how a TLS session is verified.
type TLSProfile string

const (
	// TLSLow disables peer verification. It is the default.
	TLSLow TLSProfile = "low"
	// TLSHigh enables CA-chain verification and hostname matching.
	TLSHigh TLSProfile = "high"
)

// NoProxy as an Options.Proxy value forces a direct connection even
// when the engine has a default proxy.
const NoProxy = "\x00noproxy"

// Options carries everything about one request beyond method and URL.
// The record is closed: there is no bag of loose options, so an
// unrecognized option is a compile error rather than silently ignored.
type Options struct {
	// Header holds caller headers. Keys are lowercased on dispatch.
	// The value Suppress omits a header the engine would otherwise
	// emit by default.
	Header Header

	// Body is sent verbatim. Content-Length is emitted when Body is
	// non-empty or the method is POST, PUT or PATCH.
	Body []byte

	// Timeout bounds inactivity, not total duration: it resets on every
	// successful socket operation. Zero means the engine default.
	Timeout time.Duration

	// Recurse is the redirect budget. Zero means the engine default;
	// a negative value fails validation.
	Recurse int

	// Proxy overrides the engine default: an absolute http URL, the
	// NoProxy sentinel for a direct connection, or "" for the default.
	Proxy string

	// Jar, when set, contributes Cookie headers and absorbs Set-Cookie.
	Jar *Jar

	// TLS picks a verification profile; TLSConfig, when non-nil, is
	// used verbatim and wins over TLS.
	TLS       TLSProfile
	TLSConfig *tls.Config

	// Session partitions the idle pool: connections are only reused
	// across requests carrying the same tag.
	Session string

	// Persistent controls idle pooling after completion; nil means the
	// engine default (true). Setting it explicitly to true also makes
	// non-idempotent requests eligible for the one-shot reuse retry.
	Persistent *bool

	// KeepAlive controls the Connection header; nil means keep-alive.
	KeepAlive *bool

	// Connect replaces the engine dialer for this request.
	Connect func(ctx context.Context, network, addr string) (net.Conn, error)

	// OnPrepare runs on the raw socket after connect, before any bytes.
	OnPrepare func(net.Conn)

	// OnHeader runs once headers are parsed; returning false aborts the
	// request with status 598.
	OnHeader func(*Response) bool

	// OnBody receives each decoded body fragment synchronously;
	// returning false aborts with status 598. When set, fragments are
	// not accumulated and the completion Data is empty.
	OnBody func([]byte) bool

	// WantBodyHandle hands the live stream to the caller after headers
	// instead of reading the body.
	WantBodyHandle bool

	// ReadSize hints the connection read-buffer size, e.g. for a
	// body-handle consumer with known fragment sizes. Zero means the
	// engine default.
	ReadSize int
}

func (o *Options) persistent() bool {
	return o == nil || o.Persistent == nil || *o.Persistent
}

func (o *Options) persistentExplicit() bool {
	return o != nil && o.Persistent != nil && *o.Persistent
}

func (o *Options) keepAlive() bool {
	return o == nil || o.KeepAlive == nil || *o.KeepAlive
}
