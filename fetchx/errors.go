package fetchx

import (
	"errors"

	"dqx0.com/go/webclient/fetchx/internal/http1"
)

// Sentinel errors classifying synthetic 595-599 responses. The matching
// value rides on Response.Err and is inspectable with errors.Is.
var (
	ErrUnsupportedURL    = errors.New("fetchx: URL unsupported")
	ErrMalformedResponse = errors.New("fetchx: malformed response")
	ErrHeaderTooLarge    = errors.New("fetchx: header too large")
	ErrTooManyRedirects  = errors.New("fetchx: too many redirects")
	ErrUserAbort         = errors.New("fetchx: user abort")

	// ErrCancelled marks a request torn down through its Handle. It
	// never reaches a completion callback, which cancellation
	// suppresses; the registry returns it to a queued waiter whose
	// request was cancelled.
	ErrCancelled = errors.New("fetchx: request cancelled")

	// ErrChunkFormat is the wire codec's chunk-framing error,
	// re-exported for errors.Is checks on Response.Err.
	ErrChunkFormat = http1.ErrChunkFormat
)

// Pseudo status codes injected into the completion response on local
// failure. They never come from the wire.
const (
	StatusConnectFailed = 595 // DNS, TCP connect, or proxy CONNECT failure
	StatusSendFailed    = 596 // TLS handshake, request send, or header parse failure
	StatusBodyFailed    = 597 // body read or chunk decode failure
	StatusUserAbort     = 598 // OnHeader or OnBody returned false
	StatusLogicError    = 599 // bad URL, too many redirects, bad redirect target
)
