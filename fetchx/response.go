package fetchx

// Response is what the completion callback receives. Status, Reason,
// HTTPVersion, URL, Redirect, OrigStatus and OrigReason are synthetic
// fields maintained by the engine; Header carries only wire headers,
// lowercase-keyed.
type Response struct {
	Status      string // three digits, e.g. "200"; 595-599 on local failure
	StatusCode  int
	Reason      string
	HTTPVersion string // "1.0" or "1.1"
	URL         string // final absolute URL after redirects
	Header      Header
	Data        []byte

	// Redirect is the prior hop's response when this response was
	// reached by following a redirect. Hops chain through it.
	Redirect *Response

	// OrigStatus and OrigReason preserve the wire status when a failure
	// occurred after headers were already delivered.
	OrigStatus string
	OrigReason string

	// Stream is the live body when the request asked for a body handle.
	// The engine no longer touches the connection; release it with
	// Engine.Release or Stream.Close.
	Stream *BodyStream

	// Err classifies a synthetic 595-599 response with one of the
	// package sentinels (ErrUnsupportedURL, ErrMalformedResponse,
	// ErrUserAbort, ...), inspectable with errors.Is. Nil on wire
	// responses, and may be nil on failures with no finer class.
	Err error
}

// headerView returns a copy of the response visible to OnHeader: headers
// present, body not yet read.
func (r *Response) headerView() *Response {
	c := *r
	c.Data = nil
	c.Stream = nil
	return &c
}
