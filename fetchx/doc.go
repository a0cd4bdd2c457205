// Package fetchx is a small, controllable HTTP/1.x client engine for
// issuing individual requests concurrently against arbitrary hosts,
// over plain or TLS transports, optionally through a forward proxy.
//
// The engine keeps a process-wide idle pool keyed by connection
// identity (scheme, host, port, session tag, proxy), enforces a
// per-host connection cap with strictly FIFO admission, follows
// redirects with the standard method/payload mutation rules, and
// maintains an optional cookie jar. Failures never raise out-of-band
// errors: every request ends in exactly one completion callback whose
// response carries either the wire status or a synthetic 595-599 one.
//
// Quick start:
//
//	h := fetchx.Get("http://127.0.0.1:8080/", func(res *fetchx.Response) {
//	    fmt.Println(res.Status, string(res.Data))
//	})
//	_ = h // h.Cancel() aborts and suppresses the callback
//
// Synchronous use goes through Engine.Do:
//
//	res := fetchx.DefaultEngine.Do("GET", url, nil)
//
// Observability plugs in through the obs.Logger and obs.Meter
// interfaces on Engine.
package fetchx
