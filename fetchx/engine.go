package fetchx

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"

	"dqx0.com/go/webclient/fetchx/internal/http1"
	"dqx0.com/go/webclient/internal/obs"
)

// Engine defaults. Each is overridable per Engine, and Timeout and
// Recurse also per request.
const (
	DefaultMaxRecurse        = 10
	DefaultTimeout           = 300 * time.Second
	DefaultMaxPerHost        = 4
	DefaultPersistentTimeout = 3 * time.Second
	DefaultUserAgent         = "fetchx/1.0"
)

const maxLineBytes = 8 << 10

var (
	errProxyConnect = errors.New("fetchx: proxy CONNECT failed")
	errTLSHandshake = errors.New("fetchx: TLS handshake failed")
)

// Engine owns the idle pool, the per-host counters and the defaults.
// The zero value is usable: unset fields take the package defaults on
// first use, and Proxy stays nil (direct). NewEngine additionally seeds
// Proxy from the environment. The package free functions bind to a
// shared default instance.
type Engine struct {
	MaxRecurse        int
	Timeout           time.Duration
	MaxPerHost        int
	PersistentTimeout time.Duration
	UserAgent         string
	MaxReadSize       int // read buffer size hint per connection

	// Proxy is the default forward proxy; nil means direct. Seeded by
	// NewEngine from the lowercase http_proxy variable.
	Proxy *Locator

	// Resolver maps a host to addresses. Nil lets the dialer resolve.
	Resolver func(ctx context.Context, host string) ([]string, error)

	// Dial replaces the default TCP dialer for every request.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)

	Logger obs.Logger
	Meter  obs.Meter

	once sync.Once
	reg  *registry
}

// NewEngine builds an engine with the package defaults. The default
// proxy is read once from the lowercase http_proxy variable through
// getenv; pass nil for the process environment.
func NewEngine(getenv func(string) string) *Engine {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Engine{Proxy: defaultProxy(getenv)}
}

func (e *Engine) init() {
	e.once.Do(func() {
		if e.MaxRecurse == 0 {
			e.MaxRecurse = DefaultMaxRecurse
		}
		if e.Timeout == 0 {
			e.Timeout = DefaultTimeout
		}
		if e.MaxPerHost == 0 {
			e.MaxPerHost = DefaultMaxPerHost
		}
		if e.PersistentTimeout == 0 {
			e.PersistentTimeout = DefaultPersistentTimeout
		}
		if e.UserAgent == "" {
			e.UserAgent = DefaultUserAgent
		}
		e.reg = newRegistry(e.MaxPerHost, e.PersistentTimeout, e.logger(), e.meter())
	})
}

func (e *Engine) logger() obs.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return obs.NopLogger{}
}

func (e *Engine) meter() obs.Meter {
	if e.Meter != nil {
		return e.Meter
	}
	return obs.NopMeter{}
}

// Active is the live count of connections currently attached to
// requests (idle-pool entries excluded).
func (e *Engine) Active() int {
	e.init()
	return e.reg.activeCount()
}

// Request dispatches one HTTP request. done is invoked exactly once
// with the final response — a wire response, or a synthetic one with
// Status 595-599 on local failure — unless the returned handle is
// cancelled first.
func (e *Engine) Request(method, rawurl string, opts *Options, done func(*Response)) *Handle {
	e.init()
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{cancel: cancel, reg: e.reg}
	rq := &request{
		eng:    e,
		handle: h,
		ctx:    ctx,
		done:   done,
		method: strings.ToUpper(strings.TrimSpace(method)),
		rawurl: rawurl,
		log:    obs.Tagged(e.logger(), uuid.NewString()[:8]),
	}
	if opts != nil {
		rq.opts = *opts
	}
	go rq.run()
	return h
}

// Release returns the pool slot held by a body-handle stream and closes
// its connection. Safe to call more than once.
func (e *Engine) Release(s *BodyStream) {
	if s == nil {
		return
	}
	s.once.Do(func() {
		e.reg.destroy(s.c)
	})
}

// request drives a single logical request from validation through the
// completion callback, including redirect hops and the one-shot reuse
// retry.
type request struct {
	eng    *Engine
	handle *Handle
	ctx    context.Context
	done   func(*Response)
	log    obs.Logger

	method string
	rawurl string
	opts   Options

	hdr      Header
	body     []byte
	timeout  time.Duration
	budget   int
	proxy    *Locator
	loc      *Locator
	origHost string
	referer  string
	prior    *Response // hop that redirected here, nil on the first hop
	retried  bool
}

func (rq *request) run() {
	start := time.Now()
	rq.eng.meter().Counter("fetchx_requests_total", 1, obs.Label{Key: "method", Value: rq.method})
	res := rq.roundTrip()
	if res == nil {
		return // cancelled; the callback stays silent
	}
	rq.eng.meter().Counter("fetchx_responses_total", 1, obs.Label{Key: "status", Value: res.Status})
	rq.eng.meter().Histogram("fetchx_roundtrip_duration_ms", float64(time.Since(start).Milliseconds()),
		obs.Label{Key: "method", Value: rq.method})
	if rq.handle.finishOK() {
		if rq.done != nil {
			rq.done(res)
		}
	}
}

func (rq *request) roundTrip() *Response {
	// Validate
	if rq.method == "" || !httpguts.ValidHeaderFieldName(rq.method) {
		return rq.fail(StatusLogicError, "bad method", nil, nil)
	}
	loc, err := SplitURL(rq.rawurl)
	if err != nil {
		return rq.fail(StatusLogicError, "URL unsupported", err, nil)
	}
	rq.loc = loc
	rq.origHost = loc.poolHost()
	rq.timeout = rq.opts.Timeout
	if rq.timeout == 0 {
		rq.timeout = rq.eng.Timeout
	}
	rq.budget = rq.opts.Recurse
	if rq.budget == 0 {
		rq.budget = rq.eng.MaxRecurse
	}
	if rq.budget < 0 {
		return rq.fail(StatusLogicError, "bad recursion budget", nil, nil)
	}
	rq.hdr = rq.opts.Header.clone()
	rq.body = rq.opts.Body
	switch {
	case rq.opts.Proxy == NoProxy:
		rq.proxy = nil
	case rq.opts.Proxy == "":
		rq.proxy = rq.eng.Proxy
	default:
		p, err := SplitURL(rq.opts.Proxy)
		if err != nil || p.Scheme != "http" {
			return rq.fail(StatusLogicError, "bad proxy URL", err, nil)
		}
		rq.proxy = p
	}

	for {
		res, retryable := rq.doHop()
		if res == nil && !retryable {
			return nil // cancelled
		}
		if res == nil {
			continue // one-shot reuse retry
		}
		target, final := rq.nextHop(res)
		if final != nil {
			return final
		}
		if target == nil {
			return res
		}
		rq.log.Logf(obs.Debug, "redirect %d -> %s", res.StatusCode, target.String())
		rq.referer = rq.loc.String()
		rq.loc = target
		rq.prior = res
	}
}

// nextHop decides whether res triggers a redirect. It returns the
// redirect target, or a final (possibly synthetic) response when the
// chain must stop here.
func (rq *request) nextHop(res *Response) (*Locator, *Response) {
	switch res.StatusCode {
	case 301, 302, 303, 307, 308:
	default:
		return nil, nil
	}
	locv := res.Header.Get("location")
	if locv == "" {
		return nil, nil
	}
	rq.budget--
	if rq.budget <= 0 {
		return nil, rq.fail(StatusLogicError, "too many redirects", ErrTooManyRedirects, res)
	}
	target, err := rq.loc.resolveRef(locv)
	if err != nil {
		return nil, rq.fail(StatusLogicError, "redirect target unsupported", err, res)
	}
	switch res.StatusCode {
	case 303:
		rq.demoteToGET()
	case 301, 302:
		if !idempotentMethod(rq.method) {
			rq.demoteToGET()
		}
		// 307 and 308 preserve method and body on any method.
	}
	return target, nil
}

func (rq *request) demoteToGET() {
	rq.method = "GET"
	rq.body = nil
	rq.hdr.Del("content-type")
	rq.hdr.Del("content-length")
}

// doHop performs one admission+exchange cycle. (nil, true) asks the
// caller to run the hop again through admission, which leases another
// idle connection of the same identity when one is pooled and dials
// only when none is; (nil, false) means the request was cancelled.
func (rq *request) doHop() (*Response, bool) {
	id := connKey{
		scheme:  rq.loc.Scheme,
		host:    rq.loc.poolHost(),
		port:    rq.loc.Port,
		session: rq.opts.Session,
		proxy:   proxyKey(rq.proxy),
	}
	c, err := rq.eng.reg.acquire(rq.ctx, id)
	if err != nil {
		return nil, false // cancelled while queued
	}
	if c == nil {
		c, err = rq.dialConn(id)
		if err != nil {
			rq.eng.reg.abandon(id.host)
			rq.log.Logf(obs.Error, "dial %s failed: %v", id.String(), err)
			rq.eng.meter().Counter("fetchx_requests_error", 1, obs.Label{Key: "stage", Value: "dial"})
			if errors.Is(err, errTLSHandshake) {
				return rq.fail(StatusSendFailed, "TLS handshake failed", err, nil), false
			}
			if errors.Is(err, errProxyConnect) {
				return rq.fail(StatusConnectFailed, "proxy CONNECT failed", err, nil), false
			}
			return rq.fail(StatusConnectFailed, reasonFor("connection failed", err), err, nil), false
		}
		rq.eng.meter().Counter("fetchx_conn_dial_total", 1)
	}
	if !rq.handle.attach(c) {
		// Cancelled between admission and attach; nothing written yet.
		if c.reused && !c.dirty {
			rq.eng.reg.putIdle(c)
		} else {
			rq.eng.reg.destroy(c)
		}
		return nil, false
	}
	return rq.exchange(c)
}

func (rq *request) dialConn(id connKey) (*conn, error) {
	dial := rq.opts.Connect
	if dial == nil {
		dial = rq.eng.dialer()
	}
	target := rq.loc.Addr()
	if rq.proxy != nil {
		target = rq.proxy.Addr()
	}
	ctx, cancel := context.WithTimeout(rq.ctx, rq.timeout)
	defer cancel()
	nc, err := dial(ctx, "tcp", target)
	if err != nil {
		return nil, err
	}
	if rq.opts.OnPrepare != nil {
		rq.opts.OnPrepare(nc)
	}
	readSize := rq.opts.ReadSize
	if readSize == 0 {
		readSize = rq.eng.MaxReadSize
	}
	c := newConn(id, nc, readSize)
	c.phase = phaseConnecting
	if rq.proxy != nil && rq.loc.Scheme == "https" {
		c.phase = phaseProxyCONNECT
		c.stretch(rq.timeout)
		if err := proxyConnect(c, rq.loc.Addr()); err != nil {
			c.closeStream()
			return nil, err
		}
	}
	if rq.loc.Scheme == "https" {
		c.phase = phaseTLSHandshake
		tc := tls.Client(c.nc, rq.tlsConfig())
		_ = tc.SetDeadline(time.Now().Add(rq.timeout))
		if err := tc.Handshake(); err != nil {
			c.closeStream()
			return nil, fmt.Errorf("%w: %v", errTLSHandshake, err)
		}
		_ = tc.SetDeadline(time.Time{})
		c.rewrap(tc, readSize)
	}
	return c, nil
}

func (e *Engine) dialer() func(ctx context.Context, network, addr string) (net.Conn, error) {
	if e.Dial != nil {
		return e.Dial
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{}
		if e.Resolver == nil {
			return d.DialContext(ctx, network, addr)
		}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		addrs, err := e.Resolver(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("fetchx: resolve %s: %w", host, err)
		}
		if len(addrs) == 0 {
			return nil, fmt.Errorf("fetchx: resolve %s: no addresses", host)
		}
		var last error
		for _, a := range addrs {
			nc, err := d.DialContext(ctx, network, net.JoinHostPort(a, port))
			if err == nil {
				return nc, nil
			}
			last = err
		}
		return nil, last
	}
}

func (rq *request) tlsConfig() *tls.Config {
	if rq.opts.TLSConfig != nil {
		return rq.opts.TLSConfig
	}
	cfg := &tls.Config{
		ServerName: rq.loc.Host,
		NextProtos: []string{"http/1.1"},
	}
	if rq.opts.TLS != TLSHigh {
		cfg.InsecureSkipVerify = true
	}
	return cfg
}

// proxyConnect runs the CONNECT handshake for https through an http
// proxy: one request, one status line, one header block.
func proxyConnect(c *conn, target string) error {
	if _, err := fmt.Fprintf(c.bw, "CONNECT %s HTTP/1.0\r\nHost: %s\r\n\r\n", target, target); err != nil {
		return fmt.Errorf("%w: %v", errProxyConnect, err)
	}
	if err := c.bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", errProxyConnect, err)
	}
	_, code, _, err := http1.ReadStatusLine(c.br, maxLineBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", errProxyConnect, err)
	}
	if _, err := http1.ReadHeaders(c.br, maxLineBytes); err != nil {
		return fmt.Errorf("%w: %v", errProxyConnect, err)
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%w: status %d", errProxyConnect, code)
	}
	return nil
}

// exchange writes the request on c and reads the response. (nil, true)
// requests the one-shot retry (see doHop for which connection it uses);
// (nil, false) means cancelled.
func (rq *request) exchange(c *conn) (*Response, bool) {
	reg := rq.eng.reg

	// Send
	c.phase = phaseWriting
	c.stretch(rq.timeout)
	if !rq.handle.beginWrite() {
		return nil, false // cancelled; Cancel released the connection
	}
	werr := http1.WriteRequest(c.bw, rq.buildWire())
	if werr == nil {
		werr = c.bw.Flush()
	}
	if werr != nil {
		cc := rq.handle.detach()
		if cc == nil {
			return nil, false
		}
		reg.destroy(cc)
		if errors.Is(werr, http1.ErrBadHeader) {
			return rq.fail(StatusSendFailed, "unsafe header", werr, nil), false
		}
		if rq.retryEligible(c) {
			rq.retried = true
			rq.log.Logf(obs.Debug, "write on reused connection failed, retrying: %v", werr)
			return nil, true
		}
		rq.log.Logf(obs.Warn, "request send failed: %v", werr)
		rq.eng.meter().Counter("fetchx_requests_error", 1, obs.Label{Key: "stage", Value: "write"})
		return rq.fail(StatusSendFailed, reasonFor("request send failed", werr), werr, nil), false
	}

	// Status line
	c.phase = phaseReadingStatus
	c.stretch(rq.timeout)
	ver, code, reason, rerr := http1.ReadStatusLine(c.br, maxLineBytes)
	if rerr != nil {
		cc := rq.handle.detach()
		if cc == nil {
			return nil, false
		}
		reg.destroy(cc)
		if !errors.Is(rerr, http1.ErrMalformedStatus) && rq.retryEligible(c) {
			rq.retried = true
			rq.log.Logf(obs.Debug, "read on reused connection failed, retrying: %v", rerr)
			return nil, true
		}
		rq.eng.meter().Counter("fetchx_requests_error", 1, obs.Label{Key: "stage", Value: "read_status"})
		return rq.fail(StatusSendFailed, reasonFor("malformed response", rerr), rerr, nil), false
	}

	// Headers
	c.phase = phaseReadingHeaders
	blk, rerr := http1.ReadHeaders(c.br, maxLineBytes)
	if rerr != nil {
		cc := rq.handle.detach()
		if cc == nil {
			return nil, false
		}
		reg.destroy(cc)
		rq.eng.meter().Counter("fetchx_requests_error", 1, obs.Label{Key: "stage", Value: "read_headers"})
		return rq.fail(StatusSendFailed, reasonFor("header parse failed", rerr), rerr, nil), false
	}
	res := &Response{
		Status:      fmt.Sprintf("%03d", code),
		StatusCode:  code,
		Reason:      reason,
		HTTPVersion: ver,
		URL:         rq.loc.String(),
		Header:      Header(blk.Fields),
		Redirect:    rq.prior,
	}
	if rq.opts.Jar != nil {
		for _, sc := range blk.SetCookies {
			rq.opts.Jar.SetCookie(sc, rq.loc.Host, rq.loc.Path())
		}
	}

	if rq.opts.OnHeader != nil && !rq.opts.OnHeader(res.headerView()) {
		cc := rq.handle.detach()
		if cc == nil {
			return nil, false
		}
		reg.destroy(cc)
		return rq.fail(StatusUserAbort, "user abort", ErrUserAbort, res), false
	}

	if rq.opts.WantBodyHandle {
		cc := rq.handle.detach()
		if cc == nil {
			return nil, false
		}
		cc.stretch(0)
		res.Stream = &BodyStream{c: cc, eng: rq.eng}
		return res, false
	}

	noBody := rq.method == "HEAD" || code/100 == 1 || code == 204 || code == 304
	if noBody {
		res.Data = []byte{}
		rq.settle(res)
		return res, false
	}

	// Body
	c.phase = phaseReadingBody
	var (
		cr      *http1.ChunkedReader
		src     io.Reader
		clen    int64 = -1
		chunked bool
	)
	if http1.Chunked(res.Header.Get("transfer-encoding")) {
		// When both Content-Length and chunked are present, chunked wins
		// and the length is ignored.
		chunked = true
		cr = http1.NewChunkedReader(c.br, maxLineBytes)
		src = cr
	} else if v := res.Header.Get("content-length"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
			clen = n
			src = io.LimitReader(c.br, clen)
		} else {
			src = c.br // unusable length: read until close
		}
	} else {
		src = c.br // close-delimited
	}

	var buf bytes.Buffer
	var total int64
	p := make([]byte, 4096)
	for {
		if clen >= 0 && total == clen {
			break
		}
		c.stretch(rq.timeout)
		n, err := src.Read(p)
		if n > 0 {
			total += int64(n)
			if rq.opts.OnBody != nil {
				if !rq.opts.OnBody(p[:n]) {
					cc := rq.handle.detach()
					if cc == nil {
						return nil, false
					}
					reg.destroy(cc)
					return rq.fail(StatusUserAbort, "user abort", ErrUserAbort, res), false
				}
			} else {
				buf.Write(p[:n])
			}
		}
		if err == io.EOF {
			if chunked && !cr.Finished() {
				return rq.bodyFailed(res, io.ErrUnexpectedEOF)
			}
			if clen >= 0 && total < clen {
				return rq.bodyFailed(res, io.ErrUnexpectedEOF)
			}
			if !chunked && clen < 0 {
				c.dirty = true // close-delimited: the link is spent
			}
			break
		}
		if err != nil {
			return rq.bodyFailed(res, err)
		}
	}
	if chunked {
		if tr := cr.Trailer(); tr != nil {
			http1.MergeHeaders(res.Header, tr.Fields)
		}
	}
	res.Data = buf.Bytes()
	if res.Data == nil {
		res.Data = []byte{}
	}
	rq.settle(res)
	return res, false
}

// bodyFailed maps a mid-body error to status 597, preserving the wire
// status that was already delivered.
func (rq *request) bodyFailed(res *Response, err error) (*Response, bool) {
	cc := rq.handle.detach()
	if cc == nil {
		return nil, false
	}
	rq.eng.reg.destroy(cc)
	rq.log.Logf(obs.Warn, "body read failed: %v", err)
	rq.eng.meter().Counter("fetchx_requests_error", 1, obs.Label{Key: "stage", Value: "read_body"})
	return rq.fail(StatusBodyFailed, reasonFor("body read failed", err), err, res), false
}

// retryEligible reports whether a transport failure on c may trigger
// the one-shot retry. The retry is not guaranteed a newly dialed
// connection: another pooled idle connection is leased first.
func (rq *request) retryEligible(c *conn) bool {
	if !c.reused || rq.retried {
		return false
	}
	return idempotentMethod(rq.method) || rq.opts.persistentExplicit()
}

// settle releases the connection after a complete response: back to the
// idle pool when everything allows reuse, destroyed otherwise.
func (rq *request) settle(res *Response) {
	c := rq.handle.detach()
	if c == nil {
		return // cancelled at the finish line; Cancel released it
	}
	connHdr := strings.ToLower(res.Header.Get("connection"))
	srvClose := strings.Contains(connHdr, "close")
	oldHTTP := res.HTTPVersion == "1.0" && !strings.Contains(connHdr, "keep-alive")
	if !c.dirty && rq.opts.persistent() && rq.opts.keepAlive() && !srvClose && !oldHTTP {
		rq.eng.reg.putIdle(c)
		return
	}
	rq.eng.reg.destroy(c)
}

// fail builds the synthetic completion response for a local failure.
// cause is classified onto the package sentinels and carried in
// Response.Err. orig, when set, is the wire response whose headers had
// already been delivered; its status is preserved in
// OrigStatus/OrigReason.
func (rq *request) fail(code int, reason string, cause error, orig *Response) *Response {
	res := &Response{
		Status:     strconv.Itoa(code),
		StatusCode: code,
		Reason:     reason,
		Header:     Header{},
		Data:       []byte{},
		Redirect:   rq.prior,
		Err:        classify(cause),
	}
	if rq.loc != nil {
		res.URL = rq.loc.String()
	} else {
		res.URL = rq.rawurl
	}
	if orig != nil {
		res.Header = orig.Header
		res.HTTPVersion = orig.HTTPVersion
		res.OrigStatus = orig.Status
		res.OrigReason = orig.Reason
		res.Redirect = orig.Redirect
	}
	rq.log.Logf(obs.Debug, "finish %d %s", code, reason)
	return res
}

func (rq *request) buildWire() *http1.Wire {
	path := rq.loc.PathQuery
	if rq.proxy != nil && rq.loc.Scheme == "http" {
		// Plain http through a forward proxy uses the absolute form.
		path = rq.loc.String()
	}
	host := ""
	if hv, ok := rq.hdr["host"]; ok {
		if hv != Suppress && rq.loc.poolHost() == rq.origHost {
			host = hv
		} else if hv != Suppress {
			host = rq.loc.Authority() // cross-host redirect rebuilds Host
		}
	} else {
		host = rq.loc.Authority()
	}
	cookie := ""
	if rq.opts.Jar != nil {
		cookie = rq.opts.Jar.Header(rq.loc.Host, rq.loc.Path(), rq.loc.Scheme == "https")
	}
	if cv, ok := rq.hdr["cookie"]; ok {
		if cv == Suppress {
			cookie = ""
		} else if cookie != "" {
			cookie = cv + "; " + cookie
		} else {
			cookie = cv
		}
	}
	force := rq.method == "POST" || rq.method == "PUT" || rq.method == "PATCH"
	return &http1.Wire{
		Method:    rq.method,
		Path:      path,
		Host:      host,
		Header:    map[string]string(rq.hdr),
		Body:      rq.body,
		ForceLen:  force,
		KeepAlive: rq.opts.keepAlive(),
		Cookie:    cookie,
		UserAgent: rq.eng.UserAgent,
		Referer:   rq.referer,
	}
}

// idempotentMethod lists the methods eligible for the silent one-shot
// reuse retry.
func idempotentMethod(m string) bool {
	switch m {
	case "GET", "HEAD", "OPTIONS", "DELETE", "PUT", "TRACE":
		return true
	}
	return false
}

// reasonFor appends a timeout marker so phase-tagged timeouts are
// distinguishable in the completion reason.
func reasonFor(base string, err error) string {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return base + " (timeout)"
	}
	return base
}

// classify maps wire-codec errors onto the package sentinels so that
// Response.Err answers errors.Is for the documented classes.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, http1.ErrMalformedStatus), errors.Is(err, http1.ErrMalformedHeader):
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	case errors.Is(err, http1.ErrLineTooLong):
		return fmt.Errorf("%w: %v", ErrHeaderTooLarge, err)
	}
	return err
}
