package fetchx

import (
	"fmt"
	"net/url"
	"strings"
)

// Locator is a split absolute http(s) URL. Host is preserved verbatim;
// pool keys lowercase it separately.
type Locator struct {
	Scheme    string // "http" or "https"
	Userinfo  string // "user" or "user:pass", empty for none
	Host      string
	Port      string // always set; "80"/"443" by scheme when absent
	PathQuery string // begins with "/", query string included
}

// SplitURL splits an absolute http or https URL. Any other scheme is
// rejected with ErrUnsupportedURL.
func SplitURL(raw string) (*Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	return splitParsed(u)
}

func splitParsed(u *url.URL) (*Locator, error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	port := u.Port()
	if port == "" {
		if scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	pq := u.RequestURI()
	if pq == "" || !strings.HasPrefix(pq, "/") {
		pq = "/" + pq
	}
	l := &Locator{
		Scheme:    scheme,
		Host:      host,
		Port:      port,
		PathQuery: pq,
	}
	if u.User != nil {
		l.Userinfo = u.User.String()
	}
	return l, nil
}

// Authority is the host[:port] form for the Host header; the default
// port for the scheme is omitted.
func (l *Locator) Authority() string {
	if (l.Scheme == "http" && l.Port == "80") || (l.Scheme == "https" && l.Port == "443") {
		return l.Host
	}
	return l.Host + ":" + l.Port
}

// Addr is the host:port dial target.
func (l *Locator) Addr() string {
	return l.Host + ":" + l.Port
}

// String reassembles the absolute URL without userinfo.
func (l *Locator) String() string {
	return l.Scheme + "://" + l.Authority() + l.PathQuery
}

// Path is PathQuery with the query string stripped, for cookie matching.
func (l *Locator) Path() string {
	if i := strings.IndexByte(l.PathQuery, '?'); i >= 0 {
		return l.PathQuery[:i]
	}
	return l.PathQuery
}

// poolHost is the lowercased host used for pool keys and the per-host cap.
func (l *Locator) poolHost() string {
	return strings.ToLower(l.Host)
}

// resolveRef resolves a Location header value against l and splits the
// result. Relative forms resolve per RFC 3986.
func (l *Locator) resolveRef(location string) (*Locator, error) {
	base, err := url.Parse(l.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	return splitParsed(base.ResolveReference(ref))
}
