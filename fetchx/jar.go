package fetchx

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// JarVersion is the only persisted-form version this engine understands.
const JarVersion = 1

// Cookie is one stored cookie. A zero Expires marks a session cookie.
type Cookie struct {
	Value    string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
	Attrs    map[string]string // unrecognized attributes, lowercase keys
}

// Jar stores cookies as host → path → name. A Jar may be shared across
// requests; all methods are safe for concurrent use.
type Jar struct {
	mu      sync.Mutex
	Version int
	entries map[string]map[string]map[string]*Cookie
	checked bool
	now     func() time.Time
}

func NewJar() *Jar {
	return &Jar{Version: JarVersion}
}

// check empties the jar on first use when the version is anything but
// JarVersion, then pins the version.
func (j *Jar) check() {
	if j.checked {
		return
	}
	j.checked = true
	if j.now == nil {
		j.now = time.Now
	}
	if j.Version != JarVersion {
		j.entries = nil
		j.Version = JarVersion
	}
	if j.entries == nil {
		j.entries = make(map[string]map[string]map[string]*Cookie)
	}
}

// SetCookie applies one Set-Cookie line received for a request to
// reqHost + reqPath. Malformed lines are dropped silently.
func (j *Jar) SetCookie(line, reqHost, reqPath string) {
	name, value, attrs, ok := parseSetCookie(line)
	if !ok {
		return
	}
	domain := strings.ToLower(reqHost)
	if d, ok := attrs["domain"]; ok && d != "" {
		d = strings.ToLower(strings.TrimPrefix(d, "."))
		if domainMatch(strings.ToLower(reqHost), d) {
			domain = d
		}
	}
	path := attrs["path"]
	if path == "" {
		path = defaultPath(reqPath)
	}
	c := &Cookie{Value: value, Attrs: map[string]string{}}
	for k, v := range attrs {
		switch k {
		case "domain", "path", "max-age", "expires":
		case "secure":
			c.Secure = true
		case "httponly":
			c.HTTPOnly = true
		default:
			c.Attrs[k] = v
		}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.check()
	if ma, ok := attrs["max-age"]; ok {
		secs, err := strconv.Atoi(ma)
		if err != nil {
			return
		}
		c.Expires = j.now().Add(time.Duration(secs) * time.Second)
	} else if ex, ok := attrs["expires"]; ok {
		t, ok := ParseTime(ex)
		if !ok {
			return
		}
		c.Expires = t
	}
	if !c.Expires.IsZero() && !c.Expires.After(j.now()) {
		// The server sent an already-expired value: remove the entry.
		j.remove(domain, path, name)
		return
	}
	j.storeLocked(domain, path, name, c)
}

func (j *Jar) storeLocked(domain, path, name string, c *Cookie) {
	paths := j.entries[domain]
	if paths == nil {
		paths = make(map[string]map[string]*Cookie)
		j.entries[domain] = paths
	}
	names := paths[path]
	if names == nil {
		names = make(map[string]*Cookie)
		paths[path] = names
	}
	names[name] = c
}

func (j *Jar) remove(domain, path, name string) {
	if names := j.entries[domain][path]; names != nil {
		delete(names, name)
		if len(names) == 0 {
			delete(j.entries[domain], path)
			if len(j.entries[domain]) == 0 {
				delete(j.entries, domain)
			}
		}
	}
}

// Header assembles the Cookie header value for a request to host+path.
// secure reports whether the transport is https. The result is empty
// when nothing matches.
func (j *Jar) Header(host, path string, secure bool) string {
	if j == nil {
		return ""
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.check()
	host = strings.ToLower(host)
	now := j.now()
	type match struct {
		path, name, value string
	}
	var ms []match
	for domain, paths := range j.entries {
		if !domainMatch(host, domain) {
			continue
		}
		for cpath, names := range paths {
			if !pathMatch(path, cpath) {
				continue
			}
			for name, c := range names {
				if c.Secure && !secure {
					continue
				}
				if !c.Expires.IsZero() && !c.Expires.After(now) {
					continue
				}
				ms = append(ms, match{cpath, name, c.Value})
			}
		}
	}
	if len(ms) == 0 {
		return ""
	}
	// Longest path first, then by name, for a stable header.
	sort.Slice(ms, func(a, b int) bool {
		if len(ms[a].path) != len(ms[b].path) {
			return len(ms[a].path) > len(ms[b].path)
		}
		return ms[a].name < ms[b].name
	})
	var sb strings.Builder
	for i, m := range ms {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(m.name)
		sb.WriteByte('=')
		sb.WriteString(m.value)
	}
	return sb.String()
}

// Expire deletes entries whose expiry has passed. With dropSession it
// also deletes session cookies (those without an expiry).
func (j *Jar) Expire(dropSession bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.check()
	now := j.now()
	for domain, paths := range j.entries {
		for path, names := range paths {
			for name, c := range names {
				if c.Expires.IsZero() {
					if dropSession {
						delete(names, name)
					}
					continue
				}
				if !c.Expires.After(now) {
					delete(names, name)
				}
			}
			if len(names) == 0 {
				delete(paths, path)
			}
		}
		if len(paths) == 0 {
			delete(j.entries, domain)
		}
	}
}

// Export returns the persisted form: a map with "version": 1 and
// host → path → name → attribute maps, where session cookies omit
// "_expires". The shape survives any JSON-style serializer.
func (j *Jar) Export() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.check()
	out := map[string]interface{}{"version": JarVersion}
	for domain, paths := range j.entries {
		dp := map[string]interface{}{}
		for path, names := range paths {
			pn := map[string]interface{}{}
			for name, c := range names {
				attrs := map[string]interface{}{"value": c.Value}
				if !c.Expires.IsZero() {
					attrs["_expires"] = c.Expires.Unix()
				}
				if c.Secure {
					attrs["secure"] = true
				}
				if c.HTTPOnly {
					attrs["httponly"] = true
				}
				for k, v := range c.Attrs {
					attrs[k] = v
				}
				pn[name] = attrs
			}
			dp[path] = pn
		}
		out[domain] = dp
	}
	return out
}

// Import merges a persisted form previously produced by Export (or any
// serializer that preserved its shape). Forms with a version other
// than JarVersion are ignored.
func (j *Jar) Import(m map[string]interface{}) {
	if v, ok := asUnix(m["version"]); !ok || v != JarVersion {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.check()
	for host, hv := range m {
		if host == "version" {
			continue
		}
		paths, ok := hv.(map[string]interface{})
		if !ok {
			continue
		}
		for path, pv := range paths {
			names, ok := pv.(map[string]interface{})
			if !ok {
				continue
			}
			for name, nv := range names {
				attrs, ok := nv.(map[string]interface{})
				if !ok {
					continue
				}
				c := &Cookie{Attrs: map[string]string{}}
				for k, av := range attrs {
					switch k {
					case "value":
						c.Value, _ = av.(string)
					case "_expires":
						if n, ok := asUnix(av); ok {
							c.Expires = time.Unix(n, 0).UTC()
						}
					case "secure":
						c.Secure, _ = av.(bool)
					case "httponly":
						c.HTTPOnly, _ = av.(bool)
					default:
						if s, ok := av.(string); ok {
							c.Attrs[k] = s
						}
					}
				}
				j.storeLocked(strings.ToLower(host), path, name, c)
			}
		}
	}
}

// asUnix tolerates the integer encodings JSON decoders produce.
func asUnix(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func parseSetCookie(line string) (name, value string, attrs map[string]string, ok bool) {
	parts := strings.Split(line, ";")
	nv := strings.TrimSpace(parts[0])
	eq := strings.IndexByte(nv, '=')
	if eq <= 0 {
		return "", "", nil, false
	}
	name = strings.TrimSpace(nv[:eq])
	value = strings.TrimSpace(nv[eq+1:])
	value = strings.Trim(value, `"`)
	attrs = make(map[string]string)
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i := strings.IndexByte(p, '='); i >= 0 {
			attrs[strings.ToLower(strings.TrimSpace(p[:i]))] = strings.TrimSpace(p[i+1:])
		} else {
			attrs[strings.ToLower(p)] = ""
		}
	}
	return name, value, attrs, true
}

// domainMatch reports whether host falls under domain: equal, or host
// ends in "." + domain.
func domainMatch(host, domain string) bool {
	if host == domain {
		return true
	}
	return strings.HasSuffix(host, "."+domain)
}

// pathMatch is a prefix match on "/"-segmented paths.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

// defaultPath is the request path truncated at the last "/".
func defaultPath(reqPath string) string {
	if reqPath == "" || reqPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndexByte(reqPath, '/')
	if i == 0 {
		return "/"
	}
	return reqPath[:i]
}
