package fetchx

import "strings"

// defaultProxy parses the lowercase http_proxy environment variable.
// Only absolute http URLs are honored; anything else means direct.
func defaultProxy(getenv func(string) string) *Locator {
	if getenv == nil {
		return nil
	}
	v := getenv("http_proxy")
	if v == "" {
		return nil
	}
	l, err := SplitURL(v)
	if err != nil || l.Scheme != "http" {
		return nil
	}
	return l
}

// proxyKey is the proxy identity part of a pool key.
func proxyKey(p *Locator) string {
	if p == nil {
		return ""
	}
	return p.Scheme + "://" + strings.ToLower(p.Host) + ":" + p.Port
}
