package fetchx

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func frozenJar(at time.Time) *Jar {
	j := NewJar()
	j.now = func() time.Time { return at }
	return j
}

func TestJarSetAndMatch(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	j.SetCookie("sid=abc; Path=/", "example.com", "/index")
	j.SetCookie("other=x", "other.test", "/")

	assert.Equal(t, "sid=abc", j.Header("example.com", "/anything", false))
	assert.Equal(t, "sid=abc", j.Header("EXAMPLE.com", "/", false))
	assert.Equal(t, "", j.Header("example.org", "/", false))
}

func TestJarDomainSuffix(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("a=1; Domain=.example.com", "www.example.com", "/")

	// Leading dot is tolerated; any subdomain matches.
	assert.Equal(t, "a=1", j.Header("www.example.com", "/", false))
	assert.Equal(t, "a=1", j.Header("deep.www.example.com", "/", false))
	assert.Equal(t, "a=1", j.Header("example.com", "/", false))
	// Suffix relation, not substring.
	assert.Equal(t, "", j.Header("badexample.com", "/", false))

	// A domain that is not a suffix of the request host is ignored and
	// the cookie is scoped to the request host instead.
	j2 := frozenJar(time.Now())
	j2.SetCookie("b=2; Domain=evil.test", "example.com", "/")
	assert.Equal(t, "", j2.Header("evil.test", "/", false))
	assert.Equal(t, "b=2", j2.Header("example.com", "/", false))
}

func TestJarPathPrefix(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("p=1; Path=/app", "example.com", "/")

	assert.Equal(t, "p=1", j.Header("example.com", "/app", false))
	assert.Equal(t, "p=1", j.Header("example.com", "/app/sub", false))
	assert.Equal(t, "", j.Header("example.com", "/application", false))
	assert.Equal(t, "", j.Header("example.com", "/", false))
}

func TestJarDefaultPath(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("d=1", "example.com", "/a/b/c")
	// Effective path is the request path up to the last "/".
	assert.Equal(t, "d=1", j.Header("example.com", "/a/b/x", false))
	assert.Equal(t, "", j.Header("example.com", "/a/x", false))
}

func TestJarSecure(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("s=1; Secure", "example.com", "/")
	assert.Equal(t, "", j.Header("example.com", "/", false))
	assert.Equal(t, "s=1", j.Header("example.com", "/", true))
}

func TestJarMaxAgePreferred(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	// expires is in the past but max-age wins.
	j.SetCookie("m=1; Max-Age=60; Expires=Sun, 06 Nov 1994 08:49:37 GMT", "example.com", "/")
	assert.Equal(t, "m=1", j.Header("example.com", "/", false))
}

func TestJarExpiredValueRemovesEntry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	j.SetCookie("e=1; Max-Age=60", "example.com", "/")
	require.Equal(t, "e=1", j.Header("example.com", "/", false))

	j.SetCookie("e=gone; Max-Age=0", "example.com", "/")
	assert.Equal(t, "", j.Header("example.com", "/", false))
}

func TestJarExpire(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	j.SetCookie("session=s", "example.com", "/")
	j.SetCookie("short=1; Max-Age=10", "example.com", "/")

	j.now = func() time.Time { return now.Add(time.Hour) }
	j.Expire(false)
	assert.Equal(t, "session=s", j.Header("example.com", "/", false))

	j.Expire(true)
	assert.Equal(t, "", j.Header("example.com", "/", false))
}

func TestJarVersionGuard(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("a=1", "example.com", "/")

	j2 := frozenJar(time.Now())
	j2.Version = 7
	j2.SetCookie("b=2", "example.com", "/")
	// Any version other than 1 empties the jar on first use, then pins 1.
	assert.Equal(t, JarVersion, j2.Version)
	assert.Equal(t, "b=2", j2.Header("example.com", "/", false))
}

func TestJarMultipleCookiesOrdered(t *testing.T) {
	j := frozenJar(time.Now())
	j.SetCookie("broad=1; Path=/", "example.com", "/")
	j.SetCookie("deep=2; Path=/app", "example.com", "/")
	// Longest path first.
	assert.Equal(t, "deep=2; broad=1", j.Header("example.com", "/app/x", false))
}

func TestJarExportShape(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	j.SetCookie("sid=abc; Max-Age=3600; Secure", "example.com", "/")
	j.SetCookie("tmp=s", "example.com", "/")

	b, err := json.Marshal(j.Export())
	require.NoError(t, err)

	assert.Equal(t, int64(1), gjson.GetBytes(b, "version").Int())
	assert.Equal(t, "abc", gjson.GetBytes(b, `example\.com./.sid.value`).String())
	assert.Equal(t, now.Add(time.Hour).Unix(), gjson.GetBytes(b, `example\.com./.sid._expires`).Int())
	assert.True(t, gjson.GetBytes(b, `example\.com./.sid.secure`).Bool())
	// Session cookies carry no _expires.
	assert.True(t, gjson.GetBytes(b, `example\.com./.tmp`).Exists())
	assert.False(t, gjson.GetBytes(b, `example\.com./.tmp._expires`).Exists())
}

func TestJarImportRoundTrip(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j := frozenJar(now)
	j.SetCookie("sid=abc; Max-Age=3600; Secure", "example.com", "/")

	// Through a JSON round trip, as an external serializer would do it.
	b, err := json.Marshal(j.Export())
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))

	j2 := frozenJar(now)
	j2.Import(m)
	assert.Equal(t, "sid=abc", j2.Header("example.com", "/", true))
	assert.Equal(t, "", j2.Header("example.com", "/", false), "secure flag survives the round trip")

	// A foreign version is ignored outright.
	j3 := frozenJar(now)
	j3.Import(map[string]interface{}{"version": 2, "example.com": map[string]interface{}{}})
	assert.Equal(t, "", j3.Header("example.com", "/", true))
}
