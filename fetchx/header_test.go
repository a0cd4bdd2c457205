package fetchx

import "testing"

func TestHeaderLowercasing(t *testing.T) {
	h := Header{}
	h.Set("Content-Type", "text/plain")
	if got := h.Get("content-type"); got != "text/plain" {
		t.Fatalf("Get lowercase = %q", got)
	}
	if got := h.Get("CONTENT-TYPE"); got != "text/plain" {
		t.Fatalf("Get uppercase = %q", got)
	}
	if _, ok := h["content-type"]; !ok {
		t.Fatal("key not stored lowercase")
	}
}

func TestHeaderAddJoins(t *testing.T) {
	h := Header{}
	h.Add("X-Foo", "a")
	h.Add("x-foo", "b")
	if got := h.Get("X-Foo"); got != "a,b" {
		t.Fatalf("joined = %q, want %q", got, "a,b")
	}
	h.Del("X-FOO")
	if got := h.Get("x-foo"); got != "" {
		t.Fatalf("after Del, got %q, want empty", got)
	}
}

func TestHeaderClone(t *testing.T) {
	h := Header{"X-Mixed": "v"}
	c := h.clone()
	if got := c.Get("x-mixed"); got != "v" {
		t.Fatalf("clone lowercases keys: got %q", got)
	}
	c.Set("x-new", "w")
	if h.Get("x-new") != "" {
		t.Fatal("clone shares storage with original")
	}
}
