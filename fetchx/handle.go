package fetchx

import (
	"context"
	"sync"
)

// Handle cancels an in-flight request. Cancelling before completion
// suppresses the completion callback, removes any pool waiter, and
// releases the attached connection. Cancel after completion is a no-op.
type Handle struct {
	cancel context.CancelFunc
	reg    *registry

	mu        sync.Mutex
	finished  bool
	cancelled bool
	c         *conn
	wrote     bool
}

func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.finished || h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	c, wrote := h.c, h.wrote
	h.c = nil
	h.mu.Unlock()
	h.cancel()
	if c == nil {
		return
	}
	if c.reused && !wrote {
		// Nothing hit the wire: the leased connection is still clean.
		h.reg.putIdle(c)
	} else {
		h.reg.destroy(c)
	}
}

// attach makes c reachable from Cancel. It reports false when
// cancellation already won, in which case the caller still owns c.
func (h *Handle) attach(c *conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return false
	}
	h.c = c
	h.wrote = false
	return true
}

// beginWrite commits the request to the wire, making the connection
// unreturnable on cancel. False means Cancel already took the
// connection and nothing may be written.
func (h *Handle) beginWrite() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.c == nil {
		return false
	}
	h.wrote = true
	return true
}

// detach reclaims connection ownership from the handle. A nil return
// means Cancel got there first and has already released it.
func (h *Handle) detach() *conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.c
	h.c = nil
	return c
}

// finishOK marks completion; false means the callback must stay silent.
func (h *Handle) finishOK() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.finished {
		return false
	}
	h.finished = true
	return true
}
