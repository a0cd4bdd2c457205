package fetchx

import (
	"context"
	"sync"
	"time"

	"dqx0.com/go/webclient/internal/obs"
)

// waiterGrant is what a queued request eventually receives: a live idle
// connection to take over, or a nil conn granting permission to dial
// (the host slot is already counted either way).
type waiterGrant struct {
	c    *conn
	host string
}

type waiter struct {
	id connKey
	ch chan waiterGrant
}

// registry is the process-wide connection table: the idle pool keyed by
// connection identity, the per-host counters, and the FIFO waiter
// queues. A connection is always in exactly one place: attached to a
// request, sitting in idle with a scheduled close, or destroyed.
type registry struct {
	mu         sync.Mutex
	idle       map[connKey][]*conn // MRU at the tail
	perHost    map[string]int      // idle + in-use
	waiters    map[string][]*waiter
	active     int // connections currently attached to requests
	maxPerHost int
	idleTTL    time.Duration
	log        obs.Logger
	meter      obs.Meter
}

func newRegistry(maxPerHost int, idleTTL time.Duration, log obs.Logger, meter obs.Meter) *registry {
	if log == nil {
		log = obs.NopLogger{}
	}
	if meter == nil {
		meter = obs.NopMeter{}
	}
	return &registry{
		idle:       make(map[connKey][]*conn),
		perHost:    make(map[string]int),
		waiters:    make(map[string][]*waiter),
		maxPerHost: maxPerHost,
		idleTTL:    idleTTL,
		log:        log,
		meter:      meter,
	}
}

// acquire admits a request for identity id. It returns an idle
// connection to reuse, or nil with the host slot counted, in which case
// the caller must dial and call abandon on failure. Requests over the
// per-host cap queue strictly FIFO.
func (r *registry) acquire(ctx context.Context, id connKey) (*conn, error) {
	r.mu.Lock()
	if c := r.takeIdleLocked(id); c != nil {
		r.active++
		r.mu.Unlock()
		r.meter.Counter("fetchx_conn_reuse_total", 1)
		r.noteActive()
		return c, nil
	}
	if r.perHost[id.host] < r.maxPerHost {
		r.perHost[id.host]++
		r.active++
		r.mu.Unlock()
		r.noteActive()
		return nil, nil
	}
	w := &waiter{id: id, ch: make(chan waiterGrant, 1)}
	r.waiters[id.host] = append(r.waiters[id.host], w)
	r.mu.Unlock()
	r.meter.Counter("fetchx_waiters_total", 1)
	r.log.Logf(obs.Debug, "host %s at cap, queued", id.host)

	select {
	case g := <-w.ch:
		return g.c, nil
	case <-ctx.Done():
		r.mu.Lock()
		removed := r.removeWaiterLocked(id.host, w)
		r.mu.Unlock()
		if !removed {
			// A grant was already in flight; take it and pass it on.
			r.redispatch(<-w.ch)
		}
		r.log.Logf(obs.Debug, "waiter on %s gave up: %v", id.host, ctx.Err())
		return nil, ErrCancelled
	}
}

// putIdle returns a cleanly-finished connection to the pool. If the
// head waiter for the host wants the same identity it is handed the
// live connection directly; otherwise the connection idles until
// idleTTL expires it.
func (r *registry) putIdle(c *conn) {
	r.mu.Lock()
	r.active--
	if q := r.waiters[c.host]; len(q) > 0 && q[0].id == c.id {
		w := q[0]
		r.popWaiterLocked(c.host)
		r.active++
		c.reused = true
		r.mu.Unlock()
		w.ch <- waiterGrant{c: c, host: c.host}
		r.meter.Counter("fetchx_conn_reuse_total", 1)
		return
	}
	c.phase = phaseIdle
	c.inPool = true
	c.stretch(0)
	c.idleTimer = time.AfterFunc(r.idleTTL, func() { r.expire(c) })
	r.idle[c.id] = append(r.idle[c.id], c)
	r.mu.Unlock()
	r.noteActive()
}

// destroy removes an in-use connection for good: counters drop and the
// head waiter, if any, inherits the slot.
func (r *registry) destroy(c *conn) {
	if c == nil {
		return
	}
	r.mu.Lock()
	if c.released {
		r.mu.Unlock()
		c.closeStream()
		return
	}
	c.released = true
	r.active--
	r.perHost[c.host]--
	r.wakeLocked(c.host)
	if r.perHost[c.host] == 0 {
		delete(r.perHost, c.host)
	}
	r.mu.Unlock()
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.closeStream()
	r.noteActive()
}

// expire is the idle timer callback. It is a no-op when the connection
// was leased (or already destroyed) before the timer won the race.
func (r *registry) expire(c *conn) {
	r.mu.Lock()
	if !c.inPool || c.released {
		r.mu.Unlock()
		return
	}
	c.released = true
	c.inPool = false
	r.removeIdleLocked(c)
	r.perHost[c.host]--
	r.wakeLocked(c.host)
	if r.perHost[c.host] == 0 {
		delete(r.perHost, c.host)
	}
	r.mu.Unlock()
	c.closeStream()
	r.meter.Counter("fetchx_conn_idle_closed_total", 1)
}

// abandon undoes a dial grant that never produced a connection.
func (r *registry) abandon(host string) {
	r.mu.Lock()
	r.active--
	r.perHost[host]--
	r.wakeLocked(host)
	if r.perHost[host] == 0 {
		delete(r.perHost, host)
	}
	r.mu.Unlock()
}

// redispatch hands a grant that reached a cancelled waiter to its next
// rightful owner.
func (r *registry) redispatch(g waiterGrant) {
	if g.c != nil {
		r.putIdle(g.c)
		return
	}
	r.mu.Lock()
	if q := r.waiters[g.host]; len(q) > 0 {
		w := q[0]
		r.popWaiterLocked(g.host)
		r.mu.Unlock()
		w.ch <- waiterGrant{host: g.host}
		return
	}
	r.active--
	r.perHost[g.host]--
	if r.perHost[g.host] == 0 {
		delete(r.perHost, g.host)
	}
	r.mu.Unlock()
}

func (r *registry) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *registry) noteActive() {
	r.meter.Gauge("fetchx_active_conns", float64(r.activeCount()))
}

// wakeLocked transfers the freed slot to the head waiter, if any.
func (r *registry) wakeLocked(host string) {
	q := r.waiters[host]
	if len(q) == 0 {
		return
	}
	w := q[0]
	r.popWaiterLocked(host)
	r.perHost[host]++
	r.active++
	w.ch <- waiterGrant{host: host}
}

func (r *registry) takeIdleLocked(id connKey) *conn {
	list := r.idle[id]
	if len(list) == 0 {
		return nil
	}
	c := list[len(list)-1] // MRU first to maximize TLS session reuse
	list = list[:len(list)-1]
	if len(list) == 0 {
		delete(r.idle, id)
	} else {
		r.idle[id] = list
	}
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.inPool = false
	c.reused = true
	return c
}

func (r *registry) removeIdleLocked(c *conn) {
	list := r.idle[c.id]
	for i, ic := range list {
		if ic == c {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.idle, c.id)
	} else {
		r.idle[c.id] = list
	}
}

func (r *registry) popWaiterLocked(host string) {
	q := r.waiters[host]
	if len(q) <= 1 {
		delete(r.waiters, host)
		return
	}
	r.waiters[host] = q[1:]
}

// removeWaiterLocked reports whether w was still queued.
func (r *registry) removeWaiterLocked(host string, w *waiter) bool {
	q := r.waiters[host]
	for i, qw := range q {
		if qw == w {
			q = append(q[:i], q[i+1:]...)
			if len(q) == 0 {
				delete(r.waiters, host)
			} else {
				r.waiters[host] = q
			}
			return true
		}
	}
	return false
}
