package fetchx

import "sync"

// BodyStream is the live, undecoded response body handed to the caller
// when Options.WantBodyHandle is set. Once handed over the engine no
// longer touches the connection or its timers; the pool slot stays
// counted until the caller releases it.
type BodyStream struct {
	c    *conn
	eng  *Engine
	once sync.Once
}

// Read reads raw body bytes, buffered remainder first.
func (s *BodyStream) Read(p []byte) (int, error) {
	return s.c.br.Read(p)
}

// Close returns the pool slot and closes the connection. It is
// equivalent to Engine.Release and safe to call more than once.
func (s *BodyStream) Close() error {
	s.eng.Release(s)
	return nil
}
