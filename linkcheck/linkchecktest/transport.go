// Package linkchecktest provides an in-process HTTP transport for testing
// code that validates links, without opening sockets or resolving names.
package linkchecktest

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// Transport routes each request to the handler registered for its hostname.
// Requests for unregistered hosts fail like an unresolvable name.
type Transport struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler

	requests    atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewTransport returns a Transport with no routes.
func NewTransport() *Transport {
	return &Transport{handlers: make(map[string]http.Handler)}
}

// Handle routes requests for host to h.
func (t *Transport) Handle(host string, h http.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[strings.ToLower(host)] = h
}

// HandleFunc routes requests for host to f.
func (t *Transport) HandleFunc(host string, f func(http.ResponseWriter, *http.Request)) {
	t.Handle(host, http.HandlerFunc(f))
}

// Client returns an http.Client that uses t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// Requests returns the number of round trips started.
func (t *Transport) Requests() int64 {
	return t.requests.Load()
}

// MaxInFlight returns the highest number of round trips that were running
// at the same time.
func (t *Transport) MaxInFlight() int64 {
	return t.maxInFlight.Load()
}

// RoundTrip implements http.RoundTripper. The handler runs on its own
// goroutine so that a cancelled request context ends the round trip even if
// the handler never returns.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests.Add(1)
	n := t.inFlight.Add(1)
	defer t.inFlight.Add(-1)
	for {
		prev := t.maxInFlight.Load()
		if n <= prev || t.maxInFlight.CompareAndSwap(prev, n) {
			break
		}
	}

	host := strings.ToLower(req.URL.Hostname())
	t.mu.RLock()
	h, ok := t.handlers[host]
	t.mu.RUnlock()
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(rec, req)
	}()

	select {
	case <-done:
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
