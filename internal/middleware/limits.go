package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dukerupert/addressbook/internal/domain"
)

const (
	// DefaultMaxBodySize fits the form posts with plenty of headroom.
	DefaultMaxBodySize = 64 << 10

	// DefaultTimeout bounds a request when no timeout is configured.
	DefaultTimeout = 10 * time.Second
)

// MaxBodySize rejects bodies larger than maxBytes with 413. A body without a
// declared length is cut off at maxBytes while it is read.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respondTooLarge(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout cancels the request context after d and answers 503 if the
// handler has not started its response by then. Lookups observe the
// cancelled context and stop waiting out their delay.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{w: w, h: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer close(done)
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				select {
				case p := <-panicked:
					// Re-raise on the serving goroutine so Recovery sees it
					panic(p)
				default:
				}
			case <-ctx.Done():
				if tw.expire() {
					respondWithError(w, r, domain.Errorf(domain.ETIMEOUT, "middleware.timeout", "Request timed out. Please try again."))
				}
			}
		})
	}
}

// timeoutWriter keeps the handler's headers private until it commits a
// response, so a late handler never races the timeout reply.
type timeoutWriter struct {
	w http.ResponseWriter
	h http.Header

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.writeHeaderLocked(http.StatusOK)
	return tw.w.Write(b)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.wroteHeader || tw.timedOut {
		return
	}
	tw.wroteHeader = true

	dst := tw.w.Header()
	for k, v := range tw.h {
		dst[k] = v
	}
	tw.w.WriteHeader(code)
}

// expire marks the writer as timed out. It reports false when the handler
// already started responding, in which case the client gets whatever was
// written so far.
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader {
		return false
	}
	tw.timedOut = true
	return true
}
