package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/shared"
)

const shutdownGrace = 5 * time.Second

// Listener is a bound localhost socket that serves one login callback.
type Listener struct {
	ln      net.Listener
	timeout time.Duration
	logger  *log.Logger
}

// Listen binds addr. A timeout of zero or less waits until the context ends.
func Listen(addr string, timeout time.Duration, logger *log.Logger) (*Listener, error) {
	if logger == nil {
		logger = log.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to listen on %s: %w", shared.ErrServiceUnavailable, addr, err)
	}
	return &Listener{ln: ln, timeout: timeout, logger: logger}, nil
}

// URL returns the base URL of the bound socket.
func (l *Listener) URL() string {
	return "http://" + l.ln.Addr().String()
}

// Wait serves h until it produces a result, then shuts the server down.
//
// Returns [shared.ErrTimeout] when no callback arrives in time, or the context error when ctx ends first.
func (l *Listener) Wait(ctx context.Context, h *CallbackHandler) (CallbackResult, error) {
	router := NewBasicRouter()
	router.Use(Recover(l.logger), Logging(l.logger))
	router.Handler(h)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.logger.Warn("callback listener shutdown", "error", err)
		}
	}()

	var timeout <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	l.logger.Info("waiting for login callback", "addr", l.ln.Addr().String(), "timeout", l.timeout)

	select {
	case result := <-h.Result():
		return result, nil
	case err, ok := <-serveErr:
		if !ok {
			return CallbackResult{}, fmt.Errorf("%w: callback listener stopped", shared.ErrServiceUnavailable)
		}
		return CallbackResult{}, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	case <-timeout:
		return CallbackResult{}, fmt.Errorf("%w: no login callback after %s", shared.ErrTimeout, l.timeout)
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Close releases the socket when [Listener.Wait] is never called.
func (l *Listener) Close() error {
	return l.ln.Close()
}
