package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/routes"
	"github.com/desertthunder/podx/internal/shared"
)

// CallbackFailed is the error indicator used when the code exchange fails.
const CallbackFailed = "callback_failed"

// ExchangeFunc completes a login with the authorization code and state from the redirect.
type ExchangeFunc func(ctx context.Context, code, state string) error

// CallbackResult is the outcome of the single processed callback.
//
// RedirectTo is the view the client should show next: [routes.Root] on success,
// or the login path carrying an error indicator.
type CallbackResult struct {
	RedirectTo string
	Err        error
}

// CallbackHandler serves [routes.Callback]. Only the first request carrying a code or an error is processed.
type CallbackHandler struct {
	exchange ExchangeFunc
	logger   *log.Logger
	results  chan CallbackResult
	once     sync.Once
	mu       sync.Mutex
	hit      bool
}

// NewCallbackHandler creates a handler that calls exchange for the authorization code.
func NewCallbackHandler(exchange ExchangeFunc, logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &CallbackHandler{
		exchange: exchange,
		logger:   logger,
		results:  make(chan CallbackResult, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{routes.Callback}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state, oauthErr := q.Get("code"), q.Get("state"), q.Get("error")

	if code == "" && oauthErr == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusConflict)
		return
	}
	h.hit = true
	h.mu.Unlock()

	var result CallbackResult
	switch {
	case oauthErr != "":
		h.logger.Warn("authorization denied", "error", oauthErr)
		result = CallbackResult{
			RedirectTo: routes.LoginError(oauthErr),
			Err:        fmt.Errorf("%w: %s", shared.ErrAuthFailed, oauthErr),
		}
	default:
		if err := h.exchange(r.Context(), code, state); err != nil {
			h.logger.Error("callback handling failed", "error", err)
			result = CallbackResult{
				RedirectTo: routes.LoginError(CallbackFailed),
				Err:        fmt.Errorf("%w: %w", shared.ErrCallbackFailed, err),
			}
		} else {
			result = CallbackResult{RedirectTo: routes.Root}
		}
	}

	h.Send(result)

	status := http.StatusOK
	if result.Err != nil {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := resultPage.Execute(w, pageData(result)); err != nil {
		h.logger.Warn("failed to render callback page", "error", err)
	}
}

// Send delivers result on the result channel. Later calls are ignored.
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one [CallbackResult] and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

type page struct {
	Title   string
	Message string
	Color   string
}

func pageData(r CallbackResult) page {
	if r.Err != nil {
		return page{
			Title:   "Login Failed",
			Message: r.Err.Error(),
			Color:   "#E22134",
		}
	}
	return page{
		Title:   "✓ Connected to Spotify",
		Message: "You can close this window and return to the terminal.",
		Color:   "#1DB954",
	}
}

var resultPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))
