// Package server runs the short-lived localhost listener that receives the Spotify login redirect.
//
// # Router
//
// [BasicRouter] implements [Router] on top of [http.ServeMux] with a per-route method check.
// [Middleware] is applied in reverse order of registration, so the first middleware added is the outermost.
// [Logging] and [Recover] are the two middlewares the listener installs.
//
// # Callback
//
// [CallbackHandler] serves the callback path. A redirect carrying an error parameter resolves to the login
// view with that error; a redirect carrying a code is passed to an [ExchangeFunc] (normally the session
// store's HandleCallback). Success resolves to the root path and a failed exchange to the login view with
// the callback_failed indicator. Only the first such request is processed; later ones get 409.
//
// # Listener
//
// [Listen] binds the configured address and [Listener.Wait] serves until the handler reports, the
// configured timeout elapses, or the context ends. The server is shut down before Wait returns.
package server
