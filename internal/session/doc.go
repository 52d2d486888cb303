// Package session owns the client's authentication state.
//
// A [Store] has an explicit lifecycle: construct it with [New], load the durable token with [Store.Init],
// and release it with [Store.Close]. Operations before Init return [shared.ErrSessionNotReady] and operations
// after Close return [shared.ErrSessionClosed].
//
// The token is durable (written through a [TokenStore]); the user is cache-only and re-fetched lazily from
// the backend when missing. [Store.State] reports one of three tagged states:
//   - [Unauthenticated] : no token
//   - [AwaitingExternalRedirect] : a login was started and the authorization URL handed off
//   - [Authenticated] : a token exists
//
// Store also implements [oauth2.TokenSource] so the backend client can attach the current token to each request.
package session
