// Package services implements the HTTP clients the podx client talks to.
//
// # Agent Backend
//
// [Client] wraps the podcast agent's REST API: the Spotify OAuth handoff endpoints, the current user,
// preference submission, and the dashboard's status and recent-episode feeds.
//
// The client never stores a token itself. It asks an [oauth2.TokenSource] (the session store) for the
// current token on every request and, when one exists, sends it through an [oauth2.Transport] as a
// Bearer header. Unauthenticated endpoints therefore work with the same client before login.
//
// # Show Search
//
// Two implementations back the shows step's search box:
//   - [SpotifyCatalog] : Spotify Web API show search using client credentials, rate limited
//   - [FeaturedCatalog] : fuzzy match over [models.FeaturedShows], used when no credentials are configured
//
// # Error Handling
//
// Non-2xx responses become a [StatusError], which matches [shared.ErrAPIRequest] with [errors.Is],
// and [shared.ErrNotAuthenticated] as well for 401 responses.
package services
