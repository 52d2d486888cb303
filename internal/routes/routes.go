// Package routes decides which view a user may see.
//
// [Resolve] is pure: given whether the user is authenticated, whether they have saved preferences,
// and the requested path, it returns the path to show.
package routes

import (
	"net/url"
	"strings"
)

// Paths known to the guard.
const (
	Root        = "/"
	Login       = "/login"
	Preferences = "/preferences"
	Dashboard   = "/dashboard"
	Callback    = "/auth/callback"
)

// Protected reports whether path requires authentication.
func Protected(path string) bool {
	return path == Preferences || path == Dashboard
}

// Known reports whether path is one of the guard's paths.
func Known(path string) bool {
	switch path {
	case Root, Login, Preferences, Dashboard, Callback:
		return true
	}
	return false
}

// Resolve maps a requested path to the path to show. Unknown paths resolve as [Root].
func Resolve(isAuthenticated, hasPreferences bool, requested string) string {
	path := stripQuery(requested)
	if !Known(path) {
		path = Root
	}

	switch path {
	case Callback:
		return Callback
	case Login:
		if isAuthenticated {
			return Dashboard
		}
		return Login
	case Root:
		if !isAuthenticated {
			return Login
		}
		if hasPreferences {
			return Dashboard
		}
		return Preferences
	default:
		if !isAuthenticated {
			return Login
		}
		return path
	}
}

// LoginError builds the login path carrying an escaped error indicator.
func LoginError(code string) string {
	if code == "" {
		return Login
	}
	return Login + "?error=" + url.QueryEscape(code)
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}
