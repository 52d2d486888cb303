package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrCallbackFailed   = fmt.Errorf("callback failed")
	ErrSessionClosed    = fmt.Errorf("session closed")
	ErrSessionNotReady  = fmt.Errorf("session not initialized")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Wizard errors
	ErrSubmitFailed     = fmt.Errorf("failed to save preferences")
	ErrSubmitInFlight   = fmt.Errorf("submission already in progress")
	ErrSubmitNotAllowed = fmt.Errorf("submission not allowed")
	ErrWizardFinished   = fmt.Errorf("wizard already finished")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
