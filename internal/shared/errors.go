package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthExchange   = fmt.Errorf("failed to authenticate")
	ErrDismissedInput = fmt.Errorf("no input provided")
	ErrTokenExpired   = fmt.Errorf("access token expired")

	// API and service errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
)
