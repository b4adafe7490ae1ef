package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrSessionNotFound occurs when no stored session matches the requested ID
	ErrSessionNotFound = errors.New("session not found")
)
