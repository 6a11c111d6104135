package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNameRequired indicates a missing guest name
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidEmail indicates a syntactically invalid email address
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrExchangeInFlight indicates an exchange is already running on the session
	ErrExchangeInFlight = errors.New("exchange already in flight")
)
