package domain

import (
	"regexp"
	"strings"
	"time"
)

// Guest is an unauthenticated end-user identified only by self-reported
// name and email for one chat visit. Guests are never deduplicated by email.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGuestRequest is the request to register a guest
type CreateGuestRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether email matches the local@domain.tld pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}

// ValidateGuest checks guest details before any persistence is attempted.
func ValidateGuest(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}
