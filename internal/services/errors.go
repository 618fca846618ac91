package services

import (
	"errors"
	"fmt"

	"moneymanager/internal/models"
)

// Sentinel errors for the domain. Every entry has a stable code surfaced to
// API clients; handlers map codes to HTTP statuses.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("not allowed for this profile")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("already exists")
	ErrMailDelivery    = errors.New("mail delivery failed")
)

// CheckOwnership rejects access to a record held by another profile.
func CheckOwnership(profileID uint, record models.Ownable) error {
	if record.GetProfileID() != profileID {
		return fmt.Errorf("record belongs to profile %d: %w", record.GetProfileID(), ErrUnauthorized)
	}
	return nil
}

// Code returns the stable error code for err, or "internal_error" for
// anything outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrMailDelivery):
		return "mail_failure"
	default:
		return "internal_error"
	}
}
