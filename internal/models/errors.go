package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the draw and media flows. Handlers translate these to
// HTTP statuses; services attach context with fmt.Errorf("...: %w", err).
var (
	// ErrUnknownVersion means the requested gacha version is not configured
	ErrUnknownVersion = errors.New("unknown gacha version")

	// ErrQuotaUnavailable means the quota store could not confirm the
	// consumption. The draw is not granted (fail closed).
	ErrQuotaUnavailable = errors.New("quota store unavailable")

	// ErrForbidden covers invalid or expired signed media tokens. Expiry and
	// signature failures are deliberately indistinguishable to the caller.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials means a login attempt failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means a requested record does not exist or is not visible
	// to the caller. Ownership failures map here so they are
	// indistinguishable from missing records.
	ErrNotFound = errors.New("not found")
)

// QuotaExceededError is returned when a user has spent all draws for the
// day. Expected and user-facing; carries the cap for client messaging.
type QuotaExceededError struct {
	MaxPerDay int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily draw limit of %d reached", e.MaxPerDay)
}

// ConfigError marks a malformed rarity table. Fatal at startup; a process
// with a ConfigError must not serve traffic.
type ConfigError struct {
	VersionID string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gacha version %q: %s", e.VersionID, e.Reason)
}
