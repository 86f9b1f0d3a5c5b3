package domain

import (
	"strings"
	"time"
)

// Role represents the role a user registered with.
type Role string

const (
	RoleDriver    Role = "Driver"
	RolePassenger Role = "Passenger"
)

// ParseRole matches a role answer case-insensitively and normalizes it to
// its capitalized label. Returns false for anything else.
func ParseRole(input string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "driver":
		return RoleDriver, true
	case "passenger":
		return RolePassenger, true
	default:
		return "", false
	}
}

// User represents a registered user. Users are created once through the
// registration flow and never edited afterwards.
type User struct {
	ID               string
	Phone            string // identity key, E.164-like
	FullName         string
	Role             Role
	EmergencyContact string
	CreatedAt        time.Time
}
