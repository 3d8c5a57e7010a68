package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews attendance and exports reports
	RoleEmployee Role = "employee" // Records their own attendance
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role

	// Hour is the configured required work hours; nil when never set.
	Hour *int

	// RemainingHours is the value cached by the last time-out recompute.
	RemainingHours *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if user may access other users' records
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RequiredHours returns the configured hours, or fallback when unset or zero.
func (u *User) RequiredHours(fallback int) int {
	if u.Hour == nil || *u.Hour == 0 {
		return fallback
	}
	return *u.Hour
}
