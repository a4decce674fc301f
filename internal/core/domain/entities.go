package domain

// Role represents a member's role in the system
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleStudent Role = "Student"
)

// Valid reports whether the role is one the system knows about
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// MemberStatus represents a member's account status.
// Members are never hard-deleted; removal flips the status to Disabled.
type MemberStatus string

const (
	StatusActive   MemberStatus = "Active"
	StatusDisabled MemberStatus = "Disabled"
)
