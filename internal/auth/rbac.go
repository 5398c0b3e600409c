package auth

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleClub    Role = "club"
	RoleAdmin   Role = "admin"
)

// NormalizeRole maps arbitrary input onto a known role, defaulting to student.
func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleClub):
		return RoleClub
	case string(RoleStudent):
		return RoleStudent
	default:
		return RoleStudent
	}
}

// IsValidRole reports whether role names one of the three known roles exactly.
func IsValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleStudent), string(RoleClub), string(RoleAdmin):
		return true
	default:
		return false
	}
}

func HasRole(role string, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	current := NormalizeRole(role)
	for _, candidate := range allowed {
		if current == candidate {
			return true
		}
	}
	return false
}

func IsAdmin(role string) bool {
	return NormalizeRole(role) == RoleAdmin
}
