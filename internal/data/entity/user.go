package entity

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ParseRole accepts only the two known roles.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

type User struct {
	Base
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Name         *string  `db:"name"`
	Role         UserRole `db:"role"`
}
