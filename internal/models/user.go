package models

import "time"

// Role enumerates the access levels a user can hold. Checks are exact-match:
// admin does not implicitly satisfy instructor-gated routes.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User is an account identified by a globally unique email address.
// The password column holds a bcrypt hash and is never serialized.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`
	Role     Role   `gorm:"type:varchar(16);not null" json:"role"`

	Verified          bool    `gorm:"default:false" json:"verified"`
	VerificationToken *string `gorm:"uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
