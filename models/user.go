package models

import (
	"net/mail"
	"strings"
	"time"
)

// Roles.
const (
	RoleUser       = "User"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
)

const minPasswordLen = 8

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	IsApproved   bool      `db:"is_approved" json:"isApproved"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type UserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	Password   string `json:"password,omitempty"`
	IsActive   *bool  `json:"isActive"`
	IsApproved *bool  `json:"isApproved"`
}

// Validate checks the payload. A password is mandatory on creation and
// optional on update, where an empty one keeps the stored hash.
func (u *UserInput) Validate(creating bool) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if u.Name == "" {
		return fieldErr("name", "الاسم مطلوب")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fieldErr("email", "البريد الإلكتروني غير صالح")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	switch u.Role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
	default:
		return fieldErr("role", "الدور غير صالح")
	}
	if creating || u.Password != "" {
		if len(u.Password) < minPasswordLen {
			return fieldErr("password", "كلمة المرور يجب أن تتكون من 8 أحرف على الأقل")
		}
	}
	return nil
}

// UserStatusInput toggles the activation and approval flags.
type UserStatusInput struct {
	IsActive   *bool `json:"isActive"`
	IsApproved *bool `json:"isApproved"`
}

func (s *UserStatusInput) Validate() error {
	if s.IsActive == nil && s.IsApproved == nil {
		return fieldErr("status", MsgRequired)
	}
	return nil
}
