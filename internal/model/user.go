package model

import "time"

// User maps a row of the users table. Phone doubles as the login name,
// matching the storefront convention that accounts are keyed by phone number.
type User struct {
	ID           int64      `json:"id"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	IsStaff      bool       `json:"is_staff"`
	IsAdmin      bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

// UserPayload is the user shape the frontend consumes.
type UserPayload struct {
	ID       int64  `json:"id"`
	Phone    string `json:"phone"`
	IsStaff  bool   `json:"is_staff"`
	IsAdmin  bool   `json:"is_superuser"`
	IsActive bool   `json:"is_active"`
}

func (u *User) Payload() *UserPayload {
	return &UserPayload{
		ID:       u.ID,
		Phone:    u.Phone,
		IsStaff:  u.IsStaff,
		IsAdmin:  u.IsAdmin,
		IsActive: u.IsActive,
	}
}

type RegisterRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserPayload `json:"user"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AdminUserItem is one row of the admin user-management list.
type AdminUserItem struct {
	ID         int64  `json:"id"`
	Phone      string `json:"phone"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
	LastLogin  string `json:"last_login"`
}

type CreateUserRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	IsStaff  bool   `json:"is_staff"`
}

// UpdateUserRequest carries partial updates; nil fields are left untouched.
type UpdateUserRequest struct {
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	IsStaff  *bool   `json:"is_staff"`
	IsActive *bool   `json:"is_active"`
}
