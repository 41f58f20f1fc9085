package models

import "time"

// User mirrors the legacy user_login_info table. Passwords are stored and
// compared in plaintext, matching the pre-existing account store this
// service fronts.
type User struct {
	Email    string `json:"email" gorm:"primaryKey"`
	Username string `json:"username"`
	Password string `json:"pass"`
}

func (User) TableName() string { return "user_login_info" }

// Session maps a bearer token handed out at login to the user it belongs to.
type Session struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
