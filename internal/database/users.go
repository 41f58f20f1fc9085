package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketscan/internal/models"
)

var ErrUserExists = errors.New("user already exists")

// GetUserByEmail returns the user for the given email, or nil if no such
// account exists.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetUsers returns every account in the legacy login table.
func GetUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts a new account. The password is stored as-is; this
// table predates the service and is consumed by other tools in plaintext.
func CreateUser(db *gorm.DB, name, email, password string) error {
	user := models.User{
		Email:    email,
		Username: name,
		Password: password,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// CreateSession issues a new bearer token for the given user.
func CreateSession(db *gorm.DB, email string) (*models.Session, error) {
	session := models.Session{
		Token:     uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// GetSessionEmail resolves a bearer token to the owning user's email.
// Returns an empty string for unknown tokens.
func GetSessionEmail(db *gorm.DB, token string) (string, error) {
	var session models.Session
	if err := db.First(&session, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query session: %w", err)
	}
	return session.Email, nil
}
