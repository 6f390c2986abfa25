// Package auth implements password-based registration and login over the
// users table, with bcrypt hashing.
package auth

import (
	"database/sql"
	"errors"
	"fmt"

	"larder/internal/database"
	"larder/internal/models"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingFields is returned when the username or password is empty.
	ErrMissingFields = errors.New("enter a username and a password")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUserNotFound is returned when logging in with an unknown username.
	ErrUserNotFound = errors.New("username not found")
	// ErrWrongPassword is returned when the password does not match.
	ErrWrongPassword = errors.New("wrong password")
)

// Service validates registration and login requests against the credential
// store. Validation happens here, before any store access; the store itself
// only persists.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Register creates a new user with a salted bcrypt hash of the password.
// The plaintext password does not outlive the hashing call, and the stored
// hash is never returned to handlers (models.User marshals it as "-").
func (s *Service) Register(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	count, err := database.CountUsersByUsername(s.db, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := database.InsertUser(s.db, username, string(hashedPassword))
	if err != nil {
		// Two concurrent registrations can both pass the count check; the
		// unique index on username decides the loser.
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Login verifies the username and password. It has no side effects: failed
// and successful attempts alike leave the store untouched.
func (s *Service) Login(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := database.GetUserByUsername(s.db, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// bcrypt's comparison is constant time
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	return user, nil
}
