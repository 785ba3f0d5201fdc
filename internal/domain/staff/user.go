// Package staff holds the console's own operator accounts.
package staff

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleViewer
}

var (
	ErrUserNotFound    = errors.New("staff user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidRole     = errors.New("role must be admin or viewer")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
)

const MinPasswordLength = 8

// User is an operator who can sign in to the console.
type User struct {
	id           uint
	email        string
	name         string
	role         Role
	passwordHash string
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// PasswordHasher hashes and verifies staff passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewUser validates input and stores the hashed password.
func NewUser(email, name string, role Role, password string, hasher PasswordHasher) (*User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if len(password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		email:        strings.ToLower(addr.Address),
		name:         name,
		role:         role,
		passwordHash: hash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser rebuilds a user from storage.
func ReconstructUser(id uint, email, name string, role Role, passwordHash string, lastLoginAt *time.Time, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		role:         role,
		passwordHash: passwordHash,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uint                { return u.id }
func (u *User) Email() string           { return u.email }
func (u *User) Name() string            { return u.name }
func (u *User) Role() Role              { return u.role }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time    { return u.createdAt }
func (u *User) UpdatedAt() time.Time    { return u.updatedAt }

func (u *User) SetID(id uint) {
	u.id = id
}

// VerifyPassword checks the password and records the login on success.
func (u *User) VerifyPassword(password string, hasher PasswordHasher) bool {
	if !hasher.Verify(password, u.passwordHash) {
		return false
	}
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.updatedAt = now
	return true
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	DeleteByEmail(ctx context.Context, email string) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
