package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidInput = errors.New("invalid input")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	JoinedAt     time.Time `json:"joinedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// RegisterParams is the registration request before hashing.
type RegisterParams struct {
	Email       string
	Password    string
	Nickname    string
	PhoneNumber string
}

func (p *RegisterParams) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
}

func (p RegisterParams) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return errors.New("email is not valid")
	}
	if p.Nickname == "" {
		return errors.New("nickname is required")
	}
	if utf8.RuneCountInString(p.Nickname) > 50 {
		return errors.New("nickname must be 50 characters or less")
	}
	if len(p.PhoneNumber) > 20 {
		return errors.New("phone number must be 20 characters or less")
	}
	return nil
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Nickname     string
	PhoneNumber  string
}
