// Package auth gates the mutating endpoints behind the committee's shared
// operator password. There is no user model; a correct password simply
// opens a session.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword indicates a failed login attempt.
var ErrInvalidPassword = errors.New("auth: invalid password")

// Service checks login attempts against the shared operator password.
type Service struct {
	hash []byte
}

// NewService hashes the configured password once at startup so the
// plaintext never sits in memory longer than needed.
func NewService(password string) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{hash: hash}, nil
}

// Authenticate verifies the supplied password.
func (s *Service) Authenticate(password string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
