package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielpatrickdp/decision-field/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrWeakInput is returned for malformed emails and too-short passwords.
var ErrWeakInput = errors.New("invalid email or password")

// #region profile-store
// ProfileStore is the subset of the store the auth service needs.
type ProfileStore interface {
	CreateProfile(ctx context.Context, email, fullName, passwordHash string) (store.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (store.Profile, error)
}

// #endregion profile-store

// #region service
// Session is a signed-in profile together with its bearer token.
type Session struct {
	Token   string        `json:"token"`
	Profile store.Profile `json:"profile"`
}

// Service handles sign-up and sign-in.
type Service struct {
	profiles ProfileStore
	issuer   *Issuer
	cost     int
}

// NewService creates an auth service using bcrypt.DefaultCost.
func NewService(profiles ProfileStore, issuer *Issuer) *Service {
	return &Service{profiles: profiles, issuer: issuer, cost: bcrypt.DefaultCost}
}

// SignUp registers a profile and returns a session for it.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (Session, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, fmt.Errorf("%w: malformed email", ErrWeakInput)
	}
	if len(password) < MinPasswordLength {
		return Session{}, fmt.Errorf("%w: password shorter than %d characters", ErrWeakInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	p, err := s.profiles.CreateProfile(ctx, email, strings.TrimSpace(fullName), string(hash))
	if err != nil {
		return Session{}, err
	}
	return s.session(p)
}

// SignIn checks credentials and returns a fresh session.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	p, err := s.profiles.GetProfileByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(p)
}

func (s *Service) session(p store.Profile) (Session, error) {
	token, err := s.issuer.Issue(p.ID, p.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Profile: p}, nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// #endregion service
