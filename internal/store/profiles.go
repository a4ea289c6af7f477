package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// #region create-profile
// CreateProfile inserts a new profile. Email uniqueness maps to ErrEmailTaken.
func (s *Store) CreateProfile(ctx context.Context, email, fullName, passwordHash string) (Profile, error) {
	now := s.now()
	p := Profile{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, full_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, nullIfEmpty(p.FullName), p.PasswordHash, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Profile{}, ErrEmailTaken
		}
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

// #endregion create-profile

// #region get-profile
// GetProfile looks a profile up by id.
func (s *Store) GetProfile(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return Profile{}, notFound(err, "get profile")
	}
	return p, nil
}

// GetProfileByEmail looks a profile up by its normalized email.
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, created_at, updated_at
		 FROM profiles WHERE email = ?`, email)
	p, err := scanProfile(row)
	if err != nil {
		return Profile{}, notFound(err, "get profile by email")
	}
	return p, nil
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var fullName sql.NullString
	var created, updated string
	if err := row.Scan(&p.ID, &p.Email, &fullName, &p.PasswordHash, &created, &updated); err != nil {
		return Profile{}, err
	}
	p.FullName = fullName.String
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// #endregion get-profile
