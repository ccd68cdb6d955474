package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utaweb/social-backend/internal/models"
)

// Registration conflicts, distinguished so the handler can tell the
// caller which field is taken.
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// PostgresStore handles user CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username        VARCHAR(50)  UNIQUE NOT NULL,
			email           VARCHAR(255) UNIQUE NOT NULL,
			password        VARCHAR(255) NOT NULL,
			profile_picture TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

// CreateUser persists a new user. The email is checked before the
// username so a request duplicating both reports the email conflict.
// The unique constraints catch the race the pre-checks leave open.
func (s *PostgresStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	if existing, err := s.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateEmail
	}
	if existing, err := s.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateUsername
	}

	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, profile_picture, created_at`,
		username, email, hashedPassword,
	).Scan(&u.ID, &u.Username, &u.Email, &u.ProfilePicture, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail returns the user with the given email, or nil if no
// such user exists.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password, profile_picture, created_at
		 FROM users WHERE email = $1`, email)
}

// GetUserByUsername returns the user with the given username, or nil.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password, profile_picture, created_at
		 FROM users WHERE username = $1`, username)
}

// GetUserByID returns the user with the given id, or nil.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password, profile_picture, created_at
		 FROM users WHERE id = $1::uuid`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfilePicture, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" { // malformed uuid, treat as absent
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfilePicture sets the user's profile-picture reference and
// reports whether a record was updated.
func (s *PostgresStore) UpdateProfilePicture(ctx context.Context, id, fileID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET profile_picture = $2 WHERE id = $1::uuid`, id, fileID)
	if err != nil {
		return false, fmt.Errorf("update profile picture: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
