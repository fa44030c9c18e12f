package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// GetUserByUsername retrieves an account by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a bare account without a client profile
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id",
		username, passwordHash, role)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrUserExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// CreateUserWithClient registers an account and its paired client
// profile in one transaction so no half-registration survives a fault.
func (s *Store) CreateUserWithClient(ctx context.Context, username, passwordHash, role, phone, email string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var userID int64
	err = tx.GetContext(ctx, &userID,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id",
		username, passwordHash, role)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrUserExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO clients (name, phone, email) VALUES ($1, $2, $3)",
		username, phone, email); err != nil {
		return 0, fmt.Errorf("failed to create client profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteUser removes an account; the client profile and its orders go
// with it through the cascading foreign keys.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = $1", username)
	return err
}

// GetClients retrieves all client profiles
func (s *Store) GetClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	err := s.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY id")
	return clients, err
}

// ResolveClientIDByUsername looks up the client profile joined to an
// account by the shared username key.
func (s *Store) ResolveClientIDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT id FROM clients WHERE name = $1", username)
	if err == sql.ErrNoRows {
		return 0, models.ErrClientNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateClient inserts a client profile. The name must reference an
// existing account; the foreign key rejects anything else.
func (s *Store) CreateClient(ctx context.Context, name, phone, email string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO clients (name, phone, email) VALUES ($1, $2, $3) RETURNING id",
		name, phone, email)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: no account named %q", models.ErrValidation, name)
		}
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: a profile named %q already exists", models.ErrValidation, name)
		}
		return 0, fmt.Errorf("failed to create client: %w", err)
	}
	return id, nil
}

// DeleteClient removes a client profile and, through the cascade, its
// orders. Deleting an absent id is a no-op.
func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	return err
}
