package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist. clients.name is an
// enforced foreign key to users.username so the order-attribution join
// key cannot drift; purchases.product_id is deliberately left without a
// constraint because it is a historical pointer that outlives depleted
// products.
func (s *Store) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL REFERENCES users(username) ON UPDATE CASCADE ON DELETE CASCADE,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			quantity INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			product_id INTEGER NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// GetProducts retrieves all products ordered by id
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetQuantity retrieves the quantity on hand for a product
func (s *Store) GetQuantity(ctx context.Context, id int64) (int, error) {
	var quantity int
	err := s.db.GetContext(ctx, &quantity, "SELECT quantity FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return 0, models.ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// CreateProduct inserts a product and returns its id
func (s *Store) CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO products (name, price, quantity) VALUES ($1, $2, $3) RETURNING id",
		name, price, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

// DeleteProduct removes a product. Deleting an absent id is a no-op.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// AdjustQuantity applies delta to a product's quantity as a single
// read-modify-write transaction. A result of zero or below deletes the
// product instead of persisting an empty row.
func (s *Store) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var quantity int
	err = tx.GetContext(ctx, &quantity,
		"UPDATE products SET quantity = quantity + $1 WHERE id = $2 RETURNING quantity",
		delta, id)
	if err == sql.ErrNoRows {
		return models.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to adjust quantity: %w", err)
	}

	if quantity <= 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to remove depleted product: %w", err)
		}
	}

	return tx.Commit()
}

// isForeignKeyViolation reports whether err is a Postgres FK violation.
func isForeignKeyViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23503"
	}
	return false
}

// isUniqueViolation reports whether err is a Postgres unique violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
