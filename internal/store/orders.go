package store

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
)

// GetOrders retrieves all orders with their client names. LEFT JOIN so
// an order whose profile went missing still shows up.
func (s *Store) GetOrders(ctx context.Context) ([]models.OrderWithClient, error) {
	orders := []models.OrderWithClient{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT orders.id, orders.client_id, COALESCE(clients.name, '') AS client_name, orders.date
		FROM orders
		LEFT JOIN clients ON clients.id = orders.client_id
		ORDER BY orders.id`)
	return orders, err
}

// CreateOrder inserts an order for a client and returns its id
func (s *Store) CreateOrder(ctx context.Context, clientID int64, date string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO orders (client_id, date) VALUES ($1, $2) RETURNING id",
		clientID, date)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, models.ErrClientNotFound
		}
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

// DeleteOrder removes an order. Deleting an absent id is a no-op.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	return err
}

// DeleteExpiredOrders removes every order dated on or before today and
// returns how many went. The date format is fixed-width, so the lexical
// comparison is a calendar comparison.
func (s *Store) DeleteExpiredOrders(ctx context.Context, today string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE date <= $1", today)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep orders: %w", err)
	}
	return res.RowsAffected()
}

// GetPurchasesByUsername retrieves the audit trail for one buyer
func (s *Store) GetPurchasesByUsername(ctx context.Context, username string) ([]models.Purchase, error) {
	purchases := []models.Purchase{}
	err := s.db.SelectContext(ctx, &purchases,
		"SELECT * FROM purchases WHERE username = $1 ORDER BY id", username)
	return purchases, err
}
