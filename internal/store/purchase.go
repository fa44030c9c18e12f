package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// ExecutePurchase runs one purchase as a single transaction: decrement
// stock with a floor check, append one purchase row per unit, drop the
// product when depleted, and spawn the buyer's order when a client
// profile exists. A failure at any step rolls the whole thing back.
func (s *Store) ExecutePurchase(ctx context.Context, buyer string, productID int64, quantity int, orderDate string) (*models.PurchaseResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Conditional decrement closes the check-then-act race: the floor
	// check and the write are one statement.
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $1",
		quantity, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", productID); err != nil {
			return nil, fmt.Errorf("failed to check product: %w", err)
		}
		if !exists {
			return nil, models.ErrProductNotFound
		}
		return nil, models.ErrInsufficientStock
	}

	var product models.Product
	if err := tx.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1", productID); err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	result := &models.PurchaseResult{
		ProductName: product.Name,
		UnitPrice:   product.Price,
		UnitsBought: quantity,
		Remaining:   product.Quantity,
	}

	// One audit row per unit bought, not a batched row.
	for i := 0; i < quantity; i++ {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO purchases (username, product_id) VALUES ($1, $2)",
			buyer, productID); err != nil {
			return nil, fmt.Errorf("failed to append purchase record: %w", err)
		}
	}

	if product.Quantity <= 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM products WHERE id = $1", productID); err != nil {
			return nil, fmt.Errorf("failed to remove depleted product: %w", err)
		}
		result.Depleted = true
		result.Remaining = 0
	}

	var clientID int64
	err = tx.GetContext(ctx, &clientID, "SELECT id FROM clients WHERE name = $1", buyer)
	switch {
	case err == sql.ErrNoRows:
		// No client profile: the purchase still commits, no order is
		// created. Callers surface this as OrderCreated=false.
	case err != nil:
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	default:
		var orderID int64
		if err := tx.GetContext(ctx, &orderID,
			"INSERT INTO orders (client_id, date) VALUES ($1, $2) RETURNING id",
			clientID, orderDate); err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		result.OrderCreated = true
		result.OrderID = orderID
		result.OrderDate = orderDate
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return result, nil
}
