package models

import "github.com/shopspring/decimal"

// Product represents a purchasable item in the catalog. A product whose
// quantity reaches zero is removed from the catalog, never kept as a
// zero-stock row.
type Product struct {
	ID       int64           `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Quantity int             `db:"quantity" json:"quantity"`
}

// User represents a login account. Passwords are stored as bcrypt
// hashes. Exactly one admin account exists at all times.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
}

// Client is the contact profile paired with an account. The name column
// references users.username; purchases attribute orders through it.
type Client struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Email string `db:"email" json:"email"`
}

// Order is a pending delivery obligation. Date is a YYYY-MM-DD string;
// the fixed-width zero-padded format makes lexical comparison valid.
type Order struct {
	ID       int64  `db:"id" json:"id"`
	ClientID int64  `db:"client_id" json:"client_id"`
	Date     string `db:"date" json:"date"`
}

// OrderWithClient is an order joined to its client name for listings.
// The join is a LEFT JOIN, so an orphaned profile never hides an order.
type OrderWithClient struct {
	ID         int64  `db:"id" json:"id"`
	ClientID   int64  `db:"client_id" json:"client_id"`
	ClientName string `db:"client_name" json:"client_name"`
	Date       string `db:"date" json:"date"`
}

// Purchase is one row of the append-only audit trail, one per unit
// bought. ProductID is a historical pointer, not an enforced foreign
// key: the product may have been depleted and deleted since.
type Purchase struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	ProductID int64  `db:"product_id" json:"product_id"`
}

// PurchaseResult describes the observable outcome of one committed
// purchase transaction. OrderCreated is false when the buyer has no
// client profile: the purchase still commits, but no order is spawned.
type PurchaseResult struct {
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitsBought  int             `json:"units_bought"`
	Remaining    int             `json:"remaining"`
	Depleted     bool            `json:"depleted"`
	OrderCreated bool            `json:"order_created"`
	OrderID      int64           `json:"order_id,omitempty"`
	OrderDate    string          `json:"order_date,omitempty"`
}

// Account roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DateLayout is the persisted order date format.
const DateLayout = "2006-01-02"
