package service

import (
	"context"
	"fmt"
	"sort"

	"inventory-service/internal/models"

	"github.com/shopspring/decimal"
)

// stubStore is an in-memory stand-in for the SQL store. It mirrors the
// store's contract: conditional decrement, per-unit purchase rows,
// depleted-product removal, lexical date sweeps.
type stubStore struct {
	products     map[int64]*models.Product
	nextProduct  int64
	purchases    []models.Purchase
	nextPurchase int64
	orders       map[int64]*models.Order
	nextOrder    int64
	clients      map[int64]*models.Client
	nextClient   int64
	users        map[string]*models.User
	nextUser     int64

	failPurchases bool
}

func newStubStore() *stubStore {
	return &stubStore{
		products: make(map[int64]*models.Product),
		orders:   make(map[int64]*models.Order),
		clients:  make(map[int64]*models.Client),
		users:    make(map[string]*models.User),
	}
}

func (s *stubStore) addProduct(name string, price string, quantity int) int64 {
	s.nextProduct++
	s.products[s.nextProduct] = &models.Product{
		ID:       s.nextProduct,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	return s.nextProduct
}

func (s *stubStore) addClient(name string) int64 {
	s.nextClient++
	s.clients[s.nextClient] = &models.Client{ID: s.nextClient, Name: name}
	return s.nextClient
}

func (s *stubStore) addOrder(clientID int64, date string) int64 {
	s.nextOrder++
	s.orders[s.nextOrder] = &models.Order{ID: s.nextOrder, ClientID: clientID, Date: date}
	return s.nextOrder
}

// CatalogStore

func (s *stubStore) GetProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) CreateProduct(_ context.Context, name string, price decimal.Decimal, quantity int) (int64, error) {
	s.nextProduct++
	s.products[s.nextProduct] = &models.Product{ID: s.nextProduct, Name: name, Price: price, Quantity: quantity}
	return s.nextProduct, nil
}

func (s *stubStore) DeleteProduct(_ context.Context, id int64) error {
	delete(s.products, id)
	return nil
}

func (s *stubStore) GetQuantity(_ context.Context, id int64) (int, error) {
	p, ok := s.products[id]
	if !ok {
		return 0, models.ErrProductNotFound
	}
	return p.Quantity, nil
}

func (s *stubStore) AdjustQuantity(_ context.Context, id int64, delta int) error {
	p, ok := s.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	p.Quantity += delta
	if p.Quantity <= 0 {
		delete(s.products, id)
	}
	return nil
}

// PurchaseStore

func (s *stubStore) ExecutePurchase(_ context.Context, buyer string, productID int64, quantity int, orderDate string) (*models.PurchaseResult, error) {
	if s.failPurchases {
		return nil, fmt.Errorf("storage fault")
	}

	p, ok := s.products[productID]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	if p.Quantity < quantity {
		return nil, models.ErrInsufficientStock
	}

	p.Quantity -= quantity
	for i := 0; i < quantity; i++ {
		s.nextPurchase++
		s.purchases = append(s.purchases, models.Purchase{
			ID:        s.nextPurchase,
			Username:  buyer,
			ProductID: productID,
		})
	}

	result := &models.PurchaseResult{
		ProductName: p.Name,
		UnitPrice:   p.Price,
		UnitsBought: quantity,
		Remaining:   p.Quantity,
	}

	if p.Quantity <= 0 {
		delete(s.products, productID)
		result.Depleted = true
		result.Remaining = 0
	}

	for _, c := range s.clients {
		if c.Name == buyer {
			s.nextOrder++
			s.orders[s.nextOrder] = &models.Order{ID: s.nextOrder, ClientID: c.ID, Date: orderDate}
			result.OrderCreated = true
			result.OrderID = s.nextOrder
			result.OrderDate = orderDate
			break
		}
	}

	return result, nil
}

func (s *stubStore) GetPurchasesByUsername(_ context.Context, username string) ([]models.Purchase, error) {
	out := []models.Purchase{}
	for _, p := range s.purchases {
		if p.Username == username {
			out = append(out, p)
		}
	}
	return out, nil
}

// OrderStore

func (s *stubStore) GetOrders(_ context.Context) ([]models.OrderWithClient, error) {
	out := make([]models.OrderWithClient, 0, len(s.orders))
	for _, o := range s.orders {
		name := ""
		if c, ok := s.clients[o.ClientID]; ok {
			name = c.Name
		}
		out = append(out, models.OrderWithClient{
			ID:         o.ID,
			ClientID:   o.ClientID,
			ClientName: name,
			Date:       o.Date,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) CreateOrder(_ context.Context, clientID int64, date string) (int64, error) {
	if _, ok := s.clients[clientID]; !ok {
		return 0, models.ErrClientNotFound
	}
	return s.addOrder(clientID, date), nil
}

func (s *stubStore) DeleteOrder(_ context.Context, id int64) error {
	delete(s.orders, id)
	return nil
}

func (s *stubStore) DeleteExpiredOrders(_ context.Context, today string) (int64, error) {
	var removed int64
	for id, o := range s.orders {
		if o.Date <= today {
			delete(s.orders, id)
			removed++
		}
	}
	return removed, nil
}

// AccountStore

func (s *stubStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubStore) CreateUser(_ context.Context, username, passwordHash, role string) (int64, error) {
	if _, exists := s.users[username]; exists {
		return 0, models.ErrUserExists
	}
	s.nextUser++
	s.users[username] = &models.User{ID: s.nextUser, Username: username, Password: passwordHash, Role: role}
	return s.nextUser, nil
}

func (s *stubStore) CreateUserWithClient(ctx context.Context, username, passwordHash, role, phone, email string) (int64, error) {
	id, err := s.CreateUser(ctx, username, passwordHash, role)
	if err != nil {
		return 0, err
	}
	s.nextClient++
	s.clients[s.nextClient] = &models.Client{ID: s.nextClient, Name: username, Phone: phone, Email: email}
	return id, nil
}

func (s *stubStore) DeleteUser(_ context.Context, username string) error {
	delete(s.users, username)
	for id, c := range s.clients {
		if c.Name == username {
			for oid, o := range s.orders {
				if o.ClientID == id {
					delete(s.orders, oid)
				}
			}
			delete(s.clients, id)
		}
	}
	return nil
}

func (s *stubStore) GetClients(_ context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) ResolveClientIDByUsername(_ context.Context, username string) (int64, error) {
	for _, c := range s.clients {
		if c.Name == username {
			return c.ID, nil
		}
	}
	return 0, models.ErrClientNotFound
}

func (s *stubStore) CreateClient(_ context.Context, name, phone, email string) (int64, error) {
	if _, ok := s.users[name]; !ok {
		return 0, fmt.Errorf("%w: no account named %q", models.ErrValidation, name)
	}
	for _, c := range s.clients {
		if c.Name == name {
			return 0, fmt.Errorf("%w: a profile named %q already exists", models.ErrValidation, name)
		}
	}
	s.nextClient++
	s.clients[s.nextClient] = &models.Client{ID: s.nextClient, Name: name, Phone: phone, Email: email}
	return s.nextClient, nil
}

func (s *stubStore) DeleteClient(_ context.Context, id int64) error {
	for oid, o := range s.orders {
		if o.ClientID == id {
			delete(s.orders, oid)
		}
	}
	delete(s.clients, id)
	return nil
}
