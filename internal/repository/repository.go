package repository

import (
	"context"

	"github.com/Aasim47/vendorconex/internal/domain"
)

// ProductFilter defines filter criteria for listing products. Name and
// Category match as case-insensitive substrings when set.
type ProductFilter struct {
	Name     *string
	Category *string
	Page     int
	PerPage  int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields an
	// ALREADY_EXISTS error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email (stored lowercased).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductRepository defines the interface for product persistence operations.
// Reviews live inside the product document, so appending a review is an
// Update of the whole document.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Update replaces the stored product document with the given one.
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
}

// CartRepository defines the interface for cart persistence operations.
// Carts are keyed by user ID; Save upserts the whole document.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns all orders, newest first.
	List(ctx context.Context) ([]domain.Order, error)

	// ListByUserID returns a user's orders, newest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus changes the status of an order.
	UpdateStatus(ctx context.Context, id string, status string) error
}
