package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aasim47/vendorconex/internal/domain"
	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
)

const cartsCollection = "carts"

// CartRepository implements repository.CartRepository using MongoDB. One cart
// document per user, keyed by user_id; Save upserts the full document so each
// cart mutation is a single atomic write.
type CartRepository struct {
	coll *mongo.Collection
}

// NewCartRepository creates a new MongoDB-backed cart repository.
func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(cartsCollection)}
}

// EnsureIndexes creates the unique user_id index enforcing one cart per user.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create carts user_id index: %w", err)
	}
	return nil
}

// GetByUserID retrieves the user's cart.
func (r *CartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &cart, nil
}

// Save upserts the cart document, keyed by user ID.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
