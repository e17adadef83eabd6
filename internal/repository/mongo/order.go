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

const ordersCollection = "orders"

// OrderRepository implements repository.OrderRepository using MongoDB.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, bson.M{})
}

// ListByUserID returns a user's orders, newest first.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *OrderRepository) find(ctx context.Context, query bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus changes the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("order", id)
	}
	return nil
}
