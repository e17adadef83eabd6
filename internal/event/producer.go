package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aasim47/vendorconex/internal/domain"
	pkgkafka "github.com/Aasim47/vendorconex/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicUserRegistered     = "vendorconex.user.registered"
	TopicCartUpdated        = "vendorconex.cart.updated"
	TopicOrderPlaced        = "vendorconex.order.placed"
	TopicOrderStatusChanged = "vendorconex.order.status_changed"
	TopicProductReviewed    = "vendorconex.product.reviewed"
)

// Source identifier for events published by this server.
const Source = "vendorconex"

// Publisher abstracts the Kafka producer so services can run without a broker
// (and tests without a network).
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string `json:"user_id"`
	ItemCount int    `json:"item_count"`
	Lines     int    `json:"lines"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	Lines       int     `json:"lines"`
	FromCart    bool    `json:"from_cart"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// ProductReviewedData is the payload for a product.reviewed event.
type ProductReviewedData struct {
	ProductID  string  `json:"product_id"`
	UserID     string  `json:"user_id"`
	Rating     int     `json:"rating"`
	NewAverage float64 `json:"new_average"`
	NumReviews int     `json:"num_reviews"`
}

// Producer publishes domain events to Kafka. All publishes are best effort:
// callers log failures and never fail the request over a broker outage.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{UserID: user.ID, Email: user.Email, Name: user.Name}
	return p.publish(ctx, TopicUserRegistered, user.ID, "user", data)
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:    cart.UserID,
		ItemCount: cart.ItemCount(),
		Lines:     len(cart.Items),
	}
	return p.publish(ctx, TopicCartUpdated, cart.UserID, "cart", data)
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order, fromCart bool) error {
	data := OrderPlacedData{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Lines:       len(order.Products),
		FromCart:    fromCart,
	}
	return p.publish(ctx, TopicOrderPlaced, order.ID, "order", data)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{OrderID: orderID, OldStatus: oldStatus, NewStatus: newStatus}
	return p.publish(ctx, TopicOrderStatusChanged, orderID, "order", data)
}

// PublishProductReviewed publishes a product.reviewed event.
func (p *Producer) PublishProductReviewed(ctx context.Context, product *domain.Product, review *domain.Review) error {
	data := ProductReviewedData{
		ProductID:  product.ID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		NewAverage: product.Rating,
		NumReviews: product.NumReviews,
	}
	return p.publish(ctx, TopicProductReviewed, product.ID, "product", data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
