package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aasim47/vendorconex/internal/domain"
	"github.com/Aasim47/vendorconex/internal/event"
	"github.com/Aasim47/vendorconex/internal/repository"
	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
)

// OrderLineInput is a product line in a direct order placement.
type OrderLineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderInput holds the parameters for placing an order directly.
type PlaceOrderInput struct {
	UserID          string           `json:"user_id" validate:"required"`
	Products        []OrderLineInput `json:"products" validate:"required,min=1,dive"`
	ShippingAddress *domain.Address  `json:"shipping_address"`
}

// UpdateStatusInput holds the parameters for an order status update.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// OrderService implements direct order placement and the order lifecycle.
type OrderService struct {
	repo     repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrder places an order directly, checking and deducting stock line by
// line. Each deduction is its own document write: when a later line fails on
// stock, deductions already made for earlier lines stay deducted and the
// order is not created. There is no rollback on this path.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if len(input.Products) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one product")
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	lines := make([]domain.OrderItem, 0, len(input.Products))
	for _, line := range input.Products {
		if line.Quantity <= 0 {
			return nil, apperrors.InvalidInput("quantity must be greater than 0")
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("product", line.ProductID)
			}
			return nil, fmt.Errorf("resolve order product: %w", err)
		}

		if product.StockQuantity < line.Quantity {
			return nil, apperrors.InsufficientStock(product.Name, product.StockQuantity)
		}

		product.StockQuantity -= line.Quantity
		product.UpdatedAt = time.Now().UTC()
		if err := s.products.Update(ctx, product); err != nil {
			return nil, fmt.Errorf("deduct stock: %w", err)
		}

		lines = append(lines, domain.OrderItem{
			ProductID:    product.ID,
			Quantity:     line.Quantity,
			PriceAtOrder: product.Price,
		})
	}

	address := domain.DefaultShippingAddress()
	if input.ShippingAddress != nil {
		address = *input.ShippingAddress
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		Products:        lines,
		ShippingAddress: address,
		Status:          domain.OrderStatusPending,
		OrderDate:       time.Now().UTC(),
	}
	order.TotalAmount = order.CalculateTotal()

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", input.UserID),
		slog.Float64("total_amount", order.TotalAmount),
		slog.Int("lines", len(lines)),
	)

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListUserOrders returns a user's orders, newest first. The user must exist.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. The status must be on the
// whitelist; any whitelisted status is reachable from any other (the
// lifecycle has no transition graph).
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"invalid status %q, must be one of: %s", status, strings.Join(domain.ValidStatuses(), ", ")))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return order, nil
}
