package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Aasim47/vendorconex/internal/domain"
	"github.com/Aasim47/vendorconex/internal/event"
	"github.com/Aasim47/vendorconex/internal/repository"
	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
)

// AddCartItemInput holds the parameters for adding a product to the cart.
type AddCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemInput holds the parameters for setting a line quantity.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartService implements cart operations and cart checkout.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, products repository.ProductRepository, orders repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		orders:   orders,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the user's cart. If no cart document exists yet, an empty
// cart is returned without persisting anything.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product line to the user's cart, merging quantities when the
// product is already present. The product must exist in the catalog.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddCartItemInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.FindItemIndex(input.ProductID) < 0 && len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	cart.AddItem(input.ProductID, input.Quantity)
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of an existing line. Quantity 0
// removes the line; a line for a product not in the cart is a 404.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for update: %w", err)
	}

	if !cart.SetItemQuantity(productID, quantity) {
		return nil, apperrors.NotFound("cart item", productID)
	}

	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a product line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	if !cart.RemoveItem(productID) {
		return nil, apperrors.NotFound("cart item", productID)
	}

	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// Checkout converts the cart into a Pending order. Every product is re-read
// from the catalog at checkout time so the order snapshots current prices,
// never cached ones. The order insert and the cart clear are two independent
// single-document writes: if the process dies between them the order exists
// and the cart still has its items, and no compensation runs. Stock is not
// deducted on this path.
func (s *CartService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	lines := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("product", item.ProductID)
			}
			return nil, fmt.Errorf("resolve cart product: %w", err)
		}

		lines = append(lines, domain.OrderItem{
			ProductID:    product.ID,
			Quantity:     item.Quantity,
			PriceAtOrder: product.Price,
		})
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Products:        lines,
		ShippingAddress: domain.DefaultShippingAddress(),
		Status:          domain.OrderStatusPending,
		OrderDate:       time.Now().UTC(),
	}
	order.TotalAmount = order.CalculateTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order from cart: %w", err)
	}

	// Clear the cart only after the order is durable. A failure here leaves
	// the order placed and the cart intact; the caller still gets the order.
	cart.Items = []domain.CartItem{}
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "order placed but cart clear failed",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	} else {
		s.publishCartUpdated(ctx, cart)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order, true); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart checked out",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.Float64("total_amount", order.TotalAmount),
		slog.Int("lines", len(lines)),
	)

	return order, nil
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}

// newEmptyCart creates a new empty cart for the given user.
func (s *CartService) newEmptyCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
