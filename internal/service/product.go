package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Aasim47/vendorconex/internal/cache"
	"github.com/Aasim47/vendorconex/internal/domain"
	"github.com/Aasim47/vendorconex/internal/event"
	"github.com/Aasim47/vendorconex/internal/repository"
	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
	"github.com/Aasim47/vendorconex/pkg/pagination"
)

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	Description   string  `json:"description" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	Category      string  `json:"category" validate:"required"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Vendor        string  `json:"vendor"`
	ImageURL      string  `json:"image_url"`
}

// UpdateProductInput holds the parameters for a partial product update.
// Pointer fields distinguish "not sent" from zero values so price and stock
// can be legitimately set to 0.
type UpdateProductInput struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url"`
}

// AddReviewInput holds the parameters for reviewing a product.
type AddReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// ListProductsInput holds the catalog listing filters.
type ListProductsInput struct {
	Name     string
	Category string
	Params   pagination.Params
}

// ProductService implements catalog and review operations.
type ProductService struct {
	repo     repository.ProductRepository
	users    repository.UserRepository
	cache    *cache.ProductCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service. cache may be nil when the
// product cache is disabled.
func NewProductService(repo repository.ProductRepository, users repository.UserRepository, productCache *cache.ProductCache, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		users:    users,
		cache:    productCache,
		producer: producer,
		logger:   logger,
	}
}

// CreateProduct adds a product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = domain.DefaultProductImageURL
	}

	product := &domain.Product{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Category:      input.Category,
		StockQuantity: input.StockQuantity,
		Vendor:        input.Vendor,
		ImageURL:      imageURL,
		Reviews:       []domain.Review{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// GetProduct retrieves a product by ID, reading through the cache.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			return product, nil
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}

	return product, nil
}

// ListProducts returns a page of the catalog with optional name and category
// substring filters.
func (s *ProductService) ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Result[domain.Product], error) {
	filter := repository.ProductFilter{
		Page:    input.Params.Page,
		PerPage: input.Params.PerPage,
	}
	if input.Name != "" {
		filter.Name = &input.Name
	}
	if input.Category != "" {
		filter.Category = &input.Category
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := pagination.NewResult(products, total, input.Params)
	return &result, nil
}

// UpdateProduct applies a partial update. Only fields present in the input
// change; zero is a legal value for price and stock.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id),
	)

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// AddReview appends a review to the product and recomputes the rating
// aggregates, persisting both in one document write. A user may review a
// product at most once; the check is a read-then-write on the same document,
// so a concurrent duplicate is possible and accepted.
func (s *ProductService) AddReview(ctx context.Context, productID, userID string, input AddReviewInput) (*domain.Product, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	if product.HasReviewBy(userID) {
		return nil, apperrors.Conflict("product already reviewed by this user")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reviewer: %w", err)
	}

	review := domain.Review{
		UserID:    userID,
		Name:      user.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	product.Reviews = append(product.Reviews, review)
	product.RecalculateRating()
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("save reviewed product: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, productID)
	}

	if err := s.producer.PublishProductReviewed(ctx, product, &review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.reviewed event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", productID),
		slog.String("user_id", userID),
		slog.Int("rating", input.Rating),
		slog.Float64("new_rating", product.Rating),
	)

	return product, nil
}
