package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aasim47/vendorconex/internal/domain"
	"github.com/Aasim47/vendorconex/internal/repository"
	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
)

const productsCollection = "products"

// ProductRepository implements repository.ProductRepository using MongoDB.
// Reviews are embedded in the product document, so review appends and the
// recomputed rating aggregates commit in one atomic document write.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID, including its embedded reviews.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// Update replaces the stored product document.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("product", product.ID)
	}
	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// List returns products matching the filter with the total count. Name and
// category filters are case-insensitive substring matches.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	query := bson.M{}
	if filter.Name != nil && *filter.Name != "" {
		query["name"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(*filter.Name), Options: "i"}}
	}
	if filter.Category != nil && *filter.Category != "" {
		query["category"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(*filter.Category), Options: "i"}}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Page-1) * int64(filter.PerPage)).
		SetLimit(int64(filter.PerPage))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	return products, int(total), nil
}
