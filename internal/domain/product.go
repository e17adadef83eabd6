package domain

import "time"

// DefaultProductImageURL is used when a product is created without an image.
const DefaultProductImageURL = "https://via.placeholder.com/300"

// Product represents a catalog item with its reviews embedded in the same
// document, so a review append and the recomputed aggregates commit together.
type Product struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Price         float64   `json:"price" bson:"price"`
	Category      string    `json:"category" bson:"category"`
	StockQuantity int       `json:"stock_quantity" bson:"stock_quantity"`
	Vendor        string    `json:"vendor,omitempty" bson:"vendor,omitempty"`
	ImageURL      string    `json:"image_url" bson:"image_url"`
	Reviews       []Review  `json:"reviews" bson:"reviews"`
	Rating        float64   `json:"rating" bson:"rating"`
	NumReviews    int       `json:"num_reviews" bson:"num_reviews"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Review is embedded in a product. Name is a snapshot of the reviewer's
// display name at review time and does not follow later renames.
type Review struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// HasReviewBy reports whether the given user already reviewed this product.
func (p *Product) HasReviewBy(userID string) bool {
	for i := range p.Reviews {
		if p.Reviews[i].UserID == userID {
			return true
		}
	}
	return false
}

// RecalculateRating recomputes NumReviews and Rating from the embedded
// reviews. The mean is always derived in full from all reviews, never
// adjusted incrementally.
func (p *Product) RecalculateRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}

	var sum int
	for i := range p.Reviews {
		sum += p.Reviews[i].Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
