package domain

import "time"

// Cart represents a user's shopping cart. Each user has at most one cart,
// keyed by user ID, and a product appears at most once per cart.
type Cart struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// CartItem is a single product line in the cart. Prices are not stored here:
// checkout re-reads the catalog so stale cart prices can never leak into an
// order.
type CartItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// FindItemIndex returns the index of the line for the given product, or -1.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem appends a line for the product, merging quantities when a line for
// the product already exists.
func (c *Cart) AddItem(productID string, quantity int) {
	if i := c.FindItemIndex(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// RemoveItem deletes the line for the given product. Returns false if no such
// line exists.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetItemQuantity replaces the quantity on an existing line. Quantity 0
// removes the line. Returns false if no line exists for the product.
func (c *Cart) SetItemQuantity(productID string, quantity int) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	if quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	return true
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}
