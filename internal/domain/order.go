package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Order represents a placed order. Product lines are immutable snapshots:
// PriceAtOrder is the catalog price at placement time and never follows later
// catalog changes. Only Status and TrackingNumber change after creation.
type Order struct {
	ID              string      `json:"id" bson:"_id"`
	UserID          string      `json:"user_id" bson:"user_id"`
	Products        []OrderItem `json:"products" bson:"products"`
	TotalAmount     float64     `json:"total_amount" bson:"total_amount"`
	ShippingAddress Address     `json:"shipping_address" bson:"shipping_address"`
	Status          string      `json:"status" bson:"status"`
	TrackingNumber  string      `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	OrderDate       time.Time   `json:"order_date" bson:"order_date"`
}

// OrderItem is a product line snapshot within an order.
type OrderItem struct {
	ProductID    string  `json:"product_id" bson:"product_id"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	PriceAtOrder float64 `json:"price_at_order" bson:"price_at_order"`
}

// Address is the order's shipping destination.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Zip     string `json:"zip" bson:"zip"`
	Country string `json:"country" bson:"country"`
}

// DefaultShippingAddress is used by checkout when the user has no address on
// file.
func DefaultShippingAddress() Address {
	return Address{
		Street:  "N/A",
		City:    "N/A",
		State:   "N/A",
		Zip:     "N/A",
		Country: "USA",
	}
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidStatus checks if a status string is on the whitelist.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// CalculateTotal returns the sum of price-at-order times quantity across all
// product lines.
func (o *Order) CalculateTotal() float64 {
	var total float64
	for i := range o.Products {
		total += o.Products[i].PriceAtOrder * float64(o.Products[i].Quantity)
	}
	return total
}
