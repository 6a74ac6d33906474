package domain

import "time"

type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"-"`
	OwnerID    string     `bson:"owner_id" json:"owner_id"`
	Items      []CartItem `bson:"items" json:"items"`
	TotalPrice float64    `bson:"total_price" json:"total_price"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
}

// Item returns a pointer to the line for productID, or nil if absent.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RecalculateTotal derives TotalPrice from the line subtotals.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal
	}
	c.TotalPrice = total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
