package domain

import "time"

// SchemaVersion is bumped whenever the persisted cart shape changes.
// A stored cart with a different version is reset to empty on load.
const SchemaVersion = 1

type Cart struct {
	ID            string     `bson:"_id,omitempty" json:"-"`
	UserID        string     `bson:"user_id" json:"user_id"`
	SchemaVersion int        `bson:"schema_version" json:"schema_version"`
	Items         []CartItem `bson:"items" json:"items"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Find returns the item for productID, or nil. At most one item exists
// per product id.
func (c *Cart) Find(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove drops the item for productID, preserving insertion order of the
// remaining items. Removing an absent item is a no-op.
func (c *Cart) Remove(productID string) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
