package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCOD  PaymentMethod = "cash_on_delivery"
)

type Status string

const (
	StatusPending Status = "pending" // cash on delivery, money not yet collected
	StatusPaid    Status = "paid"    // card payment captured
)

func (s Status) String() string {
	return string(s)
}

// OrderItem is a frozen snapshot of the purchased line. It copies the
// product attributes at purchase time so later catalog changes never
// retroactively alter historical orders.
type OrderItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Image       string `json:"image"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Order is immutable once created; the checkout only appends, never
// mutates existing orders.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Shipping        int64           `json:"shipping"` // always zero, free delivery
	Total           int64           `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Payment         PaymentMethod   `json:"payment"`
	Status          Status          `json:"status"`
	PaymentRef      string          `json:"payment_ref,omitempty"` // gateway intent id for card orders
	CreatedAt       time.Time       `json:"created_at"`
}
