package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID               string           `json:"id"`
	CustomerID       *string          `json:"customerId,omitempty"`
	TransactionID    string           `json:"transactionId,omitempty"`
	Status           OrderStatus      `json:"status"`
	TotalAmountCents int64            `json:"totalAmountCents"`
	Currency         string           `json:"currency"`
	PaymentMethodID  *string          `json:"paymentMethodId,omitempty"`
	ShippingAddress  *ShippingAddress `json:"shippingAddress,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Items            []OrderItem      `json:"items"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type OrderItem struct {
	ID                 string   `json:"id"`
	OrderID            string   `json:"orderId"`
	BookID             string   `json:"bookId"`
	Title              string   `json:"title,omitempty"`
	Quantity           int      `json:"quantity"`
	OriginalPriceCents int64    `json:"originalPriceCents"`
	FinalPriceCents    int64    `json:"finalPriceCents"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// ShippingAddress holds flat address fields; no validation is applied.
type ShippingAddress struct {
	FullName   string `json:"fullName,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// PaymentMethod carries card metadata only. At most one default per customer
// is expected but not enforced here.
type PaymentMethod struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	CardBrand  string    `json:"cardBrand"`
	Last4      string    `json:"last4"`
	ExpMonth   int       `json:"expMonth"`
	ExpYear    int       `json:"expYear"`
	HolderName string    `json:"holderName,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
