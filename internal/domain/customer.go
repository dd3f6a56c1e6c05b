package domain

import "time"

// Customer is a registered storefront user; CRM panels read the same rows.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CustomerRecord is an untyped row returned by the customer RPC.
type CustomerRecord map[string]any

// SalesRecord is an untyped row returned by the sales RPC.
type SalesRecord map[string]any

type Recommendation struct {
	ID                   string `json:"id"`
	ProductName          string `json:"product_name"`
	RecommendationReason string `json:"recommendation_reason"`
}
