package entities

import "time"

// Address is a saved shipping address. At most one address per user is the default.
//
// Storage model (DynamoDB):
//   - PK: user_id
//   - SK: id
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Line1         string    `json:"line1"`
	Ward          string    `json:"ward,omitempty"`
	District      string    `json:"district,omitempty"`
	City          string    `json:"city"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
