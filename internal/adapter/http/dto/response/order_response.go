package response

import (
	"time"

	"storefront_billing/internal/domain/entities"
)

type OrderResponse struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   string    `json:"total_amount"`
	AdminNotes    []string  `json:"admin_notes,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount.StringFixed(2),
		AdminNotes:    o.AdminNotes,
		UpdatedAt:     o.UpdatedAt,
	}
}

type AddressResponse struct {
	ID            string `json:"id"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Ward          string `json:"ward,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city"`
	IsDefault     bool   `json:"is_default"`
}

func FromAddress(a entities.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Line1:         a.Line1,
		Ward:          a.Ward,
		District:      a.District,
		City:          a.City,
		IsDefault:     a.IsDefault,
	}
}
