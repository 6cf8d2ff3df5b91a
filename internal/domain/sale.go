package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleChannel identifies where a sale originated
type SaleChannel string

const (
	ChannelInPerson SaleChannel = "in-person"
	ChannelWeb      SaleChannel = "web"
)

// Valid reports whether the channel is one of the defined literals
func (c SaleChannel) Valid() bool {
	return c == ChannelInPerson || c == ChannelWeb
}

// SaleStatus is the lifecycle state of a sale
type SaleStatus string

const (
	StatusPending   SaleStatus = "pending"
	StatusConfirmed SaleStatus = "confirmed"
	StatusCancelled SaleStatus = "cancelled"
)

// Valid reports whether the status is one of the defined literals
func (s SaleStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentQR       PaymentMethod = "qr"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the payment method is one of the defined literals
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQR || m == PaymentTransfer
}

// StatusForPayment maps a payment method to the initial sale status.
// QR and transfer payments are treated as pre-verified digital payments;
// everything else requires manual confirmation.
func StatusForPayment(m PaymentMethod) SaleStatus {
	switch m {
	case PaymentQR, PaymentTransfer:
		return StatusConfirmed
	default:
		return StatusPending
	}
}

// MaxSaleTotal is the largest total a sale may carry (decimal(10,2) column)
var MaxSaleTotal = decimal.RequireFromString("999999.99")

// Sale represents a committed sale header
type Sale struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ClientID      uuid.UUID       `json:"client_id" db:"client_id"`
	SalespersonID uuid.UUID       `json:"salesperson_id" db:"salesperson_id"`
	Channel       SaleChannel     `json:"channel" db:"channel"`
	Status        SaleStatus      `json:"status" db:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"`
	ReceiptNumber *string         `json:"receipt_number,omitempty" db:"receipt_number"`
	Total         decimal.Decimal `json:"total" db:"total"`
	SoldAt        time.Time       `json:"sold_at" db:"sold_at"`
	Items         []*SaleLineItem `json:"items,omitempty" db:"-"`
}

// SaleLineItem is one product entry within a sale. The unit price is a
// snapshot of the product's sale price at transaction time and never
// changes afterward.
type SaleLineItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	SaleID    uuid.UUID       `json:"sale_id" db:"sale_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal is quantity times the frozen unit price
func (i *SaleLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
