package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog
type Product struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          *string         `json:"code,omitempty" db:"code"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	CategoryID    uuid.UUID       `json:"category_id" db:"category_id"`
	SupplierID    uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price" db:"sale_price"`
	Stock         int             `json:"stock" db:"stock"`
	MinStock      int             `json:"min_stock" db:"min_stock"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// LowStock reports whether the product is at or below its minimum threshold
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Supplier represents a product supplier
type Supplier struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Contact   string    `json:"contact" db:"contact"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
