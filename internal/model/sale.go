package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a completed point-of-sale transaction.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionNo string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"transaction_no"`
	CustomerName  string          `gorm:"type:varchar(200)" json:"customer_name"`
	Contact       string          `gorm:"type:varchar(50)" json:"contact"`
	OutletID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"outlet_id"`
	Outlet        *Outlet         `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// SaleItem is one priced line of a Sale.
type SaleItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerTypeID uuid.UUID       `gorm:"type:uuid;not null" json:"customer_type_id"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	PriceTier      string          `gorm:"type:varchar(20);not null" json:"price_tier"`
}
