package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock status labels derived from a product's quantity.
const (
	StockOut = "OUT_OF_STOCK"
	StockLow = "LOW_STOCK"
	StockIn  = "IN_STOCK"
)

// Product is an item held at one outlet.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(200);not null;index" json:"name"`
	ProductTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_type_id"`
	ProductType   *ProductType    `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	OutletID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"outlet_id"`
	Outlet        *Outlet         `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockStatus classifies the quantity against the low-stock threshold.
func (p *Product) StockStatus(lowThreshold decimal.Decimal) string {
	switch {
	case !p.Quantity.IsPositive():
		return StockOut
	case p.Quantity.LessThanOrEqual(lowThreshold):
		return StockLow
	default:
		return StockIn
	}
}
