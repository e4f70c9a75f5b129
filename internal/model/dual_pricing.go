package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DualPricing is the retail / wholesale price pair of a product at an outlet.
type DualPricing struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_dual_pricing_product_outlet" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OutletID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_dual_pricing_product_outlet" json:"outlet_id"`
	Outlet         *Outlet         `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"wholesale_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"retail_price"`
	Status         string          `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (DualPricing) TableName() string {
	return "dual_pricing"
}
