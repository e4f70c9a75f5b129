package model

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is the shape shared by the simple name + status lookup tables.
type CatalogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry gives generic code access to the embedded fields.
func (e *CatalogEntry) Entry() *CatalogEntry { return e }

type Department struct {
	CatalogEntry
}

type ProductType struct {
	CatalogEntry
}

// CustomerType decides the price tier of a sale line; see pricing.IsWholesale.
type CustomerType struct {
	CatalogEntry
}
