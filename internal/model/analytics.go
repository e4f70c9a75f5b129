package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsSummary aggregates sales and master-data counts over a date range.
type AnalyticsSummary struct {
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	Revenue     decimal.Decimal  `json:"revenue"`
	SalesCount  int64            `json:"sales_count"`
	ItemsSold   decimal.Decimal  `json:"items_sold"`
	Counts      EntityCounts     `json:"counts"`
	TopProducts []ProductRanking `json:"top_products"`
}

// EntityCounts holds the dashboard tile numbers.
type EntityCounts struct {
	Users      int64 `json:"users"`
	Employees  int64 `json:"employees"`
	Outlets    int64 `json:"outlets"`
	Products   int64 `json:"products"`
	LowStock   int64 `json:"low_stock"`
	OutOfStock int64 `json:"out_of_stock"`
}

// ProductRanking is a product ranked by quantity sold.
type ProductRanking struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
