package repository

import (
	"context"
	"fmt"
	"time"

	"bms/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalyticsRepository runs the aggregate queries behind the dashboard summary.
type AnalyticsRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (revenue decimal.Decimal, count int64, itemsSold decimal.Decimal, err error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.ProductRanking, error)
	EntityCounts(ctx context.Context, lowStockThreshold decimal.Decimal) (model.EntityCounts, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, decimal.Decimal, error) {
	db := GetDB(ctx, r.db)

	var sales struct {
		Revenue decimal.Decimal
		Count   int64
	}
	if err := db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Scan(&sales).Error; err != nil {
		return decimal.Zero, 0, decimal.Zero, fmt.Errorf("failed to sum sales: %w", err)
	}

	var items struct {
		Quantity decimal.Decimal
	}
	if err := db.Table("sale_items").
		Select("COALESCE(SUM(sale_items.quantity), 0) AS quantity").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at <= ?", from, to).
		Scan(&items).Error; err != nil {
		return decimal.Zero, 0, decimal.Zero, fmt.Errorf("failed to sum sold items: %w", err)
	}

	return sales.Revenue, sales.Count, items.Quantity, nil
}

func (r *analyticsRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := GetDB(ctx, r.db).Table("sale_items").
		Select("products.id AS product_id, products.name AS product_name, SUM(sale_items.quantity) AS total_quantity, SUM(sale_items.line_total) AS total_value").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at <= ?", from, to).
		Group("products.id, products.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}

func (r *analyticsRepository) EntityCounts(ctx context.Context, lowStockThreshold decimal.Decimal) (model.EntityCounts, error) {
	db := GetDB(ctx, r.db)
	var counts model.EntityCounts

	steps := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&model.User{}), &counts.Users},
		{db.Model(&model.Employee{}), &counts.Employees},
		{db.Model(&model.Outlet{}), &counts.Outlets},
		{db.Model(&model.Product{}), &counts.Products},
		{db.Model(&model.Product{}).Where("quantity > 0 AND quantity <= ?", lowStockThreshold), &counts.LowStock},
		{db.Model(&model.Product{}).Where("quantity <= 0"), &counts.OutOfStock},
	}
	for _, s := range steps {
		if err := s.query.Count(s.dest).Error; err != nil {
			return model.EntityCounts{}, fmt.Errorf("failed to count entities: %w", err)
		}
	}
	return counts, nil
}
