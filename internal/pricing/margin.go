// Package pricing holds the dual (retail / wholesale) pricing rules.
package pricing

import (
	"strings"

	"bms/pkg/apperror"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1000)
	ten      = decimal.NewFromInt(10)
	half     = decimal.NewFromFloat(0.5)
)

// DualPrice is the pair of prices a product carries at one outlet.
type DualPrice struct {
	Retail    decimal.Decimal
	Wholesale decimal.Decimal
}

// MarginPercent returns the retail margin as a percentage with one decimal place:
// round(((retail - wholesale) / retail) * 1000) / 10. Halves round towards +inf.
// A non-positive retail price yields 0; a negative input is an InvalidArgument.
func MarginPercent(retail, wholesale decimal.Decimal) (decimal.Decimal, error) {
	if retail.IsNegative() {
		return decimal.Zero, apperror.InvalidArgument("retail price must not be negative, got %s", retail)
	}
	if wholesale.IsNegative() {
		return decimal.Zero, apperror.InvalidArgument("wholesale price must not be negative, got %s", wholesale)
	}
	if !retail.IsPositive() {
		return decimal.Zero, nil
	}

	perMille := retail.Sub(wholesale).Div(retail).Mul(thousand)
	return perMille.Add(half).Floor().Div(ten), nil
}

// Margin is MarginPercent for a DualPrice.
func (p DualPrice) Margin() (decimal.Decimal, error) {
	return MarginPercent(p.Retail, p.Wholesale)
}

// UnitPrice picks the price tier charged on a sale line.
func UnitPrice(p DualPrice, wholesale bool) decimal.Decimal {
	if wholesale {
		return p.Wholesale
	}
	return p.Retail
}

// IsWholesale reports whether a customer type is billed at wholesale prices.
func IsWholesale(customerTypeName string) bool {
	return strings.Contains(strings.ToLower(customerTypeName), "wholesale")
}

// Tier names the price tier for a customer type.
func Tier(customerTypeName string) string {
	if IsWholesale(customerTypeName) {
		return TierWholesale
	}
	return TierRetail
}

const (
	TierRetail    = "RETAIL"
	TierWholesale = "WHOLESALE"
)

// ValidatePrices checks a retail/wholesale pair before it is stored.
func ValidatePrices(retail, wholesale decimal.Decimal) error {
	if retail.IsNegative() {
		return apperror.InvalidArgument("retail price must be 0 or more")
	}
	if wholesale.IsNegative() {
		return apperror.InvalidArgument("wholesale price must be 0 or more")
	}
	return nil
}
