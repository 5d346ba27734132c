package pricing

import (
	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/retailcore/engine/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AvailabilityResult reports whether a requested quantity can be covered by
// tracked stock, plus the stock formatted in the requested unit for user
// messaging.
type AvailabilityResult struct {
	Available    bool
	Stock        decimal.Decimal // in product units
	StockDisplay string          // stock formatted in the requested unit
}

// TotalStock returns the product's total remaining stock in product units:
// the sum of all batch quantities, treating missing or negative values as
// zero. A product without batches falls back to its own quantity field.
func TotalStock(p *Product) decimal.Decimal {
	if len(p.Batches) == 0 {
		return coalesce(p.Quantity, p.Stock)
	}
	total := decimal.Zero
	for _, batch := range p.Batches {
		if batch.Quantity.GreaterThan(decimal.Zero) {
			total = total.Add(batch.Quantity)
		}
	}
	return total
}

// CheckAvailability validates a requested quantity against total stock.
// A fractional request for a count-based unit is a hard input-validation
// error, distinct from a stock shortfall: it is rejected here, before any
// allocation is attempted, never silently rounded.
func CheckAvailability(p *Product, quantity decimal.Decimal, unit string) (*AvailabilityResult, error) {
	requested, err := valueobject.NewQuantity(quantity, unit)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
	}
	if !requested.IsAdmissible() {
		return nil, shared.ErrFractionalCount
	}

	total := TotalStock(p)
	requestedInProductUnits := p.QuantityInProductUnits(quantity, unit)

	display := valueobject.MustNewQuantity(decimal.Zero, unit)
	if converted := p.QuantityInUnit(total, unit); !converted.IsNegative() {
		display = valueobject.MustNewQuantity(converted, unit)
	}

	return &AvailabilityResult{
		Available:    requestedInProductUnits.LessThanOrEqual(total),
		Stock:        total,
		StockDisplay: display.String(),
	}, nil
}
