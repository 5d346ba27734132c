package pricing

import (
	"time"

	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/retailcore/engine/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleMode determines which price chain applies to a transaction
type SaleMode string

const (
	SaleModeRetail    SaleMode = "retail"
	SaleModeWholesale SaleMode = "wholesale"
)

// IsValid checks if the sale mode is valid
func (m SaleMode) IsValid() bool {
	switch m {
	case SaleModeRetail, SaleModeWholesale:
		return true
	}
	return false
}

// String returns the string representation
func (m SaleMode) String() string {
	return string(m)
}

// Product is a read-only snapshot of a catalog product and its purchase
// batches. The engine never mutates it; decrementing batch stock after a
// committed sale belongs to the inventory collaborator that owns the
// authoritative store.
//
// Price fields are optional pointers: nil means "absent, fall through to the
// next source in the chain". Several fields exist only because historical
// imports recorded prices under different names (Price, UnitPrice); the
// resolution chains in resolver.go keep that legacy data sellable.
type Product struct {
	shared.BaseEntity
	Name             string
	Unit             string // natural stocking unit (kg, g, l, ml, pcs, ...)
	Price            *decimal.Decimal
	UnitPrice        *decimal.Decimal
	SellingPrice     *decimal.Decimal
	SellingUnitPrice *decimal.Decimal
	WholesalePrice   *decimal.Decimal
	CostPrice        *decimal.Decimal
	WholesaleMOQ     *decimal.Decimal
	TrackExpiry      bool
	Quantity         *decimal.Decimal // product-level stock, used only when no batches exist
	Stock            *decimal.Decimal // legacy alias for Quantity
	Batches          []Batch
}

// Batch is one purchase lot of a product with its own cost, prices, expiry
// and remaining quantity. Owned exclusively by its product.
type Batch struct {
	shared.BaseEntity
	BatchNumber      string
	Quantity         decimal.Decimal
	ExpiryDate       *time.Time
	CostPrice        *decimal.Decimal
	SellingPrice     *decimal.Decimal
	SellingUnitPrice *decimal.Decimal
	WholesalePrice   *decimal.Decimal
}

// HasStock returns true if the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch has expired
func (b *Batch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// WillExpireWithin returns true if the batch will expire within the given duration
func (b *Batch) WillExpireWithin(duration time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return !b.ExpiryDate.After(time.Now().Add(duration))
}

// FindBatch returns the batch with the given ID, or nil.
// Lookup is by ID only; exhausted batches are still found, since explicit
// selection bypasses availability filtering.
func (p *Product) FindBatch(id string) *Batch {
	for i := range p.Batches {
		if p.Batches[i].ID.String() == id || p.Batches[i].BatchNumber == id {
			return &p.Batches[i]
		}
	}
	return nil
}

// availableBatches returns the batches with remaining stock
func (p *Product) availableBatches() []Batch {
	available := make([]Batch, 0, len(p.Batches))
	for _, batch := range p.Batches {
		if batch.HasStock() {
			available = append(available, batch)
		}
	}
	return available
}

// UnitsPerProductUnit returns how many base units one product unit holds
// (1000 for kg or l, 1 otherwise).
func (p *Product) UnitsPerProductUnit() decimal.Decimal {
	return valueobject.BaseFactor(p.Unit)
}

// QuantityInProductUnits converts a requested (value, unit) pair into the
// product's own unit: normalize to the category base unit, then divide by
// the product unit's base factor. All allocation arithmetic runs in product
// units.
func (p *Product) QuantityInProductUnits(value decimal.Decimal, unit string) decimal.Decimal {
	return valueobject.ToBase(value, unit).Div(p.UnitsPerProductUnit())
}

// QuantityInUnit converts a quantity in product units back into the
// requested display unit.
func (p *Product) QuantityInUnit(productUnits decimal.Decimal, unit string) decimal.Decimal {
	return valueobject.FromBase(productUnits.Mul(p.UnitsPerProductUnit()), unit)
}

// coalesce returns the first non-nil value in an ordered fallback chain,
// or zero when every source is absent. This is the typed counterpart of the
// ?? chains in the upstream data model: an explicitly-recorded zero price
// wins over a later fallback.
func coalesce(values ...*decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}
