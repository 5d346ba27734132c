package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultNearExpiryWindow is how close to expiry a batch must be before the
// near-expiry wholesale override kicks in.
const DefaultNearExpiryWindow = 30 * 24 * time.Hour

// BatchDraw records how much a single batch contributes to an allocation
// and at which prices. The inventory collaborator applies these as
// transactional decrements after the sale is confirmed.
type BatchDraw struct {
	BatchID      uuid.UUID
	BatchNumber  string
	Quantity     decimal.Decimal // in product units
	SellingPrice decimal.Decimal // applied unit selling price
	CostPrice    decimal.Decimal // applied unit cost price
}

// AllocationResult is the complete outcome of a quantity-driven allocation
type AllocationResult struct {
	TotalSellingPrice   decimal.Decimal
	TotalCostPrice      decimal.Decimal
	AverageSellingPrice decimal.Decimal
	WeightedAverageCost decimal.Decimal // cost per drawn unit, batch draws only
	UsedBatches         []BatchDraw
	RequestedQuantity   decimal.Decimal // in product units
	UnallocatedQuantity decimal.Decimal // remainder priced at the product default
	FullyAllocated      bool
}

// Engine walks a product's batches in consumption order to satisfy either a
// requested quantity or a requested monetary amount. It is a pure
// computation over the supplied snapshot: it never mutates batch
// quantities, and identical inputs always produce identical results.
type Engine struct {
	resolver         *PriceResolver
	nearExpiryWindow time.Duration
}

// NewEngine creates an allocation engine with the default near-expiry window
func NewEngine(resolver *PriceResolver) *Engine {
	return NewEngineWithWindow(resolver, DefaultNearExpiryWindow)
}

// NewEngineWithWindow creates an allocation engine with a custom near-expiry window
func NewEngineWithWindow(resolver *PriceResolver, window time.Duration) *Engine {
	if window <= 0 {
		window = DefaultNearExpiryWindow
	}
	return &Engine{
		resolver:         resolver,
		nearExpiryWindow: window,
	}
}

// Resolver returns the engine's price resolver
func (e *Engine) Resolver() *PriceResolver {
	return e.resolver
}

// ExpiringSoon returns the product's in-stock batches that fall inside the
// engine's near-expiry window.
func (e *Engine) ExpiringSoon(p *Product) []Batch {
	return ExpiringBatches(p, e.nearExpiryWindow)
}

// consumptionOrder determines which batches an allocation walks, and in
// what order. Explicit selection always wins and bypasses availability
// filtering, so the UI can quote a specific (even exhausted) batch.
// Wholesale forces FEFO over in-stock batches regardless of the product's
// trackExpiry flag: wholesale liquidation prefers to clear soon-to-expire
// stock first. Retail follows the product's own ordering over all batches;
// exhausted ones are skipped naturally in the walk.
func (e *Engine) consumptionOrder(p *Product, mode SaleMode, selectedBatchID string) ([]Batch, error) {
	if selectedBatchID != "" {
		batch := p.FindBatch(selectedBatchID)
		if batch == nil {
			return nil, shared.ErrBatchNotFound
		}
		return []Batch{*batch}, nil
	}
	if mode == SaleModeWholesale {
		return OrderBatches(p.availableBatches(), true), nil
	}
	return OrderBatches(p.Batches, p.TrackExpiry), nil
}

// appliedSellingPrice resolves the unit selling price a batch contributes
// at. In wholesale mode the batch's own wholesale override only applies
// when the requested total meets the MOQ or the batch is near expiry.
func (e *Engine) appliedSellingPrice(p *Product, b *Batch, mode SaleMode, requested decimal.Decimal) decimal.Decimal {
	if mode != SaleModeWholesale {
		return batchRetailPrice(b, p)
	}
	moq := e.resolver.EffectiveWholesaleMOQ(p)
	if requested.GreaterThanOrEqual(moq) || b.WillExpireWithin(e.nearExpiryWindow) {
		return batchWholesalePrice(b, p)
	}
	return batchWholesalePriceBelowMOQ(b, p)
}

// AllocateByQuantity computes what a sale of the requested quantity costs
// and which batches it draws from. The quantity may be expressed in any
// unit of the product's category. A zero or negative request yields a
// zero-valued result. Requests beyond tracked stock are never blocked:
// the unmet remainder prices at the product default, and the caller decides
// whether to proceed after consulting CheckAvailability.
func (e *Engine) AllocateByQuantity(p *Product, quantity decimal.Decimal, unit string, mode SaleMode, selectedBatchID string) (*AllocationResult, error) {
	result := &AllocationResult{
		UsedBatches: make([]BatchDraw, 0),
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return result, nil
	}

	requested := p.QuantityInProductUnits(quantity, unit)
	result.RequestedQuantity = requested

	order, err := e.consumptionOrder(p, mode, selectedBatchID)
	if err != nil {
		return nil, err
	}

	remaining := requested
	explicit := selectedBatchID != ""
	totalSelling := decimal.Zero
	totalCost := decimal.Zero
	drawnQuantity := decimal.Zero
	drawnCost := decimal.Zero

	for i := range order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		batch := &order[i]
		draw := decimal.Min(remaining, batch.Quantity)
		if explicit && !batch.HasStock() {
			// Explicitly selected batches price the full request even when
			// exhausted; the caller asked to see this batch's terms.
			draw = remaining
		}
		if draw.LessThanOrEqual(decimal.Zero) {
			continue
		}

		sellingPrice := e.appliedSellingPrice(p, batch, mode, requested)
		costPrice := batchCostPrice(batch, p)

		totalSelling = totalSelling.Add(draw.Mul(sellingPrice))
		totalCost = totalCost.Add(draw.Mul(costPrice))
		drawnQuantity = drawnQuantity.Add(draw)
		drawnCost = drawnCost.Add(draw.Mul(costPrice))
		remaining = remaining.Sub(draw)

		result.UsedBatches = append(result.UsedBatches, BatchDraw{
			BatchID:      batch.ID,
			BatchNumber:  batch.BatchNumber,
			Quantity:     draw,
			SellingPrice: sellingPrice,
			CostPrice:    costPrice,
		})
	}

	// Remainder beyond tracked stock falls through to product-level pricing
	// with no batch record.
	if remaining.GreaterThan(decimal.Zero) {
		totalSelling = totalSelling.Add(remaining.Mul(defaultSellingPrice(p, mode)))
		totalCost = totalCost.Add(remaining.Mul(productCostPrice(p)))
		result.UnallocatedQuantity = remaining
	}

	// Totals truncate down to the cent; they must never creep above what
	// the per-batch arithmetic produced.
	result.TotalSellingPrice = totalSelling.RoundDown(2)
	result.TotalCostPrice = totalCost.RoundDown(2)
	result.FullyAllocated = result.UnallocatedQuantity.IsZero()
	if requested.GreaterThan(decimal.Zero) {
		result.AverageSellingPrice = result.TotalSellingPrice.Div(requested).Round(4)
	}
	if drawnQuantity.GreaterThan(decimal.Zero) {
		result.WeightedAverageCost = drawnCost.Div(drawnQuantity).Round(4)
	}
	return result, nil
}

// AllocateByAmount is the inverse operation: given the amount a customer
// wants to spend, it returns how much quantity that buys, expressed in the
// requested unit. It walks the same consumption order as AllocateByQuantity
// but by value. The wholesale MOQ gate is deliberately not evaluated here:
// the target quantity is this operation's output, so any MOQ comparison
// would be circular, and amount-driven selling is already a wholesale
// counter flow. Wholesale batches therefore always price at the full
// wholesale chain.
func (e *Engine) AllocateByAmount(p *Product, amount decimal.Decimal, unit string, mode SaleMode, selectedBatchID string) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	order, err := e.consumptionOrder(p, mode, selectedBatchID)
	if err != nil {
		return decimal.Zero, err
	}

	remaining := amount
	explicit := selectedBatchID != ""
	totalProductUnits := decimal.Zero

	for i := range order {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		batch := &order[i]
		if !batch.HasStock() && !explicit {
			continue
		}

		var price decimal.Decimal
		if mode == SaleModeWholesale {
			price = batchWholesalePrice(batch, p)
		} else {
			price = batchRetailPrice(batch, p)
		}
		// A free or invalid price cannot derive a quantity.
		if price.LessThanOrEqual(decimal.Zero) {
			continue
		}

		fromBatch := remaining
		if batch.HasStock() {
			batchValue := batch.Quantity.Mul(price)
			fromBatch = decimal.Min(remaining, batchValue)
		}
		totalProductUnits = totalProductUnits.Add(fromBatch.Div(price))
		remaining = remaining.Sub(fromBatch)
	}

	if remaining.GreaterThan(decimal.Zero) {
		defaultPrice := defaultSellingPrice(p, mode)
		if defaultPrice.GreaterThan(decimal.Zero) {
			totalProductUnits = totalProductUnits.Add(remaining.Div(defaultPrice))
		}
	}

	return p.QuantityInUnit(totalProductUnits, unit), nil
}

// ExpiringBatches returns the product's in-stock batches that will expire
// within the given window, in FEFO order. Feeds near-expiry dashboards and
// liquidation suggestions.
func ExpiringBatches(p *Product, window time.Duration) []Batch {
	expiring := make([]Batch, 0)
	for _, batch := range p.availableBatches() {
		if batch.WillExpireWithin(window) {
			expiring = append(expiring, batch)
		}
	}
	return OrderBatches(expiring, true)
}
