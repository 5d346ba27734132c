package pricing

import (
	"github.com/shopspring/decimal"
)

// PriceResolver computes the display price and wholesale minimum order
// quantity for a product, independent of any specific transaction.
type PriceResolver struct {
	defaultMOQ decimal.Decimal
}

// NewPriceResolver creates a resolver with the standard MOQ default of 1
func NewPriceResolver() *PriceResolver {
	return NewPriceResolverWithDefaultMOQ(decimal.NewFromInt(1))
}

// NewPriceResolverWithDefaultMOQ creates a resolver with a custom MOQ
// applied when a product carries none
func NewPriceResolverWithDefaultMOQ(defaultMOQ decimal.Decimal) *PriceResolver {
	return &PriceResolver{defaultMOQ: defaultMOQ}
}

// Price fallback chains. Each chain is the ordered list of sources a price
// resolves through; the first recorded value wins. Kept as named functions
// so the fallback order is auditable and tested in one place.

// productRetailPrice: sellingUnitPrice -> sellingPrice -> price
func productRetailPrice(p *Product) decimal.Decimal {
	return coalesce(p.SellingUnitPrice, p.SellingPrice, p.Price)
}

// productWholesalePrice: wholesalePrice -> sellingPrice -> price
func productWholesalePrice(p *Product) decimal.Decimal {
	return coalesce(p.WholesalePrice, p.SellingPrice, p.Price)
}

// productCostPrice: costPrice -> unitPrice
func productCostPrice(p *Product) decimal.Decimal {
	return coalesce(p.CostPrice, p.UnitPrice)
}

// defaultSellingPrice is the product-level price used when no batch applies:
// for batchless products and for any requested remainder beyond tracked stock.
// Wholesale: wholesalePrice -> 0. Retail: sellingPrice -> costPrice -> 0.
func defaultSellingPrice(p *Product, mode SaleMode) decimal.Decimal {
	if mode == SaleModeWholesale {
		return coalesce(p.WholesalePrice)
	}
	return coalesce(p.SellingPrice, p.CostPrice)
}

// batchRetailPrice: batch sellingUnitPrice -> batch sellingPrice -> product sellingPrice
func batchRetailPrice(b *Batch, p *Product) decimal.Decimal {
	return coalesce(b.SellingUnitPrice, b.SellingPrice, p.SellingPrice)
}

// batchWholesalePrice is the full wholesale chain, batch override included:
// batch wholesalePrice -> product wholesalePrice -> batch sellingUnitPrice
// -> batch sellingPrice -> product sellingPrice
func batchWholesalePrice(b *Batch, p *Product) decimal.Decimal {
	return coalesce(b.WholesalePrice, p.WholesalePrice, b.SellingUnitPrice, b.SellingPrice, p.SellingPrice)
}

// batchWholesalePriceBelowMOQ is the wholesale chain with the batch's own
// wholesale override withheld. It applies when a wholesale sale is below the
// MOQ and the batch is not near expiry: the gate specifically controls
// whether the batch-level wholesale price may apply.
func batchWholesalePriceBelowMOQ(b *Batch, p *Product) decimal.Decimal {
	return coalesce(p.WholesalePrice, b.SellingUnitPrice, b.SellingPrice, p.SellingPrice)
}

// batchCostPrice: batch costPrice -> product costPrice
func batchCostPrice(b *Batch, p *Product) decimal.Decimal {
	return coalesce(b.CostPrice, p.CostPrice)
}

// EffectivePrice returns the unit price to quote for the product right now.
// The first batch in consumption order overrides the product-level fallback
// when it carries a positive price. A sold-out product still displays its
// last known batch price rather than falling to zero.
func (r *PriceResolver) EffectivePrice(p *Product, mode SaleMode) decimal.Decimal {
	price := productRetailPrice(p)
	if mode == SaleModeWholesale {
		price = productWholesalePrice(p)
	}

	if len(p.Batches) == 0 {
		return price
	}

	candidates := p.availableBatches()
	if len(candidates) == 0 {
		candidates = p.Batches
	}

	ordered := OrderBatches(candidates, p.TrackExpiry)
	first := &ordered[0]

	// Display chains are slightly shorter than the allocation chains: they
	// stop at the batch's own retail prices instead of falling through to
	// the product retail price, which step 1 already accounts for.
	var batchPrice decimal.Decimal
	if mode == SaleModeWholesale {
		batchPrice = coalesce(first.WholesalePrice, p.WholesalePrice, first.SellingUnitPrice, first.SellingPrice)
	} else {
		batchPrice = coalesce(first.SellingUnitPrice, first.SellingPrice)
	}
	if batchPrice.GreaterThan(decimal.Zero) {
		return batchPrice
	}
	return price
}

// EffectiveWholesaleMOQ returns the minimum total quantity (in product
// units) that opens wholesale batch pricing for a sale. Batches never
// override the MOQ; it is a product-level policy only.
func (r *PriceResolver) EffectiveWholesaleMOQ(p *Product) decimal.Decimal {
	if p.WholesaleMOQ != nil {
		return *p.WholesaleMOQ
	}
	return r.defaultMOQ
}
