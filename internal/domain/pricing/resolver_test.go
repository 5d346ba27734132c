package pricing

import (
	"testing"
	"time"

	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testProduct(unit string, batches ...Batch) *Product {
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Test Product",
		Unit:       unit,
		Batches:    batches,
	}
}

func TestProductFallbackChains(t *testing.T) {
	t.Run("Retail chain prefers selling unit price", func(t *testing.T) {
		p := testProduct("pcs")
		p.SellingUnitPrice = decPtr(12)
		p.SellingPrice = decPtr(10)
		p.Price = decPtr(8)
		assert.True(t, productRetailPrice(p).Equal(dec(12)))
	})

	t.Run("Retail chain falls through selling price to legacy price", func(t *testing.T) {
		p := testProduct("pcs")
		p.Price = decPtr(8)
		assert.True(t, productRetailPrice(p).Equal(dec(8)))

		p.SellingPrice = decPtr(10)
		assert.True(t, productRetailPrice(p).Equal(dec(10)))
	})

	t.Run("Wholesale chain prefers wholesale price", func(t *testing.T) {
		p := testProduct("pcs")
		p.WholesalePrice = decPtr(9)
		p.SellingPrice = decPtr(10)
		assert.True(t, productWholesalePrice(p).Equal(dec(9)))
	})

	t.Run("Absent fields resolve to zero", func(t *testing.T) {
		p := testProduct("pcs")
		assert.True(t, productRetailPrice(p).IsZero())
		assert.True(t, productWholesalePrice(p).IsZero())
		assert.True(t, productCostPrice(p).IsZero())
	})

	t.Run("Recorded zero wins over later fallback", func(t *testing.T) {
		p := testProduct("pcs")
		p.SellingUnitPrice = decPtr(0)
		p.SellingPrice = decPtr(10)
		assert.True(t, productRetailPrice(p).IsZero())
	})

	t.Run("Cost chain falls back to legacy unit price", func(t *testing.T) {
		p := testProduct("pcs")
		p.UnitPrice = decPtr(6)
		assert.True(t, productCostPrice(p).Equal(dec(6)))

		p.CostPrice = decPtr(5)
		assert.True(t, productCostPrice(p).Equal(dec(5)))
	})
}

func TestEffectivePrice(t *testing.T) {
	resolver := NewPriceResolver()
	now := time.Now()

	t.Run("Batchless product quotes product price", func(t *testing.T) {
		p := testProduct("pcs")
		p.SellingPrice = decPtr(10)
		p.WholesalePrice = decPtr(8)
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(10)))
		assert.True(t, resolver.EffectivePrice(p, SaleModeWholesale).Equal(dec(8)))
	})

	t.Run("First batch in consumption order overrides product price", func(t *testing.T) {
		older := testBatch("B001", 10, now.Add(-48*time.Hour), nil)
		older.SellingPrice = decPtr(15)
		newer := testBatch("B002", 10, now, nil)
		newer.SellingPrice = decPtr(20)

		p := testProduct("pcs", newer, older)
		p.SellingPrice = decPtr(10)
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(15)))
	})

	t.Run("Tracking expiry quotes the nearest-expiry batch", func(t *testing.T) {
		later := testBatch("B001", 10, now.Add(-48*time.Hour), timePtr(now.Add(90*24*time.Hour)))
		later.SellingPrice = decPtr(15)
		soon := testBatch("B002", 10, now, timePtr(now.Add(10*24*time.Hour)))
		soon.SellingPrice = decPtr(12)

		p := testProduct("pcs", later, soon)
		p.TrackExpiry = true
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(12)))
	})

	t.Run("Sold-out product still displays last known batch price", func(t *testing.T) {
		exhausted := testBatch("B001", 0, now, nil)
		exhausted.SellingPrice = decPtr(25)

		p := testProduct("pcs", exhausted)
		p.SellingPrice = decPtr(10)
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(25)))
	})

	t.Run("Exhausted batches are skipped while stock remains", func(t *testing.T) {
		exhausted := testBatch("B001", 0, now.Add(-48*time.Hour), nil)
		exhausted.SellingPrice = decPtr(25)
		inStock := testBatch("B002", 5, now, nil)
		inStock.SellingPrice = decPtr(18)

		p := testProduct("pcs", exhausted, inStock)
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(18)))
	})

	t.Run("Batch without usable price keeps product fallback", func(t *testing.T) {
		unpriced := testBatch("B001", 10, now, nil)

		p := testProduct("pcs", unpriced)
		p.SellingPrice = decPtr(10)
		assert.True(t, resolver.EffectivePrice(p, SaleModeRetail).Equal(dec(10)))
	})

	t.Run("Wholesale display chain includes product wholesale price", func(t *testing.T) {
		batch := testBatch("B001", 10, now, nil)
		batch.SellingPrice = decPtr(20)

		p := testProduct("pcs", batch)
		p.WholesalePrice = decPtr(16)
		p.SellingPrice = decPtr(22)
		assert.True(t, resolver.EffectivePrice(p, SaleModeWholesale).Equal(dec(16)))
	})

	t.Run("Batch wholesale override wins for wholesale display", func(t *testing.T) {
		batch := testBatch("B001", 10, now, nil)
		batch.WholesalePrice = decPtr(14)

		p := testProduct("pcs", batch)
		p.WholesalePrice = decPtr(16)
		assert.True(t, resolver.EffectivePrice(p, SaleModeWholesale).Equal(dec(14)))
	})
}

func TestEffectiveWholesaleMOQ(t *testing.T) {
	t.Run("Defaults to one when product carries no MOQ", func(t *testing.T) {
		resolver := NewPriceResolver()
		p := testProduct("pcs")
		assert.True(t, resolver.EffectiveWholesaleMOQ(p).Equal(dec(1)))
	})

	t.Run("Product MOQ wins over the default", func(t *testing.T) {
		resolver := NewPriceResolver()
		p := testProduct("pcs")
		p.WholesaleMOQ = decPtr(10)
		assert.True(t, resolver.EffectiveWholesaleMOQ(p).Equal(dec(10)))
	})

	t.Run("Configured default applies to products without MOQ", func(t *testing.T) {
		resolver := NewPriceResolverWithDefaultMOQ(decimal.NewFromInt(5))
		p := testProduct("pcs")
		assert.True(t, resolver.EffectiveWholesaleMOQ(p).Equal(dec(5)))
	})
}
