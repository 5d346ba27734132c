package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuantity(t *testing.T) {
	t.Run("Creates quantity with normalized unit", func(t *testing.T) {
		q, err := NewQuantity(decimal.NewFromFloat(2.5), " KG ")
		require.NoError(t, err)
		assert.True(t, q.Amount().Equal(decimal.NewFromFloat(2.5)))
		assert.Equal(t, "kg", q.Unit())
	})

	t.Run("Rejects negative quantity", func(t *testing.T) {
		_, err := NewQuantity(decimal.NewFromInt(-1), "pcs")
		assert.Error(t, err)
	})
}

func TestQuantityAdmissibility(t *testing.T) {
	t.Run("Fractional weight is admissible", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromFloat(2.5), "kg")
		assert.True(t, q.IsAdmissible())
	})

	t.Run("Fractional base-unit weight is admissible", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromFloat(0.5), "g")
		assert.True(t, q.IsAdmissible())
	})

	t.Run("Fractional count is not admissible", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromFloat(2.5), "pcs")
		assert.False(t, q.IsAdmissible())
	})

	t.Run("Whole count is admissible", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromInt(3), "pcs")
		assert.True(t, q.IsAdmissible())
		assert.True(t, q.IsInteger())
	})
}

func TestQuantityConversion(t *testing.T) {
	t.Run("Converts to base unit", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromFloat(1.5), "kg")
		base := q.ToBase()
		assert.Equal(t, "g", base.Unit())
		assert.True(t, base.Amount().Equal(decimal.NewFromInt(1500)))
	})

	t.Run("Converts between units of the same category", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromInt(250), "ml")
		converted := q.ConvertTo("l")
		assert.Equal(t, "l", converted.Unit())
		assert.True(t, converted.Amount().Equal(decimal.NewFromFloat(0.25)))
	})

	t.Run("Count units convert with identity", func(t *testing.T) {
		q := MustNewQuantity(decimal.NewFromInt(7), "pcs")
		assert.True(t, q.ToBase().Equals(q))
	})
}

func TestQuantityArithmetic(t *testing.T) {
	t.Run("Add with matching units", func(t *testing.T) {
		a := MustNewQuantity(decimal.NewFromInt(2), "kg")
		b := MustNewQuantity(decimal.NewFromFloat(0.5), "kg")
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("Add rejects mismatched units", func(t *testing.T) {
		a := MustNewQuantity(decimal.NewFromInt(2), "kg")
		b := MustNewQuantity(decimal.NewFromInt(2), "l")
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("Subtract rejects negative result", func(t *testing.T) {
		a := MustNewQuantity(decimal.NewFromInt(2), "kg")
		b := MustNewQuantity(decimal.NewFromInt(3), "kg")
		_, err := a.Subtract(b)
		assert.Error(t, err)
	})
}

func TestQuantityString(t *testing.T) {
	q := MustNewQuantity(decimal.NewFromFloat(2.5), "kg")
	assert.Equal(t, "2.5 kg", q.String())
}
