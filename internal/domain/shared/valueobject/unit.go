package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnitCategory classifies units of measurement. Anything that is not a
// recognized weight or volume unit is treated as count-based.
type UnitCategory string

const (
	UnitCategoryWeight UnitCategory = "weight"
	UnitCategoryVolume UnitCategory = "volume"
	UnitCategoryCount  UnitCategory = "count"
)

// String returns the string representation of the category
func (c UnitCategory) String() string {
	return string(c)
}

// Common unit codes. Units are stored lowercase; pcs is only one of many
// count-like codes (box, dozen, ...) - any unrecognized code is count-based.
const (
	UnitKG  = "kg"
	UnitG   = "g"
	UnitL   = "l"
	UnitML  = "ml"
	UnitPCS = "pcs"
)

// baseUnitFactors maps a unit code to its conversion factor into the
// category base unit (g for weight, ml for volume). Units not listed here
// convert with factor 1 into themselves.
var baseUnitFactors = map[string]struct {
	category UnitCategory
	base     string
	factor   decimal.Decimal
}{
	UnitKG: {UnitCategoryWeight, UnitG, decimal.NewFromInt(1000)},
	UnitG:  {UnitCategoryWeight, UnitG, decimal.NewFromInt(1)},
	UnitL:  {UnitCategoryVolume, UnitML, decimal.NewFromInt(1000)},
	UnitML: {UnitCategoryVolume, UnitML, decimal.NewFromInt(1)},
}

// NormalizeUnit canonicalizes a unit code (trim, lowercase). Unit strings
// come from loosely-typed product data and are normalized exactly once,
// at this boundary.
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// CategoryOf returns the category of a unit. Unrecognized units are count.
func CategoryOf(unit string) UnitCategory {
	if entry, ok := baseUnitFactors[NormalizeUnit(unit)]; ok {
		return entry.category
	}
	return UnitCategoryCount
}

// BaseUnitFor returns the base unit a quantity of the given unit converts
// into: g for weight units, ml for volume units, the unit itself otherwise.
func BaseUnitFor(unit string) string {
	normalized := NormalizeUnit(unit)
	if entry, ok := baseUnitFactors[normalized]; ok {
		return entry.base
	}
	return normalized
}

// BaseFactor returns how many base units one unit of the given code
// represents. Unknown units convert with identity factor 1, never an error;
// a misrecorded unit must not block a sale.
func BaseFactor(unit string) decimal.Decimal {
	if entry, ok := baseUnitFactors[NormalizeUnit(unit)]; ok {
		return entry.factor
	}
	return decimal.NewFromInt(1)
}

// ToBase converts a value in the given unit to the category base unit.
func ToBase(value decimal.Decimal, unit string) decimal.Decimal {
	return value.Mul(BaseFactor(unit))
}

// FromBase converts a value in the category base unit back to the given unit.
func FromBase(value decimal.Decimal, unit string) decimal.Decimal {
	return value.Div(BaseFactor(unit))
}

// IsCountBased returns true for any unit that is not a recognized weight or
// volume unit (pcs, box, dozen, ...).
func IsCountBased(unit string) bool {
	return CategoryOf(unit) == UnitCategoryCount
}

// IsDecimalAllowed reports whether fractional quantities are admissible for
// the unit. Weight and volume units always permit decimals, even when the
// displayed unit is already the base (g or ml alone); count-based units
// only ever admit whole numbers.
func IsDecimalAllowed(unit string) bool {
	return CategoryOf(unit) != UnitCategoryCount
}

// AllowedDisplayUnits returns the set of units a transaction against a
// product stocked in productUnit may be expressed in. The UI must never
// offer a unit outside this set.
func AllowedDisplayUnits(productUnit string) []string {
	switch CategoryOf(productUnit) {
	case UnitCategoryWeight:
		return []string{UnitKG, UnitG}
	case UnitCategoryVolume:
		return []string{UnitL, UnitML}
	default:
		return []string{NormalizeUnit(productUnit)}
	}
}
