package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing quantities (stock, order lines, etc.)
// It supports decimal quantities for items sold by weight/volume
// It is immutable - all operations return new Quantity instances
type Quantity struct {
	value decimal.Decimal
	unit  string
}

// NewQuantity creates a new Quantity with the specified value and unit
func NewQuantity(value decimal.Decimal, unit string) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{
		value: value,
		unit:  NormalizeUnit(unit),
	}, nil
}

// NewQuantityFromFloat creates Quantity from a float64 value
func NewQuantityFromFloat(value float64, unit string) (Quantity, error) {
	return NewQuantity(decimal.NewFromFloat(value), unit)
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value decimal.Decimal, unit string) Quantity {
	q, err := NewQuantity(value, unit)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity with the specified unit
func ZeroQuantity(unit string) Quantity {
	return Quantity{value: decimal.Zero, unit: NormalizeUnit(unit)}
}

// Amount returns the decimal value
func (q Quantity) Amount() decimal.Decimal {
	return q.value
}

// Unit returns the unit of measurement
func (q Quantity) Unit() string {
	return q.unit
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsInteger returns true if the quantity has no fractional part
func (q Quantity) IsInteger() bool {
	return q.value.Equal(q.value.Truncate(0))
}

// IsAdmissible reports whether the value is valid for the unit: count-based
// units require whole numbers, weight/volume units accept any value.
func (q Quantity) IsAdmissible() bool {
	if IsDecimalAllowed(q.unit) {
		return true
	}
	return q.IsInteger()
}

// Float64 returns the quantity as a float64 (may lose precision)
func (q Quantity) Float64() float64 {
	f, _ := q.value.Float64()
	return f
}

// ToBase converts the quantity into its category base unit
func (q Quantity) ToBase() Quantity {
	return Quantity{
		value: ToBase(q.value, q.unit),
		unit:  BaseUnitFor(q.unit),
	}
}

// ConvertTo converts the quantity to a target unit through the base unit.
// Conversion across categories degrades to identity, matching the unit
// system's never-fail contract.
func (q Quantity) ConvertTo(unit string) Quantity {
	base := ToBase(q.value, q.unit)
	return Quantity{
		value: FromBase(base, unit),
		unit:  NormalizeUnit(unit),
	}
}

// Add returns a new Quantity with the sum of both quantities
// Returns error if units don't match
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot add quantities with different units: %s and %s", q.unit, other.unit)
	}
	return Quantity{
		value: q.value.Add(other.value),
		unit:  q.unit,
	}, nil
}

// Subtract returns a new Quantity with the difference
// Returns error if units don't match or result would be negative
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot subtract quantities with different units: %s and %s", q.unit, other.unit)
	}
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errors.New("resulting quantity would be negative")
	}
	return Quantity{
		value: result,
		unit:  q.unit,
	}, nil
}

// Equals returns true if both quantities are equal (same value and unit)
func (q Quantity) Equals(other Quantity) bool {
	return q.unit == other.unit && q.value.Equal(other.value)
}

// String returns a string representation of the Quantity
func (q Quantity) String() string {
	if q.unit == "" {
		return q.value.String()
	}
	return fmt.Sprintf("%s %s", q.value.String(), q.unit)
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}{
		Value: q.value.String(),
		Unit:  q.unit,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var v struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	value, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if value.IsNegative() {
		return errors.New("quantity cannot be negative")
	}
	q.value = value
	q.unit = NormalizeUnit(v.Unit)
	return nil
}
