package unit

import (
	"math"
	"slices"

	"github.com/maxplotlib/maxplot/pkg/errors"
)

// Quantity is an ordered sequence of numbers tagged with a unit.
// Scalars are represented as length-1 sequences. Quantities are immutable
// value types: all operations return new quantities and never alias the
// caller's slice.
type Quantity struct {
	values []float64
	unit   Unit
}

// New creates a quantity from values and a unit symbol.
// The input slice is copied. An empty symbol yields a dimensionless quantity.
func New(values []float64, symbol string) (Quantity, error) {
	u, err := Parse(symbol)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{values: slices.Clone(values), unit: u}, nil
}

// MustNew is like New but panics on unknown unit symbols.
// Intended for tests and static data.
func MustNew(values []float64, symbol string) Quantity {
	q, err := New(values, symbol)
	if err != nil {
		panic(err)
	}
	return q
}

// Scalar creates a single-value quantity.
func Scalar(v float64, symbol string) (Quantity, error) {
	return New([]float64{v}, symbol)
}

// Unit returns the unit the values are expressed in.
func (q Quantity) Unit() Unit { return q.unit }

// Len returns the number of values in the sequence.
func (q Quantity) Len() int { return len(q.values) }

// IsZero reports whether the quantity is the zero value (never constructed).
func (q Quantity) IsZero() bool { return q.values == nil && q.unit.IsZero() }

// Values returns a copy of the numeric values in the quantity's own unit.
func (q Quantity) Values() []float64 {
	return slices.Clone(q.values)
}

// Value returns the i-th value. Panics if out of range, like slice indexing.
func (q Quantity) Value(i int) float64 { return q.values[i] }

// Convert returns the quantity expressed in the target unit.
// Conversion is element-wise and preserves order and length. It fails with
// INCOMPATIBLE_UNIT when the dimension vectors differ.
func (q Quantity) Convert(target Unit) (Quantity, error) {
	if !Compatible(q.unit, target) {
		return Quantity{}, errors.New(errors.ErrCodeIncompatibleUnit,
			"cannot convert %q to %q: incompatible dimensions", q.unit.Symbol, target.Symbol)
	}
	if q.unit == target {
		return Quantity{values: slices.Clone(q.values), unit: target}, nil
	}
	out := make([]float64, len(q.values))
	for i, v := range q.values {
		out[i] = target.fromBase(q.unit.toBase(v))
	}
	return Quantity{values: out, unit: target}, nil
}

// ConvertTo is like Convert but resolves the target from its symbol.
func (q Quantity) ConvertTo(symbol string) (Quantity, error) {
	u, err := Parse(symbol)
	if err != nil {
		return Quantity{}, err
	}
	return q.Convert(u)
}

// Min returns the smallest value, or +Inf for an empty sequence.
func (q Quantity) Min() float64 {
	min := math.Inf(1)
	for _, v := range q.values {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or -Inf for an empty sequence.
func (q Quantity) Max() float64 {
	max := math.Inf(-1)
	for _, v := range q.values {
		if v > max {
			max = v
		}
	}
	return max
}

// AllPositive reports whether every value is strictly greater than zero.
// Logarithmic axes require this of their data.
func (q Quantity) AllPositive() bool {
	for _, v := range q.values {
		if v <= 0 {
			return false
		}
	}
	return true
}
