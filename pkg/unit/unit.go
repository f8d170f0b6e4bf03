// Package unit implements the physical quantity layer for maxplot.
//
// Every value that enters the plot specification carries a unit. Units are
// defined by an SI base-dimension vector plus a linear scale and offset, so
// conversion between compatible units is always an exact linear map through
// the SI base unit. Incompatible units fail with a typed error instead of
// silently coercing.
//
// # Usage
//
//	x, _ := unit.New([]float64{0, 1, 2}, "s")
//	ms, _ := x.ConvertTo("ms") // element-wise, preserves order and length
//
//	if !unit.Compatible(x.Unit(), y.Unit()) {
//	    // cannot share an axis
//	}
package unit

import (
	"slices"

	"github.com/maxplotlib/maxplot/pkg/errors"
)

// Dimension is the exponent vector over the seven SI base dimensions.
// Two units are compatible exactly when their dimension vectors are equal.
type Dimension struct {
	Length      int `json:"length,omitempty"`
	Mass        int `json:"mass,omitempty"`
	Time        int `json:"time,omitempty"`
	Temperature int `json:"temperature,omitempty"`
	Current     int `json:"current,omitempty"`
	Amount      int `json:"amount,omitempty"`
	Luminous    int `json:"luminous,omitempty"`
}

// Dimensionless is the zero dimension vector.
var Dimensionless = Dimension{}

// Unit is a named linear scaling of an SI base dimension.
// A value v in this unit corresponds to v*Scale + Offset in the base unit.
// Offset is non-zero only for affine units such as degC and degF.
type Unit struct {
	Symbol string    `json:"symbol"`
	Dim    Dimension `json:"dim"`
	Scale  float64   `json:"scale"`
	Offset float64   `json:"offset,omitempty"`
}

// IsZero reports whether the unit is the zero value (no unit at all, which is
// distinct from the dimensionless unit "1").
func (u Unit) IsZero() bool {
	return u.Symbol == "" && u.Scale == 0
}

// Compatible reports whether two units share the same dimension vector and
// may therefore be converted into each other.
func Compatible(a, b Unit) bool {
	return a.Dim == b.Dim
}

// toBase converts a value in this unit to the SI base unit.
func (u Unit) toBase(v float64) float64 {
	return v*u.Scale + u.Offset
}

// fromBase converts a value in the SI base unit to this unit.
func (u Unit) fromBase(v float64) float64 {
	return (v - u.Offset) / u.Scale
}

// Base dimensions used by the registry.
var (
	dimLength      = Dimension{Length: 1}
	dimMass        = Dimension{Mass: 1}
	dimTime        = Dimension{Time: 1}
	dimTemperature = Dimension{Temperature: 1}
	dimCurrent     = Dimension{Current: 1}
	dimFrequency   = Dimension{Time: -1}
	dimVelocity    = Dimension{Length: 1, Time: -1}
	dimAccel       = Dimension{Length: 1, Time: -2}
	dimForce       = Dimension{Mass: 1, Length: 1, Time: -2}
	dimPressure    = Dimension{Mass: 1, Length: -1, Time: -2}
	dimEnergy      = Dimension{Mass: 1, Length: 2, Time: -2}
	dimPower       = Dimension{Mass: 1, Length: 2, Time: -3}
)

// registry maps unit symbols to their definitions. All scales are relative to
// the SI base unit of the dimension (m, kg, s, K, A).
var registry = map[string]Unit{
	// Dimensionless
	"1": {Symbol: "1", Dim: Dimensionless, Scale: 1},
	"%": {Symbol: "%", Dim: Dimensionless, Scale: 0.01},

	// Length
	"m":  {Symbol: "m", Dim: dimLength, Scale: 1},
	"km": {Symbol: "km", Dim: dimLength, Scale: 1e3},
	"cm": {Symbol: "cm", Dim: dimLength, Scale: 1e-2},
	"mm": {Symbol: "mm", Dim: dimLength, Scale: 1e-3},
	"um": {Symbol: "um", Dim: dimLength, Scale: 1e-6},
	"nm": {Symbol: "nm", Dim: dimLength, Scale: 1e-9},
	"in": {Symbol: "in", Dim: dimLength, Scale: 0.0254},
	"ft": {Symbol: "ft", Dim: dimLength, Scale: 0.3048},
	"mi": {Symbol: "mi", Dim: dimLength, Scale: 1609.344},

	// Mass
	"kg": {Symbol: "kg", Dim: dimMass, Scale: 1},
	"g":  {Symbol: "g", Dim: dimMass, Scale: 1e-3},
	"mg": {Symbol: "mg", Dim: dimMass, Scale: 1e-6},
	"t":  {Symbol: "t", Dim: dimMass, Scale: 1e3},
	"lb": {Symbol: "lb", Dim: dimMass, Scale: 0.45359237},

	// Time
	"s":   {Symbol: "s", Dim: dimTime, Scale: 1},
	"ms":  {Symbol: "ms", Dim: dimTime, Scale: 1e-3},
	"us":  {Symbol: "us", Dim: dimTime, Scale: 1e-6},
	"ns":  {Symbol: "ns", Dim: dimTime, Scale: 1e-9},
	"min": {Symbol: "min", Dim: dimTime, Scale: 60},
	"h":   {Symbol: "h", Dim: dimTime, Scale: 3600},
	"d":   {Symbol: "d", Dim: dimTime, Scale: 86400},

	// Temperature (degC and degF are affine)
	"K":    {Symbol: "K", Dim: dimTemperature, Scale: 1},
	"degC": {Symbol: "degC", Dim: dimTemperature, Scale: 1, Offset: 273.15},
	"degF": {Symbol: "degF", Dim: dimTemperature, Scale: 5.0 / 9.0, Offset: 459.67 * 5.0 / 9.0},

	// Current
	"A":  {Symbol: "A", Dim: dimCurrent, Scale: 1},
	"mA": {Symbol: "mA", Dim: dimCurrent, Scale: 1e-3},

	// Frequency
	"Hz":  {Symbol: "Hz", Dim: dimFrequency, Scale: 1},
	"kHz": {Symbol: "kHz", Dim: dimFrequency, Scale: 1e3},
	"MHz": {Symbol: "MHz", Dim: dimFrequency, Scale: 1e6},

	// Derived mechanical units
	"m/s":  {Symbol: "m/s", Dim: dimVelocity, Scale: 1},
	"km/h": {Symbol: "km/h", Dim: dimVelocity, Scale: 1000.0 / 3600.0},
	"m/s2": {Symbol: "m/s2", Dim: dimAccel, Scale: 1},
	"N":    {Symbol: "N", Dim: dimForce, Scale: 1},
	"kN":   {Symbol: "kN", Dim: dimForce, Scale: 1e3},
	"Pa":   {Symbol: "Pa", Dim: dimPressure, Scale: 1},
	"kPa":  {Symbol: "kPa", Dim: dimPressure, Scale: 1e3},
	"MPa":  {Symbol: "MPa", Dim: dimPressure, Scale: 1e6},
	"bar":  {Symbol: "bar", Dim: dimPressure, Scale: 1e5},
	"J":    {Symbol: "J", Dim: dimEnergy, Scale: 1},
	"kJ":   {Symbol: "kJ", Dim: dimEnergy, Scale: 1e3},
	"W":    {Symbol: "W", Dim: dimPower, Scale: 1},
	"kW":   {Symbol: "kW", Dim: dimPower, Scale: 1e3},
}

// Parse resolves a unit symbol against the registry.
// The empty symbol parses as the dimensionless unit "1" so that bare numeric
// data remains plottable. Unknown symbols fail with UNKNOWN_UNIT.
func Parse(symbol string) (Unit, error) {
	if symbol == "" {
		return registry["1"], nil
	}
	u, ok := registry[symbol]
	if !ok {
		return Unit{}, errors.New(errors.ErrCodeUnknownUnit, "unknown unit %q", symbol)
	}
	return u, nil
}

// MustParse is like Parse but panics on unknown symbols.
// Intended for package-level defaults and tests.
func MustParse(symbol string) Unit {
	u, err := Parse(symbol)
	if err != nil {
		panic(err)
	}
	return u
}

// Symbols returns all registered unit symbols in sorted order.
func Symbols() []string {
	syms := make([]string, 0, len(registry))
	for s := range registry {
		syms = append(syms, s)
	}
	slices.Sort(syms)
	return syms
}
