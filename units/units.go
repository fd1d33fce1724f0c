// Package units provides a minimal physical quantity type: a magnitude paired
// with a unit tag, with checked conversions between units of the same dimension.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrIncompatible is returned when mixing quantities of different dimensions.
	ErrIncompatible = errors.New("incompatible dimensions")
	// ErrUnknownUnit is returned by ParseUnit for an unsupported symbol.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrDivideByZero is returned by Ratio when the denominator is zero.
	ErrDivideByZero = errors.New("division by zero")
)

// Dimension is the physical dimension of a unit.
type Dimension uint8

const (
	// Dimensionless is used for ratios.
	Dimensionless Dimension = iota + 1
	// Length is m, km, au, etc.
	Length
	// GravitationalParameter is μ = G·M, in L^3/T^2.
	GravitationalParameter
)

func (d Dimension) String() string {
	switch d {
	case Dimensionless:
		return "dimensionless"
	case Length:
		return "length"
	case GravitationalParameter:
		return "gravitational parameter"
	default:
		return "undefined"
	}
}

// Unit is a unit tag. The zero value is not a valid unit.
type Unit struct {
	symbol string
	dim    Dimension
	toSI   float64 // multiply by this to get the SI value
}

// Symbol returns the unit symbol, e.g. "km".
func (u Unit) Symbol() string {
	return u.symbol
}

// Dimension returns the dimension of this unit.
func (u Unit) Dimension() Dimension {
	return u.dim
}

// Valid returns whether this is a defined unit.
func (u Unit) Valid() bool {
	return u.dim != 0 && u.toSI > 0
}

func (u Unit) String() string {
	return u.symbol
}

// Supported units.
var (
	One              = Unit{"", Dimensionless, 1}
	Meter            = Unit{"m", Length, 1}
	Kilometer        = Unit{"km", Length, 1e3}
	AstronomicalUnit = Unit{"au", Length, 1.495978707e11}
	M3PerS2          = Unit{"m3/s2", GravitationalParameter, 1}
	KM3PerS2         = Unit{"km3/s2", GravitationalParameter, 1e9}
)

var known = []Unit{Meter, Kilometer, AstronomicalUnit, M3PerS2, KM3PerS2}

// ParseUnit returns the unit for the given symbol (case insensitive).
func ParseUnit(symbol string) (Unit, error) {
	s := strings.ToLower(strings.TrimSpace(symbol))
	switch s {
	case "ua", "astronomical unit":
		s = "au"
	case "m^3/s^2", "m3 s-2":
		s = "m3/s2"
	case "km^3/s^2", "km3 s-2":
		s = "km3/s2"
	}
	for _, u := range known {
		if u.symbol == s {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("%w '%s'", ErrUnknownUnit, symbol)
}

// Quantity is a magnitude with a unit. The zero value is an unset quantity.
type Quantity struct {
	value float64
	unit  Unit
}

// New returns a new quantity.
func New(value float64, unit Unit) Quantity {
	return Quantity{value, unit}
}

// Value returns the magnitude expressed in Unit().
func (q Quantity) Value() float64 {
	return q.value
}

// Unit returns the unit of this quantity.
func (q Quantity) Unit() Unit {
	return q.unit
}

// Dimension is a shortcut to Unit().Dimension().
func (q Quantity) Dimension() Dimension {
	return q.unit.dim
}

// SI returns the magnitude in the SI unit of this dimension.
func (q Quantity) SI() float64 {
	return q.value * q.unit.toSI
}

// IsZero returns whether this quantity was never set.
func (q Quantity) IsZero() bool {
	return q == Quantity{}
}

// Valid returns whether the unit is defined and the magnitude is finite.
func (q Quantity) Valid() bool {
	return q.unit.Valid() && !math.IsNaN(q.value) && !math.IsInf(q.value, 0)
}

// To converts this quantity to the provided unit.
func (q Quantity) To(u Unit) (Quantity, error) {
	if !q.unit.Valid() || !u.Valid() || q.unit.dim != u.dim {
		return Quantity{}, fmt.Errorf("cannot convert %s to %s: %w", q.unit.dim, u.dim, ErrIncompatible)
	}
	if q.unit == u {
		return q, nil
	}
	return Quantity{q.value * q.unit.toSI / u.toSI, u}, nil
}

// In returns the magnitude of this quantity in the provided unit.
// Panics if the dimensions differ.
func (q Quantity) In(u Unit) float64 {
	c, err := q.To(u)
	if err != nil {
		panic(err)
	}
	return c.value
}

// Scale returns this quantity multiplied by a dimensionless factor, in the same unit.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{q.value * f, q.unit}
}

func (q Quantity) String() string {
	if q.unit.symbol == "" {
		return fmt.Sprintf("%g", q.value)
	}
	return fmt.Sprintf("%g %s", q.value, q.unit.symbol)
}

// Ratio returns a/b as a bare number. Both must have the same dimension and b must not be zero.
func Ratio(a, b Quantity) (float64, error) {
	if !a.unit.Valid() || !b.unit.Valid() || a.unit.dim != b.unit.dim {
		return 0, fmt.Errorf("ratio of %s over %s: %w", a.unit.dim, b.unit.dim, ErrIncompatible)
	}
	den := b.SI()
	if den == 0 {
		return 0, ErrDivideByZero
	}
	return a.SI() / den, nil
}

// Compare returns -1, 0 or +1 depending on whether a is less, equal or greater than b.
func Compare(a, b Quantity) (int, error) {
	if !a.unit.Valid() || !b.unit.Valid() || a.unit.dim != b.unit.dim {
		return 0, fmt.Errorf("compare %s with %s: %w", a.unit.dim, b.unit.dim, ErrIncompatible)
	}
	aSI, bSI := a.SI(), b.SI()
	switch {
	case aSI < bSI:
		return -1, nil
	case aSI > bSI:
		return 1, nil
	default:
		return 0, nil
	}
}
