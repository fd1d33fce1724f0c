package pconics

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/pconics/units"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// soiExponent comes from balancing the solar and planetary perturbing accelerations
// at the boundary (Laplace). It is not a tuning parameter.
const soiExponent = 2. / 5

// ErrDegenerate is returned when the mass ratio of a body and its parent is not in (0, 1).
var ErrDegenerate = errors.New("degenerate sphere of influence")

// SOIResult is either a sphere of influence radius or the explicit "not applicable"
// marker of the root body. The zero value is not applicable.
type SOIResult struct {
	radius     units.Quantity
	applicable bool
}

// NotApplicable is the result for a body without a parent.
func NotApplicable() SOIResult {
	return SOIResult{}
}

// Applicable returns whether this result holds a radius.
func (r SOIResult) Applicable() bool {
	return r.applicable
}

// Radius returns the sphere of influence radius, and false if not applicable.
func (r SOIResult) Radius() (units.Quantity, bool) {
	return r.radius, r.applicable
}

func (r SOIResult) String() string {
	if !r.applicable {
		return "n/a"
	}
	return r.radius.String()
}

// Calculator computes spheres of influence of the bodies of a catalog.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	catalog *Catalog
	logger  kitlog.Logger
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithLogger sets the logger used for debug traces of each computation.
func WithLogger(logger kitlog.Logger) CalculatorOption {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// NewCalculator returns a calculator for the provided catalog, and panics if it is nil.
func NewCalculator(cat *Catalog, opts ...CalculatorOption) *Calculator {
	if cat == nil {
		panic("nil catalog")
	}
	c := &Calculator{catalog: cat, logger: kitlog.NewNopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = kitlog.With(c.logger, "component", "soi")
	return c
}

// Catalog returns the catalog of this calculator.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// SOI returns the Laplace sphere of influence radius of the body with respect to
// its parent, r = a·(μ/μ_parent)^(2/5), in the unit of its semi-major axis.
// The root body has no sphere of influence.
func (c *Calculator) SOI(b Body) (SOIResult, error) {
	a, _ := b.SemiMajorAxis()
	return c.soi(b, a)
}

// SOIAt is like SOI but uses the provided semi-major axis instead of the catalog one,
// e.g. to size the sphere of a body at a distance other than its mean one.
func (c *Calculator) SOIAt(b Body, a units.Quantity) (SOIResult, error) {
	if !positive(a, units.Length) {
		return SOIResult{}, fmt.Errorf("%s: %w (got %s)", b.name, ErrInvalidSMA, a)
	}
	return c.soi(b, a)
}

// SOIByName looks up the body and returns its sphere of influence.
func (c *Calculator) SOIByName(name string) (SOIResult, error) {
	b, err := c.catalog.Lookup(name)
	if err != nil {
		return SOIResult{}, err
	}
	return c.SOI(b)
}

func (c *Calculator) soi(b Body, a units.Quantity) (SOIResult, error) {
	parent, hasParent, err := c.catalog.ParentOf(b)
	if err != nil {
		return SOIResult{}, err
	}
	if !hasParent {
		level.Debug(c.logger).Log("body", b.name, "soi", "n/a")
		return NotApplicable(), nil
	}
	r, err := laplaceRadius(a, b.μ, parent.μ)
	if err != nil {
		level.Error(c.logger).Log("body", b.name, "parent", parent.name, "err", err)
		return SOIResult{}, fmt.Errorf("%s around %s: %w", b.name, parent.name, err)
	}
	level.Debug(c.logger).Log("body", b.name, "parent", parent.name, "a", a, "soi", r)
	return SOIResult{radius: r, applicable: true}, nil
}

// laplaceRadius returns a·(μ/μParent)^(2/5) in the unit of a.
func laplaceRadius(a, μ, μParent units.Quantity) (units.Quantity, error) {
	if !positive(μParent, units.GravitationalParameter) {
		return units.Quantity{}, fmt.Errorf("%w: parent μ = %s", ErrDegenerate, μParent)
	}
	ρ, err := units.Ratio(μ, μParent)
	if err != nil {
		return units.Quantity{}, fmt.Errorf("%w: %s", ErrDegenerate, err)
	}
	if !(ρ > 0 && ρ < 1) {
		return units.Quantity{}, fmt.Errorf("%w: mass ratio %g not in (0, 1)", ErrDegenerate, ρ)
	}
	return a.Scale(math.Pow(ρ, soiExponent)), nil
}

// SOIRow is one line of an SOI table.
type SOIRow struct {
	Body   Body
	Parent string // empty for the root
	Result SOIResult
}

// Table returns the sphere of influence of every body, in catalog order.
func (c *Calculator) Table() ([]SOIRow, error) {
	rows := make([]SOIRow, 0, c.catalog.Len())
	for _, b := range c.catalog.bodies {
		res, err := c.SOI(b)
		if err != nil {
			return nil, err
		}
		row := SOIRow{Body: b, Result: res}
		if !b.IsRoot() {
			row.Parent = c.catalog.bodies[b.parent].name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
