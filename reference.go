package pconics

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/pconics/units"
	"github.com/gonum/floats"
)

// ReferenceTolerance is the relative tolerance accepted against tabulated values.
// It reflects the error of the Laplace approximation, not of its implementation.
const ReferenceTolerance = 1e-1

// Reference is a tabulated sphere of influence radius.
type Reference struct {
	Body   string
	Radius units.Quantity
}

// CurtisReference returns the planetary SOI radii of Curtis, Orbital Mechanics for
// Engineering Students, Table A.2.
// The Moon (6.61e7 m) and Pluto (3.08e9 m) are not part of it: the two body
// approximation is poor for them because of the Sun-Earth system and of Charon.
func CurtisReference() []Reference {
	m := func(v float64) units.Quantity { return units.New(v, units.Meter) }
	return []Reference{
		{"Mercury", m(1.12e8)},
		{"Venus", m(6.16e8)},
		{"Earth", m(9.25e8)},
		{"Mars", m(5.77e8)},
		{"Jupiter", m(4.82e10)},
		{"Saturn", m(5.48e10)},
		{"Uranus", m(5.18e10)},
		{"Neptune", m(8.66e10)},
	}
}

// Deviation compares a computed radius to its reference.
type Deviation struct {
	Reference
	Computed units.Quantity
	Relative float64 // (computed - expected) / expected
	Within   bool
}

func (d Deviation) String() string {
	status := "OK"
	if !d.Within {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s: %s (exp. %s, %+.2f%%)", status, d.Body, d.Computed, d.Radius, 100*d.Relative)
}

// Validate computes the sphere of influence of each reference body and compares it
// with the expected radius: it is within tolerance if |computed - expected| <= rtol·|expected|.
// An error is returned if a reference body is unknown or has no sphere of influence.
func Validate(calc *Calculator, refs []Reference, rtol float64) ([]Deviation, error) {
	devs := make([]Deviation, len(refs))
	for i, ref := range refs {
		res, err := calc.SOIByName(ref.Body)
		if err != nil {
			return nil, err
		}
		r, ok := res.Radius()
		if !ok {
			return nil, fmt.Errorf("%s has no sphere of influence, cannot validate it", ref.Body)
		}
		got, err := r.To(ref.Radius.Unit())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.Body, err)
		}
		exp := ref.Radius.Value()
		devs[i] = Deviation{
			Reference: ref,
			Computed:  got,
			Relative:  (got.Value() - exp) / math.Abs(exp),
			Within:    floats.EqualWithinAbs(got.Value(), exp, rtol*math.Abs(exp)),
		}
	}
	return devs, nil
}
