package pconics

import (
	"sync"

	"github.com/ChristopherRabotin/pconics/units"
)

func km(v float64) units.Quantity {
	return units.New(v, units.Kilometer)
}

func gm(v float64) units.Quantity {
	return units.New(v, units.KM3PerS2)
}

/* Definitions, from Curtis, Orbital Mechanics for Engineering Students, Table A.1 */

var solarSystem = []BodyDef{
	// Sun is our closest star.
	{Name: "Sun", GM: gm(1.32712440018e11)},
	{Name: "Mercury", Parent: "Sun", GM: gm(22032), SemiMajorAxis: km(57.909e6)},
	// Venus is poisonous.
	{Name: "Venus", Parent: "Sun", GM: gm(324859), SemiMajorAxis: km(108.209e6)},
	// Earth is home.
	{Name: "Earth", Parent: "Sun", GM: gm(398600.4418), SemiMajorAxis: km(149.598e6)},
	{Name: "Moon", Parent: "Earth", GM: gm(4902.8), SemiMajorAxis: km(384.4e3)},
	// Mars is the vacation place.
	{Name: "Mars", Parent: "Sun", GM: gm(42828.37), SemiMajorAxis: km(227.956e6)},
	// Jupiter is big.
	{Name: "Jupiter", Parent: "Sun", GM: gm(126686534), SemiMajorAxis: km(778.479e6)},
	// Saturn floats and that's really cool.
	{Name: "Saturn", Parent: "Sun", GM: gm(37931187), SemiMajorAxis: km(1432.041e6)},
	// Uranus is no joke.
	{Name: "Uranus", Parent: "Sun", GM: gm(5793939), SemiMajorAxis: km(2867.043e6)},
	{Name: "Neptune", Parent: "Sun", GM: gm(6836529), SemiMajorAxis: km(4514.953e6)},
	// Pluto is not a planet and had that down ranking coming. It should have stayed in its lane.
	// WARNING: its SOI ignores Charon, see CurtisReference.
	{Name: "Pluto", Parent: "Sun", GM: gm(871), SemiMajorAxis: km(5869.656e6)},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// SolarSystemDefs returns a copy of the table the default catalog is built from.
func SolarSystemDefs() []BodyDef {
	defs := make([]BodyDef, len(solarSystem))
	copy(defs, solarSystem)
	return defs
}

// SolarSystem returns the default catalog: the Sun, the eight planets, the
// Moon and Pluto. The same immutable catalog is returned on every call.
func SolarSystem() *Catalog {
	defaultOnce.Do(func() {
		cat, err := NewCatalog(solarSystem)
		if err != nil {
			panic(err)
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}
