package pconics

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/ChristopherRabotin/pconics/units"
	"github.com/gonum/floats"
)

func TestSOIRoot(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	res, err := calc.SOI(SolarSystem().Root())
	if err != nil {
		t.Fatal(err)
	}
	if res.Applicable() {
		t.Fatalf("the Sun has a sphere of influence: %s", res)
	}
	if r, ok := res.Radius(); ok || !r.IsZero() {
		t.Fatalf("not applicable result with a radius: %s", r)
	}
	if res.String() != "n/a" || NotApplicable() != res || (SOIResult{}).Applicable() {
		t.Fatal("invalid not applicable marker")
	}
	// Overriding the semi-major axis does not give the root a parent.
	res, err = calc.SOIAt(SolarSystem().Root(), km(1))
	if err != nil || res.Applicable() {
		t.Fatalf("root with a semi-major axis: %s (%v)", res, err)
	}
}

func TestSOIUnit(t *testing.T) {
	exp := 0.0
	for _, u := range []units.Unit{units.Kilometer, units.Meter, units.AstronomicalUnit} {
		defs := toy()
		defs[2].SemiMajorAxis = units.New(units.New(1e8, units.Kilometer).In(u), u)
		calc := NewCalculator(mustCatalog(t, defs))
		res, err := calc.SOIByName("Planet")
		if err != nil {
			t.Fatal(err)
		}
		r, ok := res.Radius()
		if !ok {
			t.Fatal("planet has no SOI")
		}
		if r.Unit() != u {
			t.Fatalf("SOI in %s instead of %s", r.Unit(), u)
		}
		// a·(1e5/1e11)^0.4 = 1e8·1e-2.4 km
		if !floats.EqualWithinRel(r.In(units.Kilometer), 1e8*math.Pow(10, -2.4), 1e-12) {
			t.Fatalf("invalid SOI %s", r)
		}
		if exp == 0 {
			exp = r.SI()
		} else if !floats.EqualWithinRel(r.SI(), exp, 1e-12) {
			t.Fatalf("SOI depends on the unit: %g m != %g m", r.SI(), exp)
		}
	}
}

func TestSOIDeterminism(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	for _, b := range SolarSystem().Bodies() {
		first, err := calc.SOI(b)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := calc.SOI(b)
		r1, _ := first.Radius()
		r2, _ := second.Radius()
		if first.Applicable() != second.Applicable() || math.Float64bits(r1.Value()) != math.Float64bits(r2.Value()) {
			t.Fatalf("%s: %s != %s", b, first, second)
		}
	}
}

func TestSOIScale(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	for _, b := range SolarSystem().Bodies() {
		if b.IsRoot() {
			continue
		}
		res, err := calc.SOI(b)
		if err != nil {
			t.Fatal(err)
		}
		r, _ := res.Radius()
		a, _ := b.SemiMajorAxis()
		if r.Value() <= 0 {
			t.Fatalf("%s: non positive SOI %s", b, r)
		}
		if cmp, err := units.Compare(r, a); err != nil || cmp >= 0 {
			t.Fatalf("%s: SOI %s not smaller than a = %s", b, r, a)
		}
		t.Logf("[OK] %s SOI = %s", b, r)
	}
}

func TestSOIMonotonic(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	mars := SolarSystem().MustLookup("Mars")
	prev := 0.0
	for a := 1e6; a < 1e10; a *= 1.5 {
		res, err := calc.SOIAt(mars, km(a))
		if err != nil {
			t.Fatal(err)
		}
		r, _ := res.Radius()
		if r.Value() <= prev {
			t.Fatalf("SOI decreased from %g to %g km at a = %g km", prev, r.Value(), a)
		}
		prev = r.Value()
	}
	for _, bad := range []units.Quantity{km(0), km(-1), gm(1), {}, km(math.Inf(1))} {
		if _, err := calc.SOIAt(mars, bad); !errors.Is(err, ErrInvalidSMA) {
			t.Fatalf("a = %s: expected ErrInvalidSMA, got %v", bad, err)
		}
	}
}

func TestSOIDegenerate(t *testing.T) {
	// A satellite heavier than its primary.
	defs := toy()
	defs[0].GM = gm(1e6)
	calc := NewCalculator(mustCatalog(t, defs))
	res, err := calc.SOIByName("Moonlet")
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if res.Applicable() {
		t.Fatalf("degenerate SOI returned a radius: %s", res)
	}
	// Equal masses.
	defs[0].GM = gm(1e5)
	calc = NewCalculator(mustCatalog(t, defs))
	if _, err := calc.SOIByName("Moonlet"); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	// The planet is still fine.
	if res, err := calc.SOIByName("Planet"); err != nil || !res.Applicable() {
		t.Fatalf("planet SOI: %s (%v)", res, err)
	}
}

func TestLaplaceRadiusFailFast(t *testing.T) {
	for _, μParent := range []units.Quantity{gm(0), gm(-1e11), gm(math.NaN()), {}, km(1e11)} {
		r, err := laplaceRadius(km(1e8), gm(1e5), μParent)
		if !errors.Is(err, ErrDegenerate) {
			t.Fatalf("parent μ = %s: expected ErrDegenerate, got %v", μParent, err)
		}
		if !r.IsZero() {
			t.Fatalf("parent μ = %s: radius %s returned with an error", μParent, r)
		}
	}
	if _, err := laplaceRadius(km(1e8), gm(0), gm(1e11)); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("zero body μ: expected ErrDegenerate, got %v", err)
	}
}

func TestSOIUnknownBody(t *testing.T) {
	calc := NewCalculator(mustCatalog(t, toy()))
	if _, err := calc.SOI(SolarSystem().MustLookup("Jupiter")); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
	if _, err := calc.SOIByName("Jupiter"); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
	assertPanic(t, func() {
		NewCalculator(nil)
	})
}

func TestSOITable(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	rows, err := calc.Table()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != SolarSystem().Len() {
		t.Fatalf("%d rows for %d bodies", len(rows), SolarSystem().Len())
	}
	for i, row := range rows {
		if row.Body != SolarSystem().Bodies()[i] {
			t.Fatalf("row %d is %s", i, row.Body)
		}
		if row.Body.IsRoot() != (row.Parent == "") || row.Body.IsRoot() == row.Result.Applicable() {
			t.Fatalf("inconsistent row %+v", row)
		}
	}
	if rows[4].Body.Name() != "Moon" || rows[4].Parent != "Earth" {
		t.Fatalf("unexpected row %+v", rows[4])
	}
	defs := toy()
	defs[0].GM = gm(1e6)
	if _, err := NewCalculator(mustCatalog(t, defs)).Table(); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
}

func TestSOIConcurrent(t *testing.T) {
	calc := NewCalculator(SolarSystem())
	exp, err := calc.Table()
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := calc.Table()
			if err != nil {
				errs <- err
				return
			}
			for i := range rows {
				if rows[i] != exp[i] {
					errs <- errors.New("concurrent result differs for " + rows[i].Body.Name())
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestSOILogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug")
	if err != nil {
		t.Fatal(err)
	}
	calc := NewCalculator(SolarSystem(), WithLogger(logger))
	if _, err := calc.SOIByName("Earth"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "component=soi") || !strings.Contains(out, "body=Earth") || !strings.Contains(out, "parent=Sun") {
		t.Fatalf("unexpected log output: %q", out)
	}
	buf.Reset()
	logger, _ = NewLogger(&buf, "info")
	NewCalculator(SolarSystem(), WithLogger(logger)).SOIByName("Earth")
	if buf.Len() != 0 {
		t.Fatalf("debug trace logged at info level: %q", buf.String())
	}
}

func mustCatalog(t *testing.T, defs []BodyDef) *Catalog {
	t.Helper()
	cat, err := NewCatalog(defs)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}
