package pconics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChristopherRabotin/pconics/units"
)

// Catalog construction errors, wrapped in a *CatalogError.
var (
	ErrEmptyName     = errors.New("empty body name")
	ErrDuplicateBody = errors.New("duplicate body")
	ErrMissingParent = errors.New("parent not in catalog")
	ErrNoRoot        = errors.New("no root body")
	ErrMultipleRoots = errors.New("more than one root body")
	ErrCycle         = errors.New("cyclic parent reference")
	ErrInvalidGM     = errors.New("gravitational parameter must be a finite positive μ")
	ErrInvalidSMA    = errors.New("semi-major axis must be a finite positive length")
)

// ErrUnknownBody is returned when a body is not a member of the catalog.
var ErrUnknownBody = errors.New("unknown body")

// CatalogError reports the entry which prevented a catalog from being built.
type CatalogError struct {
	Body string
	Err  error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog: body '%s': %s", e.Body, e.Err)
}

// Unwrap returns the underlying reason.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// BodyDef is a catalog table entry. Parent is empty for the root body, which
// must not have a semi-major axis. Surrounding spaces of names are ignored.
type BodyDef struct {
	Name          string
	Parent        string
	GM            units.Quantity
	SemiMajorAxis units.Quantity
}

// Body is a celestial object of a catalog. Bodies only refer to each other by
// their catalog index, and copying a Body is cheap.
type Body struct {
	name   string
	μ      units.Quantity
	a      units.Quantity
	id     int
	parent int // -1 for the root
}

// Name returns the unique name of this body.
func (b Body) Name() string {
	return b.name
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (b Body) GM() units.Quantity {
	return b.μ
}

// SemiMajorAxis returns the semi-major axis of the orbit around the parent body.
// The root body has none.
func (b Body) SemiMajorAxis() (units.Quantity, bool) {
	return b.a, b.parent >= 0
}

// IsRoot returns whether this body has no parent.
func (b Body) IsRoot() bool {
	return b.parent < 0
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.name + " body"
}

// Catalog is an immutable collection of bodies forming a single rooted tree.
type Catalog struct {
	bodies   []Body
	byName   map[string]int
	children [][]int
	root     int
}

// NewCatalog validates the provided table and builds a catalog from it.
// Entries may be provided in any order. Either the whole table is valid or
// a *CatalogError is returned.
func NewCatalog(defs []BodyDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, &CatalogError{"", ErrNoRoot}
	}
	c := &Catalog{
		bodies:   make([]Body, len(defs)),
		byName:   make(map[string]int, len(defs)),
		children: make([][]int, len(defs)),
		root:     -1,
	}
	for i, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, &CatalogError{def.Name, ErrEmptyName}
		}
		key := nameKey(name)
		if _, dup := c.byName[key]; dup {
			return nil, &CatalogError{name, ErrDuplicateBody}
		}
		c.byName[key] = i
		if !positive(def.GM, units.GravitationalParameter) {
			return nil, &CatalogError{name, fmt.Errorf("%w (got %s)", ErrInvalidGM, def.GM)}
		}
		if nameKey(def.Parent) == "" {
			if !def.SemiMajorAxis.IsZero() {
				return nil, &CatalogError{name, fmt.Errorf("%w: root body cannot orbit anything", ErrInvalidSMA)}
			}
		} else if !positive(def.SemiMajorAxis, units.Length) {
			return nil, &CatalogError{name, fmt.Errorf("%w (got %s)", ErrInvalidSMA, def.SemiMajorAxis)}
		}
		c.bodies[i] = Body{name: name, μ: def.GM, a: def.SemiMajorAxis, id: i, parent: -1}
	}
	// Resolve the parents now that all names are known.
	for i, def := range defs {
		name := c.bodies[i].name
		parent := nameKey(def.Parent)
		if parent == "" {
			if c.root >= 0 {
				return nil, &CatalogError{name, fmt.Errorf("%w (%s is already the root)", ErrMultipleRoots, c.bodies[c.root].name)}
			}
			c.root = i
			continue
		}
		p, found := c.byName[parent]
		if !found {
			return nil, &CatalogError{name, fmt.Errorf("%w: '%s'", ErrMissingParent, def.Parent)}
		}
		if p == i {
			return nil, &CatalogError{name, ErrCycle}
		}
		c.bodies[i].parent = p
		c.children[p] = append(c.children[p], i)
	}
	if c.root < 0 {
		// Every body has a parent, so there must be a cycle somewhere.
		return nil, &CatalogError{c.bodies[0].name, ErrNoRoot}
	}
	// With a single root, any body which does not reach it is part of a cycle.
	for i := range c.bodies {
		steps := 0
		for j := i; c.bodies[j].parent >= 0; j = c.bodies[j].parent {
			steps++
			if steps > len(c.bodies) {
				return nil, &CatalogError{c.bodies[i].name, ErrCycle}
			}
		}
	}
	return c, nil
}

// nameKey is the case and padding insensitive form of a body name.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func positive(q units.Quantity, dim units.Dimension) bool {
	return q.Valid() && q.Dimension() == dim && q.Value() > 0
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	return len(c.bodies)
}

// Root returns the only body without a parent.
func (c *Catalog) Root() Body {
	return c.bodies[c.root]
}

// Bodies returns all the bodies in catalog order.
func (c *Catalog) Bodies() []Body {
	b := make([]Body, len(c.bodies))
	copy(b, c.bodies)
	return b
}

// Lookup returns the body from its name (case insensitive).
func (c *Catalog) Lookup(name string) (Body, error) {
	i, found := c.byName[nameKey(name)]
	if !found {
		return Body{}, fmt.Errorf("%w '%s'", ErrUnknownBody, name)
	}
	return c.bodies[i], nil
}

// MustLookup is like Lookup but panics if the body does not exist.
func (c *Catalog) MustLookup(name string) Body {
	b, err := c.Lookup(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Contains returns whether this exact body belongs to this catalog.
func (c *Catalog) Contains(b Body) bool {
	return b.id >= 0 && b.id < len(c.bodies) && c.bodies[b.id] == b
}

func (c *Catalog) check(b Body) error {
	if !c.Contains(b) {
		return fmt.Errorf("%w '%s'", ErrUnknownBody, b.name)
	}
	return nil
}

// ParentOf returns the parent of the provided body, and false if it is the root.
// An error is returned if the body does not belong to this catalog.
func (c *Catalog) ParentOf(b Body) (Body, bool, error) {
	if err := c.check(b); err != nil {
		return Body{}, false, err
	}
	if b.parent < 0 {
		return Body{}, false, nil
	}
	return c.bodies[b.parent], true, nil
}

// Children returns the bodies directly orbiting the provided body.
func (c *Catalog) Children(b Body) ([]Body, error) {
	if err := c.check(b); err != nil {
		return nil, err
	}
	kids := make([]Body, len(c.children[b.id]))
	for i, k := range c.children[b.id] {
		kids[i] = c.bodies[k]
	}
	return kids, nil
}

// Ancestors returns the parent, grand-parent, etc. of this body, up to the root.
func (c *Catalog) Ancestors(b Body) ([]Body, error) {
	if err := c.check(b); err != nil {
		return nil, err
	}
	var anc []Body
	for p := b.parent; p >= 0; p = c.bodies[p].parent {
		anc = append(anc, c.bodies[p])
	}
	return anc, nil
}

// Depth returns the number of ancestors of this body (zero for the root).
func (c *Catalog) Depth(b Body) (int, error) {
	anc, err := c.Ancestors(b)
	return len(anc), err
}
