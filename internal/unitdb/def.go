// Package unitdb implements the static unit/prefix database: a mini-DSL
// table of unit definitions resolved on demand, SI/binary prefix
// splitting, and cycle detection, per spec.md §4.5.
//
// Grounded on the teacher's commented-out unit.go draft (a map[string]Kind
// keyed by unit name, each Kind carrying a dimension and a float
// conversion factor) and on database.go's "resolve lazily, memoize"
// shape, generalized from a flat float-factor table to definitions that
// can reference each other (GNU-units style) and carry an affine offset.
package unitdb

import (
	"fmt"
	"os"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/units"
)

// Component is one (unit name, power) factor in a composite definition,
// e.g. newton = {"g",1} * {"m",1} * {"s",-2} * 1000 (the 1000 absorbs
// the gram-to-kilogram scale since "g", not "kg", is the mass base
// unit below).
type Component struct {
	Name  string
	Power string // rational literal, e.g. "1", "-2", "1/2"
}

// Def is one entry in the unit database: a name plus a definition body
// in the mini-DSL. "singular, plural, definition" per spec.md §4.5;
// here represented directly as struct fields rather than parsed from a
// literal DSL string, since the table is authored in Go.
type Def struct {
	Singular string
	Plural   string

	// BaseOf names a base unit this definition introduces directly
	// (e.g. "m" defines Length). Zero value means this is a derived
	// unit expressed via Components instead.
	BaseOf BaseUnitIntro

	Components []Component // empty for base-unit-introducing defs
	Factor     string       // decimal/fraction literal multiplying the Components product; "" means 1
	Offset     string       // decimal literal, additive offset (affine units only): value_in_base = value*scale + offset

	AllowLongPrefix  bool // kilometer - full SI prefix names only
	AllowShortPrefix bool // only single-letter/short prefixes
}

// BaseUnitIntro names a base dimension a Def introduces; zero value
// means "not a base-introducing definition".
type BaseUnitIntro units.BaseUnit

// resolved is the memoized, fully-reduced form of a Def: its exponent
// vector over base units, its scale relative to the base-unit product,
// and its optional affine offset.
type resolved struct {
	Unit   units.Exponents
	Scale  *bignum.BigRat
	Offset *bignum.BigRat // nil unless affine
}

// Database holds the static Def table plus custom user definitions and
// a resolution memo with cycle detection.
type Database struct {
	defs    map[string]*Def // keyed by singular name
	byName  map[string]*Def // singular and plural both map here
	custom  []*Def
	memo    map[string]*resolved
	visited map[string]bool // per-resolution cycle guard
	cache   *Cache
}

// New builds a Database pre-populated with the built-in unit table.
func New() *Database {
	db := &Database{
		defs:   map[string]*Def{},
		byName: map[string]*Def{},
		memo:   map[string]*resolved{},
	}
	for _, d := range builtinDefs {
		db.addDef(d)
	}
	return db
}

// UseCache attaches an on-disk resolution cache: every Context built in
// a long-running process (REPL, server) otherwise rebuilds its own
// Database and memo from scratch per call, re-walking the static
// table's dependency graph each time. A shared Cache lets resolveDef
// skip that and also catch definition drift across builds (a name
// whose stored scale disagrees with what the current table resolves
// to). A nil c clears any previously attached cache.
func (db *Database) UseCache(c *Cache) {
	db.cache = c
}

func (db *Database) addDef(d *Def) {
	db.defs[d.Singular] = d
	db.byName[d.Singular] = d
	if d.Plural != "" {
		db.byName[d.Plural] = d
	}
}

// AddCustom installs a user-supplied unit definition (spec.md §4.5 step
// 4, Context.custom_units).
func (db *Database) AddCustom(d *Def) {
	db.custom = append(db.custom, d)
	db.addDef(d)
}

// ErrUnitCycle is returned when resolving a definition re-enters itself.
var ErrUnitCycle = fmt.Errorf("unitdb: cyclic unit definition")

// resolveDef recursively resolves a Def to its base-unit exponents,
// scale, and offset, memoizing the result and detecting cycles via a
// per-call visited set (spec.md §9 "Cyclic unit graph").
func (db *Database) resolveDef(name string) (*resolved, error) {
	if r, ok := db.memo[name]; ok {
		return r, nil
	}
	if db.visited == nil {
		db.visited = map[string]bool{}
	}
	if db.visited[name] {
		return nil, ErrUnitCycle
	}
	db.visited[name] = true
	defer delete(db.visited, name)

	d, ok := db.byName[name]
	if !ok {
		return nil, fmt.Errorf("unitdb: no definition named %q", name)
	}

	var r *resolved
	if d.BaseOf != "" {
		one, _ := bignum.NewExact(1)
		r = &resolved{Unit: units.Single(units.BaseUnit(d.BaseOf), 1), Scale: one}
	} else {
		exp := units.Dimensionless()
		scale, err := bignum.NewExact(1)
		if err != nil {
			return nil, err
		}
		if d.Factor != "" {
			scale, err = bignum.NewExact(d.Factor)
			if err != nil {
				return nil, fmt.Errorf("unitdb: bad factor in definition of %q: %w", d.Singular, err)
			}
		}
		for _, c := range d.Components {
			ref, err := db.resolveDef(c.Name)
			if err != nil {
				return nil, err
			}
			power, err := bignum.NewExact(c.Power)
			if err != nil {
				return nil, fmt.Errorf("unitdb: bad power in definition of %q: %w", d.Singular, err)
			}
			exp = units.Mul(exp, units.Scale(ref.Unit, power))
			pf, err := intPowRat(ref.Scale, power)
			if err != nil {
				return nil, err
			}
			scale = bignum.Mul(scale, pf)
		}
		var offset *bignum.BigRat
		if d.Offset != "" {
			off, err := bignum.NewExact(d.Offset)
			if err != nil {
				return nil, fmt.Errorf("unitdb: bad offset in definition of %q: %w", d.Singular, err)
			}
			offset = off
		}
		r = &resolved{Unit: exp, Scale: scale, Offset: offset}
	}

	db.memo[name] = r
	db.checkAndStoreCache(name, r)
	return r, nil
}

// checkAndStoreCache persists r under name in the attached on-disk
// cache (if any), warning to stderr first if a prior run cached a
// different scale for the same name - a sign the static table changed
// underneath a stale cache file, mirroring the teacher's
// warn-and-continue handling of cache/fetch disagreements
// (currency.go's "Warning: failed to save rates to cache").
func (db *Database) checkAndStoreCache(name string, r *resolved) {
	if db.cache == nil {
		return
	}
	if scale, offset, exponentsDebug, found, err := db.cache.Load(name); err == nil && found {
		if exponentsDebug != r.Unit.String() || bignum.Cmp(scale, r.Scale) != 0 || !offsetsEqual(offset, r.Offset) {
			fmt.Fprintf(os.Stderr, "Warning: cached resolution for unit %q disagrees with the current table\n", name)
		}
	}
	if err := db.cache.Store(name, ResolvedUnit{Unit: r.Unit, Scale: r.Scale, Offset: r.Offset}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache resolved unit %q: %v\n", name, err)
	}
}

func offsetsEqual(a, b *bignum.BigRat) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bignum.Cmp(a, b) == 0
}

// intPowRat raises base to a rational power assumed to have integer
// numerator/denominator 1 in practice for every builtin definition
// (components only ever use whole-number powers); a non-integer power
// here is an internal-invariant violation rather than a user error.
func intPowRat(base *bignum.BigRat, power *bignum.BigRat) (*bignum.BigRat, error) {
	n, ok := power.AsInt64()
	if !ok {
		return nil, fmt.Errorf("unitdb: non-integer component power %s not supported in static definitions", power.String())
	}
	one, _ := bignum.NewExact(1)
	result := one
	neg := n < 0
	if neg {
		n = -n
	}
	for i := int64(0); i < n; i++ {
		result = bignum.Mul(result, base)
	}
	if neg {
		q, err := bignum.Quo(one, result)
		if err != nil {
			return nil, err
		}
		result = q
	}
	return result, nil
}

// Lookup resolves name to its exponent vector, scale, and offset via
// exact/case-insensitive/prefixed/custom/currency resolution, in the
// order spec.md §4.5 specifies. Currency lookup is handled by the
// caller (internal/eval), which has access to the exchange-rate
// handler; Lookup returns ErrUnknownUnit for anything it cannot resolve
// on its own so the caller can attempt currency resolution next.
func (db *Database) Lookup(name string) (units.Exponents, *bignum.BigRat, *bignum.BigRat, error) {
	if _, ok := db.byName[name]; ok {
		r, err := db.resolveDef(name)
		if err != nil {
			return nil, nil, nil, err
		}
		return r.Unit, r.Scale, r.Offset, nil
	}

	// Case-insensitive fallback.
	if d := db.lookupCaseInsensitive(name); d != nil {
		r, err := db.resolveDef(d.Singular)
		if err != nil {
			return nil, nil, nil, err
		}
		return r.Unit, r.Scale, r.Offset, nil
	}

	// Longest-matching SI/binary prefix split.
	if exp, scale, offset, ok := db.lookupPrefixed(name); ok {
		return exp, scale, offset, nil
	}

	return nil, nil, nil, ErrUnknownUnit
}

// ErrUnknownUnit is returned by Lookup when no definition, prefix
// split, or custom unit matches.
var ErrUnknownUnit = fmt.Errorf("unitdb: unknown unit")

func (db *Database) lookupCaseInsensitive(name string) *Def {
	lower := toLower(name)
	for n, d := range db.byName {
		if toLower(n) == lower {
			return d
		}
	}
	return nil
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Name renders the display name for a unit base given a magnitude,
// choosing singular or plural per spec.md §4.4 ("|value|==1 chooses
// singular name").
func (d *Def) Name(magnitudeIsOne bool) string {
	if magnitudeIsOne || d.Plural == "" {
		return d.Singular
	}
	return d.Plural
}
