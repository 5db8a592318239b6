package unitdb

import (
	"strings"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/units"
)

// prefix is one SI or binary magnitude prefix; Symbol is the short
// form (k, M, Ki...) and Long is the full word form (kilo, mega,
// kibi...). Listed from options.go's help text ("da (deca, 10¹), h
// (hecto, 10²), k (kilo, 10³)...").
type prefix struct {
	Symbol string
	Long   string
	Factor string // decimal literal
}

var siPrefixes = []prefix{
	{"Y", "yotta", "1e24"}, {"Z", "zetta", "1e21"}, {"E", "exa", "1e18"},
	{"P", "peta", "1e15"}, {"T", "tera", "1e12"}, {"G", "giga", "1e9"},
	{"M", "mega", "1e6"}, {"k", "kilo", "1e3"}, {"h", "hecto", "1e2"},
	{"da", "deca", "1e1"},
	{"d", "deci", "1e-1"}, {"c", "centi", "1e-2"}, {"m", "milli", "1e-3"},
	{"u", "micro", "1e-6"}, {"μ", "micro", "1e-6"}, {"n", "nano", "1e-9"},
	{"p", "pico", "1e-12"}, {"f", "femto", "1e-15"}, {"a", "atto", "1e-18"},
	{"z", "zepto", "1e-21"}, {"y", "yocto", "1e-24"},
}

var binaryPrefixes = []prefix{
	{"Yi", "yobi", "1208925819614629174706176"},
	{"Zi", "zebi", "1180591620717411303424"},
	{"Ei", "exbi", "1152921504606846976"},
	{"Pi", "pebi", "1125899906842624"},
	{"Ti", "tebi", "1099511627776"},
	{"Gi", "gibi", "1073741824"},
	{"Mi", "mebi", "1048576"},
	{"Ki", "kibi", "1024"},
}

// lookupPrefixed attempts to split name into prefix+base, longest
// prefix first, honoring the base unit's AllowLongPrefix/AllowShortPrefix
// attribute (spec.md §4.5 step 3).
func (db *Database) lookupPrefixed(name string) (units.Exponents, *bignum.BigRat, *bignum.BigRat, bool) {
	candidates := append(append([]prefix{}, binaryPrefixes...), siPrefixes...)
	// Longest prefix symbol/long-form first so "da" is tried before "d".
	best := -1
	var bestPrefix prefix
	var bestBase *Def
	for _, p := range candidates {
		for _, form := range []string{p.Long, p.Symbol} {
			if form == "" || !strings.HasPrefix(name, form) {
				continue
			}
			rest := name[len(form):]
			d, ok := db.byName[rest]
			if !ok {
				continue
			}
			allowed := d.AllowLongPrefix && form == p.Long
			allowed = allowed || (d.AllowShortPrefix && form == p.Symbol)
			if !allowed {
				continue
			}
			if len(form) > best {
				best = len(form)
				bestPrefix = p
				bestBase = d
			}
		}
	}
	if bestBase == nil {
		return nil, nil, nil, false
	}
	r, err := db.resolveDef(bestBase.Singular)
	if err != nil {
		return nil, nil, nil, false
	}
	factor, err := bignum.NewExact(bestPrefix.Factor)
	if err != nil {
		return nil, nil, nil, false
	}
	scale := bignum.Mul(r.Scale, factor)
	return r.Unit, scale, r.Offset, true
}
