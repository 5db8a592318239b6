package eval

import (
	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dice"
	"github.com/mikecarlton/qcalc/internal/value"
)

// bootstrapScope builds the root Frame every Context starts from: math
// constants, the to/as/in format- and base-spec targets, and the
// built-in function table. Grounded on the teacher's CONSTANTS/FUNCTION
// maps (calc.go), generalized so format-spec and unit identifiers are
// resolved by the very same Scope.Get/evalApply machinery as any other
// variable rather than through a second, parallel lookup table.
func bootstrapScope() *value.Scope {
	f := value.Frame{}
	bindConstants(f)
	bindFormatSpecs(f)
	bindBaseSpecs(f)
	bindDisplayBuiltins(f)
	bindMathBuiltins(f)
	return value.NewScopeFrom(f).Push(value.Frame{})
}

func bindConstants(f value.Frame) {
	f["pi"] = numberFromComplex(approx.FromReal(piApprox()))
	f["e"] = numberFromComplex(approx.FromReal(eApprox()))
	f["phi"] = numberFromComplex(approx.FromReal(phiApprox()))
	f["tau"] = numberFromComplex(approx.FromReal(approx.Add(piApprox(), piApprox())))
	f["i"] = numberFromComplex(&approx.Complex{Re: approx.Exact(mustRat(0)), Im: approx.Exact(mustRat(1))})
	f["true"] = value.FromInt(1)
	f["false"] = value.FromInt(0)
}

// piApprox/eApprox/phiApprox snapshot well-known constants to the
// default working precision; exact symbolic pi is out of scope.
func piApprox() *approx.RealApprox {
	halfPi, _ := approx.Asin(approx.Exact(mustRat(1)))
	return approx.Mul(halfPi, approx.Exact(mustRat(2)))
}

func eApprox() *approx.RealApprox {
	r, _ := approx.Exp(approx.Exact(mustRat(1)))
	return r
}

func phiApprox() *approx.RealApprox {
	five, _ := approx.Sqrt(approx.Exact(mustRat(5)))
	sum := approx.Add(five, approx.Exact(mustRat(1)))
	q, _ := approx.Quo(sum, approx.Exact(mustRat(2)))
	return q
}

func bindFormatSpecs(f value.Frame) {
	specs := map[string]bignum.FormatKind{
		"exact":          bignum.FormatExact,
		"auto":           bignum.FormatAuto,
		"float":          bignum.FormatFloat,
		"fraction":       bignum.FormatFraction,
		"mixed_fraction": bignum.FormatMixedFraction,
		"roman":          bignum.FormatRoman,
		"words":          bignum.FormatWords,
		"string":         bignum.FormatString,
		"date":           bignum.FormatDate,
		"codepoint":      bignum.FormatCodepoint,
		"character":      bignum.FormatCharacter,
		"text":           bignum.FormatText,
	}
	for name, kind := range specs {
		f[name] = value.Value{Kind: value.KindFormatSpec, Format: value.FormatSpec{Kind: kind}}
	}
}

func bindBaseSpecs(f value.Frame) {
	bases := map[string]int{"binary": 2, "octal": 8, "decimal": 10, "hex": 16}
	for name, base := range bases {
		f[name] = value.Value{Kind: value.KindBaseSpec, Base: value.BaseSpec{Base: base}}
	}
}

// bindDisplayBuiltins wires `N dp`, `N sf`, and `base N` — juxtaposition
// of a number against these produces a FormatSpec/BaseSpec value that
// evalConvert then applies, per spec.md §4.3's "to/as/in" rules.
func bindDisplayBuiltins(f value.Frame) {
	f["dp"] = builtinFn("dp", func(args []value.Value) (value.Value, error) {
		n, err := intArg(args, "dp")
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindFormatSpec, Format: value.FormatSpec{Kind: bignum.FormatDecimalPlaces, N: n}}, nil
	})
	f["sf"] = builtinFn("sf", func(args []value.Value) (value.Value, error) {
		n, err := intArg(args, "sf")
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindFormatSpec, Format: value.FormatSpec{Kind: bignum.FormatSignificantFigures, N: n}}, nil
	})
	f["base"] = builtinFn("base", func(args []value.Value) (value.Value, error) {
		n, err := intArg(args, "base")
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindBaseSpec, Base: value.BaseSpec{Base: n}}, nil
	})
}

func intArg(args []value.Value, name string) (int, error) {
	if len(args) != 1 || args[0].Kind != value.KindNumber {
		return 0, errf(KindDomainError, "%s requires one numeric argument", name)
	}
	n, ok := args[0].Num.Magnitude.Re.Rat.AsInt64()
	if !ok {
		return 0, errf(KindDomainError, "%s requires an integer argument", name)
	}
	return int(n), nil
}

func builtinFn(name string, fn value.BuiltinFunc) value.Value {
	return value.Value{Kind: value.KindBuiltinFn, Builtin: &value.BuiltinFn{Name: name, Fn: fn}}
}

// bindMathBuiltins wires the standard transcendental/rounding library
// plus a handful of domain helpers (mean, fib, not) onto internal/approx
// and the dice engine, per spec.md §4.4's function table.
func bindMathBuiltins(f value.Frame) {
	real1 := func(name string, fn func(*approx.RealApprox) (*approx.RealApprox, error)) {
		f[name] = builtinFn(name, func(args []value.Value) (value.Value, error) {
			n, err := realArg(args, name)
			if err != nil {
				return value.Value{}, err
			}
			out, err := fn(n)
			if err != nil {
				return value.Value{}, errf(KindDomainError, "%s: %v", name, err)
			}
			return numberFromComplex(approx.FromReal(out)), nil
		})
	}
	realNoErr := func(name string, fn func(*approx.RealApprox) *approx.RealApprox) {
		f[name] = builtinFn(name, func(args []value.Value) (value.Value, error) {
			n, err := realArg(args, name)
			if err != nil {
				return value.Value{}, err
			}
			return numberFromComplex(approx.FromReal(fn(n))), nil
		})
	}

	real1("exp", approx.Exp)
	real1("ln", approx.Ln)
	real1("log", approx.Log10)
	real1("log10", approx.Log10)
	real1("log2", approx.Log2)
	real1("sin", approx.Sin)
	real1("cos", approx.Cos)
	real1("tan", approx.Tan)
	real1("asin", approx.Asin)
	real1("acos", approx.Acos)
	real1("atan", approx.Atan)
	real1("sinh", approx.Sinh)
	real1("cosh", approx.Cosh)
	real1("tanh", approx.Tanh)
	real1("asinh", approx.Asinh)
	real1("acosh", approx.Acosh)
	real1("atanh", approx.Atanh)
	realNoErr("floor", approx.Floor)
	realNoErr("ceil", approx.Ceil)
	realNoErr("round", approx.Round)
	realNoErr("abs", approx.Abs)

	f["sqrt"] = builtinFn("sqrt", func(args []value.Value) (value.Value, error) {
		return unaryPow(args, "sqrt", mustRatQuo(1, 2))
	})
	f["cbrt"] = builtinFn("cbrt", func(args []value.Value) (value.Value, error) {
		return unaryPow(args, "cbrt", mustRatQuo(1, 3))
	})
	f["square"] = builtinFn("square", func(args []value.Value) (value.Value, error) {
		return unaryPow(args, "square", mustRat(2))
	})
	f["cubic"] = builtinFn("cubic", func(args []value.Value) (value.Value, error) {
		return unaryPow(args, "cubic", mustRat(3))
	})

	f["conjugate"] = builtinFn("conjugate", func(args []value.Value) (value.Value, error) {
		n, err := numArg(args, "conjugate")
		if err != nil {
			return value.Value{}, err
		}
		return numberFromComplexUnit(approx.Conjugate(n.Magnitude), n), nil
	})
	f["real"] = builtinFn("real", func(args []value.Value) (value.Value, error) {
		n, err := numArg(args, "real")
		if err != nil {
			return value.Value{}, err
		}
		return numberFromComplexUnit(approx.FromReal(n.Magnitude.Re), n), nil
	})
	f["imag"] = builtinFn("imag", func(args []value.Value) (value.Value, error) {
		n, err := numArg(args, "imag")
		if err != nil {
			return value.Value{}, err
		}
		return numberFromComplexUnit(approx.FromReal(n.Magnitude.Im), n), nil
	})
	f["arg"] = builtinFn("arg", func(args []value.Value) (value.Value, error) {
		n, err := numArg(args, "arg")
		if err != nil {
			return value.Value{}, err
		}
		a, err := approx.Arg(n.Magnitude)
		if err != nil {
			return value.Value{}, errf(KindDomainError, "arg: %v", err)
		}
		return numberFromComplex(approx.FromReal(a)), nil
	})

	f["not"] = builtinFn("not", func(args []value.Value) (value.Value, error) {
		n, err := intArg(args, "not")
		if err != nil {
			return value.Value{}, err
		}
		if n == 0 {
			return value.FromInt(1), nil
		}
		return value.FromInt(0), nil
	})

	f["mean"] = builtinFn("mean", distBuiltin(dice.Mean))
	f["average"] = builtinFn("average", distBuiltin(dice.Mean))

	f["fib"] = builtinFn("fib", func(args []value.Value) (value.Value, error) {
		n, err := intArg(args, "fib")
		if err != nil {
			return value.Value{}, err
		}
		if n < 0 {
			return value.Value{}, errf(KindDomainError, "fib requires a non-negative integer")
		}
		a, b := int64(0), int64(1)
		for i := 0; i < n; i++ {
			a, b = b, a+b
		}
		return value.FromInt(a), nil
	})
}

func distBuiltin(f func(*value.Dist) *bignum.BigRat) value.BuiltinFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 || args[0].Kind != value.KindDist {
			return value.Value{}, errf(KindDomainError, "requires a distribution argument")
		}
		return numberFromRat(f(args[0].Dist)), nil
	}
}

func realArg(args []value.Value, name string) (*approx.RealApprox, error) {
	n, err := numArg(args, name)
	if err != nil {
		return nil, err
	}
	if !n.Magnitude.IsReal() {
		return nil, errf(KindDomainError, "%s requires a real argument", name)
	}
	return n.Magnitude.Re, nil
}

func numArg(args []value.Value, name string) (*value.Number, error) {
	if len(args) != 1 || args[0].Kind != value.KindNumber {
		return nil, errf(KindDomainError, "%s requires one numeric argument", name)
	}
	return args[0].Num, nil
}

func unaryPow(args []value.Value, name string, exp *bignum.BigRat) (value.Value, error) {
	n, err := numArg(args, name)
	if err != nil {
		return value.Value{}, err
	}
	exponent := &value.Number{
		Magnitude: approx.FromReal(approx.Exact(exp)),
		Scale:     mustRat(1),
	}
	return pow(n, exponent)
}

func mustRatQuo(num, den int64) *bignum.BigRat {
	q, err := bignum.Quo(mustRat(num), mustRat(den))
	if err != nil {
		panic("mustRatQuo: division by zero")
	}
	return q
}
