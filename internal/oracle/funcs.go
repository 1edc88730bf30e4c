package oracle

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. The function arguments are passed in invoc,
	// which has a length for which CanCall returned true. The function must
	// set r to its result and should not use the value of r otherwise. Call
	// may modify the elements of invoc.
	Call(ctx *context, invoc []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// The parser rejects calls with other argument counts.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"sin":  Real("sin", math.Sin),
	"cos":  Real("cos", math.Cos),
	"tan":  Real("tan", math.Tan),
	"cot":  Real("cot", func(x float64) float64 { return 1 / math.Tan(x) }),
	"ln":   Monadic("ln", logarithm(nil)),
	"log":  Monadic("log", logarithm(big.NewFloat(10))),
	"sqrt": Monadic("sqrt", (*big.Float).Sqrt),
	"pow":  dyadic{"pow", pow, powNaN},
}

// Funcs returns the names of the functions the parser recognizes.
func Funcs() []string {
	r := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		r = append(r, k)
	}
	return r
}

type monadic struct {
	name string
	f    func(out, in *big.Float) *big.Float
}

func (m monadic) Call(ctx *context, invoc []*big.Float, r *big.Float) (err error) {
	in := invoc[0]
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		err = &DomainError{X: in, Arg: 1, Func: m.name}
	}()
	r.SetPrec(ctx.prec)
	m.f(r, in)
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with an error of
// type big.ErrNaN.
func Monadic(name string, f func(out, in *big.Float) *big.Float) Func {
	return monadic{name, f}
}

type real64 struct {
	name string
	f    func(float64) float64
}

func (m real64) Call(ctx *context, invoc []*big.Float, r *big.Float) error {
	x, _ := invoc[0].Float64()
	y := m.f(x)
	if math.IsNaN(y) {
		return &DomainError{X: invoc[0], Arg: 1, Func: m.name}
	}
	r.SetPrec(ctx.prec).SetFloat64(y)
	return nil
}

func (m real64) CanCall(n int) bool {
	return n == 1
}

// Real wraps a float64 function of one variable into a Func. The argument is
// rounded to the nearest float64. A NaN result is a domain error.
func Real(name string, f func(float64) float64) Func {
	return real64{name, f}
}

type dyadic struct {
	name string
	f    func(prec uint, out, x, y *big.Float) error
	// nan, if not nil, computes results for arguments outside their own
	// domains, where xnan or ynan marks x or y as NaN. It reports whether
	// the result is defined.
	nan func(prec uint, out, x, y *big.Float, xnan, ynan bool) bool
}

func (d dyadic) Call(ctx *context, invoc []*big.Float, r *big.Float) error {
	return d.f(ctx.prec, r, invoc[0], invoc[1])
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

func (d dyadic) CallNaN(ctx *context, invoc []*big.Float, nan []bool, r *big.Float) bool {
	if d.nan == nil {
		return false
	}
	return d.nan(ctx.prec, r, invoc[0], invoc[1], nan[0], nan[1])
}

// nanCaller is a Func that is defined for some arguments which are themselves
// undefined. CallNaN reports whether it set r.
type nanCaller interface {
	CallNaN(ctx *context, invoc []*big.Float, nan []bool, r *big.Float) bool
}

// logarithm returns a natural logarithm, or the logarithm to base if it is
// not nil.
func logarithm(base *big.Float) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		switch {
		case in.Signbit() && in.Sign() != 0:
			panic(big.ErrNaN{})
		case in.Sign() == 0:
			return out.SetInf(true)
		case in.IsInf():
			return out.SetInf(false)
		}
		bigfloat.Log(out, in)
		if base == nil {
			return out
		}
		var d big.Float
		d.SetPrec(out.Prec())
		bigfloat.Log(&d, new(big.Float).Set(base))
		return out.Quo(out, &d)
	}
}

// pow computes x**y with bigfloat where the result is a positive finite
// number and falls back to float64 for negative bases and results that
// overflow or underflow.
func pow(prec uint, out, x, y *big.Float) error {
	xf, _ := x.Float64()
	yf, _ := y.Float64()
	z := math.Pow(xf, yf)
	switch {
	case math.IsNaN(z):
		return &DomainError{X: x, Arg: 1, Func: "pow"}
	case math.IsInf(z, 0), z == 0, x.Sign() <= 0, x.IsInf(), y.IsInf():
		out.SetPrec(prec).SetFloat64(z)
	default:
		// Pow returns a new value instead of setting out when y is 0 or 1.
		out.Set(bigfloat.Pow(out.SetPrec(prec), x, y))
	}
	return nil
}

// powNaN gives pow(x, 0) = 1 and pow(1, y) = 1 even when the other argument
// is NaN.
func powNaN(prec uint, out, x, y *big.Float, xnan, ynan bool) bool {
	if !ynan && y.Sign() == 0 || !xnan && x.Cmp(big.NewFloat(1)) == 0 {
		out.SetPrec(prec).SetInt64(1)
		return true
	}
	return false
}
