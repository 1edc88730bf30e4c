// Package oracle is a conventional infix calculator used as an independent
// reference for checking the prefix compiler. It parses with precedence
// climbing and evaluates with math/big.
//
// Exponentiation is written pow(x, y). Functions always take a parenthesized
// argument list, and there is no implicit multiplication.
package oracle

import (
	"errors"
	"math"
	"math/big"
)

// DefaultPrec is the precision used when an Evaluator has none set. It
// matches float64.
const DefaultPrec = 53

// Evaluator evaluates expressions in a fresh context per call. The zero value
// is ready to use and safe for concurrent use.
type Evaluator struct {
	// Prec is the precision of intermediate results in bits.
	Prec uint
}

// Eval parses and evaluates an expression. Syntax errors are returned as
// InputErrors. Arguments outside a function's domain, e.g. ln(-1) or 0/0,
// produce NaN with no error, except where pow ignores them as in
// pow(ln(-1), 0).
func (e Evaluator) Eval(src string) (float64, error) {
	x, err := Parse(src)
	if err != nil {
		return 0, err
	}
	prec := e.Prec
	if prec == 0 {
		prec = DefaultPrec
	}
	r, err := x.Eval(prec)
	if err != nil {
		if errors.As(err, new(*DomainError)) {
			return math.NaN(), nil
		}
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// context holds the value stack for evaluating one expression. It is not safe
// for concurrent use.
type context struct {
	stack []*big.Float
	prec  uint
}

// Eval evaluates the expression at the given precision. Out-of-domain
// arguments give a *DomainError.
func (e *Expr) Eval(prec uint) (r *big.Float, err error) {
	ctx := context{prec: prec}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		// big.Float panics on operations like Inf - Inf.
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		r, err = nil, &DomainError{Func: "arithmetic"}
	}()
	if err := e.n.eval(&ctx); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("oracle: inconsistent stack (bad AST?)")
	}
	return ctx.stack[0], nil
}

// push ensures a settable value on the stack.
func (ctx *context) push() *big.Float {
	v := new(big.Float).SetPrec(ctx.prec)
	ctx.stack = append(ctx.stack, v)
	return v
}

// pop removes the top from the stack and returns it.
func (ctx *context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num parses a number token. The lexer has already validated it.
func (ctx *context) num(s string) *big.Float {
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		panic("oracle: invalid number: " + s + " (" + err.Error() + ")")
	}
	return r
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n.name))
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		var (
			nan  []bool
			derr error
		)
		for l := n.right; l != nil; l = l.right {
			i := len(ctx.stack) - k
			err := l.left.evalArg(ctx)
			nan = append(nan, err != nil)
			if err == nil {
				continue
			}
			if !errors.As(err, new(*DomainError)) {
				return err
			}
			if derr == nil {
				derr = err
			}
			// Hold the argument's place with a dummy value.
			ctx.stack = ctx.stack[:k+i]
			ctx.push()
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if derr != nil {
			f, ok := n.fn.(nanCaller)
			if !ok || !f.CallNaN(ctx, invoc, nan, r) {
				return derr
			}
		} else if err := n.fn.Call(ctx, invoc, r); err != nil {
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeNop:
		return n.left.eval(ctx)
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		switch n.kind {
		case nodeAdd:
			l.Add(l, r)
		case nodeSub:
			l.Sub(l, r)
		case nodeMul:
			l.Mul(l, r)
		case nodeDiv:
			// Guard against invalid divisions, 0/0 or inf/inf.
			if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
				return &DomainError{X: r, Func: "/"}
			}
			l.Quo(l, r)
		}
	default:
		panic("oracle: invalid AST node " + n.kind.String())
	}
	return nil
}

// evalArg evaluates a function argument. Invalid operations within it, like
// Inf - Inf, give a *DomainError instead of a panic.
func (n *node) evalArg(ctx *context) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		err = &DomainError{Func: "arithmetic"}
	}()
	return n.eval(ctx)
}

// EvalString is a shortcut to evaluate an expression with the default
// precision.
func EvalString(src string) (float64, error) {
	return Evaluator{}.Eval(src)
}
