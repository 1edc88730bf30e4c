package prefixcalc

import (
	"errors"
	"math"
	"strconv"
)

// Evaluate evaluates a prefix stream produced by Compile. Division by zero and
// arguments outside a function's domain follow IEEE 754 and produce infinities
// or NaN rather than errors. A stream that is not well formed gives an
// *EvalError.
func Evaluate(p Prefix) (float64, error) {
	var (
		stack []float64
		num   []byte
		in    bool
	)
	for i := len(p) - 1; i >= 0; i-- {
		c := p[i]
		if c == quote {
			if !in {
				in = true
				num = num[:0]
				continue
			}
			in = false
			v, err := strconv.ParseFloat(string(num), 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return 0, &EvalError{Index: i, Err: ErrBadOperand}
			}
			stack = append(stack, v)
			continue
		}
		if in {
			if !isNumeric(c) {
				return 0, &EvalError{Index: i, Sym: c, Err: ErrBadOperand}
			}
			num = append(num, c)
			continue
		}
		switch {
		case unary(c):
			if len(stack) < 1 {
				return 0, &EvalError{Index: i, Sym: c, Err: ErrStackUnderflow}
			}
			a := &stack[len(stack)-1]
			*a = apply1(c, *a)
		case isOperator(c):
			if len(stack) < 2 {
				return 0, &EvalError{Index: i, Sym: c, Err: ErrStackUnderflow}
			}
			a := stack[len(stack)-1]
			b := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = apply2(c, a, b)
		default:
			return 0, &EvalError{Index: i, Sym: c, Err: ErrUnknownSymbol}
		}
	}
	if in || len(stack) != 1 {
		return 0, &EvalError{Index: 0, Err: ErrMalformedStream}
	}
	return stack[0], nil
}

func apply1(sym byte, a float64) float64 {
	switch sym {
	case SymSin:
		return math.Sin(a)
	case SymCos:
		return math.Cos(a)
	case SymTan:
		return math.Tan(a)
	case SymCot:
		return 1 / math.Tan(a)
	case SymLn:
		return math.Log(a)
	case SymLog:
		return math.Log10(a)
	case SymSqrt:
		return math.Sqrt(a)
	case SymNeg:
		return -a
	default:
		panic("prefixcalc: invalid unary symbol " + strconv.QuoteRune(rune(sym)))
	}
}

// apply2 applies a binary operator. a is the left operand, popped first.
func apply2(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '^':
		return math.Pow(a, b)
	default:
		panic("prefixcalc: invalid binary operator " + strconv.QuoteRune(rune(op)))
	}
}

// EvalString is a shortcut to compile and evaluate an expression.
func EvalString(expr string) (float64, error) {
	p, err := Compile(expr)
	if err != nil {
		return 0, err
	}
	return Evaluate(p)
}
