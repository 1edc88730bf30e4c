package prefixcalc

import (
	"errors"
	"strconv"
	"strings"
)

// Prefix is an expression compiled to prefix form. Operators and sentinels
// appear as single characters and operands are quoted. The stream is meant to
// be read from its last character to its first; operand text is stored
// reversed accordingly.
type Prefix string

// compiler holds the stacks for one compilation.
type compiler struct {
	ops  []opEntry
	vals []string
}

// Compile compiles an infix expression to prefix form. If the expression is
// invalid, the error implements InputError.
func Compile(expr string) (Prefix, error) {
	var c compiler
	for i := len(expr) - 1; i >= 0; i-- {
		ch := expr[i]
		switch {
		case isLetter(ch):
			j := i
			for j > 0 && isLetter(expr[j-1]) {
				j--
			}
			sym, ok := funcs[expr[j:i+1]]
			if !ok {
				return "", &NameError{Index: j, Name: expr[j : i+1]}
			}
			if err := c.pushUnary(sym, j); err != nil {
				return "", err
			}
			i = j
		case isNumeric(ch):
			j := i
			for j > 0 && isNumeric(expr[j-1]) {
				j--
			}
			if _, err := strconv.ParseFloat(expr[j:i+1], 64); err != nil && !errors.Is(err, strconv.ErrRange) {
				return "", &NumberError{Index: j, Text: expr[j : i+1]}
			}
			c.vals = append(c.vals, operand(expr[j:i+1]))
			i = j
		case isClose(ch):
			c.pushMarker(ch, i)
		case isOpen(ch):
			if err := c.closeGroup(ch, i); err != nil {
				return "", err
			}
		case ch == '-' && negates(expr, i):
			if err := c.pushUnary(SymNeg, i); err != nil {
				return "", err
			}
		case isOperator(ch):
			if err := c.pushBinary(ch, i); err != nil {
				return "", err
			}
		default:
			return "", &CharError{Index: i, Char: ch}
		}
	}
	for len(c.ops) > 0 {
		if op := c.top(); op.arity == 0 {
			return "", &GroupingError{Index: op.pos, Close: op.sym}
		}
		if err := c.reduce(); err != nil {
			return "", err
		}
	}
	switch len(c.vals) {
	case 0:
		return "", &EmptyExpressionError{}
	case 1:
		return Prefix(c.vals[0]), nil
	default:
		return "", &OperatorError{Index: 0, Operands: len(c.vals)}
	}
}

// operand quotes a number for the prefix stream, reversing its text.
func operand(num string) string {
	var b strings.Builder
	b.Grow(len(num) + 2)
	b.WriteByte(quote)
	for i := len(num) - 1; i >= 0; i-- {
		b.WriteByte(num[i])
	}
	b.WriteByte(quote)
	return b.String()
}

// String returns the prefix stream as text.
func (p Prefix) String() string {
	return string(p)
}
