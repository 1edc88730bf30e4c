// Package gen generates random well-formed calculator expressions, with their
// equivalents in the reference evaluator's syntax, and corrupts them.
//
// Expressions come from three coupled state machines. The expression machine
// writes numbers, operators, function applications, and groups. Each number
// is written by the number machine, and each exponent by the exponent
// machine, which has its own grouping stack.
package gen

import (
	"math/rand/v2"
	"strings"
)

// Expression is a generated expression.
type Expression struct {
	// Raw is the expression in calculator syntax.
	Raw string
	// Oracle is Raw in the reference evaluator's syntax.
	Oracle string
	// Cycles is the number of expression machine cycles requested.
	Cycles int
	// Complexity is the vocabulary the expression was built from.
	Complexity Complexity
}

// Builder runs the generator state machines. A Builder is not safe for
// concurrent use; give each goroutine its own with its own random source.
type Builder struct {
	r *rand.Rand
	v *vocabulary

	expr []byte
	exp  []byte

	state  ExpressionState
	estate ExponentState
	nstate NumberState

	// groups and egroups hold the closers of the open groups of the
	// expression and of the exponent under construction.
	groups  []byte
	egroups []byte
}

// NewBuilder creates a builder drawing from r.
func NewBuilder(r *rand.Rand) *Builder {
	return &Builder{r: r}
}

// Build generates an expression by running cycles+1 expression machine
// cycles, then completing the expression and closing every open group.
func (b *Builder) Build(cycles int, c Complexity) Expression {
	if c != Low {
		c = High
	}
	b.v = &vocabularies[c]
	b.expr = b.expr[:0]
	b.groups = b.groups[:0]
	b.state = Start
	for i := 0; i <= cycles; i++ {
		b.step()
	}
	if b.needsOperand() {
		b.state = Number
		b.step()
	}
	b.state = Cleanup
	b.step()
	raw := string(b.expr)
	return Expression{
		Raw:        raw,
		Oracle:     ToOracle(raw),
		Cycles:     cycles,
		Complexity: c,
	}
}

// needsOperand reports whether the expression would end on an operator, a
// function name, or an open group if it were closed now.
func (b *Builder) needsOperand() bool {
	switch b.state {
	case Start, Number, NumberAfterUnary, UnaryOperator, OpenParenthesis, OpenBracket:
		return true
	}
	if len(b.expr) == 0 {
		return true
	}
	return strings.IndexByte("+-*/^({", b.expr[len(b.expr)-1]) >= 0
}

// step processes the current expression state and transitions.
func (b *Builder) step() {
	switch b.state {
	case Start, ExponentOperator, End:
	case Number, NumberAfterUnary:
		b.expr = b.number(b.expr)
	case BinaryOperator:
		op := pick(b.r, b.v.binary)
		b.expr = append(b.expr, op)
		if op == '^' {
			b.expr = append(b.expr, '(')
			b.expr = append(b.expr, b.exponent()...)
			b.expr = append(b.expr, ')')
			b.state = ExponentOperator
		}
	case UnaryOperator:
		b.expr = append(b.expr, pick(b.r, b.v.unary)...)
		b.expr = append(b.expr, '(')
		b.groups = append(b.groups, ')')
	case OpenParenthesis:
		b.expr = append(b.expr, '(')
		b.groups = append(b.groups, ')')
	case OpenBracket:
		b.expr = append(b.expr, '{')
		b.groups = append(b.groups, '}')
	case CloseParenthesis, CloseBracket:
		b.expr, b.groups = closeGroup(b.expr, b.groups)
	case Cleanup:
		for len(b.groups) > 0 {
			b.expr, b.groups = closeGroup(b.expr, b.groups)
		}
	default:
		panic("gen: invalid expression state " + b.state.String())
	}
	b.state = transition(b.r, expressionTransitions[b.state], End)
}

// exponent runs the exponent machine to completion and returns the body of
// the exponent. The result aliases the builder's buffer.
func (b *Builder) exponent() []byte {
	b.exp = b.exp[:0]
	b.egroups = b.egroups[:0]
	b.estate = ExpStart
	for b.estate != ExpEnd {
		switch b.estate {
		case ExpStart:
		case ExpNumber, ExpNumberAfterUnary:
			b.exp = b.number(b.exp)
		case ExpBinaryOperator:
			b.exp = append(b.exp, pick(b.r, b.v.exponent))
		case ExpUnaryOperator:
			b.exp = append(b.exp, pick(b.r, b.v.unary)...)
			b.exp = append(b.exp, '(')
			b.egroups = append(b.egroups, ')')
		case ExpOpenParenthesis:
			b.exp = append(b.exp, '(')
			b.egroups = append(b.egroups, ')')
		case ExpOpenBracket:
			b.exp = append(b.exp, '{')
			b.egroups = append(b.egroups, '}')
		case ExpCloseParenthesis, ExpCloseBracket:
			b.exp, b.egroups = closeGroup(b.exp, b.egroups)
		case ExpCleanup:
			for len(b.egroups) > 0 {
				b.exp, b.egroups = closeGroup(b.exp, b.egroups)
			}
		default:
			panic("gen: invalid exponent state " + b.estate.String())
		}
		b.estate = transition(b.r, exponentTransitions[b.estate], ExpEnd)
	}
	return b.exp
}

// number runs the number machine to completion, appending to dst.
func (b *Builder) number(dst []byte) []byte {
	b.nstate = NumberStart
	for b.nstate != NumberEnd {
		switch b.nstate {
		case NumberStart:
		case NumberDigit, NumberAfterDecimal:
			dst = append(dst, byte('0'+b.r.IntN(10)))
		case NumberDecimal:
			dst = append(dst, '.')
		default:
			panic("gen: invalid number state " + b.nstate.String())
		}
		b.nstate = transition(b.r, numberTransitions[b.nstate], NumberEnd)
	}
	return dst
}

// closeGroup writes the closer of the innermost open group, if any.
func closeGroup(dst, groups []byte) ([]byte, []byte) {
	if len(groups) == 0 {
		return dst, groups
	}
	dst = append(dst, groups[len(groups)-1])
	return dst, groups[:len(groups)-1]
}

// transition picks the next state uniformly from next, or end if there are no
// candidates.
func transition[S any](r *rand.Rand, next []S, end S) S {
	if len(next) == 0 {
		return end
	}
	return next[r.IntN(len(next))]
}

func pick[T any](r *rand.Rand, from []T) T {
	return from[r.IntN(len(from))]
}
