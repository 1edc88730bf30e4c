package prefixcalc

import (
	"errors"
	"strconv"
)

// InputError is an error with position information. Every error resulting
// from invalid input to Compile implements InputError.
type InputError interface {
	error
	// Pos returns the 0-based byte index in the expression of the character
	// that caused the error.
	Pos() int
}

// GroupingError indicates mismatched parentheses or braces. It implements
// InputError.
type GroupingError struct {
	// Index is the position of the unmatched bracket.
	Index int
	// Open is the opening bracket, or 0 if a close bracket has no opener.
	Open byte
	// Close is the closing bracket, or 0 if an open bracket has no closer.
	Close byte
}

func (err *GroupingError) Error() string {
	kind := "parenthesis"
	if err.Open == '{' || err.Open == 0 && err.Close == '}' {
		kind = "bracket"
	}
	msg := kind + " error at index " + strconv.Itoa(err.Index) + ": "
	switch {
	case err.Close == 0:
		return msg + string(err.Open) + " with no matching " + string(closer(err.Open))
	case err.Open == 0:
		return msg + string(err.Close) + " with no matching " + string(opener(err.Close))
	default:
		return msg + string(err.Open) + " closed by " + string(err.Close)
	}
}

func (err *GroupingError) Pos() int {
	return err.Index
}

// NameError indicates a letter run that is not a function name. It
// implements InputError.
type NameError struct {
	// Index is the position of the first letter of the name.
	Index int
	// Name is the unrecognized word.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Index, "unknown function "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Index
}

// CharError indicates a character that cannot appear in an expression. It
// implements InputError.
type CharError struct {
	Index int
	Char  byte
}

func (err *CharError) Error() string {
	return errpos(err.Index, "invalid character "+strconv.QuoteRune(rune(err.Char)))
}

func (err *CharError) Pos() int {
	return err.Index
}

// NumberError indicates a run of digits and decimal points that is not a
// number, e.g. "1.2.3". It implements InputError.
type NumberError struct {
	// Index is the position of the first character of the run.
	Index int
	Text  string
}

func (err *NumberError) Error() string {
	return errpos(err.Index, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Index
}

// OperandError indicates an operator without enough operands. It implements
// InputError.
type OperandError struct {
	// Index is the position of the operator or function name.
	Index int
	// Op is the operator character or sentinel.
	Op byte
}

func (err *OperandError) Error() string {
	return errpos(err.Index, "missing operand for "+symName(err.Op))
}

func (err *OperandError) Pos() int {
	return err.Index
}

// OperatorError indicates operands with no operator between them, e.g.
// "2(3)". It implements InputError.
type OperatorError struct {
	// Index is the position at which the operands were found to be adjacent:
	// the open bracket of the group containing them, or 0 for the whole
	// expression.
	Index int
	// Operands is the number of operands left over.
	Operands int
}

func (err *OperatorError) Error() string {
	return errpos(err.Index, "missing operator between "+strconv.Itoa(err.Operands)+" operands")
}

func (err *OperatorError) Pos() int {
	return err.Index
}

// EmptyGroupError indicates brackets with nothing between them. It implements
// InputError.
type EmptyGroupError struct {
	// Index is the position of the open bracket.
	Index int
	Open  byte
}

func (err *EmptyGroupError) Error() string {
	return errpos(err.Index, "empty "+string(err.Open)+string(closer(err.Open)))
}

func (err *EmptyGroupError) Pos() int {
	return err.Index
}

// EmptyExpressionError indicates an expression with no operands at all.
type EmptyExpressionError struct{}

func (err *EmptyExpressionError) Error() string {
	return "no expression"
}

func (err *EmptyExpressionError) Pos() int {
	return 0
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return "index " + strconv.Itoa(pos) + ": " + msg
}

// symName names an operator or sentinel for error messages.
func symName(sym byte) string {
	switch sym {
	case SymNeg:
		return "unary -"
	case 0:
		return "operator"
	}
	for name, s := range funcs {
		if s == sym {
			return name
		}
	}
	return strconv.QuoteRune(rune(sym))
}

var (
	_ InputError = (*GroupingError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*CharError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*EmptyGroupError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
)

// Evaluation failures. An *EvalError wraps exactly one of these.
var (
	// ErrStackUnderflow means an operator had fewer operands than its arity.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMalformedStream means the stream did not reduce to exactly one value
	// or ended inside an operand.
	ErrMalformedStream = errors.New("malformed prefix stream")
	// ErrBadOperand means a quoted operand is not a number.
	ErrBadOperand = errors.New("bad operand")
	// ErrUnknownSymbol means a character outside operands is not an operator
	// or sentinel.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// EvalError is an error evaluating a prefix stream.
type EvalError struct {
	// Index is the position in the stream at which evaluation failed.
	Index int
	// Sym is the symbol being evaluated, if any.
	Sym byte
	// Err is the kind of failure.
	Err error
}

func (err *EvalError) Error() string {
	msg := "evaluate: " + errpos(err.Index, err.Err.Error())
	if err.Sym != 0 {
		msg += " at " + strconv.QuoteRune(rune(err.Sym))
	}
	return msg
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

// DomainError is returned by Calculate when an expression evaluates to NaN,
// e.g. because of the logarithm of a negative number.
type DomainError struct {
	Expr string
}

func (err *DomainError) Error() string {
	return "evaluation is NaN: error in expression " + strconv.Quote(err.Expr)
}
