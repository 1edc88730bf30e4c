package prefixcalc

// Sentinels stand in for function names and unary negation in the prefix
// encoding. None of them is a digit, '.', an operator, or a bracket.
const (
	SymSin  = 's'
	SymCos  = 'c'
	SymTan  = 't'
	SymCot  = 'o'
	SymLn   = 'l'
	SymLog  = 'g'
	SymSqrt = 'q'
	SymNeg  = 'n'
)

// Operators contains the binary operator characters.
const Operators = "+-*/^"

// OpenBrackets and CloseBrackets contain the grouping characters. The bracket
// in byte position k of OpenBrackets is closed by the bracket in byte position
// k of CloseBrackets.
const (
	OpenBrackets  = "({"
	CloseBrackets = ")}"
)

// quote delimits operands in the prefix encoding.
const quote = '\''

// funcs maps function names to their sentinels.
var funcs = map[string]byte{
	"sin":  SymSin,
	"cos":  SymCos,
	"tan":  SymTan,
	"cot":  SymCot,
	"ln":   SymLn,
	"log":  SymLog,
	"sqrt": SymSqrt,
}

// rank is the precedence of an operator or sentinel. Higher binds tighter.
// Grouping markers and unknown symbols rank 0.
func rank(sym byte) int {
	switch sym {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	case '^':
		return 3
	case SymSin, SymCos, SymTan, SymCot, SymSqrt:
		return 4
	case SymLn, SymLog:
		return 5
	case SymNeg:
		return 6
	default:
		return 0
	}
}

// unary reports whether sym is a sentinel taking one operand.
func unary(sym byte) bool {
	switch sym {
	case SymSin, SymCos, SymTan, SymCot, SymLn, SymLog, SymSqrt, SymNeg:
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNumeric(c byte) bool {
	return '0' <= c && c <= '9' || c == '.'
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}

func isOpen(c byte) bool {
	return c == '(' || c == '{'
}

func isClose(c byte) bool {
	return c == ')' || c == '}'
}

// closer returns the bracket closing open.
func closer(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ')'
}

// opener returns the bracket opening close.
func opener(close byte) byte {
	if close == '}' {
		return '{'
	}
	return '('
}

// negates reports whether the '-' at expr[i] is unary negation rather than
// subtraction: it starts the expression or follows an operator, an open
// bracket, or a function name.
func negates(expr string, i int) bool {
	if i == 0 {
		return true
	}
	p := expr[i-1]
	return isOperator(p) || isOpen(p) || isLetter(p)
}
