package gen

import "strconv"

// NumberState is a state of the machine that writes numeric literals.
type NumberState int8

const (
	NumberStart NumberState = iota
	NumberDigit
	NumberDecimal
	NumberAfterDecimal
	NumberEnd
)

var numberNames = [...]string{"Start", "Digit", "Decimal", "AfterDecimal", "End"}

func (s NumberState) String() string {
	if int(s) < len(numberNames) {
		return "Number" + numberNames[s]
	}
	return "NumberState(" + strconv.Itoa(int(s)) + ")"
}

// numberTransitions allows at most one decimal point, always followed by a
// digit.
var numberTransitions = [...][]NumberState{
	NumberStart:        {NumberDigit, NumberDecimal},
	NumberDigit:        {NumberDigit, NumberDecimal, NumberEnd},
	NumberDecimal:      {NumberAfterDecimal},
	NumberAfterDecimal: {NumberAfterDecimal, NumberEnd},
	NumberEnd:          nil,
}

// ExponentState is a state of the machine that writes the body of an
// exponent.
type ExponentState int8

const (
	ExpStart ExponentState = iota
	ExpNumber
	ExpNumberAfterUnary
	ExpBinaryOperator
	ExpUnaryOperator
	ExpOpenParenthesis
	ExpCloseParenthesis
	ExpOpenBracket
	ExpCloseBracket
	ExpCleanup
	ExpEnd
)

var exponentNames = [...]string{
	"Start",
	"Number",
	"NumberAfterUnary",
	"BinaryOperator",
	"UnaryOperator",
	"OpenParenthesis",
	"CloseParenthesis",
	"OpenBracket",
	"CloseBracket",
	"Cleanup",
	"End",
}

func (s ExponentState) String() string {
	if int(s) < len(exponentNames) {
		return "Exp" + exponentNames[s]
	}
	return "ExponentState(" + strconv.Itoa(int(s)) + ")"
}

// exponentTransitions may reach ExpCleanup on its own, unlike the expression
// machine.
var exponentTransitions = [...][]ExponentState{
	ExpStart:            {ExpNumber, ExpUnaryOperator, ExpOpenParenthesis, ExpOpenBracket},
	ExpNumber:           {ExpBinaryOperator, ExpCloseParenthesis, ExpCloseBracket, ExpCleanup},
	ExpNumberAfterUnary: {ExpCloseParenthesis},
	ExpBinaryOperator:   {ExpNumber, ExpUnaryOperator, ExpOpenParenthesis, ExpOpenBracket},
	ExpUnaryOperator:    {ExpNumberAfterUnary},
	ExpOpenParenthesis:  {ExpNumber, ExpUnaryOperator},
	ExpCloseParenthesis: {ExpBinaryOperator, ExpCloseParenthesis, ExpCloseBracket, ExpCleanup},
	ExpOpenBracket:      {ExpNumber, ExpUnaryOperator},
	ExpCloseBracket:     {ExpBinaryOperator, ExpCloseParenthesis, ExpCloseBracket, ExpCleanup},
	ExpCleanup:          {ExpEnd},
	ExpEnd:              nil,
}

// ExpressionState is a state of the machine that writes whole expressions.
type ExpressionState int8

const (
	Start ExpressionState = iota
	Number
	NumberAfterUnary
	BinaryOperator
	UnaryOperator
	ExponentOperator
	OpenParenthesis
	CloseParenthesis
	OpenBracket
	CloseBracket
	Cleanup
	End
)

var expressionNames = [...]string{
	"Start",
	"Number",
	"NumberAfterUnary",
	"BinaryOperator",
	"UnaryOperator",
	"ExponentOperator",
	"OpenParenthesis",
	"CloseParenthesis",
	"OpenBracket",
	"CloseBracket",
	"Cleanup",
	"End",
}

func (s ExpressionState) String() string {
	if int(s) < len(expressionNames) {
		return expressionNames[s]
	}
	return "ExpressionState(" + strconv.Itoa(int(s)) + ")"
}

// expressionTransitions never reaches Cleanup by itself. The builder moves
// there once its cycles are spent.
var expressionTransitions = [...][]ExpressionState{
	Start:            {Number, UnaryOperator, OpenParenthesis, OpenBracket},
	Number:           {BinaryOperator, CloseParenthesis, CloseBracket},
	NumberAfterUnary: {CloseParenthesis},
	BinaryOperator:   {Number, UnaryOperator, OpenParenthesis, OpenBracket},
	UnaryOperator:    {NumberAfterUnary},
	ExponentOperator: {BinaryOperator},
	OpenParenthesis:  {Number, UnaryOperator},
	CloseParenthesis: {BinaryOperator, CloseParenthesis, CloseBracket},
	OpenBracket:      {Number, UnaryOperator},
	CloseBracket:     {BinaryOperator, CloseParenthesis, CloseBracket},
	Cleanup:          {End},
	End:              nil,
}

// Complexity selects the operators and functions the generator uses.
type Complexity int8

const (
	// Low uses + - * and the trigonometric functions.
	Low Complexity = iota
	// High uses every operator and function.
	High
)

func (c Complexity) String() string {
	switch c {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "Complexity(" + strconv.Itoa(int(c)) + ")"
	}
}

type vocabulary struct {
	unary    []string
	binary   []byte
	exponent []byte
}

var vocabularies = [...]vocabulary{
	Low: {
		unary:    []string{"sin", "cos", "tan", "cot"},
		binary:   []byte("+-*"),
		exponent: []byte("+-*"),
	},
	High: {
		unary:    []string{"sin", "cos", "tan", "cot", "ln", "log", "sqrt", "-"},
		binary:   []byte("+-*/^"),
		exponent: []byte("+-*/"),
	},
}
