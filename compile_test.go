package prefixcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/prefixcalc"
)

func TestCompile(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want prefixcalc.Prefix
	}{
		{"num", "1", "'1'"},
		{"reversed", "42.5", "'5.24'"},
		{"add", "1+2", "+'1''2'"},
		{"prec-left", "2*3+4", "+*'2''3''4'"},
		{"prec-right", "2+3*4", "+'2'*'3''4'"},
		{"group", "(1+2)*3", "*+'1''2''3'"},
		{"braces", "{3*{4-1}}", "*'3'-'4''1'"},
		{"sub-left", "8-3-2", "--'8''3''2'"},
		{"neg", "-5+3", "+n'5''3'"},
		{"neg-neg", "--2", "nn'2'"},
		{"mul-neg", "2*-3", "*'2'n'3'"},
		{"func", "sin(0)", "s'0'"},
		{"func-names", "cos(1)+tan(1)+cot(1)+ln(1)+log(1)+sqrt(1)", "+++++c'1't'1'o'1'l'1'g'1'q'1'"},
		{"neg-func", "-cos(1)", "nc'1'"},
		{"func-neg", "sin(-1)", "sn'1'"},
		{"pow-left", "2^3^2", "^^'2''3''2'"},
		{"pow-grouped", "2^(3^2)", "^'2'^'3''2'"},
		{"pow-neg-base", "-2^2", "^n'2''2'"},
		{"pow-neg-exp", "2^-1", "^'2'n'1'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := prefixcalc.Compile(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  prefixcalc.InputError
	}{
		{"empty", "", &prefixcalc.EmptyExpressionError{}},
		{"unclosed", "(1+2", &prefixcalc.GroupingError{Index: 0, Open: '('}},
		{"unclosed-inner", "1*{2+(3)", &prefixcalc.GroupingError{Index: 2, Open: '{'}},
		{"unopened", "1+2)", &prefixcalc.GroupingError{Index: 3, Close: ')'}},
		{"mixed", "(1}", &prefixcalc.GroupingError{Index: 0, Open: '(', Close: '}'}},
		{"empty-group", "()", &prefixcalc.EmptyGroupError{Index: 0, Open: '('}},
		{"empty-call", "sin()", &prefixcalc.EmptyGroupError{Index: 3, Open: '('}},
		{"juxtaposed", "2(3)", &prefixcalc.OperatorError{Index: 0, Operands: 2}},
		{"juxtaposed-inner", "1+(2(3))", &prefixcalc.OperatorError{Index: 2, Operands: 2}},
		{"unknown-name", "foo(1)", &prefixcalc.NameError{Index: 0, Name: "foo"}},
		{"unknown-name-inner", "1+sinx(1)", &prefixcalc.NameError{Index: 2, Name: "sinx"}},
		{"bad-char", "1#2", &prefixcalc.CharError{Index: 1, Char: '#'}},
		{"space", "1 + 2", &prefixcalc.CharError{Index: 3, Char: ' '}},
		{"bad-number", "1.2.3", &prefixcalc.NumberError{Index: 0, Text: "1.2.3"}},
		{"lone-dot", "1+.", &prefixcalc.NumberError{Index: 2, Text: "."}},
		{"trailing-op", "1+", &prefixcalc.OperandError{Index: 1, Op: '+'}},
		{"leading-op", "*2", &prefixcalc.OperandError{Index: 0, Op: '*'}},
		{"bare-func", "sin", &prefixcalc.OperandError{Index: 0, Op: prefixcalc.SymSin}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := prefixcalc.Compile(c.src)
			assert.Empty(t, p)
			require.Error(t, err)
			assert.Equal(t, c.err, err)
			var ie prefixcalc.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, c.err.Pos(), ie.Pos())
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(1+2", "parenthesis error at index 0: ( with no matching )"},
		{"1}", "bracket error at index 1: } with no matching {"},
		{"{1)", "bracket error at index 0: { closed by )"},
		{"sin", "index 0: missing operand for sin"},
		{"-", "index 0: missing operand for unary -"},
		{"x", `index 0: unknown function "x"`},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := prefixcalc.Compile(c.src)
			assert.EqualError(t, err, c.want)
		})
	}
}

func FuzzCompile(f *testing.F) {
	f.Add("1+2*3")
	f.Add("-cos({2^3^2})")
	f.Add("(((1")
	f.Add("sqrt(ln(log(2)))/0")
	f.Fuzz(func(t *testing.T, s string) {
		p, err := prefixcalc.Compile(s)
		if err != nil {
			return
		}
		if _, err := prefixcalc.Evaluate(p); err != nil {
			t.Errorf("%q compiled to %q which failed to evaluate: %v", s, p, err)
		}
	})
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		prefixcalc.Compile("{sin(1)+2}^(3)*ln(10)/(4-sqrt(2))")
	}
}
