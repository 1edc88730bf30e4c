// Package prefixcalc implements the calculator core: a compiler from infix
// arithmetic to a compact prefix encoding and a stack machine that evaluates
// the encoding to a float64.
//
// The compiler scans its input from right to left, so the prefix it produces
// is read back by the evaluator in reverse as well. "-2^2" is "(-2)^2", and
// "2^3^2" is "(2^3)^2"; write "2^(3^2)" to raise to a power of a power.
// Parentheses and braces group identically: "{3*(4-1)}" is 9.
//
// Functions are sin, cos, tan, cot, ln, log (base 10), and sqrt. Each takes
// one argument, normally parenthesized.
package prefixcalc
