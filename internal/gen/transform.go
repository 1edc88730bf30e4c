package gen

import "strings"

// ToOracle rewrites an expression in calculator syntax for the reference
// evaluator. Braces become parentheses, and each ^ becomes a call to pow with
// the same operands the calculator binds: ^ associates to the left, and a base
// includes any unary minus or function applied to it. Malformed input, such
// as a corrupted expression, is rewritten as far as it can be.
func ToOracle(raw string) string {
	s := strings.NewReplacer("{", "(", "}", ")").Replace(raw)
	for {
		k := strings.LastIndexByte(s, '^')
		if k < 0 {
			return s
		}
		i := baseStart(s, k)
		j := exponentEnd(s, k)
		s = s[:i] + "pow(" + s[i:k] + ", " + s[k+1:j] + ")" + s[j:]
	}
}

// baseStart finds the start of the base of the ^ at k.
func baseStart(s string, k int) int {
	i := k
	for {
		i = primaryStart(s, i)
		// Unary operators written before the base apply to it first.
		for i > 0 {
			switch c := s[i-1]; {
			case c == '-' && negates(s, i-1):
				i--
				continue
			case isLetter(c):
				i = runStart(s, i, isLetter)
				continue
			}
			break
		}
		if i == 0 || s[i-1] != '^' {
			return i
		}
		// Chained exponents bind left to right, so this ^ is part of the base.
		i--
	}
}

// primaryStart finds the start of the number or group ending just before end.
func primaryStart(s string, end int) int {
	if end == 0 {
		return 0
	}
	switch c := s[end-1]; {
	case c == ')':
		depth := 0
		for i := end - 1; i >= 0; i-- {
			switch s[i] {
			case ')':
				depth++
			case '(':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
		return 0
	case isNumeric(c):
		return runStart(s, end, isNumeric)
	}
	return end
}

// exponentEnd finds the end of the exponent of the ^ at k.
func exponentEnd(s string, k int) int {
	j := k + 1
	for j < len(s) {
		switch c := s[j]; {
		case c == '-':
			j++
			continue
		case isLetter(c):
			j = runEnd(s, j, isLetter)
			continue
		case c == '(':
			depth := 0
			for ; j < len(s); j++ {
				switch s[j] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						return j + 1
					}
				}
			}
			return len(s)
		case isNumeric(c):
			return runEnd(s, j, isNumeric)
		}
		break
	}
	return j
}

func runStart(s string, end int, in func(byte) bool) int {
	for end > 0 && in(s[end-1]) {
		end--
	}
	return end
}

func runEnd(s string, start int, in func(byte) bool) int {
	for start < len(s) && in(s[start]) {
		start++
	}
	return start
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNumeric(c byte) bool {
	return '0' <= c && c <= '9' || c == '.'
}

// negates reports whether the - at i is a unary minus.
func negates(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	return strings.IndexByte("+-*/^(", c) >= 0 || isLetter(c)
}
