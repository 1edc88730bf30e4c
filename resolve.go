package prefixcalc

// opEntry is an entry on the compiler's operator stack.
type opEntry struct {
	// sym is the operator, sentinel, or close bracket.
	sym byte
	// arity is the number of operands sym takes, or 0 for a grouping marker.
	arity int8
	// pos is the index in the source of the character that pushed the entry.
	pos int
	// depth is the operand stack height when a grouping marker was pushed.
	depth int
}

// reduce pops the top operator and applies it to the operand stack. A
// grouping marker on top is discarded. The caller ensures ops is not empty.
func (c *compiler) reduce() error {
	op := c.ops[len(c.ops)-1]
	c.ops = c.ops[:len(c.ops)-1]
	switch op.arity {
	case 0:
		return nil
	case 1:
		if len(c.vals) < 1 {
			return &OperandError{Index: op.pos, Op: op.sym}
		}
		v := c.popVal()
		c.vals = append(c.vals, string(op.sym)+v)
	default:
		if len(c.vals) < 2 {
			return &OperandError{Index: op.pos, Op: op.sym}
		}
		// The scan is right to left, so the left operand is on top.
		l := c.popVal()
		r := c.popVal()
		c.vals = append(c.vals, string(op.sym)+l+r)
	}
	return nil
}

// top returns the top operator. The caller ensures ops is not empty.
func (c *compiler) top() opEntry {
	return c.ops[len(c.ops)-1]
}

func (c *compiler) popVal() string {
	v := c.vals[len(c.vals)-1]
	c.vals = c.vals[:len(c.vals)-1]
	return v
}

// pushBinary pushes a binary operator after reducing every operator on top
// that binds more tightly.
func (c *compiler) pushBinary(sym byte, pos int) error {
	for len(c.ops) > 0 && len(c.vals) > 0 && rank(c.top().sym) > rank(sym) {
		if err := c.reduce(); err != nil {
			return err
		}
	}
	c.ops = append(c.ops, opEntry{sym: sym, arity: 2, pos: pos})
	return nil
}

// pushUnary pushes a function sentinel or negation. Unary operators already
// on top were written to its right, so they apply first.
func (c *compiler) pushUnary(sym byte, pos int) error {
	for len(c.ops) > 0 && c.top().arity == 1 {
		if err := c.reduce(); err != nil {
			return err
		}
	}
	c.ops = append(c.ops, opEntry{sym: sym, arity: 1, pos: pos})
	return nil
}

// pushMarker pushes a grouping marker for a close bracket.
func (c *compiler) pushMarker(close byte, pos int) {
	c.ops = append(c.ops, opEntry{sym: close, pos: pos, depth: len(c.vals)})
}

// closeGroup reduces operators until the marker matching the open bracket at
// pos, then checks that the group produced exactly one operand.
func (c *compiler) closeGroup(open byte, pos int) error {
	want := closer(open)
	for {
		if len(c.ops) == 0 {
			return &GroupingError{Index: pos, Open: open}
		}
		op := c.top()
		if op.arity == 0 {
			if op.sym != want {
				return &GroupingError{Index: pos, Open: open, Close: op.sym}
			}
			c.ops = c.ops[:len(c.ops)-1]
			switch n := len(c.vals) - op.depth; {
			case n == 0:
				return &EmptyGroupError{Index: pos, Open: open}
			case n > 1:
				return &OperatorError{Index: pos, Operands: n}
			}
			return nil
		}
		if err := c.reduce(); err != nil {
			return err
		}
	}
}
