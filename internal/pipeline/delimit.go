package pipeline

import "strings"

// Delimiters is the output of Delimit: how to cut a line into segments.
type Delimiters struct {
	Literals   []string    // operator literals separating commands
	Count      int         // operator occurrences; commands = Count + 1
	Connectors []Connector // left-to-right && / || order, set when both occur
}

// Mixed reports whether the line interleaves && and ||.
func (d Delimiters) Mixed() bool {
	return d.Connectors != nil
}

// Delimit counts non-overlapping occurrences of op in line and checks them
// against the operator's bound.
func Delimit(line string, op Operator) (Delimiters, error) {
	switch {
	case op.SingleUse():
		n := strings.Count(line, op.Literal())
		if n != 1 {
			return Delimiters{}, &SyntaxError{Rule: RuleSingleUse, Op: op}
		}
		return Delimiters{Literals: []string{op.Literal()}, Count: n}, nil

	case op.MultiUse():
		n := strings.Count(line, op.Literal())
		if n < 1 || n > MaxOccurrences {
			return Delimiters{}, &SyntaxError{Rule: RuleMultiUse, Op: op}
		}
		return Delimiters{Literals: []string{op.Literal()}, Count: n}, nil

	case op.Logical():
		ands := strings.Count(line, OpAnd.Literal())
		ors := strings.Count(line, OpOr.Literal())
		n := ands + ors
		if n < 1 || n > MaxOccurrences {
			return Delimiters{}, &SyntaxError{Rule: RuleConditional, Op: op}
		}
		d := Delimiters{
			Literals: []string{OpAnd.Literal(), OpOr.Literal()},
			Count:    n,
		}
		if ands > 0 && ors > 0 {
			d.Connectors = Sequence(line)
		}
		return d, nil
	}
	return Delimiters{Count: 0}, nil
}

// Sequence returns the && / || connectors of line in textual order.
// It repeatedly takes whichever literal appears first in the remaining text
// and advances past it.
func Sequence(line string) []Connector {
	var seq []Connector
	rest := line
	for {
		and := strings.Index(rest, OpAnd.Literal())
		or := strings.Index(rest, OpOr.Literal())
		switch {
		case and < 0 && or < 0:
			return seq
		case or < 0 || (and >= 0 && and < or):
			seq = append(seq, And)
			rest = rest[and+2:]
		default:
			seq = append(seq, Or)
			rest = rest[or+2:]
		}
	}
}

// Split cuts line at every occurrence of any literal, left to right.
// Empty segments are kept so that callers can report them.
func Split(line string, literals []string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(line); {
		n := prefixLen(line[i:], literals)
		if n == 0 {
			i++
			continue
		}
		segs = append(segs, line[start:i])
		i += n
		start = i
	}
	return append(segs, line[start:])
}

func prefixLen(s string, literals []string) int {
	for _, lit := range literals {
		if lit != "" && strings.HasPrefix(s, lit) {
			return len(lit)
		}
	}
	return 0
}
