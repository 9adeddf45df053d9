package pipeline

import "slices"

// occurrence is one operator literal found in a line.
type occurrence struct {
	op  Operator
	pos int
}

// scan finds operator literals left to right. Two-character literals win
// over their one-character prefixes, so "||" is never read as two pipes and
// ">>" never as two output redirects.
func scan(s string) []occurrence {
	var occ []occurrence
	for i := 0; i < len(s); {
		op, n := match(s[i:])
		if n == 0 {
			i++
			continue
		}
		occ = append(occ, occurrence{op: op, pos: i})
		i += n
	}
	return occ
}

func match(s string) (Operator, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "&&":
			return OpAnd, 2
		case "||":
			return OpOr, 2
		case ">>":
			return OpAppend, 2
		}
	}
	switch s[0] {
	case '#':
		return OpCount, 1
	case '+':
		return OpBackground, 1
	case '<':
		return OpRedirectIn, 1
	case '>':
		return OpRedirectOut, 1
	case '~':
		return OpConcat, 1
	case ';':
		return OpSequence, 1
	case '|':
		return OpPipe, 1
	}
	return OpNone, 0
}

// Resolve picks the single dominant operator of a normalized line.
//
// Precedence:
//  1. && or ||: the other logical operator may co-occur, nothing else may.
//  2. >>: no other operator may appear on either side.
//  3. more than one distinct operator is a mixing error.
//  4. the one operator found, or OpNone.
//
// When both logical operators occur the dominant one is OpOr; callers
// detect the mixed case from the delimiter count.
func Resolve(line string) (Operator, error) {
	occ := scan(line)
	if len(occ) == 0 {
		return OpNone, nil
	}

	present := make(map[Operator]bool)
	for _, o := range occ {
		present[o.op] = true
	}

	switch {
	case present[OpOr]:
		return OpOr, singular(occ, OpOr, OpAnd, OpOr)
	case present[OpAnd]:
		return OpAnd, singular(occ, OpAnd, OpAnd, OpOr)
	case present[OpAppend]:
		return OpAppend, singular(occ, OpAppend, OpAppend)
	}

	if len(present) > 1 {
		return OpNone, &SyntaxError{Rule: RuleMixed}
	}
	return occ[0].op, nil
}

// singular splits the line at the first occurrence of dom and rejects any
// operator outside allow found in either half.
func singular(occ []occurrence, dom Operator, allow ...Operator) error {
	first := -1
	for _, o := range occ {
		if o.op == dom {
			first = o.pos
			break
		}
	}
	for _, o := range occ {
		if slices.Contains(allow, o.op) {
			continue
		}
		rule := RuleAfter
		if o.pos < first {
			rule = RuleBefore
		}
		return &SyntaxError{Rule: rule, Op: dom, Other: o.op}
	}
	return nil
}
