package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmpty means the line carries nothing to do. Callers ignore it silently.
var ErrEmpty = errors.New("empty input")

// Rule identifies which syntax rule a line violated.
type Rule int

const (
	RuleInvalidInput  Rule = iota // byte outside the allowed set
	RuleMixed                     // two different non-conditional operators
	RuleBefore                    // another operator before the dominant one
	RuleAfter                     // another operator after the dominant one
	RuleSingleUse                 // # + < > >> used more than once
	RuleMultiUse                  // ~ ; | used more than 3 times
	RuleConditional               // && and || used more than 3 times in total
	RuleTooManyParams             // a command with more than 3 arguments
	RuleMissingOperand            // empty segment, missing file name, bad usage
)

func (r Rule) String() string {
	switch r {
	case RuleInvalidInput:
		return "invalid-input"
	case RuleMixed:
		return "mixed-operators"
	case RuleBefore:
		return "operator-before"
	case RuleAfter:
		return "operator-after"
	case RuleSingleUse:
		return "single-use-overflow"
	case RuleMultiUse:
		return "multi-use-overflow"
	case RuleConditional:
		return "conditional-overflow"
	case RuleTooManyParams:
		return "too-many-params"
	case RuleMissingOperand:
		return "missing-operand"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// SyntaxError is the structured result of a failed resolution.
type SyntaxError struct {
	Rule   Rule
	Op     Operator // dominant operator, if any
	Other  Operator // offending operator for RuleBefore/RuleAfter
	Detail string   // overrides the default message when set
}

func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.Rule {
	case RuleInvalidInput:
		return "invalid input, try again!"
	case RuleMixed:
		return "can't have more than 1 different special character in a statement"
	case RuleBefore:
		return fmt.Sprintf("can't have '%s' before '%s'", e.Other.Literal(), e.Op.Literal())
	case RuleAfter:
		return fmt.Sprintf("can't have '%s' after '%s'", e.Other.Literal(), e.Op.Literal())
	case RuleSingleUse:
		return fmt.Sprintf("only 1 operation supported for '%s'", e.Op.Literal())
	case RuleMultiUse:
		return fmt.Sprintf("only up to 3 operations supported for '%s'", e.Op.Literal())
	case RuleConditional:
		return "only up to 3 operations supported for '&&' and '||'"
	case RuleTooManyParams:
		return "only 3 parameters allowed for any command"
	case RuleMissingOperand:
		return fmt.Sprintf("syntax error, unexpected token near '%s'", e.Op.Literal())
	default:
		return "syntax error"
	}
}

// IsSyntax reports whether err carries a *SyntaxError.
func IsSyntax(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
