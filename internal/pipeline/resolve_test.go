package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		line string
		want Operator
	}{
		{"ls -l", OpNone},
		{"# notes.txt", OpCount},
		{"sleep 5 +", OpBackground},
		{"wc -l < in.txt", OpRedirectIn},
		{"echo hi > out.txt", OpRedirectOut},
		{"echo hi >> out.txt", OpAppend},
		{"a.txt ~ b.txt ~ c.txt", OpConcat},
		{"ls ; pwd ; date", OpSequence},
		{"ls | sort | uniq -c | head", OpPipe},
		{"true && echo ok", OpAnd},
		{"false || echo ok", OpOr},
		{"a && b || c", OpOr},
		{"a || b && c", OpOr},
		{"a || b || c", OpOr},
		{"a &&& b", OpAnd},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Resolve(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		line  string
		rule  Rule
		op    Operator
		other Operator
	}{
		{"ls | sort ; pwd", RuleMixed, OpNone, OpNone},
		{"cat < in > out", RuleMixed, OpNone, OpNone},
		{"ls ; echo a >> f", RuleBefore, OpAppend, OpSequence},
		{"echo a >> f ; ls", RuleAfter, OpAppend, OpSequence},
		{"echo a > b >> c", RuleBefore, OpAppend, OpRedirectOut},
		{"echo a >> b < c", RuleAfter, OpAppend, OpRedirectIn},
		{"ls | wc && echo", RuleBefore, OpAnd, OpPipe},
		{"true && ls | wc", RuleAfter, OpAnd, OpPipe},
		{"a || b | c", RuleAfter, OpOr, OpPipe},
		{"a ||| b", RuleAfter, OpOr, OpPipe},
		{"a ; b || c", RuleBefore, OpOr, OpSequence},
		{"a && b || c > f", RuleAfter, OpOr, OpRedirectOut},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Resolve(tt.line)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.rule, se.Rule)
			if tt.rule != RuleMixed {
				assert.Equal(t, tt.op, se.Op)
				assert.Equal(t, tt.other, se.Other)
			}
		})
	}
}

// Any two distinct non-conditional operators in one line are rejected.
func TestResolveRejectsEveryMixedPair(t *testing.T) {
	var plain []Operator
	for _, op := range Operators {
		if !op.Logical() {
			plain = append(plain, op)
		}
	}
	for _, a := range plain {
		for _, b := range plain {
			if a == b {
				continue
			}
			line := fmt.Sprintf("x %s y %s z", a.Literal(), b.Literal())
			_, err := Resolve(line)
			assert.True(t, IsSyntax(err), "Resolve(%q) = %v", line, err)
		}
	}
}

func TestResolvePipesInsideOr(t *testing.T) {
	// Adjacent pipe characters form '||' and are not a stray '|'.
	op, err := Resolve("false || false || echo x")
	require.NoError(t, err)
	assert.Equal(t, OpOr, op)
}
