package pipeline

import "strings"

// whitespace separates tokens within a segment.
const whitespace = "\n\t\r\v\f "

// Tokenize splits one segment into a Command. A segment with more than
// MaxTokens tokens is rejected.
func Tokenize(segment string) (Command, error) {
	fields := strings.FieldsFunc(segment, func(r rune) bool {
		return strings.ContainsRune(whitespace, r)
	})
	if len(fields) > MaxTokens {
		return Command{}, &SyntaxError{Rule: RuleTooManyParams}
	}
	if len(fields) == 0 {
		return Command{}, nil
	}
	cmd := Command{Name: fields[0]}
	if len(fields) > 1 {
		cmd.Args = fields[1:]
	}
	return cmd, nil
}
