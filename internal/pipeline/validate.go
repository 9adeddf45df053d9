package pipeline

import "strings"

// Normalize trims leading and trailing tabs and turns interior tabs into
// spaces. Leading and trailing spaces are left alone.
func Normalize(line string) string {
	line = strings.Trim(line, "\t")
	return strings.ReplaceAll(line, "\t", " ")
}

// Validate normalizes line and checks it against the allowed character set.
// An empty line, before or after normalization, yields ErrEmpty.
func Validate(line string) (string, error) {
	if line == "" {
		return "", ErrEmpty
	}
	line = Normalize(line)
	if line == "" {
		return "", ErrEmpty
	}
	for i := 0; i < len(line); i++ {
		if !allowed(line[i]) {
			return "", &SyntaxError{Rule: RuleInvalidInput}
		}
	}
	return line, nil
}

// allowed covers letters, digits, space, tab and the grammar punctuation.
// The '+' through '_' span also admits path characters such as '/', ',', ':'
// and '[' ']'.
func allowed(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b >= '+' && b <= '_':
		return true
	}
	return strings.IndexByte(" \t.\"'#~|;>$*(){}^@!<&=", b) >= 0
}
