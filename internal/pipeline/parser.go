package pipeline

import "fmt"

// Parse validates, resolves and tokenizes one input line.
// It returns ErrEmpty for lines that carry nothing to run, and a
// *SyntaxError for lines that break the grammar.
func Parse(line string) (*Statement, error) {
	line, err := Validate(line)
	if err != nil {
		return nil, err
	}

	op, err := Resolve(line)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{Line: line, Op: op}

	if op == OpNone {
		cmd, err := Tokenize(line)
		if err != nil {
			return nil, err
		}
		if cmd.Empty() {
			return nil, ErrEmpty
		}
		stmt.Commands = []Command{cmd}
		return stmt, nil
	}

	d, err := Delimit(line, op)
	if err != nil {
		return nil, err
	}
	stmt.Mixed = d.Mixed()
	stmt.Connectors = d.Connectors

	for _, seg := range Split(line, d.Literals) {
		cmd, err := Tokenize(seg)
		if err != nil {
			return nil, err
		}
		stmt.Commands = append(stmt.Commands, cmd)
	}
	if len(stmt.Commands) != d.Count+1 {
		return nil, fmt.Errorf("internal: %d segments for %d operators", len(stmt.Commands), d.Count)
	}
	return stmt, nil
}

// Check enforces the per-operator shape of a statement: required file
// names, populated segments and argument limits. It runs before anything
// is spawned.
func (s *Statement) Check() error {
	switch s.Op {
	case OpNone:
		if len(s.Commands) != 1 || s.Commands[0].Empty() {
			return ErrEmpty
		}

	case OpCount:
		var files []string
		for _, c := range s.Commands {
			files = append(files, c.Argv()...)
		}
		switch {
		case len(files) == 0:
			return s.usage("#: no arguments passed")
		case len(files) > 1:
			return s.usage("#: too many arguments")
		}

	case OpBackground:
		if s.Commands[0].Empty() || !s.Commands[1].Empty() {
			return s.usage("usage: command [args] +")
		}

	case OpRedirectIn, OpRedirectOut, OpAppend:
		if s.Commands[0].Empty() {
			return &SyntaxError{Rule: RuleMissingOperand, Op: s.Op}
		}
		file := s.Commands[1]
		if file.Empty() {
			return s.usage(fmt.Sprintf("provide the file name after '%s'", s.Op.Literal()))
		}
		if file.Len() > 1 {
			return s.usage(fmt.Sprintf("'%s' takes exactly 1 file", s.Op.Literal()))
		}

	case OpConcat:
		for _, c := range s.Commands {
			if c.Len() != 1 {
				return s.usage("usage: [file1.txt] ~ [file2.txt]")
			}
		}

	case OpSequence, OpPipe, OpAnd, OpOr:
		for _, c := range s.Commands {
			if c.Empty() {
				return &SyntaxError{Rule: RuleMissingOperand, Op: s.Op}
			}
		}
	}
	return nil
}

func (s *Statement) usage(detail string) error {
	return &SyntaxError{Rule: RuleMissingOperand, Op: s.Op, Detail: detail}
}
