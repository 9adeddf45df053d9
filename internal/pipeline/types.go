package pipeline

import "fmt"

// Bounds on the shape of a statement.
const (
	MaxCommands    = 4 // commands per statement
	MaxTokens      = 4 // command name plus up to 3 arguments
	MaxOccurrences = 3 // occurrences of a multi-use or logical operator
)

// Operator is the control construct a statement resolves to.
type Operator int

const (
	OpNone        Operator = iota
	OpCount                // #: count words in a file
	OpBackground           // +: spawn detached jobs
	OpRedirectIn           // <: stdin from file
	OpRedirectOut          // >: stdout to file
	OpAppend               // >>: append stdout to file
	OpConcat               // ~: concatenate files
	OpSequence             // ;: run each command in turn
	OpPipe                 // |: stdout → stdin
	OpAnd                  // &&: run next if previous succeeded
	OpOr                   // ||: run next if previous failed
)

// Operators lists every recognised operator in literal-table order.
var Operators = []Operator{
	OpCount, OpBackground, OpRedirectIn, OpRedirectOut, OpAppend,
	OpConcat, OpSequence, OpPipe, OpAnd, OpOr,
}

var literals = map[Operator]string{
	OpCount:       "#",
	OpBackground:  "+",
	OpRedirectIn:  "<",
	OpRedirectOut: ">",
	OpAppend:      ">>",
	OpConcat:      "~",
	OpSequence:    ";",
	OpPipe:        "|",
	OpAnd:         "&&",
	OpOr:          "||",
}

// Literal returns the operator's source text, or "" for OpNone.
func (o Operator) Literal() string {
	return literals[o]
}

func (o Operator) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpCount:
		return "count"
	case OpBackground:
		return "background"
	case OpRedirectIn:
		return "redirect-in"
	case OpRedirectOut:
		return "redirect-out"
	case OpAppend:
		return "append"
	case OpConcat:
		return "concat"
	case OpSequence:
		return "sequence"
	case OpPipe:
		return "pipe"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return fmt.Sprintf("operator(%d)", int(o))
	}
}

// SingleUse reports whether the operator may occur exactly once.
func (o Operator) SingleUse() bool {
	return o >= OpCount && o <= OpAppend
}

// MultiUse reports whether the operator may occur one to three times.
func (o Operator) MultiUse() bool {
	return o >= OpConcat && o <= OpPipe
}

// Logical reports whether the operator is && or ||.
func (o Operator) Logical() bool {
	return o == OpAnd || o == OpOr
}

// Connector gates a command on the result of the one before it.
type Connector int

const (
	And Connector = iota // run only if the previous status was 0
	Or                   // run only if the previous status was nonzero
)

func (c Connector) String() string {
	if c == Or {
		return "||"
	}
	return "&&"
}

// Command is one argument vector: a name and up to 3 arguments.
// The zero value is an empty segment.
type Command struct {
	Name string
	Args []string
}

// Empty reports whether the segment produced no tokens.
func (c Command) Empty() bool {
	return c.Name == ""
}

// Len returns the number of populated slots.
func (c Command) Len() int {
	if c.Empty() {
		return 0
	}
	return 1 + len(c.Args)
}

// Argv returns the name followed by the arguments.
func (c Command) Argv() []string {
	if c.Empty() {
		return nil
	}
	return append([]string{c.Name}, c.Args...)
}

// Statement is one resolved input line.
type Statement struct {
	Line       string
	Op         Operator
	Mixed      bool        // both && and || occur
	Commands   []Command   // occurrence count + 1 entries
	Connectors []Connector // len(Commands)-1 entries when Mixed
}

// Names returns the command names in order, for journaling.
func (s *Statement) Names() []string {
	names := make([]string, len(s.Commands))
	for i, c := range s.Commands {
		names[i] = c.Name
	}
	return names
}
