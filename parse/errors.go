package parse

import "fmt"

// SyntaxError reports a lexical or grammatical error with source location.
// The first SyntaxError encountered aborts the whole compile; there is no
// error recovery.
type SyntaxError struct {
	Message string
	File    string
	Line    int
	Column  int
	Token   string // offending token text, when known
}

func (e *SyntaxError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s:%d:%d: %s (near %q)", e.File, e.Line, e.Column, e.Message, e.Token)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}
