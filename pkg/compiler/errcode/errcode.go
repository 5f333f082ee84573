// Package errcode provides the structured error type shared by the
// lexers, parsers, and compiler: every failure carries a message, an
// optional source position, and an optional hint for the reported
// phase.
package errcode

import (
	"fmt"
	"strings"
)

// Phase identifies which pipeline stage raised a CompileError.
type Phase string

const (
	PhaseLex     Phase = "lex"
	PhaseParse   Phase = "parse"
	PhaseCompile Phase = "compile"
)

// CompileError is the structured error type surfaced by the lex/parse/
// compile pipeline. Line and Column are 0 when the failure has no
// meaningful source position (e.g. an internal compiler invariant).
type CompileError struct {
	Phase   Phase
	Message string
	Line    int
	Column  int
	Hint    string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "%s error at %d:%d: %s", e.Phase, e.Line, e.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s error: %s", e.Phase, e.Message)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " (hint: %s)", e.Hint)
	}
	return b.String()
}

// NewLexError builds a lex-phase CompileError.
func NewLexError(message string, line, column int, hint string) *CompileError {
	return &CompileError{Phase: PhaseLex, Message: message, Line: line, Column: column, Hint: hint}
}

// NewParseError builds a parse-phase CompileError.
func NewParseError(message string, line, column int, hint string) *CompileError {
	return &CompileError{Phase: PhaseParse, Message: message, Line: line, Column: column, Hint: hint}
}

// NewCompileError builds a compile-phase CompileError. These indicate an
// upstream bug (an AST shape the compiler does not recognize), not a
// user authoring mistake, so line/column are frequently 0.
func NewCompileError(message string, line, column int, hint string) *CompileError {
	return &CompileError{Phase: PhaseCompile, Message: message, Line: line, Column: column, Hint: hint}
}

// Warning is a non-fatal diagnostic accumulated during parsing.
type Warning struct {
	Message string
	Line    int
	Column  int
}

// Context renders 2 lines of source before and after line, with a '^'
// pointer under column, for display alongside a CompileError.
func Context(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	width := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		if lineNum == line {
			fmt.Fprintf(&buf, "> %*d | %s\n", width, lineNum, lines[i])
			indent := 2 + width + 3
			if column > 0 {
				fmt.Fprintf(&buf, "%s%s^\n", strings.Repeat(" ", indent), strings.Repeat(" ", column-1))
			} else {
				fmt.Fprintf(&buf, "%s^\n", strings.Repeat(" ", indent))
			}
		} else {
			fmt.Fprintf(&buf, "  %*d | %s\n", width, lineNum, lines[i])
		}
	}
	return buf.String()
}
