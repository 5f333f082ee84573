// Package compiler chains a surface-syntax front end (lexer + parser)
// with codegen to turn drone script source into bytecode.
package compiler

import (
	"fmt"

	"github.com/dronescript/autodrone/pkg/compiler/codegen"
	"github.com/dronescript/autodrone/pkg/compiler/errcode"
	blockparser "github.com/dronescript/autodrone/pkg/compiler/parser/block"
	braceparser "github.com/dronescript/autodrone/pkg/compiler/parser/brace"
	"github.com/dronescript/autodrone/pkg/vmcode"
)

// Family selects which surface syntax a source string is written in.
type Family string

const (
	FamilyBlock Family = "block"
	FamilyBrace Family = "brace"
)

// Result bundles the compiled program with any non-fatal warnings
// collected while parsing it.
type Result struct {
	Bytecode *vmcode.Bytecode
	Warnings []errcode.Warning
}

// DefaultMaxLoopCount is the fixed-loop iteration count above which the
// parser warns that performance may suffer.
const DefaultMaxLoopCount = blockparser.DefaultMaxLoopCount

// Compile runs the full lex → parse → codegen pipeline for the given
// family, warning on fixed-loop counts above DefaultMaxLoopCount. Lex
// and parse errors abort before codegen runs.
func Compile(source string, family Family) (*Result, error) {
	return CompileWithLoopLimit(source, family, DefaultMaxLoopCount)
}

// CompileWithLoopLimit is Compile with the large-loop-count warning
// threshold overridden to maxLoopCount.
func CompileWithLoopLimit(source string, family Family, maxLoopCount int) (*Result, error) {
	switch family {
	case FamilyBlock:
		prog, warnings, err := blockparser.ParseWithLoopLimit(source, maxLoopCount)
		if err != nil {
			return nil, err
		}
		bc, err := codegen.Compile(prog)
		if err != nil {
			return nil, err
		}
		return &Result{Bytecode: bc, Warnings: warnings}, nil
	case FamilyBrace:
		prog, warnings, err := braceparser.ParseWithLoopLimit(source, maxLoopCount)
		if err != nil {
			return nil, err
		}
		bc, err := codegen.Compile(prog)
		if err != nil {
			return nil, err
		}
		return &Result{Bytecode: bc, Warnings: warnings}, nil
	}
	return nil, fmt.Errorf("unknown script family %q", family)
}
