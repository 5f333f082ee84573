package compiler

import (
	"testing"

	"github.com/dronescript/autodrone/pkg/vmcode"
)

func TestCompile_UnknownFamily(t *testing.T) {
	if _, err := Compile("collect", Family("cursive")); err == nil {
		t.Fatal("expected an error for an unknown family")
	}
}

func TestCompile_BlockAndBraceAgreeOnEquivalentPrograms(t *testing.T) {
	block, err := Compile("loop 3:\n  move forward\nend\n", FamilyBlock)
	if err != nil {
		t.Fatalf("block compile error: %v", err)
	}
	brace, err := Compile("for (int i = 0; i < 3; i++) { move_forward(); }", FamilyBrace)
	if err != nil {
		t.Fatalf("brace compile error: %v", err)
	}

	blockOps := opsOf(block.Bytecode)
	braceOps := opsOf(brace.Bytecode)
	if len(blockOps) != len(braceOps) {
		t.Fatalf("instruction count differs: %d vs %d", len(blockOps), len(braceOps))
	}
	for i := range blockOps {
		if blockOps[i] != braceOps[i] {
			t.Errorf("instruction %d: block=%s brace=%s", i, blockOps[i], braceOps[i])
		}
	}
}

func opsOf(bc *vmcode.Bytecode) []vmcode.Op {
	ops := make([]vmcode.Op, len(bc.Instructions))
	for i, ins := range bc.Instructions {
		ops[i] = ins.Op
	}
	return ops
}
