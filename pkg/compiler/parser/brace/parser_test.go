package brace

import (
	"testing"

	"github.com/dronescript/autodrone/pkg/compiler/ast"
)

func TestParse_MoveTurnCollect(t *testing.T) {
	prog, _, err := Parse("move_forward(); turn_left(); collect();")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Body) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Body))
	}
	mv, ok := prog.Body[0].(*ast.Move)
	if !ok || mv.Dir != ast.DirForward {
		t.Errorf("statement 0: got %#v", prog.Body[0])
	}
	tn, ok := prog.Body[1].(*ast.Turn)
	if !ok || tn.Dir != ast.DirLeft {
		t.Errorf("statement 1: got %#v", prog.Body[1])
	}
	if _, ok := prog.Body[2].(*ast.Collect); !ok {
		t.Errorf("statement 2: got %#v", prog.Body[2])
	}
}

func TestParse_WaitDefaultsToOne(t *testing.T) {
	prog, _, err := Parse("wait();")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := prog.Body[0].(*ast.Wait)
	if w.Ticks != 1 {
		t.Errorf("got ticks %d, want 1", w.Ticks)
	}
}

func TestParse_IfElseIfElse(t *testing.T) {
	prog, _, err := Parse(`if (energy > 90) { collect(); } else if (energy > 50) { wait(1); } else { turn_left(); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("got %#v", prog.Body[0])
	}
	if _, ok := top.Alternate.(*ast.If); !ok {
		t.Fatalf("expected chained *ast.If alternate, got %#v", top.Alternate)
	}
}

func TestParse_ForLowersToLoop(t *testing.T) {
	prog, _, err := Parse(`for (int i = 0; i < 5; i++) { move_forward(); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loop, ok := prog.Body[0].(*ast.Loop)
	if !ok {
		t.Fatalf("got %#v", prog.Body[0])
	}
	if loop.Count != 5 {
		t.Errorf("got count %d, want 5", loop.Count)
	}
	if len(loop.Body.Statements) != 1 {
		t.Errorf("got %d body statements, want 1", len(loop.Body.Statements))
	}
}

func TestParse_WhileTrueWarnsUnreachable(t *testing.T) {
	_, warnings, err := Parse(`while (true) { move_forward(); } collect();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w.Message == "Code after while-true is unreachable" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unreachable-code warning, got %+v", warnings)
	}
}

func TestParse_LoopCountWarnings(t *testing.T) {
	_, warnings, err := Parse(`for (int i = 0; i < 0; i++) { collect(); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Message != "LOOP with N iterations will never execute" {
		t.Errorf("got %+v", warnings)
	}
}

func TestParse_UnknownIdentifierWarning(t *testing.T) {
	_, warnings, err := Parse(`log(altitude);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Message != "Unknown variable or function" {
		t.Errorf("got %+v", warnings)
	}
}

func TestParse_MemberExpression(t *testing.T) {
	prog, _, err := Parse(`log(inventory.crystal);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logStmt := prog.Body[0].(*ast.Log)
	member, ok := logStmt.Expr.(*ast.Member)
	if !ok || member.Property != "crystal" {
		t.Fatalf("got %#v", logStmt.Expr)
	}
}

func TestParse_ScanCallExpression(t *testing.T) {
	prog, _, err := Parse(`log(scan());`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logStmt := prog.Body[0].(*ast.Log)
	call, ok := logStmt.Expr.(*ast.Call)
	if !ok || call.Callee.Name != "scan" {
		t.Fatalf("got %#v", logStmt.Expr)
	}
}

func TestParse_ExpressionPrecedence(t *testing.T) {
	prog, _, err := Parse(`log(1 + 2 < energy && true);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logStmt := prog.Body[0].(*ast.Log)
	top, ok := logStmt.Expr.(*ast.Binary)
	if !ok || top.Op != ast.OpAnd {
		t.Fatalf("expected top-level 'and', got %#v", logStmt.Expr)
	}
	left, ok := top.Left.(*ast.Binary)
	if !ok || left.Op != ast.OpLt {
		t.Fatalf("expected left operand '<', got %#v", top.Left)
	}
}

func TestParse_UnmatchedBraceIsError(t *testing.T) {
	_, _, err := Parse(`if (true) { move_forward();`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParse_MissingWaitCount(t *testing.T) {
	_, _, err := Parse(`wait("nope");`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}
