// Package codegen lowers the unified abstract tree into flat bytecode
// for the virtual machine, patching jump targets in a single forward
// pass.
package codegen

import (
	"strings"

	"github.com/dronescript/autodrone/pkg/compiler/ast"
	"github.com/dronescript/autodrone/pkg/compiler/errcode"
	"github.com/dronescript/autodrone/pkg/vmcode"
)

type compiler struct {
	instructions []vmcode.Instruction
	sourceMap    map[int]int
}

// Compile lowers prog into a HALT-terminated instruction array with a
// source map from instruction index to originating line.
func Compile(prog *ast.Program) (*vmcode.Bytecode, error) {
	c := &compiler{sourceMap: make(map[int]int)}
	for _, stmt := range prog.Body {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}
	c.emit(vmcode.HALT, nil, 0)
	return &vmcode.Bytecode{Instructions: c.instructions, SourceMap: c.sourceMap}, nil
}

// emit appends an instruction and records its source line, returning
// its address for later jump-patching.
func (c *compiler) emit(op vmcode.Op, arg interface{}, line int) int {
	addr := len(c.instructions)
	c.instructions = append(c.instructions, vmcode.Instruction{Op: op, Arg: arg, Line: line})
	if line > 0 {
		c.sourceMap[addr] = line
	}
	return addr
}

func (c *compiler) patchJump(addr int, target int) {
	c.instructions[addr].Arg = target
}

func (c *compiler) here() int { return len(c.instructions) }

func line(n ast.Node) int {
	if n == nil {
		return 0
	}
	return n.Position().Line
}

func (c *compiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Move:
		c.emit(vmcode.MOVE, s.Dir, line(s))
	case *ast.Turn:
		c.emit(vmcode.TURN, s.Dir, line(s))
	case *ast.Collect:
		c.emit(vmcode.COLLECT, nil, line(s))
	case *ast.Wait:
		c.emit(vmcode.WAIT, s.Ticks, line(s))
	case *ast.Log:
		if err := c.compileExpression(s.Expr); err != nil {
			return err
		}
		c.emit(vmcode.LOG, nil, line(s))
	case *ast.If:
		return c.compileIf(s)
	case *ast.Loop:
		return c.compileLoop(s)
	case *ast.While:
		return c.compileWhile(s)
	default:
		return errcode.NewCompileError("unknown statement kind", line(stmt), 0, "")
	}
	return nil
}

func (c *compiler) compileBlock(b *ast.Block) error {
	for _, s := range b.Statements {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileIf(n *ast.If) error {
	if err := c.compileExpression(n.Cond); err != nil {
		return err
	}
	j1 := c.emit(vmcode.JUMP_IF_FALSE, -1, 0)
	if err := c.compileBlock(n.Consequent); err != nil {
		return err
	}

	if n.Alternate == nil {
		c.patchJump(j1, c.here())
		return nil
	}

	j2 := c.emit(vmcode.JUMP, -1, 0)
	c.patchJump(j1, c.here())

	switch alt := n.Alternate.(type) {
	case *ast.Block:
		if err := c.compileBlock(alt); err != nil {
			return err
		}
	case *ast.If:
		if err := c.compileIf(alt); err != nil {
			return err
		}
	default:
		return errcode.NewCompileError("unknown if-alternate kind", line(n), 0, "")
	}
	c.patchJump(j2, c.here())
	return nil
}

func (c *compiler) compileWhile(n *ast.While) error {
	l0 := c.here()
	if err := c.compileExpression(n.Cond); err != nil {
		return err
	}
	j := c.emit(vmcode.JUMP_IF_FALSE, -1, 0)
	if err := c.compileBlock(n.Body); err != nil {
		return err
	}
	c.emit(vmcode.JUMP, l0, 0)
	c.patchJump(j, c.here())
	return nil
}

// compileLoop unrolls the body count times. Count is a fixed integer
// known at compile time (unlike While's condition), so there is no need
// to thread a counter through the operand stack: emitting the body
// max(0, count) times in order is the simplest correct lowering and
// matches the reference semantics exactly.
func (c *compiler) compileLoop(n *ast.Loop) error {
	for i := 0; i < n.Count; i++ {
		if err := c.compileBlock(n.Body); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Literal:
		c.emit(vmcode.PUSH, e.Value, line(e))
	case *ast.Identifier:
		c.emit(vmcode.LOAD, e.Name, line(e))
	case *ast.Binary:
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		op, ok := binaryOps[e.Op]
		if !ok {
			return errcode.NewCompileError("unknown binary operator "+e.Op, line(e), 0, "")
		}
		c.emit(op, nil, line(e))
	case *ast.Unary:
		if err := c.compileExpression(e.Operand); err != nil {
			return err
		}
		c.emit(vmcode.NOT, nil, line(e))
	case *ast.Call:
		for _, arg := range e.Arguments {
			if err := c.compileExpression(arg); err != nil {
				return err
			}
		}
		c.emit(vmcode.CALL, vmcode.CallArg{Name: strings.ToLower(e.Callee.Name), Argc: len(e.Arguments)}, line(e))
	case *ast.Member:
		if err := c.compileExpression(e.Object); err != nil {
			return err
		}
		c.emit(vmcode.MEMBER, e.Property, line(e))
	default:
		return errcode.NewCompileError("unknown expression kind", line(expr), 0, "")
	}
	return nil
}

var binaryOps = map[string]vmcode.Op{
	ast.OpAdd: vmcode.ADD, ast.OpSub: vmcode.SUB,
	ast.OpEq: vmcode.EQ, ast.OpNeq: vmcode.NEQ,
	ast.OpLt: vmcode.LT, ast.OpGt: vmcode.GT,
	ast.OpLte: vmcode.LTE, ast.OpGte: vmcode.GTE,
	ast.OpAnd: vmcode.AND, ast.OpOr: vmcode.OR,
}
