// Package brace parses the brace-and-semicolon surface syntax into the
// shared abstract tree.
package brace

import (
	"fmt"

	"github.com/dronescript/autodrone/pkg/compiler/ast"
	"github.com/dronescript/autodrone/pkg/compiler/errcode"
	lex "github.com/dronescript/autodrone/pkg/compiler/lexer/brace"
)

var knownIdents = map[string]bool{
	"energy": true, "x": true, "y": true, "facing": true, "inventory": true,
	"scanCooldown": true, "maxEnergy": true,
	"scan": true, "scan_left": true, "scan_right": true,
	"true": true, "false": true,
}

// DefaultMaxLoopCount is the loop count above which parseLoop warns that
// performance may suffer, absent an explicit override.
const DefaultMaxLoopCount = 1000

// Parser is a one-pass recursive-descent parser over a brace-family
// token stream.
type Parser struct {
	tokens       []lex.Token
	pos          int
	warnings     []errcode.Warning
	maxLoopCount int
}

// New creates a Parser over an already-lexed token stream.
func New(tokens []lex.Token) *Parser {
	return &Parser{tokens: tokens, maxLoopCount: DefaultMaxLoopCount}
}

// Parse lexes and parses source in one call, warning on loop counts
// above DefaultMaxLoopCount.
func Parse(source string) (*ast.Program, []errcode.Warning, error) {
	return ParseWithLoopLimit(source, DefaultMaxLoopCount)
}

// ParseWithLoopLimit lexes and parses source, warning on loop counts
// above maxLoopCount instead of the default.
func ParseWithLoopLimit(source string, maxLoopCount int) (*ast.Program, []errcode.Warning, error) {
	toks, err := lex.Tokenize(source)
	if err != nil {
		le := err.(*lex.LexError)
		return nil, nil, errcode.NewLexError(le.Reason, le.Line, le.Column, "")
	}
	p := New(toks)
	p.maxLoopCount = maxLoopCount
	return p.ParseProgram()
}

// ParseProgram consumes the entire token stream and returns the tree
// along with any accumulated non-fatal warnings.
func (p *Parser) ParseProgram() (*ast.Program, []errcode.Warning, error) {
	prog := &ast.Program{Pos: ast.Pos{Line: 1, Column: 1}}
	body, err := p.parseStatements(func() bool { return p.cur().Type == lex.EOF })
	if err != nil {
		return nil, p.warnings, err
	}
	prog.Body = body
	return prog, p.warnings, nil
}

func (p *Parser) cur() lex.Token  { return p.tokens[p.pos] }
func (p *Parser) peekN(n int) lex.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}
func (p *Parser) advance() lex.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == lex.NEWLINE {
		p.advance()
	}
}

func (p *Parser) expect(tt lex.TokenType, hint string) (lex.Token, error) {
	if p.cur().Type != tt {
		return lex.Token{}, p.errorf(fmt.Sprintf("expected %s, got %s", tt, p.cur().Type), hint)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(message, hint string) error {
	t := p.cur()
	return errcode.NewParseError(message, t.Line, t.Column, hint)
}

func pos(t lex.Token) ast.Pos { return ast.Pos{Line: t.Line, Column: t.Column} }

// parseStatements reads statements until stop() is true.
func (p *Parser) parseStatements(stop func() bool) ([]ast.Statement, error) {
	var stmts []ast.Statement
	sawWhileTrue := false
	for {
		p.skipNewlines()
		if stop() {
			break
		}
		if sawWhileTrue {
			t := p.cur()
			p.warn("Code after while-true is unreachable", t.Line, t.Column)
			sawWhileTrue = false
		}
		stmt, wasWhileTrue, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		sawWhileTrue = wasWhileTrue
		p.skipNewlines()
	}
	return stmts, nil
}

func (p *Parser) warn(message string, line, column int) {
	p.warnings = append(p.warnings, errcode.Warning{Message: message, Line: line, Column: column})
}

func (p *Parser) parseStatement() (ast.Statement, bool, error) {
	t := p.cur()
	switch t.Type {
	case lex.MOVE_FORWARD, lex.MOVE_BACK:
		s, err := p.parseMove()
		return s, false, err
	case lex.TURN_LEFT, lex.TURN_RIGHT:
		s, err := p.parseTurn()
		return s, false, err
	case lex.COLLECT:
		s, err := p.parseCollect()
		return s, false, err
	case lex.WAIT:
		s, err := p.parseWait()
		return s, false, err
	case lex.LOG:
		s, err := p.parseLog()
		return s, false, err
	case lex.IF:
		s, err := p.parseIf()
		return s, false, err
	case lex.WHILE:
		return p.parseWhile()
	case lex.FOR:
		s, err := p.parseFor()
		return s, false, err
	case lex.RBRACE:
		return nil, false, p.errorf("unexpected }", "check for an unmatched block")
	case lex.EOF:
		return nil, false, p.errorf("unexpected end of input", "")
	}
	return nil, false, p.errorf(fmt.Sprintf("unexpected token %s", t.Type), "expected a statement")
}

func (p *Parser) parseCallStatement() (int, []ast.Expression, error) {
	if _, err := p.expect(lex.LPAREN, "expected ( after statement keyword"); err != nil {
		return 0, nil, err
	}
	var args []ast.Expression
	if p.cur().Type != lex.RPAREN {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return 0, nil, err
			}
			args = append(args, e)
			if p.cur().Type == lex.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lex.RPAREN, "expected )"); err != nil {
		return 0, nil, err
	}
	if _, err := p.expect(lex.SEMICOLON, "expected ;"); err != nil {
		return 0, nil, err
	}
	return len(args), args, nil
}

func (p *Parser) parseMove() (ast.Statement, error) {
	t := p.advance()
	if _, _, err := p.parseCallStatement(); err != nil {
		return nil, err
	}
	dir := ast.DirForward
	if t.Type == lex.MOVE_BACK {
		dir = ast.DirBack
	}
	return &ast.Move{Pos: pos(t), Dir: dir}, nil
}

func (p *Parser) parseTurn() (ast.Statement, error) {
	t := p.advance()
	if _, _, err := p.parseCallStatement(); err != nil {
		return nil, err
	}
	dir := ast.DirLeft
	if t.Type == lex.TURN_RIGHT {
		dir = ast.DirRight
	}
	return &ast.Turn{Pos: pos(t), Dir: dir}, nil
}

func (p *Parser) parseCollect() (ast.Statement, error) {
	t := p.advance()
	if _, _, err := p.parseCallStatement(); err != nil {
		return nil, err
	}
	return &ast.Collect{Pos: pos(t)}, nil
}

func (p *Parser) parseWait() (ast.Statement, error) {
	t := p.advance()
	_, args, err := p.parseCallStatement()
	if err != nil {
		return nil, err
	}
	ticks := 1
	if len(args) > 0 {
		lit, ok := args[0].(*ast.Literal)
		if !ok || lit.ValueType != ast.ValNumber {
			return nil, errcode.NewParseError("wait() argument must be a number literal", t.Line, t.Column, "missing count after wait")
		}
		ticks = int(lit.Value.(float64))
	}
	return &ast.Wait{Pos: pos(t), Ticks: ticks}, nil
}

func (p *Parser) parseLog() (ast.Statement, error) {
	t := p.advance()
	_, args, err := p.parseCallStatement()
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errcode.NewParseError("log() requires exactly one argument", t.Line, t.Column, "")
	}
	return &ast.Log{Pos: pos(t), Expr: args[0]}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lex.LBRACE, "expected {")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(func() bool { return p.cur().Type == lex.RBRACE || p.cur().Type == lex.EOF })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RBRACE, "expected }"); err != nil {
		return nil, err
	}
	return &ast.Block{Pos: pos(open), Statements: stmts}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	t := p.advance()
	if _, err := p.expect(lex.LPAREN, "expected ( after if"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RPAREN, "expected )"); err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Pos: pos(t), Cond: cond, Consequent: consequent}

	p.skipNewlines()
	if p.cur().Type == lex.ELSE {
		p.advance()
		if p.cur().Type == lex.IF {
			alt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.Alternate = alt
		} else {
			alt, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Alternate = alt
		}
	}
	return node, nil
}

func (p *Parser) parseWhile() (ast.Statement, bool, error) {
	t := p.advance()
	if _, err := p.expect(lex.LPAREN, "expected ( after while"); err != nil {
		return nil, false, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(lex.RPAREN, "expected )"); err != nil {
		return nil, false, err
	}
	if isLiteralTrue(cond) {
		p.warn("while(true) with unbounded body may run forever", t.Line, t.Column)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, false, err
	}
	return &ast.While{Pos: pos(t), Cond: cond, Body: body}, isLiteralTrue(cond), nil
}

func isLiteralTrue(e ast.Expression) bool {
	if lit, ok := e.(*ast.Literal); ok {
		if b, ok := lit.Value.(bool); ok {
			return b
		}
	}
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name == "true"
	}
	return false
}

// parseFor lowers "for (int i = a; i < b; i++) { ... }" to Loop{count:
// b-a, body}, discarding the induction variable and step entirely.
func (p *Parser) parseFor() (ast.Statement, error) {
	t := p.advance()
	if _, err := p.expect(lex.LPAREN, "expected ( after for"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.INT, "expected int in for-loop init"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.IDENT, "expected loop variable name"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.ASSIGN, "expected = in for-loop init"); err != nil {
		return nil, err
	}
	from, err := p.expectIntLiteral("for-loop start bound must be an integer literal")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.SEMICOLON, "expected ; after for-loop init"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.IDENT, "expected loop variable name in condition"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.LT, "for-loop condition must use <"); err != nil {
		return nil, err
	}
	to, err := p.expectIntLiteral("for-loop end bound must be an integer literal")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.SEMICOLON, "expected ; after for-loop condition"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.IDENT, "expected loop variable name in post-step"); err != nil {
		return nil, err
	}
	if p.cur().Type != lex.INCR && p.cur().Type != lex.DECR {
		return nil, p.errorf("for-loop post-step must be ++ or --", "")
	}
	p.advance()
	if _, err := p.expect(lex.RPAREN, "expected )"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	count := to - from
	if count <= 0 {
		p.warn("LOOP with N iterations will never execute", t.Line, t.Column)
	} else if count > p.maxLoopCount {
		p.warn("Large loop count may impact performance", t.Line, t.Column)
	}
	if count < 0 {
		count = 0
	}
	return &ast.Loop{Pos: pos(t), Count: count, Body: body}, nil
}

func (p *Parser) expectIntLiteral(hint string) (int, error) {
	if p.cur().Type != lex.NUMBER {
		return 0, p.errorf("expected an integer literal", hint)
	}
	tok := p.advance()
	var n int
	if _, err := fmt.Sscanf(tok.Literal, "%d", &n); err != nil {
		return 0, errcode.NewParseError("expected an integer literal", tok.Line, tok.Column, hint)
	}
	return n, nil
}
