// Package block parses the indentation-free keyword-and-block surface
// syntax into the shared abstract tree.
package block

import (
	"fmt"

	"github.com/dronescript/autodrone/pkg/compiler/ast"
	"github.com/dronescript/autodrone/pkg/compiler/errcode"
	lex "github.com/dronescript/autodrone/pkg/compiler/lexer/block"
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

// Parser is a one-pass recursive-descent parser over a block-family
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

func (p *Parser) cur() lex.Token { return p.tokens[p.pos] }
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

func (p *Parser) warn(message string, line, column int) {
	p.warnings = append(p.warnings, errcode.Warning{Message: message, Line: line, Column: column})
}

// parseStatements reads one statement per logical line until stop() is
// true, which is how family-1 blocks (ended by "end") are delimited.
func (p *Parser) parseStatements(stop func() bool) ([]ast.Statement, error) {
	var stmts []ast.Statement
	sawWhileTrue := false
	for {
		p.skipNewlines()
		if stop() {
			break
		}
		if p.cur().Type == lex.END {
			return nil, p.errorf("unexpected end", "unmatched end: no open block to close")
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
		if p.cur().Type != lex.NEWLINE && p.cur().Type != lex.EOF && !stop() {
			return nil, p.errorf("expected end of line after statement", "")
		}
		p.skipNewlines()
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, bool, error) {
	t := p.cur()
	switch t.Type {
	case lex.MOVE:
		s, err := p.parseMove()
		return s, false, err
	case lex.TURN:
		s, err := p.parseTurn()
		return s, false, err
	case lex.COLLECT:
		p.advance()
		return &ast.Collect{Pos: pos(t)}, false, nil
	case lex.WAIT:
		s, err := p.parseWait()
		return s, false, err
	case lex.LOG:
		s, err := p.parseLog()
		return s, false, err
	case lex.IF:
		s, err := p.parseIf()
		return s, false, err
	case lex.LOOP:
		s, err := p.parseLoop()
		return s, false, err
	case lex.WHILE:
		return p.parseWhile()
	case lex.END:
		return nil, false, p.errorf("unexpected end", "unmatched block: no open block to close")
	case lex.EOF:
		return nil, false, p.errorf("unexpected end of input", "")
	}
	return nil, false, p.errorf(fmt.Sprintf("unexpected token %s", t.Type), "expected a statement")
}

func (p *Parser) parseMove() (ast.Statement, error) {
	t := p.advance()
	switch p.cur().Type {
	case lex.FORWARD:
		p.advance()
		return &ast.Move{Pos: pos(t), Dir: ast.DirForward}, nil
	case lex.BACK:
		p.advance()
		return &ast.Move{Pos: pos(t), Dir: ast.DirBack}, nil
	}
	return nil, p.errorf("move requires forward or back", "bad direction after move")
}

func (p *Parser) parseTurn() (ast.Statement, error) {
	t := p.advance()
	switch p.cur().Type {
	case lex.LEFT:
		p.advance()
		return &ast.Turn{Pos: pos(t), Dir: ast.DirLeft}, nil
	case lex.RIGHT:
		p.advance()
		return &ast.Turn{Pos: pos(t), Dir: ast.DirRight}, nil
	}
	return nil, p.errorf("turn requires left or right", "bad direction after turn")
}

func (p *Parser) parseWait() (ast.Statement, error) {
	t := p.advance()
	ticks := 1
	if p.cur().Type == lex.NUMBER {
		n, err := p.consumeIntLiteral()
		if err != nil {
			return nil, err
		}
		ticks = n
	}
	return &ast.Wait{Pos: pos(t), Ticks: ticks}, nil
}

func (p *Parser) parseLog() (ast.Statement, error) {
	t := p.advance()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Log{Pos: pos(t), Expr: expr}, nil
}

// parseSuite parses statements until a block terminator (end/elif/else)
// without consuming the terminator, for use inside if/loop/while bodies.
func (p *Parser) parseSuite() (*ast.Block, error) {
	open := p.cur()
	stmts, err := p.parseStatements(func() bool {
		t := p.cur().Type
		return t == lex.END || t == lex.ELIF || t == lex.ELSE || t == lex.EOF
	})
	if err != nil {
		return nil, err
	}
	return &ast.Block{Pos: pos(open), Statements: stmts}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	t := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON, "expected : after if condition"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	consequent, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Pos: pos(t), Cond: cond, Consequent: consequent}

	switch p.cur().Type {
	case lex.ELIF:
		alt, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		node.Alternate = alt
	case lex.ELSE:
		p.advance()
		if _, err := p.expect(lex.COLON, "expected : after else"); err != nil {
			return nil, err
		}
		p.skipNewlines()
		alt, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		node.Alternate = alt
		if _, err := p.expect(lex.END, "expected end to close if"); err != nil {
			return nil, err
		}
	default:
		if _, err := p.expect(lex.END, "expected end to close if"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *Parser) parseLoop() (ast.Statement, error) {
	t := p.advance()
	if p.cur().Type != lex.NUMBER {
		return nil, p.errorf("loop requires an integer count", "missing count after loop")
	}
	count, err := p.consumeIntLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON, "expected : after loop count"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseBoundedSuite()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.END, "expected end to close loop"); err != nil {
		return nil, err
	}
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

func (p *Parser) parseWhile() (ast.Statement, bool, error) {
	t := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(lex.COLON, "expected : after while condition"); err != nil {
		return nil, false, err
	}
	p.skipNewlines()
	if isLiteralTrue(cond) {
		p.warn("while(true) with unbounded body may run forever", t.Line, t.Column)
	}
	body, err := p.parseBoundedSuite()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(lex.END, "expected end to close while"); err != nil {
		return nil, false, err
	}
	return &ast.While{Pos: pos(t), Cond: cond, Body: body}, isLiteralTrue(cond), nil
}

// parseBoundedSuite is parseSuite restricted to the single terminator
// "end" (used by loop/while, which have no elif/else).
func (p *Parser) parseBoundedSuite() (*ast.Block, error) {
	open := p.cur()
	stmts, err := p.parseStatements(func() bool {
		t := p.cur().Type
		return t == lex.END || t == lex.EOF
	})
	if err != nil {
		return nil, err
	}
	return &ast.Block{Pos: pos(open), Statements: stmts}, nil
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

func (p *Parser) consumeIntLiteral() (int, error) {
	t := p.cur()
	if t.Type != lex.NUMBER {
		return 0, p.errorf("expected an integer literal", "")
	}
	p.advance()
	var n int
	if _, err := fmt.Sscanf(t.Literal, "%d", &n); err != nil {
		return 0, errcode.NewParseError("expected an integer literal", t.Line, t.Column, "")
	}
	return n, nil
}
