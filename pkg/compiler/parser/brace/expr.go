package brace

import (
	"strconv"

	"github.com/dronescript/autodrone/pkg/compiler/ast"
	"github.com/dronescript/autodrone/pkg/compiler/errcode"
	lex "github.com/dronescript/autodrone/pkg/compiler/lexer/brace"
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lex.OR {
		t := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos(t), Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lex.AND {
		t := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos(t), Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var compareOps = map[lex.TokenType]string{
	lex.EQ: ast.OpEq, lex.NEQ: ast.OpNeq, lex.LT: ast.OpLt,
	lex.GT: ast.OpGt, lex.LTE: ast.OpLte, lex.GTE: ast.OpGte,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := compareOps[p.cur().Type]
		if !ok {
			break
		}
		t := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos(t), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lex.PLUS || p.cur().Type == lex.MINUS {
		t := p.advance()
		op := ast.OpAdd
		if t.Type == lex.MINUS {
			op = ast.OpSub
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos(t), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.cur().Type == lex.NOT {
		t := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Pos: pos(t), Op: "not", Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lex.LPAREN:
			callee, ok := expr.(*ast.Identifier)
			if !ok {
				return nil, p.errorf("only a plain name can be called", "")
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Pos: callee.Pos, Callee: callee, Arguments: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(lex.LPAREN, "expected ("); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.cur().Type != lex.RPAREN {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
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
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.Type {
	case lex.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return nil, errcode.NewParseError("malformed number literal", t.Line, t.Column, "")
		}
		return &ast.Literal{Pos: pos(t), Value: v, ValueType: ast.ValNumber}, nil
	case lex.STRING:
		p.advance()
		return &ast.Literal{Pos: pos(t), Value: t.Literal, ValueType: ast.ValString}, nil
	case lex.TRUE:
		p.advance()
		return &ast.Literal{Pos: pos(t), Value: true, ValueType: ast.ValBool}, nil
	case lex.FALSE:
		p.advance()
		return &ast.Literal{Pos: pos(t), Value: false, ValueType: ast.ValBool}, nil
	case lex.IDENT, lex.SCAN, lex.SCAN_LEFT, lex.SCAN_RIGHT:
		p.advance()
		name := t.Literal
		if t.Type != lex.IDENT {
			name = t.Type.String()
		}
		if !knownIdents[name] {
			p.warn("Unknown variable or function", t.Line, t.Column)
		}
		id := &ast.Identifier{Pos: pos(t), Name: name}
		return p.maybeMember(id)
	case lex.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RPAREN, "expected )"); err != nil {
			return nil, err
		}
		return p.maybeMember(e)
	}
	return nil, p.errorf("unexpected token in expression: "+t.Type.String(), "")
}

func (p *Parser) maybeMember(expr ast.Expression) (ast.Expression, error) {
	for p.cur().Type == lex.DOT {
		t := p.advance()
		if p.cur().Type != lex.IDENT {
			return nil, p.errorf("expected a property name after .", "missing property after .")
		}
		prop := p.advance()
		expr = &ast.Member{Pos: pos(t), Object: expr, Property: prop.Literal}
	}
	return expr, nil
}

