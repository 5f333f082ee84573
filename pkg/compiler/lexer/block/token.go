// Package block provides lexical analysis for the indentation-free
// keyword-and-block drone script surface syntax (family 1): headers end
// in ':' and blocks close with a bare 'end'.
package block

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCase = cases.Lower(language.Und)

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	IDENT
	NUMBER
	STRING

	PLUS
	MINUS
	EQ
	NEQ
	LT
	GT
	LTE
	GTE

	LPAREN
	RPAREN
	DOT
	COMMA
	COLON

	// Keywords
	IF
	ELIF
	ELSE
	END
	LOOP
	WHILE
	MOVE
	TURN
	COLLECT
	WAIT
	LOG
	FORWARD
	BACK
	LEFT
	RIGHT
	AND
	OR
	NOT
	TRUE
	FALSE
)

var typeNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	PLUS: "+", MINUS: "-", EQ: "==", NEQ: "!=",
	LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	LPAREN: "(", RPAREN: ")", DOT: ".", COMMA: ",", COLON: ":",
	IF: "if", ELIF: "elif", ELSE: "else", END: "end",
	LOOP: "loop", WHILE: "while", MOVE: "move", TURN: "turn",
	COLLECT: "collect", WAIT: "wait", LOG: "log",
	FORWARD: "forward", BACK: "back", LEFT: "left", RIGHT: "right",
	AND: "and", OR: "or", NOT: "not", TRUE: "true", FALSE: "false",
}

func (t TokenType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"if": IF, "elif": ELIF, "else": ELSE, "end": END,
	"loop": LOOP, "while": WHILE, "move": MOVE, "turn": TURN,
	"collect": COLLECT, "wait": WAIT, "log": LOG,
	"forward": FORWARD, "back": BACK, "left": LEFT, "right": RIGHT,
	"and": AND, "or": OR, "not": NOT, "true": TRUE, "false": FALSE,
}

// IsDirection reports whether t is one of the four direction keywords,
// which the parser treats as string-valued primaries when they appear in
// expression position.
func (t TokenType) IsDirection() bool {
	switch t {
	case FORWARD, BACK, LEFT, RIGHT:
		return true
	}
	return false
}

// LookupIdent classifies an identifier as a keyword (case-insensitive) or
// returns IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[foldCase.String(ident)]; ok {
		return tok
	}
	return IDENT
}

// Token is a single lexical unit: its class, literal text, and 1-based
// source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}
