// Package brace provides lexical analysis for the brace-and-semicolon
// drone script surface syntax (family 2): C-shaped statements terminated
// by ';', blocks delimited by '{' '}', logical operators '&& || !'.
package brace

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

	// Operators
	PLUS  // +
	MINUS // -
	INCR  // ++
	DECR  // --
	ASSIGN
	EQ  // ==
	NEQ // !=
	LT
	GT
	LTE
	GTE
	AND // &&
	OR  // ||
	NOT // !

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	DOT
	COMMA
	SEMICOLON

	// Keywords
	IF
	ELSE
	FOR
	WHILE
	INT
	MOVE_FORWARD
	MOVE_BACK
	TURN_LEFT
	TURN_RIGHT
	COLLECT
	WAIT
	LOG
	SCAN
	SCAN_LEFT
	SCAN_RIGHT
	TRUE
	FALSE
)

var typeNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	PLUS: "+", MINUS: "-", INCR: "++", DECR: "--", ASSIGN: "=",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	AND: "&&", OR: "||", NOT: "!",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", DOT: ".",
	COMMA: ",", SEMICOLON: ";",
	IF: "if", ELSE: "else", FOR: "for", WHILE: "while", INT: "int",
	MOVE_FORWARD: "move_forward", MOVE_BACK: "move_back",
	TURN_LEFT: "turn_left", TURN_RIGHT: "turn_right",
	COLLECT: "collect", WAIT: "wait", LOG: "log",
	SCAN: "scan", SCAN_LEFT: "scan_left", SCAN_RIGHT: "scan_right",
	TRUE: "true", FALSE: "false",
}

func (t TokenType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"if": IF, "else": ELSE, "for": FOR, "while": WHILE, "int": INT,
	"move_forward": MOVE_FORWARD, "move_back": MOVE_BACK,
	"turn_left": TURN_LEFT, "turn_right": TURN_RIGHT,
	"collect": COLLECT, "wait": WAIT, "log": LOG,
	"scan": SCAN, "scan_left": SCAN_LEFT, "scan_right": SCAN_RIGHT,
	"true": TRUE, "false": FALSE,
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
