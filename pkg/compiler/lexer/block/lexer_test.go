package block

import "testing"

func TestNext_Basics(t *testing.T) {
	src := "loop 3:\n  move forward\n  turn left\nend\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []TokenType{
		LOOP, NUMBER, COLON, NEWLINE,
		MOVE, FORWARD, NEWLINE,
		TURN, LEFT, NEWLINE,
		END, NEWLINE, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNext_CollapsesAdjacentNewlines(t *testing.T) {
	toks, err := Tokenize("wait 1\n\n\n\nlog \"x\"\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected exactly two NEWLINE tokens, got %d", count)
	}
}

func TestNext_LineCommentsAreSkipped(t *testing.T) {
	toks, err := Tokenize("# a comment\nmove forward # trailing\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{NEWLINE, MOVE, FORWARD, NEWLINE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNext_KeywordsAreCaseInsensitive(t *testing.T) {
	toks, err := Tokenize("IF true:\nend\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != IF {
		t.Errorf("got %s, want IF", toks[0].Type)
	}
	if toks[1].Type != TRUE {
		t.Errorf("got %s, want TRUE", toks[1].Type)
	}
}

func TestNext_DirectionKeywords(t *testing.T) {
	toks, err := Tokenize("move forward\nmove back\nturn left\nturn right\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toks[1].Type.IsDirection() || !toks[4].Type.IsDirection() ||
		!toks[7].Type.IsDirection() || !toks[10].Type.IsDirection() {
		t.Errorf("expected direction tokens, got %+v", toks)
	}
}

func TestNext_StringEscapes(t *testing.T) {
	toks, err := Tokenize(`log "line\nbreak\ttab\\\"quote"` + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got string
	for _, tok := range toks {
		if tok.Type == STRING {
			got = tok.Literal
		}
	}
	want := "line\nbreak\ttab\\\"quote"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNext_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`log "unterminated`)
	if err == nil {
		t.Fatal("expected an error")
	}
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if lexErr.Reason != "UnterminatedString" {
		t.Errorf("got reason %q, want UnterminatedString", lexErr.Reason)
	}
}

func TestNext_UnexpectedChar(t *testing.T) {
	_, err := Tokenize("move forward @ turn left\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if lexErr.Reason != "UnexpectedChar" || lexErr.Char != '@' {
		t.Errorf("got %+v", lexErr)
	}
}

func TestNext_NumberLiterals(t *testing.T) {
	toks, err := Tokenize("wait 12\nwait 3.5\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var lits []string
	for _, tok := range toks {
		if tok.Type == NUMBER {
			lits = append(lits, tok.Literal)
		}
	}
	if len(lits) != 2 || lits[0] != "12" || lits[1] != "3.5" {
		t.Errorf("got %v", lits)
	}
}

func TestNext_AlwaysEndsWithEOF(t *testing.T) {
	toks, err := Tokenize("collect\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[len(toks)-1].Type != EOF {
		t.Errorf("expected final token to be EOF, got %s", toks[len(toks)-1].Type)
	}
}

func TestTokenize_Determinism(t *testing.T) {
	src := "while energy > 10:\n  move forward\nend\n"
	a, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
