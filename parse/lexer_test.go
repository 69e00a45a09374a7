package parse

import "testing"

func tokenKinds(t *testing.T, tokens []Token) []TokenKind {
	t.Helper()
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexerPunctuationAndIdent(t *testing.T) {
	l := NewLexer("test.si", "BindPoint Foo { };")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []TokenKind{TokenBindPoint, TokenIdent, TokenLeftBrace, TokenRightBrace, TokenSemicolon, TokenEOF}
	got := tokenKinds(t, tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d: got %v, want %v", i, got[i], k)
		}
	}
}

func TestLexerReservedWordsVsIdent(t *testing.T) {
	l := NewLexer("test.si", "struct MyStruct")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != TokenStruct {
		t.Errorf("token 0 = %v, want TokenStruct", tokens[0].Kind)
	}
	if tokens[1].Kind != TokenIdent {
		t.Errorf("token 1 = %v, want TokenIdent", tokens[1].Kind)
	}
}

func TestLexerStringLiteral(t *testing.T) {
	l := NewLexer("test.si", `#output "cpp" "hlsl";`)
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != TokenHashOutput {
		t.Fatalf("token 0 = %v, want TokenHashOutput", tokens[0].Kind)
	}
	if tokens[1].Kind != TokenStringLiteral || tokens[1].Lexeme != "cpp" {
		t.Errorf("token 1 = %+v, want string literal \"cpp\"", tokens[1])
	}
	if tokens[2].Kind != TokenStringLiteral || tokens[2].Lexeme != "hlsl" {
		t.Errorf("token 2 = %+v, want string literal \"hlsl\"", tokens[2])
	}
}

func TestLexerUnterminatedStringIsSyntaxError(t *testing.T) {
	l := NewLexer("test.si", `"unterminated`)
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Errorf("expected *SyntaxError, got %T", err)
	}
}

func TestLexerIntLiteral(t *testing.T) {
	l := NewLexer("test.si", "42")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != TokenIntLiteral || tokens[0].Lexeme != "42" {
		t.Errorf("token 0 = %+v, want int literal \"42\"", tokens[0])
	}
}

func TestLexerUnknownDirectiveIsSyntaxError(t *testing.T) {
	l := NewLexer("test.si", "#bogus")
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unknown directive")
	}
}

func TestLexerLineComment(t *testing.T) {
	l := NewLexer("test.si", "// a comment\nstruct Foo")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != TokenStruct {
		t.Errorf("token 0 = %v, want TokenStruct (comment should be skipped)", tokens[0].Kind)
	}
	if tokens[0].Line != 2 {
		t.Errorf("struct token line = %d, want 2", tokens[0].Line)
	}
}

func TestLexerUnexpectedCharacterIsSyntaxError(t *testing.T) {
	l := NewLexer("test.si", "@")
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unexpected character")
	}
}
