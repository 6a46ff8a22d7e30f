package expression_parser_test

import (
	"testing"

	"ngve-go/packages/compiler/src/expression_parser"
)

func lex(text string) []*expression_parser.Token {
	return expression_parser.NewLexer().Tokenize(text)
}

func expectToken(t *testing.T, token *expression_parser.Token, index, end int) {
	t.Helper()
	if token.Index != index {
		t.Errorf("Expected index %d, got %d", index, token.Index)
	}
	if token.End != end {
		t.Errorf("Expected end %d, got %d", end, token.End)
	}
}

func expectCharacterToken(t *testing.T, token *expression_parser.Token, index, end int, character rune) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsCharacter(int(character)) {
		t.Errorf("Expected character token %q, got %s", character, token)
	}
}

func expectOperatorToken(t *testing.T, token *expression_parser.Token, index, end int, operator string) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsOperator(operator) {
		t.Errorf("Expected operator token %q, got %s", operator, token)
	}
}

func expectNumberToken(t *testing.T, token *expression_parser.Token, index, end int, n float64) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsNumber() {
		t.Errorf("Expected number token, got %s", token)
		return
	}
	if token.ToNumber() != n {
		t.Errorf("Expected number %v, got %v", n, token.ToNumber())
	}
}

func expectStringToken(t *testing.T, token *expression_parser.Token, index, end int, str string) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsString() {
		t.Errorf("Expected string token, got %s", token)
		return
	}
	if token.StrValue != str {
		t.Errorf("Expected string %q, got %q", str, token.StrValue)
	}
}

func expectIdentifierToken(t *testing.T, token *expression_parser.Token, index, end int, identifier string) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsIdentifier() {
		t.Errorf("Expected identifier token, got %s", token)
		return
	}
	if token.String() != identifier {
		t.Errorf("Expected identifier %q, got %q", identifier, token.String())
	}
}

func expectKeywordToken(t *testing.T, token *expression_parser.Token, index, end int, keyword string) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsKeyword() {
		t.Errorf("Expected keyword token, got %s", token)
		return
	}
	if token.String() != keyword {
		t.Errorf("Expected keyword %q, got %q", keyword, token.String())
	}
}

func expectErrorToken(t *testing.T, token *expression_parser.Token, index, end int, message string) {
	t.Helper()
	expectToken(t, token, index, end)
	if !token.IsError() {
		t.Errorf("Expected error token, got %s", token)
		return
	}
	if token.String() != message {
		t.Errorf("Expected error message %q, got %q", message, token.String())
	}
}

func TestLexer(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		t.Run("should tokenize a simple identifier", func(t *testing.T) {
			tokens := lex("j")
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "j")
		})

		t.Run("should tokenize this", func(t *testing.T) {
			tokens := lex("this")
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			expectKeywordToken(t, tokens[0], 0, 4, "this")
			if !tokens[0].IsKeywordThis() {
				t.Errorf("Expected 'this' keyword token")
			}
		})

		t.Run("should tokenize a dotted identifier", func(t *testing.T) {
			tokens := lex("j.k")
			if len(tokens) != 3 {
				t.Fatalf("Expected 3 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "j")
			expectCharacterToken(t, tokens[1], 1, 2, '.')
			expectIdentifierToken(t, tokens[2], 2, 3, "k")
		})

		t.Run("should tokenize an operator", func(t *testing.T) {
			tokens := lex("j-k")
			if len(tokens) != 3 {
				t.Fatalf("Expected 3 tokens, got %d", len(tokens))
			}
			expectOperatorToken(t, tokens[1], 1, 2, "-")
		})

		t.Run("should tokenize an indexed operator", func(t *testing.T) {
			tokens := lex("j[k]")
			if len(tokens) != 4 {
				t.Fatalf("Expected 4 tokens, got %d", len(tokens))
			}
			expectCharacterToken(t, tokens[1], 1, 2, '[')
			expectCharacterToken(t, tokens[3], 3, 4, ']')
		})

		t.Run("should tokenize numbers", func(t *testing.T) {
			tokens := lex("88")
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			expectNumberToken(t, tokens[0], 0, 2, 88)
		})

		t.Run("should tokenize numbers within index ops", func(t *testing.T) {
			tokens := lex("a[22]")
			expectNumberToken(t, tokens[2], 2, 4, 22)
		})

		t.Run("should tokenize numbers with one digit after the decimal point", func(t *testing.T) {
			tokens := lex("0.5")
			expectNumberToken(t, tokens[0], 0, 3, 0.5)
		})

		t.Run("should tokenize number starting with a dot", func(t *testing.T) {
			tokens := lex(".5")
			expectNumberToken(t, tokens[0], 0, 2, 0.5)
		})

		t.Run("should tokenize numbers with exponents", func(t *testing.T) {
			tokens := lex("0.5E-10")
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			expectNumberToken(t, tokens[0], 0, 7, 0.5e-10)

			tokens = lex("0.5E+10")
			expectNumberToken(t, tokens[0], 0, 7, 0.5e+10)
		})

		t.Run("should return exception for invalid exponent", func(t *testing.T) {
			tokens := lex("0.5E-")
			expectErrorToken(t, tokens[0], 4, 5,
				"Lexer Error: Invalid exponent at column 4 in expression [0.5E-]")

			tokens = lex("0.5E-A")
			expectErrorToken(t, tokens[0], 4, 5,
				"Lexer Error: Invalid exponent at column 4 in expression [0.5E-A]")
		})

		t.Run("should tokenize simple quoted strings", func(t *testing.T) {
			tokens := lex(`"a"`)
			expectStringToken(t, tokens[0], 0, 3, "a")
		})

		t.Run("should tokenize quoted strings with escaped quotes", func(t *testing.T) {
			tokens := lex(`"a\""`)
			expectStringToken(t, tokens[0], 0, 5, `a"`)
		})

		t.Run("should tokenize a complex expression", func(t *testing.T) {
			tokens := lex(`j-a.bc[22]+1.3|f:'a\'c':"d\"e"`)
			if len(tokens) != 16 {
				t.Fatalf("Expected 16 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "j")
			expectOperatorToken(t, tokens[1], 1, 2, "-")
			expectIdentifierToken(t, tokens[2], 2, 3, "a")
			expectCharacterToken(t, tokens[3], 3, 4, '.')
			expectIdentifierToken(t, tokens[4], 4, 6, "bc")
			expectCharacterToken(t, tokens[5], 6, 7, '[')
			expectNumberToken(t, tokens[6], 7, 9, 22)
			expectCharacterToken(t, tokens[7], 9, 10, ']')
			expectOperatorToken(t, tokens[8], 10, 11, "+")
			expectNumberToken(t, tokens[9], 11, 14, 1.3)
			expectOperatorToken(t, tokens[10], 14, 15, "|")
			expectIdentifierToken(t, tokens[11], 15, 16, "f")
			expectCharacterToken(t, tokens[12], 16, 17, ':')
			expectStringToken(t, tokens[13], 17, 23, "a'c")
			expectCharacterToken(t, tokens[14], 23, 24, ':')
			expectStringToken(t, tokens[15], 24, 30, `d"e`)
		})

		t.Run("should tokenize undefined", func(t *testing.T) {
			tokens := lex("undefined")
			expectKeywordToken(t, tokens[0], 0, 9, "undefined")
			if !tokens[0].IsKeywordUndefined() {
				t.Errorf("Expected 'undefined' keyword token")
			}
		})

		t.Run("should ignore whitespace", func(t *testing.T) {
			tokens := lex("a \t \n \r b")
			if len(tokens) != 2 {
				t.Fatalf("Expected 2 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "a")
			expectIdentifierToken(t, tokens[1], 8, 9, "b")
		})

		t.Run("should tokenize quoted string", func(t *testing.T) {
			tokens := lex(`['\'', "\""]`)
			expectStringToken(t, tokens[1], 1, 5, "'")
			expectStringToken(t, tokens[3], 7, 11, `"`)
		})

		t.Run("should tokenize escaped quoted string", func(t *testing.T) {
			tokens := lex(`"\"\n\f\r\t\v "`)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			if tokens[0].StrValue != "\"\n\f\r\t\v " {
				t.Errorf("Unexpected string value %q", tokens[0].StrValue)
			}
		})

		t.Run("should tokenize unicode", func(t *testing.T) {
			tokens := lex(`" "`)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			if tokens[0].StrValue != " " {
				t.Errorf("Unexpected string value %q", tokens[0].StrValue)
			}
		})

		t.Run("should tokenize relation", func(t *testing.T) {
			tokens := lex("! == != < > <= >= === !==")
			if len(tokens) != 9 {
				t.Fatalf("Expected 9 tokens, got %d", len(tokens))
			}
			expectOperatorToken(t, tokens[0], 0, 1, "!")
			expectOperatorToken(t, tokens[1], 2, 4, "==")
			expectOperatorToken(t, tokens[2], 5, 7, "!=")
			expectOperatorToken(t, tokens[3], 8, 9, "<")
			expectOperatorToken(t, tokens[4], 10, 11, ">")
			expectOperatorToken(t, tokens[5], 12, 14, "<=")
			expectOperatorToken(t, tokens[6], 15, 17, ">=")
			expectOperatorToken(t, tokens[7], 18, 21, "===")
			expectOperatorToken(t, tokens[8], 22, 25, "!==")
		})

		t.Run("should tokenize statements", func(t *testing.T) {
			tokens := lex("a;b;")
			if len(tokens) != 4 {
				t.Fatalf("Expected 4 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "a")
			expectCharacterToken(t, tokens[1], 1, 2, ';')
			expectIdentifierToken(t, tokens[2], 2, 3, "b")
			expectCharacterToken(t, tokens[3], 3, 4, ';')
		})

		t.Run("should tokenize function invocation", func(t *testing.T) {
			tokens := lex("a()")
			if len(tokens) != 3 {
				t.Fatalf("Expected 3 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "a")
			expectCharacterToken(t, tokens[1], 1, 2, '(')
			expectCharacterToken(t, tokens[2], 2, 3, ')')
		})

		t.Run("should tokenize simple method invocations", func(t *testing.T) {
			tokens := lex("a.method()")
			expectIdentifierToken(t, tokens[2], 2, 8, "method")
		})

		t.Run("should tokenize method invocation", func(t *testing.T) {
			tokens := lex("a.b.c (d) - e.f()")
			if len(tokens) != 14 {
				t.Fatalf("Expected 14 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "a")
			expectCharacterToken(t, tokens[1], 1, 2, '.')
			expectIdentifierToken(t, tokens[2], 2, 3, "b")
			expectCharacterToken(t, tokens[3], 3, 4, '.')
			expectIdentifierToken(t, tokens[4], 4, 5, "c")
			expectCharacterToken(t, tokens[5], 6, 7, '(')
			expectIdentifierToken(t, tokens[6], 7, 8, "d")
			expectCharacterToken(t, tokens[7], 8, 9, ')')
			expectOperatorToken(t, tokens[8], 10, 11, "-")
			expectIdentifierToken(t, tokens[9], 12, 13, "e")
			expectCharacterToken(t, tokens[10], 13, 14, '.')
			expectIdentifierToken(t, tokens[11], 14, 15, "f")
			expectCharacterToken(t, tokens[12], 15, 16, '(')
			expectCharacterToken(t, tokens[13], 16, 17, ')')
		})

		t.Run("should tokenize unterminated quotes", func(t *testing.T) {
			tokens := lex("'abc")
			expectErrorToken(t, tokens[0], 4, 4,
				"Lexer Error: Unterminated quote at column 4 in expression ['abc]")
		})

		t.Run("should return invalid unicode escape error", func(t *testing.T) {
			tokens := lex(`'\u1''bla'`)
			expectErrorToken(t, tokens[0], 2, 2,
				`Lexer Error: Invalid unicode escape [\u1''b] at column 2 in expression ['\u1''bla']`)
		})

		t.Run("should tokenize ?. as operator", func(t *testing.T) {
			tokens := lex("?.")
			expectOperatorToken(t, tokens[0], 0, 2, "?.")

			tokens = lex("j?.k")
			if len(tokens) != 3 {
				t.Fatalf("Expected 3 tokens, got %d", len(tokens))
			}
			expectIdentifierToken(t, tokens[0], 0, 1, "j")
			expectOperatorToken(t, tokens[1], 1, 3, "?.")
			expectIdentifierToken(t, tokens[2], 3, 4, "k")
		})

		t.Run("should tokenize hash as operator", func(t *testing.T) {
			tokens := lex("#")
			expectOperatorToken(t, tokens[0], 0, 1, "#")
		})

		t.Run("should tokenize keywords", func(t *testing.T) {
			for _, keyword := range []string{"var", "let", "as", "null", "undefined", "true", "false", "if", "else"} {
				tokens := lex(keyword)
				if len(tokens) != 1 {
					t.Fatalf("Expected 1 token for %q, got %d", keyword, len(tokens))
				}
				expectKeywordToken(t, tokens[0], 0, len(keyword), keyword)
			}
		})
	})
}
