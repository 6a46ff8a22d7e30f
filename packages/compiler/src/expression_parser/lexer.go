package expression_parser

import (
	"strconv"

	"ngve-go/packages/compiler/src/chars"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = []string{
	"var",
	"let",
	"as",
	"null",
	"undefined",
	"true",
	"false",
	"if",
	"else",
	"this",
}

// Token represents a token in the expression
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, typ TokenType, numValue float64, strValue string) *Token {
	return &Token{
		Index:    index,
		End:      end,
		Type:     typ,
		NumValue: numValue,
		StrValue: strValue,
	}
}

// IsCharacter checks if the token is a character with the given code
func (t *Token) IsCharacter(code int) bool {
	return t.Type == TokenTypeCharacter && int(t.NumValue) == code
}

// IsNumber checks if the token is a number
func (t *Token) IsNumber() bool {
	return t.Type == TokenTypeNumber
}

// IsString checks if the token is a string
func (t *Token) IsString() bool {
	return t.Type == TokenTypeString
}

// IsOperator checks if the token is an operator with the given value
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t.Type == TokenTypeIdentifier
}

// IsKeyword checks if the token is a keyword
func (t *Token) IsKeyword() bool {
	return t.Type == TokenTypeKeyword
}

// IsKeywordLet checks if the token is the 'let' keyword
func (t *Token) IsKeywordLet() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "let"
}

// IsKeywordAs checks if the token is the 'as' keyword
func (t *Token) IsKeywordAs() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "as"
}

// IsKeywordNull checks if the token is the 'null' keyword
func (t *Token) IsKeywordNull() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "null"
}

// IsKeywordUndefined checks if the token is the 'undefined' keyword
func (t *Token) IsKeywordUndefined() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "undefined"
}

// IsKeywordTrue checks if the token is the 'true' keyword
func (t *Token) IsKeywordTrue() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "true"
}

// IsKeywordFalse checks if the token is the 'false' keyword
func (t *Token) IsKeywordFalse() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "false"
}

// IsKeywordThis checks if the token is the 'this' keyword
func (t *Token) IsKeywordThis() bool {
	return t.Type == TokenTypeKeyword && t.StrValue == "this"
}

// IsError checks if the token is an error
func (t *Token) IsError() bool {
	return t.Type == TokenTypeError
}

// ToNumber converts the token to a number
func (t *Token) ToNumber() float64 {
	if t.Type == TokenTypeNumber {
		return t.NumValue
	}
	return -1
}

// String returns the string representation of the token
func (t *Token) String() string {
	switch t.Type {
	case TokenTypeCharacter, TokenTypeIdentifier, TokenTypeKeyword, TokenTypeOperator, TokenTypeString, TokenTypeError:
		return t.StrValue
	case TokenTypeNumber:
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	default:
		return ""
	}
}

// Lexer tokenizes expressions
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize tokenizes the given text
func (l *Lexer) Tokenize(text string) []*Token {
	scanner := newScanner(text)
	return scanner.scan()
}

// EOF represents the end of file token
var EOF = NewToken(-1, -1, TokenTypeCharacter, 0, "")

type scanner struct {
	input  string
	length int
	peek   rune
	index  int
	tokens []*Token
}

func newScanner(input string) *scanner {
	s := &scanner{
		input:  input,
		length: len(input),
		index:  -1,
		tokens: []*Token{},
	}
	s.advance()
	return s
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = chars.CharEOF
	} else {
		s.peek = rune(s.input[s.index])
	}
}

func (s *scanner) scan() []*Token {
	token := s.scanToken()
	for token != nil {
		s.tokens = append(s.tokens, token)
		token = s.scanToken()
	}
	return s.tokens
}

func (s *scanner) scanToken() *Token {
	input := s.input
	length := s.length
	peek := s.peek
	index := s.index

	// Skip whitespace
	for int(peek) <= chars.CharSPACE {
		index++
		if index >= length {
			peek = chars.CharEOF
			break
		} else {
			peek = rune(input[index])
		}
	}

	s.peek = peek
	s.index = index

	if index >= length {
		return nil
	}

	// Handle identifiers and numbers
	if chars.IsIdentifierStart(int(peek)) {
		return s.scanIdentifier()
	}

	if chars.IsDigit(int(peek)) {
		return s.scanNumber(index)
	}

	start := index
	switch int(peek) {
	case chars.CharPERIOD:
		s.advance()
		if chars.IsDigit(int(s.peek)) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, chars.CharPERIOD)
	case chars.CharLPAREN, chars.CharRPAREN, chars.CharLBRACE, chars.CharRBRACE,
		chars.CharLBRACKET, chars.CharRBRACKET, chars.CharCOMMA, chars.CharCOLON, chars.CharSEMICOLON:
		return s.scanCharacter(start, peek)
	case chars.CharSQ, chars.CharDQ:
		return s.scanString()
	case chars.CharHASH, chars.CharPLUS, chars.CharMINUS,
		chars.CharSTAR, chars.CharSLASH, chars.CharPERCENT, chars.CharCARET:
		return s.scanOperator(start, string(peek))
	case chars.CharQUESTION:
		return s.scanComplexOperator(start, "?", chars.CharPERIOD, ".")
	case chars.CharLT, chars.CharGT:
		return s.scanComplexOperator(start, string(peek), chars.CharEQ, "=")
	case chars.CharBANG, chars.CharEQ:
		return s.scanComplexOperator(start, string(peek), chars.CharEQ, "=", chars.CharEQ)
	case chars.CharAMPERSAND:
		return s.scanComplexOperator(start, "&", chars.CharAMPERSAND, "&")
	case chars.CharBAR:
		return s.scanComplexOperator(start, "|", chars.CharBAR, "|")
	case chars.CharNBSP:
		for chars.IsWhitespace(int(s.peek)) {
			s.advance()
		}
		return s.scanToken()
	}

	s.advance()
	return s.error("Unexpected character ["+string(peek)+"]", 0)
}

func (s *scanner) scanCharacter(start int, code rune) *Token {
	s.advance()
	return newCharacterToken(start, s.index, int(code))
}

func (s *scanner) scanOperator(start int, str string) *Token {
	s.advance()
	return newOperatorToken(start, s.index, str)
}

// scanComplexOperator tokenizes a multi-character operator. The twoCode/threeCode
// characters are only consumed when they directly follow the previous one.
func (s *scanner) scanComplexOperator(start int, one string, twoCode int, two string, threeCode ...int) *Token {
	s.advance()
	str := one
	if int(s.peek) == twoCode {
		s.advance()
		str += two
	}
	if len(threeCode) > 0 && int(s.peek) == threeCode[0] {
		s.advance()
		str += string(rune(threeCode[0]))
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for chars.IsIdentifierPart(int(s.peek)) {
		s.advance()
	}
	str := s.input[start:s.index]
	for _, keyword := range keywords {
		if str == keyword {
			return newKeywordToken(start, s.index, str)
		}
	}
	return newIdentifierToken(start, s.index, str)
}

func (s *scanner) scanNumber(start int) *Token {
	simple := s.index == start
	s.advance() // Skip initial digit
	for {
		if chars.IsDigit(int(s.peek)) {
			// Do nothing
		} else if int(s.peek) == chars.CharPERIOD {
			simple = false
		} else if isExponentStart(s.peek) {
			s.advance()
			if isExponentSign(s.peek) {
				s.advance()
			}
			if !chars.IsDigit(int(s.peek)) {
				return s.error("Invalid exponent", -1)
			}
			simple = false
		} else {
			break
		}
		s.advance()
	}

	str := s.input[start:s.index]
	var value float64
	if simple {
		val, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			value = 0
		} else {
			value = float64(val)
		}
	} else {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			value = 0
		} else {
			value = val
		}
	}
	return newNumberToken(start, s.index, value)
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance() // Skip initial quote

	buffer := ""
	marker := s.index
	input := s.input

	for s.peek != quote {
		if int(s.peek) == chars.CharBACKSLASH {
			result := s.scanStringBackslash(buffer, marker)
			if errToken, ok := result.(*Token); ok && errToken.Type == TokenTypeError {
				return errToken
			}
			buffer = result.(string)
			marker = s.index
		} else if int(s.peek) == chars.CharEOF {
			return s.error("Unterminated quote", 0)
		} else {
			s.advance()
		}
	}

	last := input[marker:s.index]
	s.advance() // Skip terminating quote

	return newStringToken(start, s.index, buffer+last)
}

func (s *scanner) scanStringBackslash(buffer string, marker int) interface{} {
	buffer += s.input[marker:s.index]
	var unescapedCode rune
	s.advance()
	if int(s.peek) == chars.CharLowerU {
		// 4 character hex code for unicode character
		if s.index+5 > s.length {
			return s.error("Invalid unicode escape", 0)
		}
		hex := s.input[s.index+1 : s.index+5]
		val, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return s.error("Invalid unicode escape [\\u"+hex+"]", 0)
		}
		unescapedCode = rune(val)
		for i := 0; i < 5; i++ {
			s.advance()
		}
	} else {
		unescapedCode = rune(chars.UnescapeCode(int(s.peek)))
		s.advance()
	}
	buffer += string(unescapedCode)
	return buffer
}

func (s *scanner) error(message string, offset int) *Token {
	position := s.index + offset
	return newErrorToken(
		position,
		s.index,
		"Lexer Error: "+message+" at column "+strconv.Itoa(position)+" in expression ["+s.input+"]",
	)
}

// IsIdentifier checks whether the whole input forms a single valid identifier
func IsIdentifier(input string) bool {
	if len(input) == 0 {
		return false
	}
	scanner := newScanner(input)
	if !chars.IsIdentifierStart(int(scanner.peek)) {
		return false
	}
	scanner.advance()
	for int(scanner.peek) != chars.CharEOF {
		if !chars.IsIdentifierPart(int(scanner.peek)) {
			return false
		}
		scanner.advance()
	}
	return true
}

func isExponentStart(code rune) bool {
	return code == chars.CharE || code == chars.CharLowerE
}

func isExponentSign(code rune) bool {
	return code == chars.CharMINUS || code == chars.CharPLUS
}

// Helper functions to create tokens
func newCharacterToken(index, end, code int) *Token {
	return NewToken(index, end, TokenTypeCharacter, float64(code), string(rune(code)))
}

func newIdentifierToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeIdentifier, 0, text)
}

func newKeywordToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeKeyword, 0, text)
}

func newOperatorToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeOperator, 0, text)
}

func newNumberToken(index, end int, n float64) *Token {
	return NewToken(index, end, TokenTypeNumber, n, "")
}

func newStringToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeString, 0, text)
}

func newErrorToken(index, end int, message string) *Token {
	return NewToken(index, end, TokenTypeError, 0, message)
}
