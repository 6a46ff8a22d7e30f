package chars

// Character code constants
const (
	CharEOF       = 0
	CharTAB       = 9
	CharLF        = 10
	CharVTAB      = 11
	CharFF        = 12
	CharCR        = 13
	CharSPACE     = 32
	CharBANG      = 33
	CharDQ        = 34
	CharHASH      = 35
	CharDollar    = 36
	CharPERCENT   = 37
	CharAMPERSAND = 38
	CharSQ        = 39
	CharLPAREN    = 40
	CharRPAREN    = 41
	CharSTAR      = 42
	CharPLUS      = 43
	CharCOMMA     = 44
	CharMINUS     = 45
	CharPERIOD    = 46
	CharSLASH     = 47
	CharCOLON     = 58
	CharSEMICOLON = 59
	CharLT        = 60
	CharEQ        = 61
	CharGT        = 62
	CharQUESTION  = 63

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharE = 69
	CharF = 70
	CharX = 88
	CharZ = 90

	CharLBRACKET   = 91
	CharBACKSLASH  = 92
	CharRBRACKET   = 93
	CharCARET      = 94
	CharUnderscore = 95

	CharLowerA = 97
	CharLowerE = 101
	CharLowerF = 102
	CharLowerN = 110
	CharLowerR = 114
	CharLowerT = 116
	CharLowerU = 117
	CharLowerV = 118
	CharLowerX = 120
	CharLowerZ = 122

	CharLBRACE = 123
	CharBAR    = 124
	CharRBRACE = 125
	CharNBSP   = 160

	CharAT = 64
	CharBT = 96
)

// IsWhitespace checks if a character code represents whitespace
func IsWhitespace(code int) bool {
	return (code >= CharTAB && code <= CharSPACE) || code == CharNBSP
}

// IsDigit checks if a character code represents a digit
func IsDigit(code int) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code int) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsAsciiHexDigit checks if a character code represents a hexadecimal digit
func IsAsciiHexDigit(code int) bool {
	return (code >= CharLowerA && code <= CharLowerF) || (code >= CharA && code <= CharF) || IsDigit(code)
}

// IsNewLine checks if a character code represents a newline
func IsNewLine(code int) bool {
	return code == CharLF || code == CharCR
}

// IsQuote checks if a character code represents a quote character
func IsQuote(code int) bool {
	return code == CharSQ || code == CharDQ || code == CharBT
}

// IsIdentifierStart checks if a character code can begin an identifier
func IsIdentifierStart(code int) bool {
	return (CharLowerA <= code && code <= CharLowerZ) || (CharA <= code && code <= CharZ) ||
		code == CharUnderscore || code == CharDollar
}

// IsIdentifierPart checks if a character code can continue an identifier
func IsIdentifierPart(code int) bool {
	return IsAsciiLetter(code) || IsDigit(code) || code == CharUnderscore || code == CharDollar
}

// UnescapeCode maps an escape character code to the character it denotes
func UnescapeCode(code int) int {
	switch code {
	case CharLowerN:
		return CharLF
	case CharLowerF:
		return CharFF
	case CharLowerR:
		return CharCR
	case CharLowerT:
		return CharTAB
	case CharLowerV:
		return CharVTAB
	default:
		return code
	}
}
