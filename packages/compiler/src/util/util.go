package util

import (
	"fmt"
	"regexp"
	"strings"
)

var dashCaseRegexp = regexp.MustCompile(`-+([a-z0-9])`)

// DashCaseToCamelCase converts a dash-case string to camelCase
func DashCaseToCamelCase(input string) string {
	return dashCaseRegexp.ReplaceAllStringFunc(input, func(match string) string {
		parts := dashCaseRegexp.FindStringSubmatch(match)
		if len(parts) > 1 {
			return strings.ToUpper(parts[1])
		}
		return match
	})
}

// CamelCaseToDashCase converts a camelCase string to dash-case
func CamelCaseToDashCase(input string) string {
	re := regexp.MustCompile(`([A-Z])`)
	return re.ReplaceAllStringFunc(input, func(match string) string {
		return "-" + strings.ToLower(match)
	})
}

// SplitAtColon splits a string at the first colon character
func SplitAtColon(input string, defaultValues []string) []string {
	return splitAt(input, ':', defaultValues)
}

// SplitAtPeriod splits a string at the first period character
func SplitAtPeriod(input string, defaultValues []string) []string {
	return splitAt(input, '.', defaultValues)
}

func splitAt(input string, character rune, defaultValues []string) []string {
	index := strings.IndexRune(input, character)
	if index == -1 {
		return defaultValues
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}

// Error creates an error with an Internal Error prefix
func Error(msg string) error {
	return fmt.Errorf("Internal Error: %s", msg)
}

// SanitizeIdentifier sanitizes an identifier name by replacing non-word characters with underscores
func SanitizeIdentifier(name string) string {
	re := regexp.MustCompile(`\W`)
	return re.ReplaceAllString(name, "_")
}

// Stringify converts a token to its string representation
func Stringify(token interface{}) string {
	if s, ok := token.(string); ok {
		return s
	}

	if arr, ok := token.([]interface{}); ok {
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = Stringify(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	if token == nil {
		return "null"
	}

	if named, ok := token.(interface{ Name() string }); ok {
		return named.Name()
	}

	return fmt.Sprintf("%v", token)
}

// Byte is one octet of UTF-8 encoded text.
type Byte = uint8

// UTF8Encode returns the UTF-8 bytes of str. Byte sequences that are not
// valid UTF-8 are passed through unchanged so already-encoded input
// survives a round trip.
func UTF8Encode(str string) []Byte {
	return []Byte(str)
}
