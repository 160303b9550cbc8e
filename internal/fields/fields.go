// Package fields pulls single named values out of loosely structured
// `"key":value` text. It is deliberately not a JSON parser: first match only,
// missing keys leave the caller's defaults in place, embedded-quote escaping
// is unsupported. Callers that need the full grammar should not be using this
// package.
package fields

import "strings"

// Int extracts the integer following `"key":`. The parse accepts leading
// spaces and a sign, then consumes digits up to the first non-digit; a key
// with no digits yields 0. The second return is false when the key is absent.
func Int(text, key string) (int, bool) {
	marker := `"` + key + `":`
	pos := strings.Index(text, marker)
	if pos < 0 {
		return 0, false
	}
	rest := text[pos+len(marker):]

	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	neg := false
	if i < len(rest) && (rest[i] == '-' || rest[i] == '+') {
		neg = rest[i] == '-'
		i++
	}
	n := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		n = n*10 + int(rest[i]-'0')
		i++
	}
	if neg {
		n = -n
	}
	return n, true
}

// Str extracts the string following `"key":"` up to the next quote, truncated
// to width. Absent key, or a value with no closing quote, returns ok=false and
// the caller keeps its default.
func Str(text, key string, width int) (string, bool) {
	marker := `"` + key + `":"`
	pos := strings.Index(text, marker)
	if pos < 0 {
		return "", false
	}
	rest := text[pos+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	val := rest[:end]
	if len(val) > width {
		val = val[:width]
	}
	return val, true
}
