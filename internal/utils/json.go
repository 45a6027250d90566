package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regexes for repairing model output.
var (
	// "value"\n"key": -> "value",\n"key":
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)

	// } "key" -> }, "key"
	missingCommaAfterBraceRegex = regexp.MustCompile(`([}\]])\s*\n?\s*("[\w])`)

	// ,} -> }
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// {'key': -> {"key":
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)

	// : 'value' -> : "value"
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)
)

// ExtractAndParseJSON extracts JSON from an LLM response and unmarshals it.
// Markdown fences and trailing prose are ignored, and common syntax slips are repaired.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := StripCodeFences(response)
	if cleaned == "" {
		return result, fmt.Errorf("no JSON found in response")
	}

	// Some models return the document as a quoted string.
	if strings.HasPrefix(cleaned, `"`) {
		var asString string
		if err := json.Unmarshal([]byte(cleaned), &asString); err == nil {
			return ExtractAndParseJSON[T](asString)
		}
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("no JSON start ({ or [) found")
	}

	// A Decoder reads exactly one value, so {"a":1} followed by prose still parses.
	jsonPart := cleaned[idx:]
	err := json.NewDecoder(strings.NewReader(jsonPart)).Decode(&result)
	if err == nil {
		return result, nil
	}

	if repaired := repairJSON(jsonPart); repaired != jsonPart {
		var again T
		if err2 := json.NewDecoder(strings.NewReader(repaired)).Decode(&again); err2 == nil {
			return again, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}

// repairJSON fixes syntax errors models commonly make: raw control characters,
// missing or trailing commas, single quotes, and truncated output.
func repairJSON(input string) string {
	result := sanitizeControlChars(input)
	result = missingCommaBeforeKeyRegex.ReplaceAllString(result, `$1, $2`)
	result = missingCommaAfterBraceRegex.ReplaceAllString(result, `$1, $2`)
	result = trailingCommaRegex.ReplaceAllString(result, `$1`)
	result = singleQuoteKeyRegex.ReplaceAllString(result, `$1"$2"$3`)
	result = singleQuoteValueRegex.ReplaceAllStringFunc(result, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})
	return fixTruncatedJSON(result)
}

// sanitizeControlChars escapes literal control characters inside JSON strings.
func sanitizeControlChars(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	inString := false
	escaped := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\' && inString:
			b.WriteByte(c)
			escaped = true
		case c == '"':
			inString = !inString
			b.WriteByte(c)
		case inString && c == '\n':
			b.WriteString(`\n`)
		case inString && c == '\r':
			b.WriteString(`\r`)
		case inString && c == '\t':
			b.WriteString(`\t`)
		case inString && c < 0x20:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// fixTruncatedJSON closes an unterminated string and any unbalanced brackets.
func fixTruncatedJSON(input string) string {
	quoteCount := 0
	escaped := false
	for _, c := range input {
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			quoteCount++
		}
	}
	if quoteCount%2 != 0 {
		input += `"`
	}

	// Close in LIFO order so nested arrays inside objects end up well formed.
	var stack []byte
	inString := false
	escaped = false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case (c == '}' || c == ']') && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		input += string(stack[i])
	}
	return input
}

// StripCodeFences removes a surrounding markdown code block such as ```json ... ```.
func StripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		// Drop the info string (json, JSON, ...) up to the first newline.
		if nl := strings.IndexByte(response, '\n'); nl >= 0 && !strings.ContainsAny(response[:nl], "{[") {
			response = response[nl+1:]
		} else {
			response = strings.TrimPrefix(strings.TrimPrefix(response, "json"), "JSON")
		}
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}
