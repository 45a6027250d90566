package utils

// Truncate returns a truncated string with "..." if it exceeds maxLen.
// This function is Unicode-safe, counting runes instead of bytes.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Head returns at most n runes of s.
func Head(s string, n int) string {
	runes := []rune(s)
	if n < 0 {
		n = 0
	}
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
