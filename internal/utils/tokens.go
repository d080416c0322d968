package utils

// charsPerToken is the rough ratio used for prompt sizing.
const charsPerToken = 4

// CountTokens estimates the prompt tokens in text. Any non-empty text counts
// as at least one token.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if n := len([]rune(text)) / charsPerToken; n > 0 {
		return n
	}
	return 1
}

// TruncateToTokenLimit cuts text to about limit tokens, marking the cut with
// an ellipsis.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	limitChars := limit * charsPerToken
	if len(runes) <= limitChars {
		return text
	}
	return string(runes[:limitChars-1]) + "…"
}
