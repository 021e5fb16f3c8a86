package util

// ClampText shortens text to maxLength runes, appending the suffix when
// truncation happens. The suffix counts toward the limit.
func ClampText(text string, maxLength int, suffix string) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	cut := maxLength - len([]rune(suffix))
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + suffix
}
