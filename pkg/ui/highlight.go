package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips diacritics, so "é" matches "e".
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}

	return out, nil
}

// Highlight renders the runes of s that fuzzy-match pattern with style.
// s is returned unchanged when pattern is empty or does not match.
func Highlight(s, pattern string, style lipgloss.Style) string {
	if pattern == "" || s == "" {
		return s
	}

	target, err := Normalize(s)
	if err != nil || len([]rune(target)) != len([]rune(s)) {
		target = s
	}

	needle, err := Normalize(pattern)
	if err != nil {
		needle = pattern
	}

	matches := fuzzy.Find(strings.ToLower(needle), []string{strings.ToLower(target)})
	if len(matches) == 0 {
		return s
	}

	// fuzzy reports byte offsets into the target.
	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	var sb strings.Builder

	srcRunes := []rune(s)
	i := 0

	for off := range strings.ToLower(target) {
		if i >= len(srcRunes) {
			break
		}

		r := string(srcRunes[i])
		if matched[off] {
			r = style.Render(r)
		}

		sb.WriteString(r)

		i++
	}

	return sb.String()
}
