package schemac

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// StartCase splits an identifier into words and title-cases each of them:
// "firstName" -> "First Name", "hero_image" -> "Hero Image".
func StartCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	return string(unicode.ToUpper(rs[0])) + string(rs[1:])
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		case unicode.IsDigit(r) && len(cur) > 0 && !unicode.IsDigit(rs[i-1]):
			flush()
		case unicode.IsLetter(r) && len(cur) > 0 && unicode.IsDigit(rs[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// HumanizeList joins items as "a, b and c". The conjunction defaults to "and".
func HumanizeList(items []string, conjunction ...string) string {
	conj := "and"
	if len(conjunction) > 0 {
		conj = conjunction[0]
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
}

// Quote wraps s in double quotes.
func Quote(s string) string { return `"` + s + `"` }

// QuoteAll quotes every item.
func QuoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Quote(s)
	}
	return out
}
