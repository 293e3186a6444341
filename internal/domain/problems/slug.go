package problems

import (
	"strings"
	"unicode"
)

const problemURLBase = "https://leetcode.com/problems/"

// Slugify lowercases name and collapses every run of non-alphanumeric
// characters into a single hyphen. "Two Sum" -> "two-sum".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// TitleFromSlug turns "lru-cache" into "Lru Cache".
func TitleFromSlug(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

func CanonicalURL(slug string) string {
	if slug == "" {
		return ""
	}
	return problemURLBase + slug + "/"
}
