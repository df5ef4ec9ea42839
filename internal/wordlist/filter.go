package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return func(word string) bool { return word != "" }
	}
}

// FilterForCharset keeps words whose lowercased characters are all in charset.
func FilterForCharset(charset string) FilterFunc {
	allowed := make(map[rune]struct{}, len(charset))
	for _, c := range charset {
		allowed[c] = struct{}{}
	}
	return func(word string) bool {
		if word == "" {
			return false
		}
		for _, r := range word {
			if _, ok := allowed[unicode.ToLower(r)]; !ok {
				return false
			}
		}
		return true
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if (ch < 'a' || ch > 'z') && ch != '\'' {
			return false
		}
	}
	return true
}
