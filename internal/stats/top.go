package stats

import "sort"

// TopCharacters returns the n most frequent characters, ties broken by character.
func TopCharacters(freq map[rune]int64, n int) []rune {
	if n <= 0 || len(freq) == 0 {
		return nil
	}
	chars := make([]rune, 0, len(freq))
	for c := range freq {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool {
		if freq[chars[i]] == freq[chars[j]] {
			return chars[i] < chars[j]
		}
		return freq[chars[i]] > freq[chars[j]]
	})
	if n > len(chars) {
		n = len(chars)
	}
	return chars[:n]
}
