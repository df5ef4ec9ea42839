package keyboard

const frequencyScale = 100000

// EnglishFrequencies is the prior used to seed layouts before any text has been typed. Values are
// percentages of English letter usage scaled to integers.
var EnglishFrequencies = map[rune]int64{
	'a': int64(8.2 * frequencyScale),
	'b': int64(1.5 * frequencyScale),
	'c': int64(2.8 * frequencyScale),
	'd': int64(4.3 * frequencyScale),
	'e': int64(13.0 * frequencyScale),
	'f': int64(2.2 * frequencyScale),
	'g': int64(2.0 * frequencyScale),
	'h': int64(6.1 * frequencyScale),
	'i': int64(7.0 * frequencyScale),
	'j': int64(0.15 * frequencyScale),
	'k': int64(0.77 * frequencyScale),
	'l': int64(4.0 * frequencyScale),
	'm': int64(2.4 * frequencyScale),
	'n': int64(6.7 * frequencyScale),
	'o': int64(7.5 * frequencyScale),
	'p': int64(1.9 * frequencyScale),
	'q': int64(0.095 * frequencyScale),
	'r': int64(6.0 * frequencyScale),
	's': int64(6.3 * frequencyScale),
	't': int64(9.1 * frequencyScale),
	'u': int64(2.8 * frequencyScale),
	'v': int64(0.98 * frequencyScale),
	'w': int64(2.4 * frequencyScale),
	'x': int64(0.15 * frequencyScale),
	'y': int64(2.0 * frequencyScale),
	'z': int64(0.074 * frequencyScale),
}
