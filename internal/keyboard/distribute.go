package keyboard

import (
	"fmt"
	"math/rand"
	"sort"
)

var (
	cardinalSlots = [...]Direction{Up, Down, Left, Right}
	diagonalSlots = [...]Direction{UpLeft, UpRight, DownLeft, DownRight}
)

// distributeByFrequency gives every key one of the most frequent letters as its Center and deals
// the remaining characters over the keys, cardinal slots first.
func (l *Layout) distributeByFrequency() error {
	e := l.erg
	keys := e.columns * e.rows

	order := make([]int, len(e.charset))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return e.prior[order[a]] > e.prior[order[b]] })

	centers := make([]rune, 0, keys)
	rest := make([]rune, 0, len(order))
	for _, i := range order {
		c := e.charset[i]
		if len(centers) < keys && IsLetter(c) {
			centers = append(centers, c)
			continue
		}
		rest = append(rest, c)
	}
	if len(centers) < keys {
		return fmt.Errorf("%w: %d letters for %d keys", ErrNoLetter, len(centers), keys)
	}

	counts := evenCounts(len(rest), keys)
	for _, n := range counts {
		if n > SlotCount-1 {
			return fmt.Errorf("%w: %d characters for one key", ErrUnplaceable, n+1)
		}
	}
	buckets := make([][]rune, keys)
	k := 0
	for _, c := range rest {
		for len(buckets[k]) >= counts[k] {
			k = (k + 1) % keys
		}
		buckets[k] = append(buckets[k], c)
		k = (k + 1) % keys
	}

	placement := l.rng.Perm(keys)
	for n, pos := range placement {
		keyRng := rand.New(rand.NewSource(l.rng.Int63()))
		fillKey(&l.grid[pos/e.columns][pos%e.columns], centers[n], buckets[n], keyRng)
	}
	return nil
}

func fillKey(k *Key, center rune, chars []rune, rng *rand.Rand) {
	*k = Key{}
	k[Center] = center
	cardinal := cardinalSlots
	diagonal := diagonalSlots
	rng.Shuffle(len(cardinal), func(i, j int) { cardinal[i], cardinal[j] = cardinal[j], cardinal[i] })
	rng.Shuffle(len(diagonal), func(i, j int) { diagonal[i], diagonal[j] = diagonal[j], diagonal[i] })
	for i, c := range chars {
		if i < len(cardinal) {
			k[cardinal[i]] = c
			continue
		}
		k[diagonal[i-len(cardinal)]] = c
	}
}

// distributeRandomly shuffles the charset into one chunk per key, makes sure each chunk holds a
// letter, and lets every key shuffle its own chunk.
func (l *Layout) distributeRandomly() error {
	e := l.erg
	keys := e.columns * e.rows
	chars := append([]rune(nil), e.charset...)
	l.rng.Shuffle(len(chars), func(i, j int) { chars[i], chars[j] = chars[j], chars[i] })

	chunks := make([][]rune, keys)
	start := 0
	for i, n := range evenCounts(len(chars), keys) {
		chunks[i] = chars[start : start+n]
		start += n
	}
	if err := ensureLetters(chunks); err != nil {
		return err
	}
	for i, chunk := range chunks {
		keyRng := rand.New(rand.NewSource(l.rng.Int63()))
		if err := l.grid[i/e.columns][i%e.columns].Distribute(chunk, keyRng); err != nil {
			return err
		}
	}
	return nil
}

// ensureLetters moves letters from chunks holding several into chunks holding none.
func ensureLetters(chunks [][]rune) error {
	letters := func(chunk []rune) int {
		n := 0
		for _, c := range chunk {
			if IsLetter(c) {
				n++
			}
		}
		return n
	}
	for i := range chunks {
		if letters(chunks[i]) > 0 {
			continue
		}
		if len(chunks[i]) == 0 {
			return fmt.Errorf("%w: key %d received no characters", ErrNoLetter, i)
		}
		donated := false
		for j := range chunks {
			if j == i || letters(chunks[j]) < 2 {
				continue
			}
			for d, c := range chunks[j] {
				if IsLetter(c) {
					chunks[j][d], chunks[i][0] = chunks[i][0], c
					donated = true
					break
				}
			}
			break
		}
		if !donated {
			return fmt.Errorf("%w: key %d", ErrNoLetter, i)
		}
	}
	return nil
}

// evenCounts splits total into n counts that differ by at most one. The larger counts are spread
// at even intervals over the indices.
func evenCounts(total, n int) []int {
	counts := make([]int, n)
	base, extra := total/n, total%n
	for i := range counts {
		counts[i] = base
		if (i+1)*extra/n > i*extra/n {
			counts[i]++
		}
	}
	return counts
}
