package keyboard

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"unicode"
)

// maxSwapAttempts bounds the random slot picks of a single swap before falling back to
// exchanging the two Center characters.
const maxSwapAttempts = 256

// Key holds up to nine characters, one per swipe direction. The zero rune marks an empty slot.
type Key [SlotCount]rune

// ParseKey reads a key written row-major as up to nine characters. NUL marks an empty slot.
func ParseKey(s string) (Key, error) {
	var k Key
	runes := []rune(s)
	if len(runes) > SlotCount {
		return k, fmt.Errorf("key %q has %d characters, at most %d fit", s, len(runes), SlotCount)
	}
	seen := make(map[rune]struct{}, len(runes))
	for i, r := range runes {
		if r == 0 {
			continue
		}
		if _, ok := seen[r]; ok {
			return k, fmt.Errorf("key %q: %w: %q", s, ErrDuplicateCharacter, r)
		}
		seen[r] = struct{}{}
		k[i] = r
	}
	return k, nil
}

// MustParseKey is ParseKey for static tables; it panics on malformed input.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsLetter reports whether r may occupy a Center slot.
func IsLetter(r rune) bool {
	return r != 0 && unicode.IsLetter(r)
}

// Distribute places chars into the key in a random order, leaving remaining slots empty, and then
// moves a letter into the Center slot if the shuffle did not put one there.
func (k *Key) Distribute(chars []rune, rng *rand.Rand) error {
	if len(chars) > SlotCount {
		return fmt.Errorf("%w: %d characters for %d slots", ErrUnplaceable, len(chars), SlotCount)
	}
	*k = Key{}
	copy(k[:], chars)
	rng.Shuffle(SlotCount, func(i, j int) { k[i], k[j] = k[j], k[i] })
	if IsLetter(k[Center]) {
		return nil
	}
	for i := range k {
		if IsLetter(k[i]) {
			k[i], k[Center] = k[Center], k[i]
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoLetter, string(chars))
}

// FindDirection returns the slot holding c, or None.
func (k *Key) FindDirection(c rune) Direction {
	if c == 0 {
		return None
	}
	for i, r := range k {
		if r == c {
			return Direction(i)
		}
	}
	return None
}

// Count returns the number of occupied slots.
func (k *Key) Count() int {
	n := 0
	for _, r := range k {
		if r != 0 {
			n++
		}
	}
	return n
}

// Characters returns the occupied slots in slot order.
func (k *Key) Characters() []rune {
	out := make([]rune, 0, SlotCount)
	for _, r := range k {
		if r != 0 {
			out = append(out, r)
		}
	}
	return out
}

// SwapOneCharacterEachWith exchanges one randomly chosen slot of k with one of other. Picks that
// would swap identical characters, or leave either Center without a letter, are rerolled. With
// restrictClasses the two slots must also share a direction class. It reports false when the
// bounded retry fell back to swapping the Center slots.
func (k *Key) SwapOneCharacterEachWith(other *Key, rng *rand.Rand, restrictClasses bool) bool {
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		i := Direction(rng.Intn(SlotCount))
		j := Direction(rng.Intn(SlotCount))
		a, b := k[i], other[j]
		if a == b {
			continue
		}
		if i == Center && !IsLetter(b) {
			continue
		}
		if j == Center && !IsLetter(a) {
			continue
		}
		if restrictClasses && i.Class() != j.Class() {
			continue
		}
		k[i], other[j] = b, a
		return true
	}
	k[Center], other[Center] = other[Center], k[Center]
	return false
}

// RedistributeOptimally reassigns the key's characters so that the most frequent ones occupy
// the most preferred directions. Ties keep slot order. If the pairing would leave a non-letter in
// Center, the Center character is exchanged with the most frequent letter of the key.
func (k *Key) RedistributeOptimally(freq func(rune) int64, prefs *DirectionPreferences) {
	chars := k.Characters()
	if len(chars) == 0 {
		return
	}
	sort.SliceStable(chars, func(a, b int) bool { return freq(chars[a]) > freq(chars[b]) })

	dirs := make([]Direction, SlotCount)
	for i := range dirs {
		dirs[i] = Direction(i)
	}
	sort.SliceStable(dirs, func(a, b int) bool { return prefs[dirs[a]] > prefs[dirs[b]] })

	*k = Key{}
	for i, c := range chars {
		k[dirs[i]] = c
	}
	if IsLetter(k[Center]) {
		return
	}
	for _, c := range chars {
		if !IsLetter(c) {
			continue
		}
		d := k.FindDirection(c)
		k[d], k[Center] = k[Center], k[d]
		return
	}
}

// TryAddCharacter puts c into a random empty slot; non-letters never take the Center slot. It
// reports false when no such slot is free.
func (k *Key) TryAddCharacter(c rune, rng *rand.Rand) bool {
	free := make([]int, 0, SlotCount)
	for i, r := range k {
		if Direction(i) == Center && !IsLetter(c) {
			continue
		}
		if r == 0 {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return false
	}
	k[free[rng.Intn(len(free))]] = c
	return true
}

// Duplicate returns an independent copy.
func (k *Key) Duplicate() Key {
	return *k
}

// OverwriteFrom copies every slot of other into k.
func (k *Key) OverwriteFrom(other *Key) {
	*k = *other
}

// String renders the key row-major with '·' for empty slots.
func (k Key) String() string {
	var b strings.Builder
	for _, r := range k {
		if r == 0 {
			b.WriteRune('·')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
