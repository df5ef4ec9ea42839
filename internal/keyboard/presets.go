package keyboard

import (
	"fmt"
	"math/rand"
	"sort"
)

// PresetNone selects a generated control layout instead of a preset.
const PresetNone = "none"

var presetRows = map[string][][]string{
	"thumbkey-eng-v4": {
		{"\x00\x00\x00\x00s\x00\x00\x00w", "\x00\x00\x00\x00r\x00\x00g\x00", "\x00\x00\x00\x00o\x00u\x00\x00"},
		{"\x00\x00\x00\x00nm\x00\x00\x00", "jqbkhpvxy", "\x00\x00\x00la\x00\x00\x00\x00"},
		{"\x00\x00c\x00t\x00\x00\x00\x00", "\x00f'\x00iz*.-", "d\x00\x00\x00e\x00\x00\x00\x00"},
	},
	"thumbkey-eng-v4-no-symbols": {
		{"\x00\x00\x00\x00s\x00\x00\x00w", "\x00\x00\x00\x00r\x00\x00g\x00", "\x00\x00\x00\x00o\x00u\x00\x00"},
		{"\x00\x00\x00\x00nm\x00\x00\x00", "jqbkhpvxy", "\x00\x00\x00la\x00\x00\x00\x00"},
		{"\x00\x00c\x00t\x00\x00\x00\x00", "\x00f'\x00iz\x00\x00\x00", "d\x00\x00\x00e\x00\x00\x00\x00"},
	},
	"four-column": {
		{"\x00\x00\x00\x00h\x00\x00\x00\x00", "\x00\x00\x00ql\x00\x00w\x00", "\x00\x00\x00kt\x00\x00g\x00", "\x00\x00\x00\x00o\x00\x00\x00\x00"},
		{"\x00\x00\x00\x00nm\x00\x00\x00", "\x00j\x00vi\x00\x00\x00\x00", "\x00y\x00cap\x00\x00\x00", "\x00\x00\x00zs\x00\x00\x00\x00"},
		{"\x00\x00\x00\x00r\x00\x00\x00\x00", "\x00\x00\x00\x00u\x00\x00\x00\x00", "\x00f\x00be\x00\x00\x00\x00", "\x00\x00\x00xd\x00\x00\x00\x00"},
	},
}

// PresetNames lists the built-in presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetRows))
	for name := range presetRows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of a built-in layout.
func Preset(name string) (Grid, error) {
	rows, ok := presetRows[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return ParseGrid(rows)
}

// ReconcilePreset makes a preset and a character set agree. Characters on the preset but missing
// from charset are appended to the returned charset; charset characters missing from the preset
// are added to random free slots. The preset is not modified.
func ReconcilePreset(preset Grid, charset string, seed int64) (Grid, string, error) {
	if err := preset.Validate(); err != nil {
		return nil, "", err
	}
	grid := preset.Clone()
	inCharset := make(map[rune]bool)
	for _, c := range charset {
		inCharset[c] = true
	}
	outCharset := []rune(charset)
	onGrid := make(map[rune]bool)
	for _, c := range grid.Characters() {
		onGrid[c] = true
		if !inCharset[c] {
			outCharset = append(outCharset, c)
			inCharset[c] = true
		}
	}

	rng := rand.New(rand.NewSource(seed))
	columns, rows := grid.Columns(), grid.Rows()
	order := make([]int, columns*rows)
	for i := range order {
		order[i] = i
	}
	for _, c := range charset {
		if onGrid[c] {
			continue
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		placed := false
		for _, i := range order {
			if grid[i/columns][i%columns].TryAddCharacter(c, rng) {
				placed = true
				break
			}
		}
		if !placed {
			return nil, "", fmt.Errorf("%w: no free slot for %q", ErrUnplaceable, c)
		}
		onGrid[c] = true
	}
	return grid, string(outCharset), nil
}
