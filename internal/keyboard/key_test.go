package keyboard_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

func sortedRunes(rs []rune) []rune {
	out := append([]rune(nil), rs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestDistributePutsLetterInCenter(t *testing.T) {
	inputs := []string{"a", "'-.a", "abc", "*.-'!?,;x", "xyz'"}
	for _, in := range inputs {
		for seed := int64(0); seed < 50; seed++ {
			var k keyboard.Key
			require.NoError(t, k.Distribute([]rune(in), rand.New(rand.NewSource(seed))))
			require.True(t, keyboard.IsLetter(k[keyboard.Center]), "key %s", k)
			require.Equal(t, sortedRunes([]rune(in)), sortedRunes(k.Characters()))
		}
	}
}

func TestDistributeIsDeterministic(t *testing.T) {
	var a, b keyboard.Key
	require.NoError(t, a.Distribute([]rune("abcdefg"), rand.New(rand.NewSource(7))))
	require.NoError(t, b.Distribute([]rune("abcdefg"), rand.New(rand.NewSource(7))))
	require.Equal(t, a, b)
}

func TestDistributeRejectsInvalidInput(t *testing.T) {
	var k keyboard.Key
	err := k.Distribute([]rune("'-.,"), rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, keyboard.ErrNoLetter)

	err = k.Distribute([]rune("abcdefghij"), rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, keyboard.ErrUnplaceable)
}

func TestFindDirection(t *testing.T) {
	k := keyboard.MustParseKey("\x00\x00c\x00t\x00\x00\x00\x00")
	require.Equal(t, keyboard.Center, k.FindDirection('t'))
	require.Equal(t, keyboard.UpRight, k.FindDirection('c'))
	require.Equal(t, keyboard.None, k.FindDirection('z'))
	require.Equal(t, keyboard.None, k.FindDirection(0))
}

func TestParseKeyRejectsDuplicates(t *testing.T) {
	_, err := keyboard.ParseKey("aba")
	require.ErrorIs(t, err, keyboard.ErrDuplicateCharacter)

	_, err = keyboard.ParseKey("abcdefghij")
	require.Error(t, err)
}

func TestSwapKeepsCharactersAndCenters(t *testing.T) {
	for _, restrict := range []bool{false, true} {
		rng := rand.New(rand.NewSource(3))
		var a, b keyboard.Key
		require.NoError(t, a.Distribute([]rune("abc'-"), rng))
		require.NoError(t, b.Distribute([]rune("defg.,"), rng))
		before := sortedRunes(append(a.Characters(), b.Characters()...))

		for i := 0; i < 1000; i++ {
			a.SwapOneCharacterEachWith(&b, rng, restrict)
			require.True(t, keyboard.IsLetter(a[keyboard.Center]))
			require.True(t, keyboard.IsLetter(b[keyboard.Center]))
			require.Equal(t, before, sortedRunes(append(a.Characters(), b.Characters()...)))
		}
	}
}

func TestSwapWithRestrictedClassesKeepsClassContents(t *testing.T) {
	classContents := func(keys ...*keyboard.Key) map[keyboard.DirectionClass][]rune {
		out := map[keyboard.DirectionClass][]rune{}
		for _, k := range keys {
			for d, c := range k {
				if c != 0 {
					cls := keyboard.Direction(d).Class()
					out[cls] = append(out[cls], c)
				}
			}
		}
		for cls := range out {
			out[cls] = sortedRunes(out[cls])
		}
		return out
	}

	rng := rand.New(rand.NewSource(11))
	a := keyboard.MustParseKey("wx\x00ya\x00\x00\x00\x00")
	b := keyboard.MustParseKey("\x00\x00\x00\x00bz\x00\x00q")
	before := classContents(&a, &b)
	for i := 0; i < 200; i++ {
		a.SwapOneCharacterEachWith(&b, rng, true)
		require.Equal(t, before, classContents(&a, &b))
	}
}

func TestSwapFallsBackToCenters(t *testing.T) {
	// Only the Center slots can ever be exchanged between these keys.
	a := keyboard.MustParseKey("\x00\x00\x00\x00a\x00\x00\x00\x00")
	b := keyboard.MustParseKey("\x00\x00\x00\x00b\x00\x00\x00\x00")
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		a.SwapOneCharacterEachWith(&b, rng, true)
		require.Equal(t, 1, a.Count())
		require.Equal(t, 1, b.Count())
		require.NotEqual(t, keyboard.None, a.FindDirection(a[keyboard.Center]))
	}
}

func TestRedistributeOptimally(t *testing.T) {
	freq := map[rune]int64{'e': 100, 't': 90, 'a': 80, 'o': 70, 'i': 60, 'z': 1}
	k := keyboard.MustParseKey("zeta\x00oi\x00\x00")
	prefs := keyboard.ClassPreferences(1, 0.4, 0)
	k.RedistributeOptimally(func(c rune) int64 { return freq[c] }, &prefs)

	require.Equal(t, 'e', k[keyboard.Center])
	for _, c := range []rune("taoi") {
		require.Equal(t, keyboard.ClassCardinal, k.FindDirection(c).Class(), "%q", c)
	}
	require.Equal(t, keyboard.ClassDiagonal, k.FindDirection('z').Class())
}

func TestRedistributeKeepsLetterInCenter(t *testing.T) {
	freq := map[rune]int64{'\'': 500, 'a': 1}
	k := keyboard.MustParseKey("'\x00\x00\x00a\x00\x00\x00\x00")
	prefs := keyboard.ClassPreferences(1, 0.4, 0)
	k.RedistributeOptimally(func(c rune) int64 { return freq[c] }, &prefs)

	require.Equal(t, 'a', k[keyboard.Center])
	require.Equal(t, keyboard.ClassCardinal, k.FindDirection('\'').Class())
}

func TestTryAddCharacter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	k := keyboard.MustParseKey("abcd\x00fghi")
	require.False(t, k.TryAddCharacter('-', rng), "non-letters must not take the Center slot")
	require.True(t, k.TryAddCharacter('e', rng))
	require.Equal(t, keyboard.Center, k.FindDirection('e'))
	require.False(t, k.TryAddCharacter('x', rng))
}

func TestDuplicateAndOverwriteAreIndependent(t *testing.T) {
	a := keyboard.MustParseKey("\x00\x00\x00\x00a\x00\x00\x00b")
	dup := a.Duplicate()
	dup[keyboard.Up] = 'c'
	require.Equal(t, rune(0), a[keyboard.Up])

	var b keyboard.Key
	b.OverwriteFrom(&a)
	require.Equal(t, a, b)
	b[keyboard.Center] = 'z'
	require.Equal(t, 'a', a[keyboard.Center])
}

func TestDirectionClassesAndAngles(t *testing.T) {
	require.Equal(t, keyboard.ClassCenter, keyboard.Center.Class())
	for _, d := range []keyboard.Direction{keyboard.Up, keyboard.Down, keyboard.Left, keyboard.Right} {
		require.Equal(t, keyboard.ClassCardinal, d.Class(), d.String())
	}
	for _, d := range []keyboard.Direction{keyboard.UpLeft, keyboard.UpRight, keyboard.DownLeft, keyboard.DownRight} {
		require.Equal(t, keyboard.ClassDiagonal, d.Class(), d.String())
	}
	require.InDelta(t, 0, keyboard.Right.Angle(), 1e-12)
	require.InDelta(t, math.Pi/2, keyboard.Up.Angle(), 1e-12)
	require.InDelta(t, -3*math.Pi/4, keyboard.DownLeft.Angle(), 1e-12)
	require.False(t, keyboard.None.Valid())
	require.Equal(t, "none", keyboard.None.String())
	require.Equal(t, keyboard.RightThumb, keyboard.LeftThumb.Opposite())
	require.Equal(t, keyboard.LeftThumb, keyboard.RightThumb.Opposite())
}
