package keyboard_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/thumbkey/internal/keyboard"
)

func TestWeightsScoreStaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		w, err := keyboard.NewWeights(rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()+0.01)
		require.NoError(t, err)
		terms := keyboard.Terms{
			Distance:               rng.Float64(),
			Trajectory:             rng.Float64(),
			HandAlternation:        rng.Float64(),
			HandCollisionAvoidance: rng.Float64(),
			Positional:             rng.Float64(),
			SwipeDirection:         rng.Float64(),
		}
		s := w.Score(terms)
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0+1e-12)
	}
}

func TestWeightsScoreIsWeightedMean(t *testing.T) {
	w, err := keyboard.NewWeights(1, 3, 0, 0, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.25, w.Score(keyboard.Terms{Distance: 1}), 1e-12)
	require.InDelta(t, 0.75, w.Score(keyboard.Terms{Trajectory: 1}), 1e-12)
	require.InDelta(t, 1.0, w.Score(keyboard.Terms{Distance: 1, Trajectory: 1, Positional: 1}), 1e-12)
}

func TestNewWeightsRejectsInvalidCoefficients(t *testing.T) {
	_, err := keyboard.NewWeights(0, 0, 0, 0, 0, 0)
	require.Error(t, err)

	_, err = keyboard.NewWeights(1, -0.5, 0, 0, 0, 0)
	require.Error(t, err)
}

func TestKeySpecificPreferencesFavourInwardDirections(t *testing.T) {
	base := keyboard.ClassPreferences(1, 0.4, 0.2)
	prefs := keyboard.KeySpecificPreferences(base, 3, 3, 0.1)

	topLeft := prefs[0][0]
	require.Greater(t, topLeft[keyboard.Right], topLeft[keyboard.Left])
	require.Greater(t, topLeft[keyboard.Down], topLeft[keyboard.Up])
	require.Greater(t, topLeft[keyboard.DownRight], topLeft[keyboard.UpRight])
	require.InDelta(t, 1.0, topLeft[keyboard.Center], 1e-12)

	leftEdge := prefs[1][0]
	require.Greater(t, leftEdge[keyboard.UpRight], leftEdge[keyboard.UpLeft])
	require.InDelta(t, leftEdge[keyboard.Up], leftEdge[keyboard.Down], 1e-12)

	middle := prefs[1][1]
	for d := keyboard.Direction(0); d < keyboard.SlotCount; d++ {
		if d == keyboard.Center {
			continue
		}
		require.InDelta(t, base[d]/1.1, middle[d], 1e-12, "%s", d)
	}

	for _, row := range prefs {
		for _, p := range row {
			require.NoError(t, p.Validate())
		}
	}
}

func TestPositionPreferencesValidateShape(t *testing.T) {
	require.NoError(t, keyboard.DefaultPositionPreferences(3, 3).Validate(3, 3))
	require.NoError(t, keyboard.DefaultPositionPreferences(4, 3).Validate(4, 3))
	require.NoError(t, keyboard.DefaultPositionPreferences(4, 4).Validate(4, 4))
	require.Nil(t, keyboard.DefaultPositionPreferences(5, 2))

	err := keyboard.DefaultPositionPreferences(3, 3).Validate(4, 3)
	require.ErrorIs(t, err, keyboard.ErrPreferenceShape)
}

func TestWhichThumb(t *testing.T) {
	require.Equal(t, keyboard.LeftThumb, keyboard.WhichThumb(keyboard.RightThumb, 0, 3))
	require.Equal(t, keyboard.RightThumb, keyboard.WhichThumb(keyboard.LeftThumb, 2, 3))
	require.Equal(t, keyboard.LeftThumb, keyboard.WhichThumb(keyboard.RightThumb, 1, 3))
	require.Equal(t, keyboard.RightThumb, keyboard.WhichThumb(keyboard.LeftThumb, 1, 3))

	require.Equal(t, keyboard.LeftThumb, keyboard.WhichThumb(keyboard.LeftThumb, 1, 4))
	require.Equal(t, keyboard.RightThumb, keyboard.WhichThumb(keyboard.RightThumb, 2, 4))
}
