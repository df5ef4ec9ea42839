package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestNormalizedAngleDifferenceKnownValues(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{-math.Pi, math.Pi, 0},
		{0, math.Pi, 1},
		{0, math.Pi / 2, 0.5},
		{0, math.Pi / 4, 0.25},
		{-math.Pi, math.Pi / 4, 0.75},
		{-math.Pi, 0, 1},
		{-math.Pi, -math.Pi / 2, 0.5},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, NormalizedAngleDifference(tc.a, tc.b), tolerance, "a=%v b=%v", tc.a, tc.b)
	}
}

func TestNormalizedAngleDifferenceProperties(t *testing.T) {
	for a := -3 * math.Pi; a <= 3*math.Pi; a += 0.37 {
		require.InDelta(t, 0, NormalizedAngleDifference(a, a), tolerance)
		require.InDelta(t, 1, NormalizedAngleDifference(a, a+math.Pi), tolerance)
		for b := -math.Pi; b <= math.Pi; b += 0.53 {
			d := NormalizedAngleDifference(a, b)
			require.InDelta(t, d, NormalizedAngleDifference(b, a), tolerance)
			require.GreaterOrEqual(t, d, -tolerance)
			require.LessOrEqual(t, d, 1+tolerance)
		}
	}
}

func TestVectorUsesScreenOrientation(t *testing.T) {
	from := Coord{X: 1, Y: 2}
	x, y := from.Vector(Coord{X: 1, Y: 0})
	require.Equal(t, 0.0, x)
	require.Equal(t, 2.0, y)
	require.InDelta(t, math.Pi/2, AngleFromVector(x, y), tolerance)
	require.InDelta(t, math.Sqrt(2), Coord{}.Distance(Coord{X: 1, Y: 1}), tolerance)
}

func TestCoordSub(t *testing.T) {
	require.Equal(t, Coord{X: -2, Y: 3}, Coord{X: 1, Y: 4}.Sub(Coord{X: 3, Y: 1}))
	require.Equal(t, Coord{}, Coord{X: 2, Y: 2}.Sub(Coord{X: 2, Y: 2}))
}

func TestPointRoundAndVector(t *testing.T) {
	p := Point{X: 1.5, Y: 3}
	require.Equal(t, Coord{X: 2, Y: 3}, p.Round())

	x, y := Coord{X: 0, Y: 1}.Point().Vector(p)
	require.InDelta(t, 1.5, x, 1e-12)
	require.InDelta(t, -2.0, y, 1e-12)
}
