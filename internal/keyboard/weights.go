package keyboard

import (
	"errors"
	"fmt"
)

// Terms are the six sub-scores of one simulated input, each in [0,1].
type Terms struct {
	Distance               float64
	Trajectory             float64
	HandAlternation        float64
	HandCollisionAvoidance float64
	Positional             float64
	SwipeDirection         float64
}

// Weights combines Terms into a single normalized score. It is read-only after construction.
type Weights struct {
	distance               float64
	trajectory             float64
	handAlternation        float64
	handCollisionAvoidance float64
	positional             float64
	swipeDirection         float64
	reciprocalSum          float64
}

// NewWeights validates the six coefficients.
func NewWeights(distance, trajectory, handAlternation, handCollisionAvoidance, positional, swipeDirection float64) (Weights, error) {
	coeffs := []float64{distance, trajectory, handAlternation, handCollisionAvoidance, positional, swipeDirection}
	sum := 0.0
	for _, c := range coeffs {
		if c < 0 {
			return Weights{}, fmt.Errorf("fitness weights must be >= 0, got %v", c)
		}
		sum += c
	}
	if sum == 0 {
		return Weights{}, errors.New("fitness weights must not all be zero")
	}
	return Weights{
		distance:               distance,
		trajectory:             trajectory,
		handAlternation:        handAlternation,
		handCollisionAvoidance: handCollisionAvoidance,
		positional:             positional,
		swipeDirection:         swipeDirection,
		reciprocalSum:          1 / sum,
	}, nil
}

// Score returns the weighted mean of t.
func (w Weights) Score(t Terms) float64 {
	return (t.Distance*w.distance +
		t.Trajectory*w.trajectory +
		t.HandAlternation*w.handAlternation +
		t.HandCollisionAvoidance*w.handCollisionAvoidance +
		t.Positional*w.positional +
		t.SwipeDirection*w.swipeDirection) * w.reciprocalSum
}
