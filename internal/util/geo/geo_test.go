package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     Coordinate
		expected float64
		margin   float64
	}{
		{"central park", Coordinate{40.785091, -73.968285}, Coordinate{40.801826, -73.972204}, 1.87, 0.05},
		{"berlin tv tower to brandenburg gate", Coordinate{52.5208, 13.4094}, Coordinate{52.5163, 13.3777}, 2.2, 0.11},
		{"new york to los angeles", Coordinate{40.7128, -74.0060}, Coordinate{34.0522, -118.2437}, 3940, 197},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Distance(tc.a, tc.b), tc.margin)
		})
	}
}

func TestDistanceSamePointIsZero(t *testing.T) {
	for _, c := range []Coordinate{{0, 0}, {40.7128, -74.0060}, {-33.8688, 151.2093}, {90, 180}} {
		assert.Equal(t, 0.0, Distance(c, c))
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	points := []Coordinate{{40.7128, -74.0060}, {51.5074, -0.1278}, {-6.2, 106.816}, {35.6762, 139.6503}}
	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, Distance(a, b), Distance(b, a))
		}
	}
}

func TestPathLength(t *testing.T) {
	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength(Path{}))
	assert.Equal(t, 0.0, PathLength(Path{{52.52, 13.405}}))

	// Rough square in Berlin, ~15.8 km perimeter.
	square := Path{
		{52.52, 13.40},
		{52.52, 13.45},
		{52.56, 13.45},
		{52.56, 13.40},
		{52.52, 13.40},
	}
	assert.InDelta(t, 15.8, PathLength(square), 1.58)
}

func TestPathLengthDuplicatePointsAddNothing(t *testing.T) {
	a := Coordinate{40.785091, -73.968285}
	b := Coordinate{40.801826, -73.972204}
	assert.InDelta(t, Distance(a, b), PathLength(Path{a, a, b, b}), 1e-12)
}

func TestPathLengthOrder(t *testing.T) {
	p := Path{{40.70, -74.00}, {40.75, -73.98}, {40.72, -73.95}, {40.71, -74.01}}
	assert.InDelta(t, PathLength(p), PathLength(p.Reversed()), 1e-9)

	shuffled := Path{p[0], p[2], p[1], p[3]}
	assert.NotEqual(t, math.Round(PathLength(p)*1e6), math.Round(PathLength(shuffled)*1e6))
}

func TestValid(t *testing.T) {
	assert.True(t, Coordinate{0, 0}.Valid())
	assert.True(t, Coordinate{-90, 180}.Valid())
	assert.False(t, Coordinate{90.1, 0}.Valid())
	assert.False(t, Coordinate{0, -180.5}.Valid())
	assert.False(t, Coordinate{math.NaN(), 0}.Valid())
	assert.False(t, Coordinate{0, math.Inf(1)}.Valid())
}
