package routegen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/pkg/routing"
)

// DegreesPerKm converts kilometers to degrees with a flat approximation.
// It is only good enough at the scale of a single run, and it ignores the
// narrowing of longitude degrees away from the equator.
const DegreesPerKm = 0.009

// polygonDegreesPerKm is the coarser factor used by the local fallback polygon.
const polygonDegreesPerKm = 0.01

// maxPolygonVertices bounds the fallback polygon independently of the distance.
const maxPolygonVertices = 360

// Strategy is a way of placing intermediate points around the start.
type Strategy int

const (
	Loop Strategy = iota
	OutAndBack
	Random
)

// Strategies lists every strategy in the order candidates are returned.
var Strategies = []Strategy{Loop, OutAndBack, Random}

func (s Strategy) String() string {
	switch s {
	case Loop:
		return "loop"
	case OutAndBack:
		return "out_and_back"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Name is shown to runners in candidate descriptions.
func (s Strategy) Name() string {
	switch s {
	case Loop:
		return "Loop Route"
	case OutAndBack:
		return "Out and Back"
	case Random:
		return "Neighborhood Route"
	}
	return s.String()
}

// Generator places waypoints. It is not safe for concurrent use since it owns its
// random source; give each goroutine its own Generator.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Waypoints returns the intermediate points for a round trip of about distanceKm
// starting and ending at center. Origin and destination are not included.
func (g *Generator) Waypoints(strategy Strategy, center geo.Coordinate, distanceKm float64) ([]geo.Coordinate, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("invalid center %v: %w", center, errors.ErrInvalidArgument)
	}
	if distanceKm <= 0 || math.IsInf(distanceKm, 0) || math.IsNaN(distanceKm) {
		return nil, fmt.Errorf("invalid distance %v: %w", distanceKm, errors.ErrInvalidArgument)
	}

	var points []geo.Coordinate
	switch strategy {
	case Loop:
		points = g.Loop(center, distanceKm)
	case OutAndBack:
		points = g.OutAndBack(center, distanceKm)
	case Random:
		points = g.Random(center, distanceKm)
	default:
		return nil, fmt.Errorf("unknown strategy %v: %w", strategy, errors.ErrInvalidArgument)
	}

	for _, p := range points {
		if !p.Valid() {
			return nil, fmt.Errorf("%v waypoint %v out of range: %w", strategy, p, errors.ErrInvalidArgument)
		}
	}
	return points, nil
}

// Loop places 4 points on a circle whose circumference is distanceKm.
func (g *Generator) Loop(center geo.Coordinate, distanceKm float64) []geo.Coordinate {
	r := distanceKm / (2 * math.Pi) * DegreesPerKm
	points := make([]geo.Coordinate, 4)
	for i := range points {
		points[i] = offset(center, float64(i)/4*2*math.Pi, r)
	}
	return points
}

// OutAndBack places a single turnaround point half the distance away in a random direction.
func (g *Generator) OutAndBack(center geo.Coordinate, distanceKm float64) []geo.Coordinate {
	r := distanceKm / 2 * DegreesPerKm
	return []geo.Coordinate{offset(center, g.rnd.Float64()*2*math.Pi, r)}
}

// Random scatters one point per kilometer (at least 2, at most
// routing.MaxIntermediates) within DegreesPerKm of center.
func (g *Generator) Random(center geo.Coordinate, distanceKm float64) []geo.Coordinate {
	n := int(math.Min(routing.MaxIntermediates, math.Max(2, math.Floor(distanceKm))))
	points := make([]geo.Coordinate, n)
	for i := range points {
		angle := g.rnd.Float64() * 2 * math.Pi
		r := g.rnd.Float64() * DegreesPerKm
		points[i] = offset(center, angle, r)
	}
	return points
}

// Polygon builds a closed path around center without any routing: one vertex per
// half kilometer (at least 3, at most maxPolygonVertices), starting and ending at center.
func Polygon(center geo.Coordinate, distanceKm float64) geo.Path {
	n := int(math.Min(maxPolygonVertices, math.Max(3, math.Floor(distanceKm/0.5))))
	r := distanceKm / (2 * math.Pi) * polygonDegreesPerKm

	path := make(geo.Path, 0, n+1)
	path = append(path, center)
	for i := 1; i < n; i++ {
		path = append(path, offset(center, float64(i)/float64(n)*2*math.Pi, r))
	}
	return append(path, center)
}

func offset(center geo.Coordinate, angle, r float64) geo.Coordinate {
	return geo.Coordinate{
		Latitude:  center.Latitude + math.Sin(angle)*r,
		Longitude: center.Longitude + math.Cos(angle)*r,
	}
}
