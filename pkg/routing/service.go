package routing

import (
	"context"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
)

// TravelMode is the routing service's travel mode.
type TravelMode string

const (
	TravelModeWalk    TravelMode = "WALK"
	TravelModeBicycle TravelMode = "BICYCLE"
	TravelModeDrive   TravelMode = "DRIVE"
)

// Source records where a result's path and distance came from.
type Source string

const (
	// Routed results were computed by the external routing service.
	Routed Source = "routed"
	// Approximated results were built locally from straight-line segments.
	Approximated Source = "approximated"
)

// RouteResult is what Client.Route returns. Callers switch on Source.
type RouteResult struct {
	Path            geo.Path `json:"path"`
	DistanceKm      float64  `json:"distance_km"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	Source          Source   `json:"source"`

	// Reason is set on approximated results.
	Reason string `json:"reason,omitempty"`
}

// MaxIntermediates is the most intermediate waypoints the routing service
// accepts in one request.
const MaxIntermediates = 25

// Request is a single route computation against a Backend.
type Request struct {
	Origin        geo.Coordinate
	Destination   geo.Coordinate
	Intermediates []geo.Coordinate
	TravelMode    TravelMode
}

// Response holds zero or more routes, best first.
type Response struct {
	Routes []Route
}

type Route struct {
	DistanceMeters  int
	DurationSeconds float64
	// EncodedPolyline may be empty.
	EncodedPolyline string
}

// Backend talks to the external routing service.
type Backend interface {
	// Probe issues a cheap request to check the service is reachable and authorized.
	Probe(ctx context.Context) error
	ComputeRoutes(ctx context.Context, req Request) (*Response, error)
}

// Cache stores serialized routed results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
