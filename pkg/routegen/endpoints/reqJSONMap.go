package endpoints

import (
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/internal/util/pace"
	"github.com/ColinToft/RunPlanner/pkg/routegen"
	"github.com/ColinToft/RunPlanner/pkg/routing"
)

// Suggestions can be returned in these formats
const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatGPX     = "gpx"
)

// Defaults used when a suggest request leaves the distance fields out
const (
	DefaultDistanceKm  = 5.0
	DefaultToleranceKm = 0.5
)

// A request to suggest routes around a location
type SuggestRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`

	// The desired route length and how far the suggestions may spread from it
	DistanceKm  float64 `json:"distance_km"`
	ToleranceKm float64 `json:"tolerance_km"`

	// One of json, geojson or gpx. Defaults to json.
	Format string `json:"format,omitempty"`
}

// Result of a route suggestion
type SuggestResponse struct {
	Routes []routegen.RouteCandidate `json:"routes"`

	Format string `json:"-"`
}

// A request to route a path drawn by the user
type MeasureRequest struct {
	Coordinates geo.Path `json:"coordinates"`
}

type MeasureResponse struct {
	routing.RouteResult
}

// A request to convert between time and pace. Exactly one of TimeSeconds and
// PaceMinPerKm is expected.
type PaceRequest struct {
	DistanceKm   float64
	TimeSeconds  *float64
	PaceMinPerKm *float64
}

type PaceResponse struct {
	pace.State
	Time string `json:"time"`
	Pace string `json:"pace"`
}

type StatusRequest struct{}

type StatusResponse struct {
	routegen.Status
}
