package routegen

import (
	"fmt"
	"math"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/pkg/routing"
	"github.com/lithammer/shortuuid/v3"
)

// MaxDistanceKm is the longest run that can be requested. Longer requests are
// rejected before any waypoints are placed.
const MaxDistanceKm = 100.0

// A GenerationRequest asks for routes of about DesiredDistanceKm starting and
// ending at Origin.
type GenerationRequest struct {
	Origin            geo.Coordinate
	DesiredDistanceKm float64
	ToleranceKm       float64
}

func (r GenerationRequest) validate() error {
	if r.DesiredDistanceKm <= 0 || math.IsInf(r.DesiredDistanceKm, 0) || math.IsNaN(r.DesiredDistanceKm) {
		return fmt.Errorf("desired distance must be positive, got %v: %w", r.DesiredDistanceKm, errors.ErrInvalidArgument)
	}
	if r.DesiredDistanceKm > MaxDistanceKm {
		return fmt.Errorf("desired distance %v exceeds %v km: %w", r.DesiredDistanceKm, MaxDistanceKm, errors.ErrInvalidArgument)
	}
	if r.ToleranceKm < 0 || math.IsInf(r.ToleranceKm, 0) || math.IsNaN(r.ToleranceKm) {
		return fmt.Errorf("tolerance must not be negative, got %v: %w", r.ToleranceKm, errors.ErrInvalidArgument)
	}
	if r.ToleranceKm > MaxDistanceKm {
		return fmt.Errorf("tolerance %v exceeds %v km: %w", r.ToleranceKm, MaxDistanceKm, errors.ErrInvalidArgument)
	}
	return nil
}

// A RouteCandidate is a route that can be shown to the user
type RouteCandidate struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Path            geo.Path       `json:"path"`
	DistanceKm      float64        `json:"distance_km"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	Description     string         `json:"description"`
	Source          routing.Source `json:"source"`
}

func newCandidate(name string, res routing.RouteResult) RouteCandidate {
	return RouteCandidate{
		ID:              "route-" + shortuuid.New(),
		Name:            name,
		Path:            res.Path,
		DistanceKm:      res.DistanceKm,
		DurationSeconds: res.DurationSeconds,
		Description:     fmt.Sprintf("A %.1fkm %s starting from your location", res.DistanceKm, name),
		Source:          res.Source,
	}
}
