package routegen

import (
	"context"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/internal/util/pace"
	"github.com/ColinToft/RunPlanner/pkg/routing"
)

type Service interface {
	// Suggest returns up to 3 candidates in strategy order.
	Suggest(ctx context.Context, req GenerationRequest) ([]RouteCandidate, error)

	// Measure routes a path drawn by the user through its points.
	Measure(ctx context.Context, path geo.Path) (routing.RouteResult, error)

	// Pace fills in the missing one of time and pace for a distance.
	Pace(ctx context.Context, distanceKm float64, timeSeconds, paceMinPerKm *float64) (pace.State, error)

	Status(ctx context.Context) Status
}

// Router computes routes. *routing.Client implements it.
type Router interface {
	Route(ctx context.Context, origin, destination geo.Coordinate, intermediates []geo.Coordinate, mode routing.TravelMode) routing.RouteResult
	Available(ctx context.Context) bool
}
