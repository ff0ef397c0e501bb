package routegen

// Route generation service implementation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/internal/util/pace"
	"github.com/ColinToft/RunPlanner/pkg/routing"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// fallbackJitterKm bounds how far the fallback routes stray from the desired distance.
const fallbackJitterKm = 0.3

type routeGenService struct {
	router Router
	logger log.Logger

	// rnd seeds the per-request generators.
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewService(router Router, rnd *rand.Rand, logger log.Logger) Service {
	return &routeGenService{router: router, rnd: rnd, logger: logger}
}

func (s *routeGenService) Suggest(ctx context.Context, req GenerationRequest) ([]RouteCandidate, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Seeds are drawn up front so the strategies share no random source.
	seeds := s.seeds(len(Strategies) + 1)

	results := make([]*RouteCandidate, len(Strategies))
	var g errgroup.Group
	for i, strategy := range Strategies {
		g.Go(func() error {
			target := req.DesiredDistanceKm + float64(i-1)*req.ToleranceKm/2
			gen := NewGenerator(rand.New(rand.NewSource(seeds[i])))

			points, err := gen.Waypoints(strategy, req.Origin, target)
			if err != nil {
				level.Warn(s.logger).Log("msg", "dropping strategy", "strategy", strategy, "target_km", target, "err", err)
				return nil
			}

			res := s.router.Route(ctx, req.Origin, req.Origin, points, routing.TravelModeWalk)
			c := newCandidate(strategy.Name(), res)
			results[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	candidates := make([]RouteCandidate, 0, len(results))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	if len(candidates) > 0 {
		level.Debug(s.logger).Log("msg", "suggested routes", "count", len(candidates), "origin", req.Origin)
		return candidates, nil
	}

	level.Warn(s.logger).Log("msg", "every strategy failed, using local fallback routes", "origin", req.Origin)
	return fallback(req, rand.New(rand.NewSource(seeds[len(Strategies)])))
}

// fallback builds up to 3 polygon routes around the origin without any routing.
func fallback(req GenerationRequest, rnd *rand.Rand) ([]RouteCandidate, error) {
	if !req.Origin.Valid() {
		return nil, fmt.Errorf("origin %v: %w", req.Origin, errors.ErrNoRoutes)
	}

	targets := []struct {
		name string
		km   float64
	}{
		{"Park Loop", req.DesiredDistanceKm - rnd.Float64()*fallbackJitterKm},
		{"Neighborhood Route", req.DesiredDistanceKm},
		{"Scenic Path", req.DesiredDistanceKm + rnd.Float64()*fallbackJitterKm},
	}

	candidates := make([]RouteCandidate, 0, len(targets))
outer:
	for _, t := range targets {
		if t.km <= 0 {
			continue
		}
		path := Polygon(req.Origin, t.km)
		for _, p := range path {
			if !p.Valid() {
				continue outer
			}
		}
		candidates = append(candidates, newCandidate(t.name, routing.RouteResult{
			Path:       path,
			DistanceKm: geo.PathLength(path),
			Source:     routing.Approximated,
			Reason:     "local fallback",
		}))
	}

	if len(candidates) == 0 {
		return nil, errors.ErrNoRoutes
	}
	return candidates, nil
}

func (s *routeGenService) Measure(ctx context.Context, path geo.Path) (routing.RouteResult, error) {
	if len(path) < 2 {
		return routing.RouteResult{}, fmt.Errorf("a route needs at least 2 points, got %d: %w", len(path), errors.ErrInvalidArgument)
	}
	for _, p := range path {
		if !p.Valid() {
			return routing.RouteResult{}, fmt.Errorf("invalid coordinate %v: %w", p, errors.ErrInvalidArgument)
		}
	}

	last := len(path) - 1
	return s.router.Route(ctx, path[0], path[last], path[1:last], routing.TravelModeWalk), nil
}

func (s *routeGenService) Pace(_ context.Context, distanceKm float64, timeSeconds, paceMinPerKm *float64) (pace.State, error) {
	if distanceKm <= 0 {
		return pace.State{}, fmt.Errorf("distance must be positive: %w", errors.ErrInvalidArgument)
	}
	switch {
	case timeSeconds != nil && *timeSeconds > 0:
		return pace.FromTime(distanceKm, *timeSeconds), nil
	case paceMinPerKm != nil && *paceMinPerKm > 0:
		return pace.FromPace(distanceKm, *paceMinPerKm), nil
	}
	return pace.State{}, fmt.Errorf("a positive time or pace is required: %w", errors.ErrInvalidArgument)
}

func (s *routeGenService) Status(ctx context.Context) Status {
	return Status{RoutingAvailable: s.router.Available(ctx)}
}

func (s *routeGenService) seeds(n int) []int64 {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()

	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = s.rnd.Int63()
	}
	return seeds
}
