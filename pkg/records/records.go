package records

// Records service implementation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/pace"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

type recordsService struct {
	store  *Store
	logger log.Logger
	now    func() time.Time
}

func NewService(store *Store, logger log.Logger) Service {
	return &recordsService{store: store, logger: logger, now: time.Now}
}

func (s *recordsService) ListLocations(ctx context.Context) ([]Location, error) {
	return s.store.ListLocations(ctx)
}

func (s *recordsService) CreateLocation(ctx context.Context, in NewLocation) (Location, error) {
	if strings.TrimSpace(in.Name) == "" || in.Latitude == nil || in.Longitude == nil || strings.TrimSpace(in.Type) == "" {
		return Location{}, fmt.Errorf("name, latitude, longitude and type are required: %w", errors.ErrInvalidArgument)
	}

	l, err := s.store.InsertLocation(ctx, Location{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Address:     in.Address,
		Type:        in.Type,
	})
	if err != nil {
		level.Error(s.logger).Log("msg", "creating location", "err", err)
		return Location{}, err
	}
	return l, nil
}

func (s *recordsService) ListRoutes(ctx context.Context) ([]Route, error) {
	return s.store.ListRoutes(ctx)
}

func (s *recordsService) CreateRoute(ctx context.Context, in NewRoute) (Route, error) {
	if strings.TrimSpace(in.Name) == "" || in.Distance == nil || len(in.Coordinates) == 0 || strings.TrimSpace(in.UserID) == "" {
		return Route{}, fmt.Errorf("name, distance, coordinates and user_id are required: %w", errors.ErrInvalidArgument)
	}
	for i, c := range in.Coordinates {
		if !c.Valid() {
			return Route{}, fmt.Errorf("coordinate %d %v: %w", i, c, errors.ErrInvalidArgument)
		}
	}

	r, err := s.store.InsertRoute(ctx, Route{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Distance:    *in.Distance,
		UserID:      in.UserID,
		Coordinates: in.Coordinates,
	})
	if err != nil {
		level.Error(s.logger).Log("msg", "creating route", "err", err)
		return Route{}, err
	}
	return r, nil
}

func (s *recordsService) ListTimes(ctx context.Context, routeID string) ([]RouteTime, error) {
	if err := validRouteID(routeID); err != nil {
		return nil, err
	}
	if _, err := s.store.RouteDistance(ctx, routeID); err != nil {
		return nil, err
	}
	return s.store.ListTimes(ctx, routeID)
}

func (s *recordsService) CreateTime(ctx context.Context, routeID string, in NewTime) (RouteTime, error) {
	if in.Time == nil {
		return RouteTime{}, fmt.Errorf("time is required: %w", errors.ErrInvalidArgument)
	}
	if err := validRouteID(routeID); err != nil {
		return RouteTime{}, err
	}

	distance, err := s.store.RouteDistance(ctx, routeID)
	if err != nil {
		return RouteTime{}, err
	}

	t := RouteTime{
		ID:      uuid.NewString(),
		RouteID: routeID,
		Time:    *in.Time,
		Date:    s.now().UTC(),
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	if distance > 0 {
		p := pace.PaceFromTime(t.Time, distance)
		t.Pace = &p
	}

	t, err = s.store.InsertTime(ctx, t)
	if err != nil {
		level.Error(s.logger).Log("msg", "recording time", "route", routeID, "err", err)
		return RouteTime{}, err
	}
	return t, nil
}

// Route ids are UUIDs; anything else cannot name a stored route.
func validRouteID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("route %q: %w", id, errors.ErrNotFound)
	}
	return nil
}
