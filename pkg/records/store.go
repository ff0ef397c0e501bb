package records

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/ColinToft/RunPlanner/internal/db"
	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/jackc/pgx/v5"
)

// Store is the postgres persistence behind Service.
type Store struct {
	db db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{db: q}
}

func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, latitude, longitude, address, type, created_at
		FROM training_locations
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Latitude, &l.Longitude, &l.Address, &l.Type, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *Store) InsertLocation(ctx context.Context, l Location) (Location, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO training_locations (id, name, description, latitude, longitude, address, type)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, l.ID, l.Name, l.Description, l.Latitude, l.Longitude, l.Address, l.Type)
	if err := row.Scan(&l.CreatedAt); err != nil {
		return Location{}, err
	}
	return l, nil
}

// ListRoutes loads every route with its coordinates in order and its latest time.
func (s *Store) ListRoutes(ctx context.Context) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, distance, user_id, created_at
		FROM routes
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []Route{}
	byID := map[string]int{}
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Distance, &r.UserID, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Coordinates = geo.Path{}
		byID[r.ID] = len(routes)
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return routes, nil
	}

	coords, err := s.db.Query(ctx, `
		SELECT route_id, latitude, longitude
		FROM route_coordinates
		ORDER BY route_id, ord ASC
	`)
	if err != nil {
		return nil, err
	}
	defer coords.Close()
	for coords.Next() {
		var routeID string
		var c geo.Coordinate
		if err := coords.Scan(&routeID, &c.Latitude, &c.Longitude); err != nil {
			return nil, err
		}
		if i, ok := byID[routeID]; ok {
			routes[i].Coordinates = append(routes[i].Coordinates, c)
		}
	}
	if err := coords.Err(); err != nil {
		return nil, err
	}

	latest, err := s.db.Query(ctx, `
		SELECT DISTINCT ON (route_id) id, route_id, time, pace, date
		FROM route_times
		ORDER BY route_id, date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer latest.Close()
	for latest.Next() {
		var t RouteTime
		if err := latest.Scan(&t.ID, &t.RouteID, &t.Time, &t.Pace, &t.Date); err != nil {
			return nil, err
		}
		if i, ok := byID[t.RouteID]; ok {
			routes[i].LatestTime = &t
		}
	}
	return routes, latest.Err()
}

// InsertRoute writes the route and its coordinates in one transaction.
func (s *Store) InsertRoute(ctx context.Context, r Route) (Route, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Route{}, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO routes (id, name, description, distance, user_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, r.ID, r.Name, r.Description, r.Distance, r.UserID)
	if err := row.Scan(&r.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return Route{}, err
	}

	for i, c := range r.Coordinates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO route_coordinates (route_id, ord, latitude, longitude)
			VALUES ($1,$2,$3,$4)
		`, r.ID, i, c.Latitude, c.Longitude); err != nil {
			_ = tx.Rollback(ctx)
			return Route{}, fmt.Errorf("inserting coordinate %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Route{}, err
	}
	return r, nil
}

// RouteDistance returns the distance of a route, or ErrNotFound if it does not exist.
func (s *Store) RouteDistance(ctx context.Context, routeID string) (float64, error) {
	var distance float64
	err := s.db.QueryRow(ctx, `SELECT distance FROM routes WHERE id=$1`, routeID).Scan(&distance)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("route %s: %w", routeID, errors.ErrNotFound)
	}
	return distance, err
}

func (s *Store) ListTimes(ctx context.Context, routeID string) ([]RouteTime, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, time, pace, date
		FROM route_times WHERE route_id=$1
		ORDER BY date DESC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []RouteTime{}
	for rows.Next() {
		var t RouteTime
		if err := rows.Scan(&t.ID, &t.RouteID, &t.Time, &t.Pace, &t.Date); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (s *Store) InsertTime(ctx context.Context, t RouteTime) (RouteTime, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO route_times (id, route_id, time, pace, date)
		VALUES ($1,$2,$3,$4,$5)
	`, t.ID, t.RouteID, t.Time, t.Pace, t.Date)
	if err != nil {
		return RouteTime{}, err
	}
	return t, nil
}
