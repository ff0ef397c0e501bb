package records

import (
	"context"
	"time"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
)

// Service stores the places runners train at, the routes they saved and the times
// they ran them in.
type Service interface {
	ListLocations(ctx context.Context) ([]Location, error)
	CreateLocation(ctx context.Context, in NewLocation) (Location, error)

	ListRoutes(ctx context.Context) ([]Route, error)
	CreateRoute(ctx context.Context, in NewRoute) (Route, error)

	// ListTimes returns the times for a route, most recent first.
	ListTimes(ctx context.Context, routeID string) ([]RouteTime, error)
	CreateTime(ctx context.Context, routeID string, in NewTime) (RouteTime, error)
}

type Location struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     *string   `json:"address"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLocation is the input for CreateLocation. Pointer fields distinguish a
// missing value from zero.
type NewLocation struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     *string  `json:"address"`
	Type        string   `json:"type"`
}

type Route struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Distance    float64   `json:"distance"`
	UserID      string    `json:"user_id"`
	Coordinates geo.Path  `json:"coordinates"`
	CreatedAt   time.Time `json:"created_at"`

	// LatestTime is the most recent recorded time, if any.
	LatestTime *RouteTime `json:"latest_time,omitempty"`
}

type NewRoute struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Distance    *float64 `json:"distance"`
	Coordinates geo.Path `json:"coordinates"`
	UserID      string   `json:"user_id"`
}

type RouteTime struct {
	ID      string  `json:"id"`
	RouteID string  `json:"route_id"`
	Time    float64 `json:"time"`
	// Pace in minutes per kilometer. Null for routes without a distance.
	Pace *float64  `json:"pace"`
	Date time.Time `json:"date"`
}

type NewTime struct {
	Time *float64   `json:"time"`
	Date *time.Time `json:"date"`
}
