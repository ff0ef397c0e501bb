package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/ColinToft/RunPlanner/pkg/records"
)

type ListLocationsRequest struct{}

type CreateLocationRequest struct {
	records.NewLocation
}

type ListRoutesRequest struct{}

type CreateRouteRequest struct {
	records.NewRoute
}

type ListTimesRequest struct {
	RouteID string
}

type CreateTimeRequest struct {
	RouteID string
	records.NewTime
}

// created wraps the result of a create call so the transport answers 201.
type created struct {
	V interface{}
}

func (created) StatusCode() int { return http.StatusCreated }

func (c created) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.V)
}
