package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/pkg/records"
	"github.com/ColinToft/RunPlanner/pkg/records/endpoints"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownRoute = "5f0c3f7e-7d8e-4a53-9a38-2c1f0f6d6a11"

// memService keeps records in memory and mirrors the validation of the real service.
type memService struct {
	locations []records.Location
	routes    []records.Route
	times     map[string][]records.RouteTime
}

func (m *memService) ListLocations(context.Context) ([]records.Location, error) {
	return m.locations, nil
}

func (m *memService) CreateLocation(_ context.Context, in records.NewLocation) (records.Location, error) {
	if in.Name == "" || in.Latitude == nil || in.Longitude == nil || in.Type == "" {
		return records.Location{}, fmt.Errorf("missing fields: %w", errors.ErrInvalidArgument)
	}
	l := records.Location{ID: "loc-1", Name: in.Name, Latitude: *in.Latitude, Longitude: *in.Longitude, Type: in.Type}
	m.locations = append(m.locations, l)
	return l, nil
}

func (m *memService) ListRoutes(context.Context) ([]records.Route, error) {
	return m.routes, nil
}

func (m *memService) CreateRoute(_ context.Context, in records.NewRoute) (records.Route, error) {
	if in.Name == "" || in.Distance == nil || len(in.Coordinates) == 0 || in.UserID == "" {
		return records.Route{}, fmt.Errorf("missing fields: %w", errors.ErrInvalidArgument)
	}
	r := records.Route{ID: knownRoute, Name: in.Name, Distance: *in.Distance, UserID: in.UserID, Coordinates: in.Coordinates}
	m.routes = append(m.routes, r)
	return r, nil
}

func (m *memService) ListTimes(_ context.Context, routeID string) ([]records.RouteTime, error) {
	if routeID != knownRoute {
		return nil, errors.ErrNotFound
	}
	return m.times[routeID], nil
}

func (m *memService) CreateTime(_ context.Context, routeID string, in records.NewTime) (records.RouteTime, error) {
	if in.Time == nil {
		return records.RouteTime{}, errors.ErrInvalidArgument
	}
	if routeID != knownRoute {
		return records.RouteTime{}, errors.ErrNotFound
	}
	t := records.RouteTime{ID: "t1", RouteID: routeID, Time: *in.Time, Date: time.Now()}
	m.times[routeID] = append([]records.RouteTime{t}, m.times[routeID]...)
	return t, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	svc := &memService{times: map[string][]records.RouteTime{}}
	srv := httptest.NewServer(NewHTTPHandler(endpoints.NewEndpointSet(svc), log.NewNopLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLocations(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/locations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []records.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	assert.Empty(t, empty)

	resp = do(t, http.MethodPost, srv.URL+"/api/locations", `{"name":"Central Park","latitude":40.78,"longitude":-73.96,"type":"park"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var l records.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&l))
	assert.Equal(t, "Central Park", l.Name)

	resp = do(t, http.MethodPost, srv.URL+"/api/locations", `{"name":"Central Park","type":"park"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/locations", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/routes", `{"name":"Reservoir","distance":2.5,"user_id":"u1","coordinates":[{"latitude":40.78,"longitude":-73.96}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/routes", `{"name":"Reservoir","distance":2.5,"user_id":"u1","coordinates":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/routes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var routes []records.Route
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&routes))
	require.Len(t, routes, 1)
	assert.Len(t, routes[0].Coordinates, 1)
}

func TestRouteTimes(t *testing.T) {
	srv := newTestServer(t)
	timesURL := srv.URL + "/api/routes/" + knownRoute + "/times"

	resp := do(t, http.MethodPost, timesURL, `{"time":1800}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rt records.RouteTime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rt))
	assert.Equal(t, 1800.0, rt.Time)

	resp = do(t, http.MethodGet, timesURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var times []records.RouteTime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&times))
	assert.Len(t, times, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, timesURL, `{}`).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/api/routes/nope/times", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, srv.URL+"/api/routes/nope/times", `{"time":1}`).StatusCode)
}
