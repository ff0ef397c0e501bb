package routing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/internal/util/polyline"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-kit/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	probeErr error
	// errs are returned by successive ComputeRoutes calls before resp is returned.
	errs  []error
	resp  *Response
	block bool
	panic bool

	probes int32
	calls  int32
}

func (f *fakeBackend) Probe(ctx context.Context) error {
	atomic.AddInt32(&f.probes, 1)
	return f.probeErr
}

func (f *fakeBackend) ComputeRoutes(ctx context.Context, req Request) (*Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.panic {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if int(n) <= len(f.errs) {
		return nil, f.errs[n-1]
	}
	return f.resp, nil
}

var (
	origin      = geo.Coordinate{Latitude: 40.7829, Longitude: -73.9654}
	destination = geo.Coordinate{Latitude: 40.7829, Longitude: -73.9654}
	loopPoints  = []geo.Coordinate{
		{Latitude: 40.7829, Longitude: -73.9564},
		{Latitude: 40.7919, Longitude: -73.9654},
		{Latitude: 40.7829, Longitude: -73.9744},
	}
)

func testConfig() Config {
	return Config{
		ProbeTimeout:   time.Second,
		RequestTimeout: time.Second,
		MaxRetries:     1,
		RetryInterval:  time.Millisecond,
	}
}

func expectedApproximation() geo.Path {
	p := geo.Path{origin}
	p = append(p, loopPoints...)
	return append(p, destination)
}

func TestRouteProbeFailureApproximates(t *testing.T) {
	backend := &fakeBackend{probeErr: errors.New("unreachable")}
	c := NewClient(backend, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Equal(t, Approximated, res.Source)
	assert.Equal(t, expectedApproximation(), res.Path)
	assert.Equal(t, geo.PathLength(expectedApproximation()), res.DistanceKm)
	assert.Equal(t, "probe failed", res.Reason)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.calls))
}

func TestRouteWithEncodedPath(t *testing.T) {
	path := geo.Path{origin, loopPoints[0], loopPoints[1], loopPoints[2], destination}
	backend := &fakeBackend{resp: &Response{Routes: []Route{{
		DistanceMeters:  5200,
		DurationSeconds: 3100,
		EncodedPolyline: polyline.Encode(path),
	}}}}
	c := NewClient(backend, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Equal(t, Routed, res.Source)
	assert.InDelta(t, 5.2, res.DistanceKm, 1e-9)
	assert.Equal(t, 3100.0, res.DurationSeconds)
	require.Len(t, res.Path, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Latitude, res.Path[i].Latitude, 1e-5)
		assert.InDelta(t, path[i].Longitude, res.Path[i].Longitude, 1e-5)
	}
	assert.Empty(t, res.Reason)
}

func TestRouteWithoutPathKeepsServiceDistance(t *testing.T) {
	backend := &fakeBackend{resp: &Response{Routes: []Route{{DistanceMeters: 5200}}}}
	c := NewClient(backend, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Equal(t, Routed, res.Source)
	assert.InDelta(t, 5.2, res.DistanceKm, 1e-9)
	assert.Equal(t, expectedApproximation(), res.Path)
}

func TestRouteDegradesOnUnusableResponses(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		reason string
	}{
		{"no routes", &Response{}, "no routes returned"},
		{"nil response", nil, "no routes returned"},
		{"no path and no distance", &Response{Routes: []Route{{}}}, "route has neither path nor distance"},
		{"malformed path", &Response{Routes: []Route{{DistanceMeters: 1000, EncodedPolyline: "_p~iF~ps|U_"}}}, "decoding route path failed"},
		{"path out of range", &Response{Routes: []Route{{DistanceMeters: 1000, EncodedPolyline: polyline.Encode(geo.Path{{Latitude: 40.7, Longitude: -74}, {Latitude: 95, Longitude: -74}})}}}, "decoded path out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&fakeBackend{resp: tt.resp}, nil, testConfig(), log.NewNopLogger())
			res := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

			assert.Equal(t, Approximated, res.Source)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, geo.PathLength(expectedApproximation()), res.DistanceKm)
		})
	}
}

func TestRouteRetriesTransientFailure(t *testing.T) {
	backend := &fakeBackend{
		errs: []error{&StatusError{Code: 503, Body: "unavailable"}},
		resp: &Response{Routes: []Route{{DistanceMeters: 4000}}},
	}
	c := NewClient(backend, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, nil, TravelModeWalk)

	assert.Equal(t, Routed, res.Source)
	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.calls))
}

func TestRouteDoesNotRetryClientError(t *testing.T) {
	backend := &fakeBackend{
		errs: []error{&StatusError{Code: 403, Body: "denied"}},
		resp: &Response{Routes: []Route{{DistanceMeters: 4000}}},
	}
	c := NewClient(backend, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, nil, TravelModeWalk)

	assert.Equal(t, Approximated, res.Source)
	assert.Equal(t, "service request failed", res.Reason)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.calls))
}

func TestRouteRequestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeout = 20 * time.Millisecond
	cfg.MaxRetries = 0
	backend := &fakeBackend{block: true}
	c := NewClient(backend, nil, cfg, log.NewNopLogger())

	start := time.Now()
	res := c.Route(context.Background(), origin, destination, nil, TravelModeWalk)

	assert.Equal(t, Approximated, res.Source)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRouteRecoversFromPanic(t *testing.T) {
	c := NewClient(&fakeBackend{panic: true}, nil, testConfig(), log.NewNopLogger())

	res := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Equal(t, Approximated, res.Source)
	assert.Equal(t, expectedApproximation(), res.Path)
}

func TestRouteCachesRoutedResults(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	backend := &fakeBackend{resp: &Response{Routes: []Route{{DistanceMeters: 5200}}}}
	c := NewClient(backend, NewRedisCache(rdb, time.Hour), testConfig(), log.NewNopLogger())

	first := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)
	second := c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.calls))
	assert.Len(t, mr.Keys(), 1)
}

func TestRouteDoesNotCacheApproximations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	backend := &fakeBackend{probeErr: errors.New("down")}
	c := NewClient(backend, NewRedisCache(rdb, time.Hour), testConfig(), log.NewNopLogger())

	c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)
	c.Route(context.Background(), origin, destination, loopPoints, TravelModeWalk)

	assert.Empty(t, mr.Keys())
	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.probes))
}

func TestAvailable(t *testing.T) {
	up := NewClient(&fakeBackend{}, nil, testConfig(), log.NewNopLogger())
	down := NewClient(&fakeBackend{probeErr: errors.New("down")}, nil, testConfig(), log.NewNopLogger())

	assert.True(t, up.Available(context.Background()))
	assert.False(t, down.Available(context.Background()))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&StatusError{Code: 500}))
	assert.True(t, IsTransient(&StatusError{Code: 429}))
	assert.False(t, IsTransient(&StatusError{Code: 400}))
	assert.False(t, IsTransient(ErrBadResponse))
	assert.True(t, IsTransient(context.DeadlineExceeded))
}
