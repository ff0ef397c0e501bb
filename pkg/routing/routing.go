package routing

// Route computation with graceful degradation. Every call ends in a result:
//
//	Init -> Probing -> ServiceRequest -> Decoding -> Done(Routed)
//	                |                 |            `-> Done(Approximated)
//	                |                 `-> Done(Approximated)
//	                `-> Done(Approximated)

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/internal/util/polyline"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Config struct {
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration

	// MaxRetries bounds the retries of the service request after a transient failure.
	MaxRetries    int
	RetryInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		ProbeTimeout:   3 * time.Second,
		RequestTimeout: 10 * time.Second,
		MaxRetries:     1,
		RetryInterval:  200 * time.Millisecond,
	}
}

type Client struct {
	backend Backend
	cache   Cache
	cfg     Config
	logger  log.Logger
}

// NewClient creates a routing client. cache may be nil.
func NewClient(backend Backend, cache Cache, cfg Config, logger log.Logger) *Client {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultConfig().ProbeTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultConfig().RetryInterval
	}
	return &Client{backend: backend, cache: cache, cfg: cfg, logger: logger}
}

// Route asks the routing service for a route from origin to destination through the
// intermediates. It never fails: when the service cannot be used the result is the
// straight-line path [origin, intermediates..., destination] with Source Approximated.
func (c *Client) Route(ctx context.Context, origin, destination geo.Coordinate, intermediates []geo.Coordinate, mode TravelMode) (result RouteResult) {
	points := make(geo.Path, 0, len(intermediates)+2)
	points = append(points, origin)
	points = append(points, intermediates...)
	points = append(points, destination)

	defer func() {
		if r := recover(); r != nil {
			result = c.degrade(points, "routing panicked", fmt.Errorf("%v", r))
		}
	}()

	req := Request{Origin: origin, Destination: destination, Intermediates: intermediates, TravelMode: mode}
	key := cacheKey(req)
	if cached, ok := c.cached(ctx, key); ok {
		return cached
	}

	if err := c.probe(ctx); err != nil {
		return c.degrade(points, "probe failed", err)
	}

	resp, err := c.request(ctx, req)
	if err != nil {
		return c.degrade(points, "service request failed", err)
	}
	if resp == nil || len(resp.Routes) == 0 {
		return c.degrade(points, "no routes returned", nil)
	}

	route := resp.Routes[0]
	result = RouteResult{
		DistanceKm:      float64(route.DistanceMeters) / 1000,
		DurationSeconds: route.DurationSeconds,
		Source:          Routed,
	}

	if route.EncodedPolyline == "" {
		// Without a path the distance is the only thing the service gave us.
		if route.DistanceMeters <= 0 {
			return c.degrade(points, "route has neither path nor distance", nil)
		}
		result.Path = points
	} else {
		path, err := polyline.Decode(route.EncodedPolyline)
		if err != nil {
			return c.degrade(points, "decoding route path failed", err)
		}
		for _, p := range path {
			if !p.Valid() {
				return c.degrade(points, "decoded path out of range", nil)
			}
		}
		result.Path = path
	}

	c.store(ctx, key, result)
	return result
}

// Available reports whether the capability probe succeeds.
func (c *Client) Available(ctx context.Context) bool {
	return c.probe(ctx) == nil
}

func (c *Client) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()
	return c.backend.Probe(ctx)
}

func (c *Client) request(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()

		r, err := c.backend.ComputeRoutes(callCtx, req)
		if err != nil {
			if !IsTransient(err) {
				return backoff.Permanent(err)
			}
			level.Debug(c.logger).Log("msg", "routing request failed, may retry", "err", err)
			return err
		}
		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInterval
	b.MaxElapsedTime = 0
	b.Reset()

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx))
	return resp, err
}

func (c *Client) degrade(points geo.Path, reason string, err error) RouteResult {
	keyvals := []interface{}{"msg", "approximating route locally", "reason", reason, "points", len(points)}
	if err != nil {
		keyvals = append(keyvals, "err", err)
	}
	level.Warn(c.logger).Log(keyvals...)

	return RouteResult{
		Path:       points,
		DistanceKm: geo.PathLength(points),
		Source:     Approximated,
		Reason:     reason,
	}
}

func (c *Client) cached(ctx context.Context, key string) (RouteResult, bool) {
	if c.cache == nil {
		return RouteResult{}, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		level.Warn(c.logger).Log("msg", "route cache read failed", "err", err)
		return RouteResult{}, false
	}
	if raw == nil {
		return RouteResult{}, false
	}

	var result RouteResult
	if err := json.Unmarshal(raw, &result); err != nil || result.Source != Routed {
		return RouteResult{}, false
	}
	return result, true
}

func (c *Client) store(ctx context.Context, key string, result RouteResult) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw); err != nil {
		level.Warn(c.logger).Log("msg", "route cache write failed", "err", err)
	}
}

// cacheKey identifies a request by mode and coordinates at polyline precision.
func cacheKey(req Request) string {
	var sb strings.Builder
	sb.WriteString("route:")
	sb.WriteString(string(req.TravelMode))
	writePoint := func(c geo.Coordinate) {
		fmt.Fprintf(&sb, ":%.5f,%.5f", c.Latitude, c.Longitude)
	}
	writePoint(req.Origin)
	for _, p := range req.Intermediates {
		writePoint(p)
	}
	writePoint(req.Destination)
	return sb.String()
}

// IsTransient reports whether a failed request is worth retrying.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == 429 || statusErr.Code >= 500
	}
	return !errors.Is(err, ErrBadResponse)
}
