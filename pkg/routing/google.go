package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
)

const (
	DefaultRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline"
	probeFieldMask  = "routes.duration,routes.distanceMeters"
)

// ErrBadResponse is returned when the service answers 2xx with a body we cannot read.
var ErrBadResponse = errors.New("unreadable routing service response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("routing service returned status %d: %s", e.Code, e.Body)
}

type GoogleConfig struct {
	URL          string
	APIKey       string
	LanguageCode string
	Units        string
}

// GoogleBackend calls the Google Routes API computeRoutes method.
type GoogleBackend struct {
	cfg        GoogleConfig
	httpClient *http.Client
}

func NewGoogleBackend(cfg GoogleConfig, httpClient *http.Client) *GoogleBackend {
	if cfg.URL == "" {
		cfg.URL = DefaultRoutesURL
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.Units == "" {
		cfg.Units = "METRIC"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleBackend{cfg: cfg, httpClient: httpClient}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type location struct {
	LatLng latLng `json:"latLng"`
}

type waypoint struct {
	Location location `json:"location"`
}

type routeModifiers struct {
	AvoidTolls    bool `json:"avoidTolls"`
	AvoidHighways bool `json:"avoidHighways"`
	AvoidFerries  bool `json:"avoidFerries"`
}

type computeRoutesRequest struct {
	Origin                   waypoint        `json:"origin"`
	Destination              waypoint        `json:"destination"`
	Intermediates            []waypoint      `json:"intermediates,omitempty"`
	TravelMode               TravelMode      `json:"travelMode"`
	RoutingPreference        string          `json:"routingPreference,omitempty"`
	ComputeAlternativeRoutes bool            `json:"computeAlternativeRoutes"`
	RouteModifiers           *routeModifiers `json:"routeModifiers,omitempty"`
	LanguageCode             string          `json:"languageCode,omitempty"`
	Units                    string          `json:"units,omitempty"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

func toWaypoint(c geo.Coordinate) waypoint {
	return waypoint{Location: location{LatLng: latLng{Latitude: c.Latitude, Longitude: c.Longitude}}}
}

// Probe requests a walking route between two points a few hundred meters apart.
func (g *GoogleBackend) Probe(ctx context.Context) error {
	body := computeRoutesRequest{
		Origin:      toWaypoint(geo.Coordinate{Latitude: 0, Longitude: 0}),
		Destination: toWaypoint(geo.Coordinate{Latitude: 0.001, Longitude: 0.001}),
		TravelMode:  TravelModeWalk,
	}
	resp, err := g.post(ctx, probeFieldMask, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (g *GoogleBackend) ComputeRoutes(ctx context.Context, req Request) (*Response, error) {
	body := computeRoutesRequest{
		Origin:                   toWaypoint(req.Origin),
		Destination:              toWaypoint(req.Destination),
		TravelMode:               req.TravelMode,
		RoutingPreference:        "ROUTING_PREFERENCE_UNSPECIFIED",
		ComputeAlternativeRoutes: false,
		RouteModifiers:           &routeModifiers{},
		LanguageCode:             g.cfg.LanguageCode,
		Units:                    g.cfg.Units,
	}
	if body.TravelMode == "" {
		body.TravelMode = TravelModeWalk
	}
	for _, p := range req.Intermediates {
		body.Intermediates = append(body.Intermediates, toWaypoint(p))
	}

	resp, err := g.post(ctx, routesFieldMask, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	out := &Response{Routes: make([]Route, 0, len(decoded.Routes))}
	for _, r := range decoded.Routes {
		out.Routes = append(out.Routes, Route{
			DistanceMeters:  r.DistanceMeters,
			DurationSeconds: parseDuration(r.Duration),
			EncodedPolyline: r.Polyline.EncodedPolyline,
		})
	}
	return out, nil
}

// post sends a computeRoutes call. The caller closes the body of a successful response.
func (g *GoogleBackend) post(ctx context.Context, fieldMask string, body computeRoutesRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.cfg.APIKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

// parseDuration parses a duration such as "1234s" into seconds.
func parseDuration(d string) float64 {
	secs, err := strconv.ParseFloat(strings.TrimSuffix(d, "s"), 64)
	if err != nil {
		return 0
	}
	return secs
}
