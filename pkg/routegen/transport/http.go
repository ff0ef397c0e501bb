package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/export"
	"github.com/ColinToft/RunPlanner/internal/util/pace"
	"github.com/ColinToft/RunPlanner/pkg/routegen"
	"github.com/ColinToft/RunPlanner/pkg/routegen/endpoints"

	kittransport "github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
)

func NewHTTPHandler(ep endpoints.Set, logger log.Logger) http.Handler {
	m := http.NewServeMux()

	opts := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerErrorHandler(kittransport.NewLogErrorHandler(logger)),
	}

	m.Handle("POST /api/suggest", httptransport.NewServer(
		ep.SuggestEndpoint,
		decodeSuggestRequest,
		encodeSuggestResponse,
		opts...,
	))
	m.Handle("POST /api/measure", httptransport.NewServer(
		ep.MeasureEndpoint,
		decodeMeasureRequest,
		encodeResponse,
		opts...,
	))
	m.Handle("GET /api/pace", httptransport.NewServer(
		ep.PaceEndpoint,
		decodePaceRequest,
		encodeResponse,
		opts...,
	))
	m.Handle("GET /api/status", httptransport.NewServer(
		ep.StatusEndpoint,
		decodeStatusRequest,
		encodeResponse,
		opts...,
	))

	return m
}

func decodeSuggestRequest(_ context.Context, r *http.Request) (interface{}, error) {
	req := endpoints.SuggestRequest{
		DistanceKm:  endpoints.DefaultDistanceKm,
		ToleranceKm: endpoints.DefaultToleranceKm,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding suggest request: %v: %w", err, errors.ErrInvalidArgument)
	}
	return req, nil
}

func decodeMeasureRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req endpoints.MeasureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding measure request: %v: %w", err, errors.ErrInvalidArgument)
	}
	return req, nil
}

func decodePaceRequest(_ context.Context, r *http.Request) (interface{}, error) {
	// Decode the query parameters into a struct
	q := r.URL.Query()
	var req endpoints.PaceRequest
	var err error

	req.DistanceKm, err = strconv.ParseFloat(q.Get("distance_km"), 64)
	if err != nil {
		return nil, fmt.Errorf("distance_km: %v: %w", err, errors.ErrInvalidArgument)
	}

	switch {
	case q.Get("time") != "":
		t, err := pace.ParseTime(q.Get("time"))
		if err != nil {
			return nil, err
		}
		req.TimeSeconds = &t
	case q.Get("time_seconds") != "":
		t, err := strconv.ParseFloat(q.Get("time_seconds"), 64)
		if err != nil {
			return nil, fmt.Errorf("time_seconds: %v: %w", err, errors.ErrInvalidArgument)
		}
		req.TimeSeconds = &t
	}

	if q.Get("pace") != "" {
		p, err := strconv.ParseFloat(q.Get("pace"), 64)
		if err != nil {
			return nil, fmt.Errorf("pace: %v: %w", err, errors.ErrInvalidArgument)
		}
		req.PaceMinPerKm = &p
	}

	return req, nil
}

func decodeStatusRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return endpoints.StatusRequest{}, nil
}

func encodeSuggestResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoints.SuggestResponse)

	switch resp.Format {
	case endpoints.FormatGeoJSON:
		body, err := export.GeoJSON(tracks(resp.Routes))
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, err = w.Write(body)
		return err
	case endpoints.FormatGPX:
		body, err := export.GPX(tracks(resp.Routes))
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/gpx+xml")
		_, err = w.Write(body)
		return err
	}

	return encodeResponse(ctx, w, resp)
}

func tracks(routes []routegen.RouteCandidate) []export.Track {
	out := make([]export.Track, 0, len(routes))
	for _, r := range routes {
		out = append(out, export.Track{
			Name:        r.Name,
			Description: r.Description,
			Path:        r.Path,
			Properties: map[string]interface{}{
				"id":          r.ID,
				"distance_km": r.DistanceKm,
				"source":      r.Source,
			},
		})
	}
	return out
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if e, ok := response.(error); ok && e != nil {
		encodeError(ctx, e, w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(errors.StatusCode(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
