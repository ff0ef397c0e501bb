package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/pkg/records/endpoints"

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

	m.Handle("GET /api/locations", httptransport.NewServer(
		ep.ListLocationsEndpoint,
		decodeEmptyRequest(endpoints.ListLocationsRequest{}),
		httptransport.EncodeJSONResponse,
		opts...,
	))
	m.Handle("POST /api/locations", httptransport.NewServer(
		ep.CreateLocationEndpoint,
		decodeCreateLocationRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))
	m.Handle("GET /api/routes", httptransport.NewServer(
		ep.ListRoutesEndpoint,
		decodeEmptyRequest(endpoints.ListRoutesRequest{}),
		httptransport.EncodeJSONResponse,
		opts...,
	))
	m.Handle("POST /api/routes", httptransport.NewServer(
		ep.CreateRouteEndpoint,
		decodeCreateRouteRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))
	m.Handle("GET /api/routes/{id}/times", httptransport.NewServer(
		ep.ListTimesEndpoint,
		decodeListTimesRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))
	m.Handle("POST /api/routes/{id}/times", httptransport.NewServer(
		ep.CreateTimeEndpoint,
		decodeCreateTimeRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))

	return m
}

func decodeEmptyRequest(req interface{}) httptransport.DecodeRequestFunc {
	return func(context.Context, *http.Request) (interface{}, error) {
		return req, nil
	}
}

func decodeCreateLocationRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req endpoints.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req.NewLocation); err != nil {
		return nil, badBody(err)
	}
	return req, nil
}

func decodeCreateRouteRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req endpoints.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req.NewRoute); err != nil {
		return nil, badBody(err)
	}
	return req, nil
}

func decodeListTimesRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return endpoints.ListTimesRequest{RouteID: r.PathValue("id")}, nil
}

func decodeCreateTimeRequest(_ context.Context, r *http.Request) (interface{}, error) {
	req := endpoints.CreateTimeRequest{RouteID: r.PathValue("id")}
	if err := json.NewDecoder(r.Body).Decode(&req.NewTime); err != nil {
		return nil, badBody(err)
	}
	return req, nil
}

func badBody(err error) error {
	return fmt.Errorf("decoding request body: %v: %w", err, errors.ErrInvalidArgument)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(errors.StatusCode(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
