package endpoints

import (
	"context"
	"fmt"

	"github.com/ColinToft/RunPlanner/internal/util/errors"
	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/ColinToft/RunPlanner/pkg/routegen"
	"github.com/go-kit/kit/endpoint"
)

type Set struct {
	SuggestEndpoint endpoint.Endpoint
	MeasureEndpoint endpoint.Endpoint
	PaceEndpoint    endpoint.Endpoint
	StatusEndpoint  endpoint.Endpoint
}

func NewEndpointSet(svc routegen.Service) Set {
	return Set{
		SuggestEndpoint: MakeSuggestEndpoint(svc),
		MeasureEndpoint: MakeMeasureEndpoint(svc),
		PaceEndpoint:    MakePaceEndpoint(svc),
		StatusEndpoint:  MakeStatusEndpoint(svc),
	}
}

func MakeSuggestEndpoint(svc routegen.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(SuggestRequest)
		if req.Lat == nil || req.Lng == nil {
			return nil, fmt.Errorf("lat and lng are required: %w", errors.ErrInvalidArgument)
		}
		switch req.Format {
		case "":
			req.Format = FormatJSON
		case FormatJSON, FormatGeoJSON, FormatGPX:
		default:
			return nil, fmt.Errorf("unknown format %q: %w", req.Format, errors.ErrInvalidArgument)
		}

		routes, err := svc.Suggest(ctx, routegen.GenerationRequest{
			Origin:            geo.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng},
			DesiredDistanceKm: req.DistanceKm,
			ToleranceKm:       req.ToleranceKm,
		})
		if err != nil {
			return nil, err
		}
		return SuggestResponse{Routes: routes, Format: req.Format}, nil
	}
}

func MakeMeasureEndpoint(svc routegen.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(MeasureRequest)
		res, err := svc.Measure(ctx, req.Coordinates)
		if err != nil {
			return nil, err
		}
		return MeasureResponse{res}, nil
	}
}

func MakePaceEndpoint(svc routegen.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(PaceRequest)
		state, err := svc.Pace(ctx, req.DistanceKm, req.TimeSeconds, req.PaceMinPerKm)
		if err != nil {
			return nil, err
		}
		return PaceResponse{State: state, Time: state.FormattedTime(), Pace: state.FormattedPace()}, nil
	}
}

func MakeStatusEndpoint(svc routegen.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return StatusResponse{svc.Status(ctx)}, nil
	}
}
