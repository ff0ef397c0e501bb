package endpoints

import (
	"context"

	"github.com/ColinToft/RunPlanner/pkg/records"
	"github.com/go-kit/kit/endpoint"
)

type Set struct {
	ListLocationsEndpoint  endpoint.Endpoint
	CreateLocationEndpoint endpoint.Endpoint
	ListRoutesEndpoint     endpoint.Endpoint
	CreateRouteEndpoint    endpoint.Endpoint
	ListTimesEndpoint      endpoint.Endpoint
	CreateTimeEndpoint     endpoint.Endpoint
}

func NewEndpointSet(svc records.Service) Set {
	return Set{
		ListLocationsEndpoint:  MakeListLocationsEndpoint(svc),
		CreateLocationEndpoint: MakeCreateLocationEndpoint(svc),
		ListRoutesEndpoint:     MakeListRoutesEndpoint(svc),
		CreateRouteEndpoint:    MakeCreateRouteEndpoint(svc),
		ListTimesEndpoint:      MakeListTimesEndpoint(svc),
		CreateTimeEndpoint:     MakeCreateTimeEndpoint(svc),
	}
}

func MakeListLocationsEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return svc.ListLocations(ctx)
	}
}

func MakeCreateLocationEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(CreateLocationRequest)
		l, err := svc.CreateLocation(ctx, req.NewLocation)
		if err != nil {
			return nil, err
		}
		return created{l}, nil
	}
}

func MakeListRoutesEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		return svc.ListRoutes(ctx)
	}
}

func MakeCreateRouteEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(CreateRouteRequest)
		r, err := svc.CreateRoute(ctx, req.NewRoute)
		if err != nil {
			return nil, err
		}
		return created{r}, nil
	}
}

func MakeListTimesEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(ListTimesRequest)
		return svc.ListTimes(ctx, req.RouteID)
	}
}

func MakeCreateTimeEndpoint(svc records.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(CreateTimeRequest)
		t, err := svc.CreateTime(ctx, req.RouteID, req.NewTime)
		if err != nil {
			return nil, err
		}
		return created{t}, nil
	}
}
