package export

// Renders route paths as GPX tracks or GeoJSON line features so suggestions can be
// loaded into watches and mapping tools.

import (
	"fmt"

	"github.com/ColinToft/RunPlanner/internal/util/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "JogRoute"

// A Track is a named path with optional extra properties (GeoJSON only).
type Track struct {
	Name        string
	Description string
	Path        geo.Path
	Properties  map[string]interface{}
}

// GPX renders the tracks as a GPX 1.1 document, one <trk> per track.
func GPX(tracks []Track) ([]byte, error) {
	g := &gpx.GPX{Creator: creator}
	for _, t := range tracks {
		segment := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(t.Path))}
		for _, c := range t.Path {
			segment.Points = append(segment.Points, gpx.GPXPoint{
				Point: gpx.Point{Latitude: c.Latitude, Longitude: c.Longitude},
			})
		}
		g.Tracks = append(g.Tracks, gpx.GPXTrack{
			Name:        t.Name,
			Description: t.Description,
			Segments:    []gpx.GPXTrackSegment{segment},
		})
	}

	out, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}
	return out, nil
}

// GeoJSON renders the tracks as a FeatureCollection of LineStrings.
// GeoJSON positions are [longitude, latitude].
func GeoJSON(tracks []Track) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, t := range tracks {
		line := make(orb.LineString, 0, len(t.Path))
		for _, c := range t.Path {
			line = append(line, orb.Point{c.Longitude, c.Latitude})
		}

		f := geojson.NewFeature(line)
		f.Properties["name"] = t.Name
		if t.Description != "" {
			f.Properties["description"] = t.Description
		}
		for k, v := range t.Properties {
			f.Properties[k] = v
		}
		fc.Append(f)
	}

	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding geojson: %w", err)
	}
	return out, nil
}
