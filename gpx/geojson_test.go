package gpx

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGeoJSON(t *testing.T) {
	doc := singleTrackDoc(
		timedSegment(3, time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC), time.Minute, 0.001),
		timedSegment(2, time.Date(2020, 6, 1, 9, 0, 0, 0, time.UTC), time.Minute, 0.001),
	)
	doc.Tracks[0].Name = "ride"
	doc.Waypoints = []*Waypoint{{Point: Point{
		Latitude: 46.05, Longitude: 7.05, Elevation: fp(1203.5), Name: "fountain",
	}}}
	doc.Routes = []*Route{{
		Name:   "approach",
		Points: []*RoutePoint{{Point: Point{Latitude: 46.0, Longitude: 7.0}}, {Point: Point{Latitude: 46.1, Longitude: 7.1}}},
	}}

	fc := doc.ToGeoJSON()
	require.Len(t, fc.Features, 3)

	wpt := fc.Features[0]
	point, ok := wpt.Geometry.(orb.Point)
	require.True(t, ok)
	// GeoJSON is longitude first.
	assert.Equal(t, 7.05, point[0])
	assert.Equal(t, 46.05, point[1])
	assert.Equal(t, "fountain", wpt.Properties["name"])
	assert.Equal(t, 1203.5, wpt.Properties["elevation"])

	route := fc.Features[1]
	line, ok := route.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, 2)
	assert.Equal(t, "approach", route.Properties["name"])

	track := fc.Features[2]
	lines, ok := track.Geometry.(orb.MultiLineString)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 3)
	assert.Len(t, lines[1], 2)
	assert.Equal(t, "ride", track.Properties["name"])

	// The collection marshals to valid GeoJSON.
	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `"MultiLineString"`)
}
