package gpx

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ToGeoJSON converts the document to a GeoJSON feature collection: one Point
// feature per waypoint, one LineString per route and one MultiLineString per
// track (one line per segment). Elevations are not carried into the
// geometries; descriptive fields become feature properties.
func (d *Document) ToGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, w := range d.Waypoints {
		f := geojson.NewFeature(orb.Point{w.Longitude, w.Latitude})
		if w.Name != "" {
			f.Properties["name"] = w.Name
		}
		if w.Description != "" {
			f.Properties["description"] = w.Description
		}
		if w.Symbol != "" {
			f.Properties["symbol"] = w.Symbol
		}
		if w.Elevation != nil {
			f.Properties["elevation"] = *w.Elevation
		}
		fc.Append(f)
	}

	for _, r := range d.Routes {
		line := make(orb.LineString, 0, len(r.Points))
		for _, p := range r.Points {
			line = append(line, orb.Point{p.Longitude, p.Latitude})
		}
		f := geojson.NewFeature(line)
		if r.Name != "" {
			f.Properties["name"] = r.Name
		}
		if r.Description != "" {
			f.Properties["description"] = r.Description
		}
		fc.Append(f)
	}

	for _, t := range d.Tracks {
		lines := make(orb.MultiLineString, 0, len(t.Segments))
		for _, s := range t.Segments {
			line := make(orb.LineString, 0, len(s.Points))
			for _, p := range s.Points {
				line = append(line, orb.Point{p.Longitude, p.Latitude})
			}
			lines = append(lines, line)
		}
		f := geojson.NewFeature(lines)
		if t.Name != "" {
			f.Properties["name"] = t.Name
		}
		if t.Description != "" {
			f.Properties["description"] = t.Description
		}
		fc.Append(f)
	}

	return fc
}
