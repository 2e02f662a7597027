package gpx

import (
	"iter"
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/geo"
)

// Route is a named ordered list of waypoints describing a suggested path
// rather than a recording.
type Route struct {
	Name        string
	Comment     string
	Description string
	Source      string
	Link        string
	LinkText    string
	LinkType    string
	Number      *int
	Type        string
	Points      []*RoutePoint
	Extensions  []*etree.Element
}

// Walk yields the route's points in order with their indices. The sequence
// is lazy and restartable.
func (r *Route) Walk() iter.Seq2[int, *RoutePoint] {
	return func(yield func(int, *RoutePoint) bool) {
		for i, p := range r.Points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// GetPointsNo returns the number of points in the route.
func (r *Route) GetPointsNo() int { return len(r.Points) }

// Length computes the 2D length of the route in meters.
func (r *Route) Length() float64 {
	locs := make([]geo.Location, len(r.Points))
	for i, p := range r.Points {
		locs[i] = p.Location()
	}
	return geo.Length2D(locs)
}

// AdjustTime shifts every point's timestamp by delta.
func (r *Route) AdjustTime(delta time.Duration) {
	for _, p := range r.Points {
		p.AdjustTime(delta)
	}
}

// RemoveTime clears every point's timestamp.
func (r *Route) RemoveTime() {
	for _, p := range r.Points {
		p.RemoveTime()
	}
}

// RemoveElevation clears every point's elevation.
func (r *Route) RemoveElevation() {
	for _, p := range r.Points {
		p.RemoveElevation()
	}
}

// Move shifts every point's position by the given delta.
func (r *Route) Move(delta geo.LocationDelta) {
	for _, p := range r.Points {
		p.Move(delta)
	}
}

// GetCenter returns the arithmetic mean of the point coordinates, or nil for
// a route without points.
func (r *Route) GetCenter() *geo.Location {
	if len(r.Points) == 0 {
		return nil
	}
	sumLat, sumLon := 0.0, 0.0
	for _, p := range r.Points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}
	n := float64(len(r.Points))
	return &geo.Location{Latitude: sumLat / n, Longitude: sumLon / n}
}

// Clone returns a deep structural copy of the route.
func (r *Route) Clone() *Route {
	c := *r
	c.Number = cloneInt(r.Number)
	c.Extensions = cloneExtensions(r.Extensions)
	if r.Points != nil {
		c.Points = make([]*RoutePoint, len(r.Points))
		for i, p := range r.Points {
			c.Points[i] = p.Clone()
		}
	}
	return &c
}
