package gpx

import (
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/geo"
)

// Valid values for the GPS fix quality field.
var fixTypes = []string{"none", "2d", "3d", "dgps", "pps"}

// Point carries the positional, descriptive and quality fields shared by
// track points, route points and waypoints. Latitude and longitude are
// mandatory; everything else is optional, with absent scalars modelled as nil
// pointers and absent strings as "".
type Point struct {
	Latitude  float64 // decimal degrees, [-90, 90]
	Longitude float64 // decimal degrees, [-180, 180]

	Elevation *float64 // meters
	Time      *time.Time

	MagneticVariation *float64
	GeoidHeight       *float64

	Name        string
	Comment     string
	Description string
	Source      string
	Link        string
	LinkText    string
	LinkType    string
	Symbol      string
	Type        string

	FixType            string // one of none, 2d, 3d, dgps, pps
	Satellites         *int
	HorizontalDilution *float64
	VerticalDilution   *float64
	PositionDilution   *float64
	AgeOfDGPSData      *float64
	DGPSID             string

	Extensions []*etree.Element
}

// TrackPoint is a recorded point inside a track segment. Course and speed are
// only part of the GPX 1.0 track point schema.
type TrackPoint struct {
	Point
	Course *float64
	Speed  *float64 // m/s, as recorded; not a computed value
}

// Waypoint is a single independent point of interest.
type Waypoint struct {
	Point
}

// RoutePoint is one planned point of a route.
type RoutePoint struct {
	Point
}

// Location returns the point as a bare geographic location.
func (p *Point) Location() geo.Location {
	return geo.Location{Latitude: p.Latitude, Longitude: p.Longitude, Elevation: p.Elevation}
}

// Distance2D returns the 2D distance in meters to another point.
func (p *Point) Distance2D(other *Point) float64 {
	return geo.Distance2D(p.Latitude, p.Longitude, other.Latitude, other.Longitude)
}

// Distance3D returns the 3D distance in meters to another point, falling back
// to 2D when either elevation is absent.
func (p *Point) Distance3D(other *Point) float64 {
	return geo.Distance3D(p.Latitude, p.Longitude, p.Elevation,
		other.Latitude, other.Longitude, other.Elevation)
}

// TimeDifference returns the absolute time difference in seconds between this
// point and another, or nil when either timestamp is absent.
func (p *Point) TimeDifference(other *Point) *float64 {
	if p.Time == nil || other == nil || other.Time == nil {
		return nil
	}
	seconds := p.Time.Sub(*other.Time).Seconds()
	if seconds < 0 {
		seconds = -seconds
	}
	return &seconds
}

// AdjustTime shifts the point's timestamp by delta. Points without a
// timestamp are left untouched.
func (p *Point) AdjustTime(delta time.Duration) {
	if p.Time != nil {
		t := p.Time.Add(delta)
		p.Time = &t
	}
}

// RemoveTime clears the point's timestamp.
func (p *Point) RemoveTime() { p.Time = nil }

// RemoveElevation clears the point's elevation.
func (p *Point) RemoveElevation() { p.Elevation = nil }

// Move shifts the point's position by the given delta.
func (p *Point) Move(delta geo.LocationDelta) {
	p.Latitude, p.Longitude = delta.Apply(p.Latitude, p.Longitude)
}

// SpeedBetween computes the speed in m/s between this point and another using
// their timestamps and 3D distance. Returns nil when the elapsed time is zero
// or either timestamp is absent.
func (p *TrackPoint) SpeedBetween(other *TrackPoint) *float64 {
	if other == nil {
		return nil
	}
	seconds := p.TimeDifference(&other.Point)
	if seconds == nil || *seconds == 0 {
		return nil
	}
	length := p.Distance3D(&other.Point)
	speed := length / *seconds
	return &speed
}

// Clone returns a deep structural copy of the point.
func (p *Point) Clone() *Point {
	c := *p
	c.Elevation = cloneFloat(p.Elevation)
	c.Time = cloneTime(p.Time)
	c.MagneticVariation = cloneFloat(p.MagneticVariation)
	c.GeoidHeight = cloneFloat(p.GeoidHeight)
	c.Satellites = cloneInt(p.Satellites)
	c.HorizontalDilution = cloneFloat(p.HorizontalDilution)
	c.VerticalDilution = cloneFloat(p.VerticalDilution)
	c.PositionDilution = cloneFloat(p.PositionDilution)
	c.AgeOfDGPSData = cloneFloat(p.AgeOfDGPSData)
	c.Extensions = cloneExtensions(p.Extensions)
	return &c
}

// Clone returns a deep structural copy of the track point.
func (p *TrackPoint) Clone() *TrackPoint {
	c := TrackPoint{Point: *p.Point.Clone()}
	c.Course = cloneFloat(p.Course)
	c.Speed = cloneFloat(p.Speed)
	return &c
}

// Clone returns a deep structural copy of the waypoint.
func (w *Waypoint) Clone() *Waypoint {
	return &Waypoint{Point: *w.Point.Clone()}
}

// Clone returns a deep structural copy of the route point.
func (p *RoutePoint) Clone() *RoutePoint {
	return &RoutePoint{Point: *p.Point.Clone()}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneExtensions(exts []*etree.Element) []*etree.Element {
	if len(exts) == 0 {
		return nil
	}
	out := make([]*etree.Element, len(exts))
	for i, e := range exts {
		out[i] = e.Copy()
	}
	return out
}
