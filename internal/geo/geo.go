// Package geo provides the geographic primitives used by the GPX document
// model: great-circle distances, polyline lengths, point-to-chord distance
// and speed/elevation aggregates.
package geo

import (
	"math"
	"sort"
)

const (
	// Earth radius in meters used by all haversine computations.
	earthRadius = 6371000.0

	// Meters per degree of latitude, used when moving points by an offset.
	oneDegree = 1000.0 * 10000.8 / 90.0
)

// Location is a latitude/longitude pair with an optional elevation in meters.
type Location struct {
	Latitude  float64
	Longitude float64
	Elevation *float64
}

// Distance2D calculates the haversine distance in meters between two points,
// ignoring elevation.
func Distance2D(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Distance3D calculates the distance in meters between two points including
// the elevation difference. When either elevation is absent the result falls
// back to the 2D distance.
func Distance3D(lat1, lon1 float64, ele1 *float64, lat2, lon2 float64, ele2 *float64) float64 {
	flat := Distance2D(lat1, lon1, lat2, lon2)
	if ele1 == nil || ele2 == nil {
		return flat
	}
	climb := *ele2 - *ele1
	return math.Sqrt(flat*flat + climb*climb)
}

// Length2D computes the cumulative 2D length in meters of a polyline.
func Length2D(points []Location) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += Distance2D(points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude)
	}
	return length
}

// Length3D computes the cumulative 3D length in meters of a polyline.
func Length3D(points []Location) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += Distance3D(points[i-1].Latitude, points[i-1].Longitude, points[i-1].Elevation,
			points[i].Latitude, points[i].Longitude, points[i].Elevation)
	}
	return length
}

// DistanceFromLine computes the perpendicular distance in meters from point p
// to the chord between start and end. A degenerate chord falls back to the
// plain point distance.
func DistanceFromLine(p, start, end Location) float64 {
	base := Distance2D(start.Latitude, start.Longitude, end.Latitude, end.Longitude)
	if base == 0 {
		return Distance2D(start.Latitude, start.Longitude, p.Latitude, p.Longitude)
	}

	d1 := Distance2D(start.Latitude, start.Longitude, p.Latitude, p.Longitude)
	d2 := Distance2D(end.Latitude, end.Longitude, p.Latitude, p.Longitude)

	// Heron's formula; clamp against rounding noise on near-collinear input.
	s := (base + d1 + d2) / 2
	area2 := s * (s - base) * (s - d1) * (s - d2)
	if area2 < 0 {
		area2 = 0
	}
	return 2 * math.Sqrt(area2) / base
}

// ElevationAngle returns the angle of the line between two locations in
// degrees, or nil when either elevation is absent.
func ElevationAngle(loc1, loc2 Location) *float64 {
	if loc1.Elevation == nil || loc2.Elevation == nil {
		return nil
	}
	b := *loc2.Elevation - *loc1.Elevation
	a := Distance2D(loc1.Latitude, loc1.Longitude, loc2.Latitude, loc2.Longitude)
	if a == 0 {
		return nil
	}
	angle := math.Atan(b/a) * 180 / math.Pi
	return &angle
}

// SpeedDistance is one (speed, distance) sample used for max-speed estimation.
type SpeedDistance struct {
	Speed    float64 // m/s
	Distance float64 // meters
}

// CalculateMaxSpeed estimates the maximum plausible speed in m/s over a set of
// samples. Samples whose distance deviates too far from the mean are dropped
// as GPS noise, and the 95th-percentile speed of the remainder is reported.
// Returns nil when no usable samples remain.
func CalculateMaxSpeed(samples []SpeedDistance) *float64 {
	if len(samples) == 0 {
		return nil
	}

	speeds := make([]float64, 0, len(samples))
	if len(samples) < 20 {
		// Too few samples for statistics, take the plain maximum.
		maxSpeed := samples[0].Speed
		for _, s := range samples[1:] {
			if s.Speed > maxSpeed {
				maxSpeed = s.Speed
			}
		}
		return &maxSpeed
	}

	var sum float64
	for _, s := range samples {
		sum += s.Distance
	}
	mean := sum / float64(len(samples))

	var variance float64
	for _, s := range samples {
		variance += (s.Distance - mean) * (s.Distance - mean)
	}
	stddev := math.Sqrt(variance / float64(len(samples)))

	for _, s := range samples {
		if math.Abs(s.Distance-mean) <= stddev*1.5 {
			speeds = append(speeds, s.Speed)
		}
	}
	if len(speeds) == 0 {
		return nil
	}

	sort.Float64s(speeds)
	idx := int(float64(len(speeds)) * 0.95)
	if idx >= len(speeds) {
		idx = len(speeds) - 1
	}
	return &speeds[idx]
}

// CalculateUphillDownhill accumulates the total climb and descent in meters
// over a sequence of optional elevations. A light 3-tap average is applied
// first to keep barometric jitter from inflating the totals.
func CalculateUphillDownhill(elevations []*float64) (uphill, downhill float64) {
	if len(elevations) == 0 {
		return 0, 0
	}

	smoothed := make([]*float64, len(elevations))
	for i, ele := range elevations {
		if ele == nil {
			continue
		}
		if i > 0 && i < len(elevations)-1 && elevations[i-1] != nil && elevations[i+1] != nil {
			v := *elevations[i-1]*0.3 + *ele*0.4 + *elevations[i+1]*0.3
			smoothed[i] = &v
		} else {
			v := *ele
			smoothed[i] = &v
		}
	}

	for i := 1; i < len(smoothed); i++ {
		if smoothed[i] == nil || smoothed[i-1] == nil {
			continue
		}
		d := *smoothed[i] - *smoothed[i-1]
		if d > 0 {
			uphill += d
		} else {
			downhill -= d
		}
	}
	return uphill, downhill
}

// LocationDelta describes a positional shift, either as a distance along a
// compass angle or as a plain latitude/longitude offset.
type LocationDelta struct {
	distance float64
	angle    float64
	latDelta float64
	lonDelta float64
	byAngle  bool
}

// DeltaByDistanceAndAngle builds a delta that moves a point the given distance
// in meters along the given compass angle in degrees (0 = north, 90 = east).
func DeltaByDistanceAndAngle(distance, angle float64) LocationDelta {
	return LocationDelta{distance: distance, angle: angle, byAngle: true}
}

// DeltaByOffset builds a delta that shifts a point by fixed latitude and
// longitude amounts in degrees.
func DeltaByOffset(latDelta, lonDelta float64) LocationDelta {
	return LocationDelta{latDelta: latDelta, lonDelta: lonDelta}
}

// Apply returns the moved latitude and longitude.
func (d LocationDelta) Apply(lat, lon float64) (float64, float64) {
	if !d.byAngle {
		return lat + d.latDelta, lon + d.lonDelta
	}

	coef := math.Cos(lat * math.Pi / 180)
	rad := (90 - d.angle) * math.Pi / 180
	latDiff := d.distance * math.Sin(rad) / oneDegree
	lonDiff := d.distance * math.Cos(rad) / (oneDegree * coef)
	return lat + latDiff, lon + lonDiff
}
