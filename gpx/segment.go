package gpx

import (
	"iter"
	"math"
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/geo"
)

// Smoothing weights applied to the previous/current/next point. Sum must be 1.
const (
	smoothPrev    = 0.4
	smoothCurrent = 0.2
	smoothNext    = 0.4
)

// DefaultSimplifyDistance is the Douglas-Peucker threshold in meters used
// when no explicit threshold is given.
const DefaultSimplifyDistance = 10.0

// DefaultStoppedSpeedThreshold is the speed in km/h below which a point pair
// counts as stopped rather than moving.
const DefaultStoppedSpeedThreshold = 1.0

// Segment is a contiguous ordered run of track points with no intentional
// gap. It is owned by exactly one track.
type Segment struct {
	Points     []*TrackPoint
	Extensions []*etree.Element
}

// Walk yields the segment's points in order with their indices. The sequence
// is lazy and restartable.
func (s *Segment) Walk() iter.Seq2[int, *TrackPoint] {
	return func(yield func(int, *TrackPoint) bool) {
		for i, p := range s.Points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// GetPointsNo returns the number of points in the segment.
func (s *Segment) GetPointsNo() int { return len(s.Points) }

// Simplify reduces the segment with the Ramer-Douglas-Peucker algorithm. A
// non-positive maxDistance selects DefaultSimplifyDistance. The first and
// last points are always kept.
func (s *Segment) Simplify(maxDistance float64) {
	if maxDistance <= 0 {
		maxDistance = DefaultSimplifyDistance
	}
	s.Points = simplifyPolyline(s.Points, maxDistance)
}

func simplifyPolyline(points []*TrackPoint, maxDistance float64) []*TrackPoint {
	if len(points) < 3 {
		return points
	}

	begin, end := points[0], points[len(points)-1]
	maxD := -1.0
	maxPos := 0
	for i := 1; i < len(points)-1; i++ {
		d := geo.DistanceFromLine(points[i].Location(), begin.Location(), end.Location())
		if d > maxD {
			maxD = d
			maxPos = i
		}
	}

	if maxD <= maxDistance {
		return []*TrackPoint{begin, end}
	}

	left := simplifyPolyline(points[:maxPos+1], maxDistance)
	right := simplifyPolyline(points[maxPos:], maxDistance)

	out := make([]*TrackPoint, 0, len(left)+len(right)-1)
	out = append(out, left...)
	out = append(out, right[1:]...)
	return out
}

// ReducePoints drops points closer than minDistance (3D meters) to the last
// kept point. The first point is always kept.
func (s *Segment) ReducePoints(minDistance float64) {
	var reduced []*TrackPoint
	for _, point := range s.Points {
		if len(reduced) == 0 {
			reduced = append(reduced, point)
			continue
		}
		if reduced[len(reduced)-1].Distance3D(&point.Point) >= minDistance {
			reduced = append(reduced, point)
		}
	}
	s.Points = reduced
}

// AdjustTime shifts every point's timestamp by delta.
func (s *Segment) AdjustTime(delta time.Duration) {
	for _, p := range s.Points {
		p.AdjustTime(delta)
	}
}

// RemoveTime clears every point's timestamp.
func (s *Segment) RemoveTime() {
	for _, p := range s.Points {
		p.RemoveTime()
	}
}

// RemoveElevation clears every point's elevation.
func (s *Segment) RemoveElevation() {
	for _, p := range s.Points {
		p.RemoveElevation()
	}
}

// AddElevation shifts the elevation of every point that has one by delta.
func (s *Segment) AddElevation(delta float64) {
	if delta == 0 {
		return
	}
	for _, p := range s.Points {
		if p.Elevation != nil {
			v := *p.Elevation + delta
			p.Elevation = &v
		}
	}
}

// Move shifts every point's position by the given delta.
func (s *Segment) Move(delta geo.LocationDelta) {
	for _, p := range s.Points {
		p.Move(delta)
	}
}

func (s *Segment) locations() []geo.Location {
	locs := make([]geo.Location, len(s.Points))
	for i, p := range s.Points {
		locs[i] = p.Location()
	}
	return locs
}

// Length2D computes the 2D length of the segment in meters.
func (s *Segment) Length2D() float64 { return geo.Length2D(s.locations()) }

// Length3D computes the 3D length of the segment in meters.
func (s *Segment) Length3D() float64 { return geo.Length3D(s.locations()) }

// Split cuts the segment at the given point index; the point itself goes to
// the first half.
func (s *Segment) Split(pointNo int) (*Segment, *Segment) {
	if pointNo < 0 {
		pointNo = 0
	}
	if pointNo >= len(s.Points) {
		pointNo = len(s.Points) - 1
	}
	first := append([]*TrackPoint{}, s.Points[:pointNo+1]...)
	second := append([]*TrackPoint{}, s.Points[pointNo+1:]...)
	return &Segment{Points: first}, &Segment{Points: second}
}

// Join appends another segment's points onto this one.
func (s *Segment) Join(other *Segment) {
	s.Points = append(s.Points, other.Points...)
}

// RemovePoint removes the point at the given index. Out-of-range indices are
// ignored.
func (s *Segment) RemovePoint(pointNo int) {
	if pointNo < 0 || pointNo >= len(s.Points) {
		return
	}
	s.Points = append(s.Points[:pointNo:pointNo], s.Points[pointNo+1:]...)
}

// GetMovingData classifies each adjacent timed pair as moving or stopped and
// aggregates times and distances. Speeds in km/h at or below the threshold
// (default 1 km/h when non-positive) count as stopped. The first and last
// intervals are excluded from the max-speed candidates because they are the
// most noise-prone.
func (s *Segment) GetMovingData(stoppedSpeedThreshold float64) MovingData {
	if stoppedSpeedThreshold <= 0 {
		stoppedSpeedThreshold = DefaultStoppedSpeedThreshold
	}

	var movingSeconds, stoppedSeconds float64
	var movingDistance, stoppedDistance float64
	var samples []geo.SpeedDistance

	for i := 1; i < len(s.Points); i++ {
		previous := s.Points[i-1]
		point := s.Points[i]

		if point.Time == nil || previous.Time == nil {
			continue
		}

		var distance float64
		if point.Elevation != nil && previous.Elevation != nil {
			distance = point.Distance3D(&previous.Point)
		} else {
			distance = point.Distance2D(&previous.Point)
		}

		seconds := point.Time.Sub(*previous.Time).Seconds()
		speedKmh := 0.0
		if seconds > 0 {
			speedKmh = (distance / 1000.0) / (seconds / 3600.0)
		}

		if speedKmh <= stoppedSpeedThreshold {
			stoppedSeconds += seconds
			stoppedDistance += distance
		} else {
			movingSeconds += seconds
			movingDistance += distance

			if distance > 0 && i > 1 && i < len(s.Points)-1 {
				samples = append(samples, geo.SpeedDistance{Speed: distance / seconds, Distance: distance})
			}
		}
	}

	return MovingData{
		MovingTime:      time.Duration(movingSeconds * float64(time.Second)),
		StoppedTime:     time.Duration(stoppedSeconds * float64(time.Second)),
		MovingDistance:  movingDistance,
		StoppedDistance: stoppedDistance,
		MaxSpeed:        geo.CalculateMaxSpeed(samples),
	}
}

// GetTimeBounds returns the first and last timestamp in the segment; both are
// nil when no point carries a time.
func (s *Segment) GetTimeBounds() TimeBounds {
	var bounds TimeBounds
	for _, p := range s.Points {
		if p.Time == nil {
			continue
		}
		if bounds.StartTime == nil {
			bounds.StartTime = cloneTime(p.Time)
		}
		bounds.EndTime = cloneTime(p.Time)
	}
	return bounds
}

// GetBounds returns the latitude/longitude extent of the segment; all sides
// are nil for an empty segment.
func (s *Segment) GetBounds() Bounds {
	var acc boundsAccumulator
	for _, p := range s.Points {
		acc.add(p.Latitude, p.Longitude)
	}
	return acc.b
}

// GetSpeed computes the speed in m/s at the given point index as the average
// of the speeds to its neighbours; nil when neither neighbour is usable.
func (s *Segment) GetSpeed(pointNo int) *float64 {
	if pointNo < 0 || pointNo >= len(s.Points) {
		return nil
	}
	point := s.Points[pointNo]

	var previous, next *TrackPoint
	if pointNo > 0 {
		previous = s.Points[pointNo-1]
	}
	if pointNo < len(s.Points)-1 {
		next = s.Points[pointNo+1]
	}

	speed1 := point.SpeedBetween(previous)
	speed2 := point.SpeedBetween(next)

	if speed1 != nil && speed2 != nil {
		v := (math.Abs(*speed1) + math.Abs(*speed2)) / 2
		return &v
	}
	if speed1 != nil {
		v := math.Abs(*speed1)
		return &v
	}
	if speed2 != nil {
		v := math.Abs(*speed2)
		return &v
	}
	return nil
}

// addMissingData finds runs of consecutive points lacking some attribute that
// are bounded on both sides by points possessing it, and hands each run to
// fill together with the fractional cumulative-distance position of every
// interior point (all zeros when the run has no length).
func (s *Segment) addMissingData(
	has func(*TrackPoint) bool,
	fill func(interval []*TrackPoint, start, end *TrackPoint, ratios []float64),
) {
	var interval []*TrackPoint
	var startPoint, previous *TrackPoint

	for _, point := range s.Points {
		if !has(point) && previous != nil {
			if startPoint == nil {
				startPoint = previous
			}
			interval = append(interval, point)
		} else {
			if len(interval) > 0 && startPoint != nil && has(point) {
				fill(interval, startPoint, point, intervalDistanceRatios(interval, startPoint, point))
			}
			startPoint = nil
			interval = nil
		}
		previous = point
	}
}

func intervalDistanceRatios(interval []*TrackPoint, start, end *TrackPoint) []float64 {
	distances := make([]float64, len(interval))
	fromStart := 0.0
	previous := start
	for i, p := range interval {
		fromStart += p.Distance3D(&previous.Point)
		distances[i] = fromStart
		previous = p
	}

	total := distances[len(distances)-1] + interval[len(interval)-1].Distance3D(&end.Point)

	ratios := make([]float64, len(distances))
	for i, d := range distances {
		if total != 0 {
			ratios[i] = d / total
		}
	}
	return ratios
}

// AddMissingElevations linearly interpolates elevation for runs of points
// without one, bounded by points that have it.
func (s *Segment) AddMissingElevations() {
	s.addMissingData(
		func(p *TrackPoint) bool { return p.Elevation != nil },
		func(interval []*TrackPoint, start, end *TrackPoint, ratios []float64) {
			if start.Elevation == nil || end.Elevation == nil {
				return
			}
			for i, p := range interval {
				v := *start.Elevation + ratios[i]*(*end.Elevation-*start.Elevation)
				p.Elevation = &v
			}
		})
}

// AddMissingTimes linearly interpolates timestamps for runs of points without
// one, bounded by timed points.
func (s *Segment) AddMissingTimes() {
	s.addMissingData(
		func(p *TrackPoint) bool { return p.Time != nil },
		func(interval []*TrackPoint, start, end *TrackPoint, ratios []float64) {
			if start.Time == nil || end.Time == nil {
				return
			}
			span := end.Time.Sub(*start.Time)
			for i, p := range interval {
				t := start.Time.Add(time.Duration(ratios[i] * float64(span)))
				p.Time = &t
			}
		})
}

// AddMissingSpeeds assigns each point in a bounded run the speed
// (distanceLeft+distanceRight)/(timeLeft+timeRight) over its immediate
// neighbours, rather than interpolating the speed value itself.
func (s *Segment) AddMissingSpeeds() {
	s.addMissingData(
		func(p *TrackPoint) bool { return p.Speed != nil },
		func(interval []*TrackPoint, start, end *TrackPoint, ratios []float64) {
			if start.Time == nil || end.Time == nil {
				return
			}

			type timeDist struct{ seconds, meters float64 }
			pairs := make([]timeDist, 0, len(interval)+1)

			add := func(a *TrackPoint, b *TrackPoint) {
				seconds := a.TimeDifference(&b.Point)
				if seconds == nil {
					pairs = append(pairs, timeDist{})
					return
				}
				pairs = append(pairs, timeDist{*seconds, a.Distance3D(&b.Point)})
			}

			add(interval[0], start)
			for i := 0; i < len(interval)-1; i++ {
				add(interval[i], interval[i+1])
			}
			add(interval[len(interval)-1], end)

			for i, p := range interval {
				left, right := pairs[i], pairs[i+1]
				if left.seconds+right.seconds > 0 {
					v := (left.meters + right.meters) / (left.seconds + right.seconds)
					p.Speed = &v
				}
			}
		})
}

// GetDuration returns the elapsed time of the segment. When the first or last
// point lacks a timestamp its immediate neighbour substitutes; with fewer
// than two usable timed points the result is nil rather than an error.
func (s *Segment) GetDuration() *time.Duration {
	if len(s.Points) < 2 {
		d := time.Duration(0)
		return &d
	}

	first := s.Points[0]
	if first.Time == nil {
		first = s.Points[1]
	}
	last := s.Points[len(s.Points)-1]
	if last.Time == nil {
		last = s.Points[len(s.Points)-2]
	}

	if first.Time == nil || last.Time == nil {
		return nil
	}
	if last.Time.Before(*first.Time) {
		return nil
	}
	d := last.Time.Sub(*first.Time)
	return &d
}

// GetUphillDownhill returns the total climb and descent over the segment.
func (s *Segment) GetUphillDownhill() UphillDownhill {
	if len(s.Points) == 0 {
		return UphillDownhill{}
	}
	elevations := make([]*float64, len(s.Points))
	for i, p := range s.Points {
		elevations[i] = p.Elevation
	}
	uphill, downhill := geo.CalculateUphillDownhill(elevations)
	return UphillDownhill{Uphill: uphill, Downhill: downhill}
}

// GetElevationExtremes returns the minimum and maximum elevation; both nil
// when no point carries one.
func (s *Segment) GetElevationExtremes() MinimumMaximum {
	var result MinimumMaximum
	for _, p := range s.Points {
		if p.Elevation == nil {
			continue
		}
		if result.Minimum == nil || *p.Elevation < *result.Minimum {
			result.Minimum = cloneFloat(p.Elevation)
		}
		if result.Maximum == nil || *p.Elevation > *result.Maximum {
			result.Maximum = cloneFloat(p.Elevation)
		}
	}
	return result
}

// GetLocationAt returns the first point at or after the given time, or nil
// when the time falls outside the segment's time range.
func (s *Segment) GetLocationAt(t time.Time) *TrackPoint {
	if len(s.Points) == 0 {
		return nil
	}
	firstTime := s.Points[0].Time
	lastTime := s.Points[len(s.Points)-1].Time
	if firstTime == nil || lastTime == nil {
		return nil
	}
	if t.Before(*firstTime) || t.After(*lastTime) {
		return nil
	}
	for _, p := range s.Points {
		if p.Time != nil && !t.After(*p.Time) {
			return p
		}
	}
	return nil
}

// GetNearestLocation returns the point minimizing 2D distance to the query
// location, with first-occurrence tie-break, plus its index. Returns
// (nil, -1) for an empty segment.
func (s *Segment) GetNearestLocation(location geo.Location) (*TrackPoint, int) {
	if len(s.Points) == 0 {
		return nil, -1
	}

	best := s.Points[0]
	bestNo := 0
	bestDistance := geo.Distance2D(best.Latitude, best.Longitude, location.Latitude, location.Longitude)

	for i := 1; i < len(s.Points); i++ {
		d := geo.Distance2D(s.Points[i].Latitude, s.Points[i].Longitude,
			location.Latitude, location.Longitude)
		if d < bestDistance {
			bestDistance = d
			best = s.Points[i]
			bestNo = i
		}
	}
	return best, bestNo
}

// Smooth applies a 3-tap weighted average to interior points, vertically
// (elevation) and/or horizontally (latitude+longitude). In removeExtremes
// mode, instead of replacing values it deletes interior points whose
// elevation delta from both neighbours and projected displacement both
// exceed thresholds derived from the segment averages. The first and last
// points are never modified or removed. Segments of three or fewer points
// are left untouched.
func (s *Segment) Smooth(vertical, horizontal, removeExtremes bool) {
	if len(s.Points) <= 3 {
		return
	}
	n := len(s.Points)

	elevations := make([]*float64, n)
	latitudes := make([]float64, n)
	longitudes := make([]float64, n)
	for i, p := range s.Points {
		elevations[i] = p.Elevation
		latitudes[i] = p.Latitude
		longitudes[i] = p.Longitude
	}

	avgDistance := 0.0
	avgElevationDelta := 1.0
	if removeExtremes {
		var distanceSum float64
		var elevationDeltaSum float64
		elevationDeltas := 0
		for i := 1; i < n; i++ {
			distanceSum += s.Points[i].Distance2D(&s.Points[i-1].Point)
			if elevations[i] != nil && elevations[i-1] != nil {
				elevationDeltaSum += math.Abs(*elevations[i] - *elevations[i-1])
				elevationDeltas++
			}
		}
		avgDistance = distanceSum / float64(n-1)
		if elevationDeltas > 0 {
			avgElevationDelta = elevationDeltaSum / float64(elevationDeltas)
		}
	}

	// A point that moved more than this multiple of the average neighbour
	// distance is a removal candidate.
	remove2DThreshold := 1.75 * avgDistance
	removeElevationThreshold := 5 * avgElevationDelta

	newPoints := []*TrackPoint{s.Points[0]}

	for i := 1; i < n-1; i++ {
		var keep *TrackPoint
		removed := false

		if vertical && elevations[i-1] != nil && elevations[i] != nil && elevations[i+1] != nil {
			oldElevation := *elevations[i]
			newElevation := smoothPrev**elevations[i-1] +
				smoothCurrent**elevations[i] +
				smoothNext**elevations[i+1]

			if removeExtremes {
				// The point must be distant enough from *both* neighbours.
				d1 := math.Abs(oldElevation - *elevations[i-1])
				d2 := math.Abs(oldElevation - *elevations[i+1])
				if math.Min(d1, d2) < removeElevationThreshold &&
					math.Abs(oldElevation-newElevation) < remove2DThreshold {
					keep = s.Points[i]
				} else {
					removed = true
				}
			} else {
				v := newElevation
				s.Points[i].Elevation = &v
				keep = s.Points[i]
			}
		} else {
			keep = s.Points[i]
		}

		if horizontal {
			oldLatitude := latitudes[i]
			oldLongitude := longitudes[i]
			newLatitude := smoothPrev*latitudes[i-1] + smoothCurrent*latitudes[i] + smoothNext*latitudes[i+1]
			newLongitude := smoothPrev*longitudes[i-1] + smoothCurrent*longitudes[i] + smoothNext*longitudes[i+1]

			if !removeExtremes {
				s.Points[i].Latitude = newLatitude
				s.Points[i].Longitude = newLongitude
			}

			// Guard against removing a point that merely sits close to a
			// neighbour on an otherwise straight line.
			d1 := geo.Distance2D(latitudes[i-1], longitudes[i-1], latitudes[i], longitudes[i])
			d2 := geo.Distance2D(latitudes[i+1], longitudes[i+1], latitudes[i], longitudes[i])
			d := geo.Distance2D(latitudes[i-1], longitudes[i-1], latitudes[i+1], longitudes[i+1])

			if d1+d2 > d*1.5 && removeExtremes {
				moved := geo.Distance2D(oldLatitude, oldLongitude, newLatitude, newLongitude)
				if moved < remove2DThreshold {
					keep = s.Points[i]
				} else {
					removed = true
				}
			} else {
				keep = s.Points[i]
			}
		}

		if keep != nil && !removed {
			newPoints = append(newPoints, keep)
		}
	}

	newPoints = append(newPoints, s.Points[n-1])
	s.Points = newPoints
}

// HasTimes reports whether the segment is usable for time-based analytics:
// more than two points, over 75% of them timed. An empty segment reports
// true so it cannot flip an entire track's status.
func (s *Segment) HasTimes() bool {
	if len(s.Points) == 0 {
		return true
	}
	found := 0
	for _, p := range s.Points {
		if p.Time != nil {
			found++
		}
	}
	return len(s.Points) > 2 && float64(found)/float64(len(s.Points)) > 0.75
}

// HasElevations reports whether over 75% of the points carry elevation, with
// the same empty-segment rule as HasTimes.
func (s *Segment) HasElevations() bool {
	if len(s.Points) == 0 {
		return true
	}
	found := 0
	for _, p := range s.Points {
		if p.Elevation != nil {
			found++
		}
	}
	return len(s.Points) > 2 && float64(found)/float64(len(s.Points)) > 0.75
}

// Clone returns a deep structural copy of the segment. The copy never aliases
// the original's point slice or points.
func (s *Segment) Clone() *Segment {
	c := &Segment{Extensions: cloneExtensions(s.Extensions)}
	if s.Points != nil {
		c.Points = make([]*TrackPoint, len(s.Points))
		for i, p := range s.Points {
			c.Points[i] = p.Clone()
		}
	}
	return c
}
