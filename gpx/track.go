package gpx

import (
	"iter"
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/geo"
)

// Track is a named recording made of ordered segments.
type Track struct {
	Name        string
	Comment     string
	Description string
	Source      string
	Link        string
	LinkText    string
	LinkType    string
	Number      *int
	Type        string
	Segments    []*Segment
	Extensions  []*etree.Element
}

// Walk yields every point of the track in order together with its
// (segment, point) position. The sequence is lazy and restartable.
func (t *Track) Walk() iter.Seq2[PointIndex, *TrackPoint] {
	return func(yield func(PointIndex, *TrackPoint) bool) {
		for segmentNo, segment := range t.Segments {
			for pointNo, point := range segment.Points {
				if !yield(PointIndex{SegmentNo: segmentNo, PointNo: pointNo}, point) {
					return
				}
			}
		}
	}
}

// GetPointsNo returns the total number of points across all segments.
func (t *Track) GetPointsNo() int {
	n := 0
	for _, s := range t.Segments {
		n += len(s.Points)
	}
	return n
}

// Simplify applies Ramer-Douglas-Peucker to each segment independently.
func (t *Track) Simplify(maxDistance float64) {
	for _, s := range t.Segments {
		s.Simplify(maxDistance)
	}
}

// ReducePoints reduces each segment independently.
func (t *Track) ReducePoints(minDistance float64) {
	for _, s := range t.Segments {
		s.ReducePoints(minDistance)
	}
}

// Smooth smooths each segment independently.
func (t *Track) Smooth(vertical, horizontal, removeExtremes bool) {
	for _, s := range t.Segments {
		s.Smooth(vertical, horizontal, removeExtremes)
	}
}

// AdjustTime shifts every point's timestamp by delta.
func (t *Track) AdjustTime(delta time.Duration) {
	for _, s := range t.Segments {
		s.AdjustTime(delta)
	}
}

// RemoveTime clears every point's timestamp.
func (t *Track) RemoveTime() {
	for _, s := range t.Segments {
		s.RemoveTime()
	}
}

// RemoveElevation clears every point's elevation.
func (t *Track) RemoveElevation() {
	for _, s := range t.Segments {
		s.RemoveElevation()
	}
}

// AddElevation shifts every present elevation by delta.
func (t *Track) AddElevation(delta float64) {
	for _, s := range t.Segments {
		s.AddElevation(delta)
	}
}

// AddMissingElevations interpolates missing elevations per segment.
func (t *Track) AddMissingElevations() {
	for _, s := range t.Segments {
		s.AddMissingElevations()
	}
}

// AddMissingTimes interpolates missing timestamps per segment.
func (t *Track) AddMissingTimes() {
	for _, s := range t.Segments {
		s.AddMissingTimes()
	}
}

// AddMissingSpeeds derives missing speeds per segment.
func (t *Track) AddMissingSpeeds() {
	for _, s := range t.Segments {
		s.AddMissingSpeeds()
	}
}

// Move shifts every point's position by the given delta.
func (t *Track) Move(delta geo.LocationDelta) {
	for _, s := range t.Segments {
		s.Move(delta)
	}
}

// RemoveEmpty drops segments without any points.
func (t *Track) RemoveEmpty() {
	var kept []*Segment
	for _, s := range t.Segments {
		if len(s.Points) > 0 {
			kept = append(kept, s)
		}
	}
	t.Segments = kept
}

// Length2D sums the 2D lengths of all segments.
func (t *Track) Length2D() float64 {
	total := 0.0
	for _, s := range t.Segments {
		total += s.Length2D()
	}
	return total
}

// Length3D sums the 3D lengths of all segments.
func (t *Track) Length3D() float64 {
	total := 0.0
	for _, s := range t.Segments {
		total += s.Length3D()
	}
	return total
}

// Split splits the segment at the given index in place, replacing it with
// the two halves. Out-of-range segment indices are ignored.
func (t *Track) Split(segmentNo, pointNo int) {
	if segmentNo < 0 || segmentNo >= len(t.Segments) {
		return
	}
	first, second := t.Segments[segmentNo].Split(pointNo)
	segments := make([]*Segment, 0, len(t.Segments)+1)
	segments = append(segments, t.Segments[:segmentNo]...)
	segments = append(segments, first, second)
	segments = append(segments, t.Segments[segmentNo+1:]...)
	t.Segments = segments
}

// Join merges the segment at the given index with the following one.
// Indices without a following segment are ignored.
func (t *Track) Join(segmentNo int) {
	if segmentNo < 0 || segmentNo >= len(t.Segments)-1 {
		return
	}
	t.Segments[segmentNo].Join(t.Segments[segmentNo+1])
	t.Segments = append(t.Segments[:segmentNo+1:segmentNo+1], t.Segments[segmentNo+2:]...)
}

// GetTimeBounds aggregates the earliest start and latest end over all
// segments.
func (t *Track) GetTimeBounds() TimeBounds {
	var bounds TimeBounds
	for _, s := range t.Segments {
		sb := s.GetTimeBounds()
		if sb.StartTime != nil && bounds.StartTime == nil {
			bounds.StartTime = sb.StartTime
		}
		if sb.EndTime != nil {
			bounds.EndTime = sb.EndTime
		}
	}
	return bounds
}

// GetBounds merges the bounds of all segments.
func (t *Track) GetBounds() Bounds {
	var acc boundsAccumulator
	for _, s := range t.Segments {
		acc.merge(s.GetBounds())
	}
	return acc.b
}

// GetMovingData aggregates moving data over all segments; the max speed is
// the largest per-segment max.
func (t *Track) GetMovingData(stoppedSpeedThreshold float64) MovingData {
	var result MovingData
	for _, s := range t.Segments {
		md := s.GetMovingData(stoppedSpeedThreshold)
		result.MovingTime += md.MovingTime
		result.StoppedTime += md.StoppedTime
		result.MovingDistance += md.MovingDistance
		result.StoppedDistance += md.StoppedDistance
		if md.MaxSpeed != nil && (result.MaxSpeed == nil || *md.MaxSpeed > *result.MaxSpeed) {
			result.MaxSpeed = md.MaxSpeed
		}
	}
	return result
}

// GetDuration sums the durations of all segments; nil as soon as any
// segment's duration is unknown.
func (t *Track) GetDuration() *time.Duration {
	total := time.Duration(0)
	for _, s := range t.Segments {
		d := s.GetDuration()
		if d == nil {
			return nil
		}
		total += *d
	}
	return &total
}

// GetUphillDownhill sums climb and descent over all segments.
func (t *Track) GetUphillDownhill() UphillDownhill {
	var result UphillDownhill
	for _, s := range t.Segments {
		ud := s.GetUphillDownhill()
		result.Uphill += ud.Uphill
		result.Downhill += ud.Downhill
	}
	return result
}

// GetElevationExtremes merges elevation extremes over all segments.
func (t *Track) GetElevationExtremes() MinimumMaximum {
	var result MinimumMaximum
	for _, s := range t.Segments {
		mm := s.GetElevationExtremes()
		if mm.Minimum != nil && (result.Minimum == nil || *mm.Minimum < *result.Minimum) {
			result.Minimum = mm.Minimum
		}
		if mm.Maximum != nil && (result.Maximum == nil || *mm.Maximum > *result.Maximum) {
			result.Maximum = mm.Maximum
		}
	}
	return result
}

// GetLocationAt returns, per segment, the point at the given time; segments
// whose time range does not cover it contribute nothing.
func (t *Track) GetLocationAt(at time.Time) []*TrackPoint {
	var results []*TrackPoint
	for _, s := range t.Segments {
		if p := s.GetLocationAt(at); p != nil {
			results = append(results, p)
		}
	}
	return results
}

// GetNearestLocation returns the point closest in 2D to the query location
// with its position, or nil for a track without points.
func (t *Track) GetNearestLocation(location geo.Location) (*TrackPoint, *PointIndex) {
	var best *TrackPoint
	var bestIndex *PointIndex
	bestDistance := 0.0
	for segmentNo, s := range t.Segments {
		point, pointNo := s.GetNearestLocation(location)
		if point == nil {
			continue
		}
		d := geo.Distance2D(point.Latitude, point.Longitude, location.Latitude, location.Longitude)
		if best == nil || d < bestDistance {
			best = point
			bestIndex = &PointIndex{SegmentNo: segmentNo, PointNo: pointNo}
			bestDistance = d
		}
	}
	return best, bestIndex
}

// GetCenter returns the arithmetic mean of all point coordinates, or nil for
// a track without points.
func (t *Track) GetCenter() *geo.Location {
	sumLat, sumLon := 0.0, 0.0
	n := 0
	for _, s := range t.Segments {
		for _, p := range s.Points {
			sumLat += p.Latitude
			sumLon += p.Longitude
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return &geo.Location{Latitude: sumLat / float64(n), Longitude: sumLon / float64(n)}
}

// HasTimes reports whether every segment passes the 75% timed-points rule.
func (t *Track) HasTimes() bool {
	if len(t.Segments) == 0 {
		return false
	}
	for _, s := range t.Segments {
		if !s.HasTimes() {
			return false
		}
	}
	return true
}

// HasElevations reports whether every segment passes the 75% elevation rule.
func (t *Track) HasElevations() bool {
	if len(t.Segments) == 0 {
		return false
	}
	for _, s := range t.Segments {
		if !s.HasElevations() {
			return false
		}
	}
	return true
}

// Clone returns a deep structural copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	c.Number = cloneInt(t.Number)
	c.Extensions = cloneExtensions(t.Extensions)
	if t.Segments != nil {
		c.Segments = make([]*Segment, len(t.Segments))
		for i, s := range t.Segments {
			c.Segments[i] = s.Clone()
		}
	}
	return &c
}
