package gpx

import (
	"iter"
	"math"
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/geo"
)

// Document is the root of a GPX file: metadata plus waypoints, routes and
// tracks.
//
// The metadata fields are stored flat regardless of schema version; the
// version only decides how they are laid out on the wire. Version "" means
// the document was built in memory or parsed from a file without a version
// attribute; serialization then defaults to 1.1.
type Document struct {
	Version string // "1.0", "1.1" or ""
	Creator string

	Name        string
	Description string

	AuthorName     string
	AuthorEmail    string
	AuthorLink     string
	AuthorLinkText string
	AuthorLinkType string

	Copyright        string // copyright author
	CopyrightYear    string
	CopyrightLicense string

	Link     string
	LinkText string
	LinkType string

	Time     *time.Time
	Keywords string
	Bounds   *Bounds

	Waypoints []*Waypoint
	Routes    []*Route
	Tracks    []*Track

	// Namespace prefixes and xsi:schemaLocation pairs captured from the
	// source document, preserved on serialization.
	Nsmap           map[string]string
	SchemaLocations []string

	MetadataExtensions []*etree.Element
	Extensions         []*etree.Element
}

// Walk yields every track point of the document in document order together
// with its (track, segment, point) position. The sequence is lazy and
// restartable; routes and waypoints are not included.
func (d *Document) Walk() iter.Seq2[PointIndex, *TrackPoint] {
	return func(yield func(PointIndex, *TrackPoint) bool) {
		for trackNo, track := range d.Tracks {
			for segmentNo, segment := range track.Segments {
				for pointNo, point := range segment.Points {
					index := PointIndex{TrackNo: trackNo, SegmentNo: segmentNo, PointNo: pointNo}
					if !yield(index, point) {
						return
					}
				}
			}
		}
	}
}

// Points yields every track point in document order without its position, for
// callers that only need the values.
func (d *Document) Points() iter.Seq[*TrackPoint] {
	return func(yield func(*TrackPoint) bool) {
		for _, point := range d.Walk() {
			if !yield(point) {
				return
			}
		}
	}
}

// GetPointsNo returns the total number of track points.
func (d *Document) GetPointsNo() int {
	n := 0
	for _, t := range d.Tracks {
		n += t.GetPointsNo()
	}
	return n
}

// Simplify applies Ramer-Douglas-Peucker to every segment. A non-positive
// maxDistance selects DefaultSimplifyDistance.
func (d *Document) Simplify(maxDistance float64) {
	for _, t := range d.Tracks {
		t.Simplify(maxDistance)
	}
}

// ReducePoints reduces the document to roughly maxPointsNo track points by
// dropping points closer than minDistance to the previously kept one. Pass
// maxPointsNo <= 0 or minDistance <= 0 to leave that constraint unset; at
// least one must be set, and maxPointsNo must be at least 2 when set. When
// both are set, the effective minimum distance is raised to
// ceil(length3D / maxPointsNo) so the target count is approached even for
// dense tracks.
func (d *Document) ReducePoints(maxPointsNo int, minDistance float64) error {
	if maxPointsNo <= 0 && minDistance <= 0 {
		return &ValidationError{Reason: "either a maximum point count or a minimum distance is required"}
	}
	if maxPointsNo > 0 && maxPointsNo < 2 {
		return &ValidationError{Reason: "maximum point count must be at least 2"}
	}

	if maxPointsNo > 0 {
		if d.GetPointsNo() <= maxPointsNo {
			if minDistance <= 0 {
				return nil
			}
		} else {
			perPoint := math.Ceil(d.Length3D() / float64(maxPointsNo))
			if perPoint > minDistance {
				minDistance = perPoint
			}
		}
	}

	for _, t := range d.Tracks {
		t.ReducePoints(minDistance)
	}
	return nil
}

// Smooth smooths every segment.
func (d *Document) Smooth(vertical, horizontal, removeExtremes bool) {
	for _, t := range d.Tracks {
		t.Smooth(vertical, horizontal, removeExtremes)
	}
}

// AdjustTime shifts every timestamp in the document by delta, including the
// metadata time.
func (d *Document) AdjustTime(delta time.Duration) {
	if d.Time != nil {
		t := d.Time.Add(delta)
		d.Time = &t
	}
	for _, t := range d.Tracks {
		t.AdjustTime(delta)
	}
	for _, r := range d.Routes {
		r.AdjustTime(delta)
	}
	for _, w := range d.Waypoints {
		w.AdjustTime(delta)
	}
}

// RemoveTime clears timestamps from all track points, and optionally from
// routes and waypoints as well.
func (d *Document) RemoveTime(allPoints bool) {
	for _, t := range d.Tracks {
		t.RemoveTime()
	}
	if allPoints {
		for _, r := range d.Routes {
			r.RemoveTime()
		}
		for _, w := range d.Waypoints {
			w.RemoveTime()
		}
	}
}

// RemoveElevation clears elevations from track points, and optionally from
// routes and waypoints as well.
func (d *Document) RemoveElevation(tracks, routes, waypoints bool) {
	if tracks {
		for _, t := range d.Tracks {
			t.RemoveElevation()
		}
	}
	if routes {
		for _, r := range d.Routes {
			r.RemoveElevation()
		}
	}
	if waypoints {
		for _, w := range d.Waypoints {
			w.RemoveElevation()
		}
	}
}

// AddElevation shifts every present track point elevation by delta.
func (d *Document) AddElevation(delta float64) {
	for _, t := range d.Tracks {
		t.AddElevation(delta)
	}
}

// AddMissingElevations interpolates missing track point elevations.
func (d *Document) AddMissingElevations() {
	for _, t := range d.Tracks {
		t.AddMissingElevations()
	}
}

// AddMissingTimes interpolates missing track point timestamps.
func (d *Document) AddMissingTimes() {
	for _, t := range d.Tracks {
		t.AddMissingTimes()
	}
}

// AddMissingSpeeds derives missing track point speeds.
func (d *Document) AddMissingSpeeds() {
	for _, t := range d.Tracks {
		t.AddMissingSpeeds()
	}
}

// FillTimeDataWithRegularIntervals assigns evenly spaced timestamps to every
// track point. At least two of start, delta and end must be given; the
// missing value is derived from the point count, and when both start and end
// are given the delta is recomputed from them regardless of what was passed.
// Existing time data is only overwritten when force is set. The metadata time
// is set to the start.
func (d *Document) FillTimeDataWithRegularIntervals(start *time.Time, delta *time.Duration, end *time.Time, force bool) error {
	given := 0
	for _, ok := range []bool{start != nil, delta != nil, end != nil} {
		if ok {
			given++
		}
	}
	if given < 2 {
		return &DomainError{Reason: "at least two of start time, time delta and end time are required"}
	}
	if d.HasTimes() && !force {
		return &DomainError{Reason: "document already has time data; pass force to overwrite"}
	}

	pointsNo := d.GetPointsNo()
	if pointsNo < 2 {
		return &DomainError{Reason: "not enough track points to fill time data"}
	}

	// With both endpoints known the delta is always recomputed from them,
	// even when one was passed in.
	if start != nil && end != nil {
		if end.Before(*start) {
			return &DomainError{Reason: "end time must not be earlier than start time"}
		}
		step := end.Sub(*start) / time.Duration(pointsNo-1)
		delta = &step
	} else if start == nil {
		derived := end.Add(-time.Duration(pointsNo-1) * *delta)
		start = &derived
	}

	d.Time = cloneTime(start)
	i := 0
	for _, point := range d.Walk() {
		t := start.Add(time.Duration(i) * *delta)
		point.Time = &t
		i++
	}
	return nil
}

// Move shifts every point in the document, including waypoints and routes.
func (d *Document) Move(delta geo.LocationDelta) {
	for _, t := range d.Tracks {
		t.Move(delta)
	}
	for _, r := range d.Routes {
		r.Move(delta)
	}
	for _, w := range d.Waypoints {
		w.Move(delta)
	}
}

// RemoveEmpty drops segments without any points, then tracks and routes left
// without any points.
func (d *Document) RemoveEmpty() {
	var tracks []*Track
	for _, t := range d.Tracks {
		t.RemoveEmpty()
		if t.GetPointsNo() > 0 {
			tracks = append(tracks, t)
		}
	}
	d.Tracks = tracks

	var routes []*Route
	for _, r := range d.Routes {
		if len(r.Points) > 0 {
			routes = append(routes, r)
		}
	}
	d.Routes = routes
}

// Length2D sums the 2D lengths of all tracks.
func (d *Document) Length2D() float64 {
	total := 0.0
	for _, t := range d.Tracks {
		total += t.Length2D()
	}
	return total
}

// Length3D sums the 3D lengths of all tracks.
func (d *Document) Length3D() float64 {
	total := 0.0
	for _, t := range d.Tracks {
		total += t.Length3D()
	}
	return total
}

// GetTimeBounds aggregates the earliest start and latest end over all tracks.
func (d *Document) GetTimeBounds() TimeBounds {
	var bounds TimeBounds
	for _, t := range d.Tracks {
		tb := t.GetTimeBounds()
		if tb.StartTime != nil && bounds.StartTime == nil {
			bounds.StartTime = tb.StartTime
		}
		if tb.EndTime != nil {
			bounds.EndTime = tb.EndTime
		}
	}
	return bounds
}

// GetBounds merges the bounds of all tracks. Waypoints and routes do not
// contribute.
func (d *Document) GetBounds() Bounds {
	var acc boundsAccumulator
	for _, t := range d.Tracks {
		acc.merge(t.GetBounds())
	}
	return acc.b
}

// RefreshBounds recomputes the metadata bounds from the current track points.
func (d *Document) RefreshBounds() {
	bounds := d.GetBounds()
	d.Bounds = &bounds
}

// GetMovingData aggregates moving data over all tracks.
func (d *Document) GetMovingData(stoppedSpeedThreshold float64) MovingData {
	var result MovingData
	for _, t := range d.Tracks {
		md := t.GetMovingData(stoppedSpeedThreshold)
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

// GetDuration sums the track durations; nil as soon as any track's duration
// is unknown.
func (d *Document) GetDuration() *time.Duration {
	total := time.Duration(0)
	for _, t := range d.Tracks {
		dur := t.GetDuration()
		if dur == nil {
			return nil
		}
		total += *dur
	}
	return &total
}

// GetUphillDownhill sums climb and descent over all tracks.
func (d *Document) GetUphillDownhill() UphillDownhill {
	var result UphillDownhill
	for _, t := range d.Tracks {
		ud := t.GetUphillDownhill()
		result.Uphill += ud.Uphill
		result.Downhill += ud.Downhill
	}
	return result
}

// GetElevationExtremes merges elevation extremes over all tracks.
func (d *Document) GetElevationExtremes() MinimumMaximum {
	var result MinimumMaximum
	for _, t := range d.Tracks {
		mm := t.GetElevationExtremes()
		if mm.Minimum != nil && (result.Minimum == nil || *mm.Minimum < *result.Minimum) {
			result.Minimum = mm.Minimum
		}
		if mm.Maximum != nil && (result.Maximum == nil || *mm.Maximum > *result.Maximum) {
			result.Maximum = mm.Maximum
		}
	}
	return result
}

// GetLocationAt collects, over all tracks, the points at the given time.
func (d *Document) GetLocationAt(at time.Time) []*TrackPoint {
	var results []*TrackPoint
	for _, t := range d.Tracks {
		results = append(results, t.GetLocationAt(at)...)
	}
	return results
}

// GetNearestLocation returns the track point closest in 2D to the query
// location, or nil for a document without track points.
func (d *Document) GetNearestLocation(location geo.Location) *NearestLocation {
	var best *NearestLocation
	bestDistance := 0.0
	for index, point := range d.Walk() {
		distance := geo.Distance2D(point.Latitude, point.Longitude,
			location.Latitude, location.Longitude)
		if best == nil || distance < bestDistance {
			best = &NearestLocation{
				Point:     point,
				TrackNo:   index.TrackNo,
				SegmentNo: index.SegmentNo,
				PointNo:   index.PointNo,
			}
			bestDistance = distance
		}
	}
	return best
}

// GetNearestLocations finds every track passage near the query location. The
// track is partitioned into runs of consecutive points whose 3D distance to
// the query stays below thresholdFraction of the document's cumulative 3D
// length (default 0.01 when non-positive); the closest point of each run is
// reported. A track crossing the area several times therefore yields several
// results.
func (d *Document) GetNearestLocations(location geo.Location, thresholdFraction float64) []NearestLocation {
	if thresholdFraction <= 0 {
		thresholdFraction = 0.01
	}
	points := d.GetPointsData(false)
	if len(points) == 0 {
		return nil
	}
	threshold := thresholdFraction * points[len(points)-1].DistanceFromStart

	var results []NearestLocation
	var candidate *NearestLocation
	candidateDistance := 0.0

	for i := range points {
		pd := &points[i]
		distance := geo.Distance3D(pd.Point.Latitude, pd.Point.Longitude, pd.Point.Elevation,
			location.Latitude, location.Longitude, location.Elevation)
		if distance < threshold {
			if candidate == nil || distance < candidateDistance {
				candidate = &NearestLocation{
					Point:     pd.Point,
					TrackNo:   pd.TrackNo,
					SegmentNo: pd.SegmentNo,
					PointNo:   pd.PointNo,
				}
				candidateDistance = distance
			}
		} else if candidate != nil {
			results = append(results, *candidate)
			candidate = nil
		}
	}
	if candidate != nil {
		results = append(results, *candidate)
	}
	return results
}

// GetPointsData returns every track point annotated with its cumulative
// distance from the start of the document, 3D unless distance2D is set.
// Distance does not reset across segment or track boundaries, but no distance
// is added for the jump between them.
func (d *Document) GetPointsData(distance2D bool) []PointData {
	var results []PointData
	fromStart := 0.0
	var previous *TrackPoint

	for index, point := range d.Walk() {
		if index.PointNo == 0 {
			previous = nil
		}
		if previous != nil {
			if distance2D {
				fromStart += point.Distance2D(&previous.Point)
			} else {
				fromStart += point.Distance3D(&previous.Point)
			}
		}
		results = append(results, PointData{
			Point:             point,
			DistanceFromStart: fromStart,
			TrackNo:           index.TrackNo,
			SegmentNo:         index.SegmentNo,
			PointNo:           index.PointNo,
		})
		previous = point
	}
	return results
}

// HasTimes reports whether every track passes the 75% timed-points rule.
func (d *Document) HasTimes() bool {
	if len(d.Tracks) == 0 {
		return false
	}
	for _, t := range d.Tracks {
		if !t.HasTimes() {
			return false
		}
	}
	return true
}

// HasElevations reports whether every track passes the 75% elevation rule.
func (d *Document) HasElevations() bool {
	if len(d.Tracks) == 0 {
		return false
	}
	for _, t := range d.Tracks {
		if !t.HasElevations() {
			return false
		}
	}
	return true
}

// Clone returns a deep structural copy of the document. Mutating the copy
// never changes the original.
func (d *Document) Clone() *Document {
	c := *d
	c.Time = cloneTime(d.Time)
	c.Bounds = d.Bounds.Clone()
	c.MetadataExtensions = cloneExtensions(d.MetadataExtensions)
	c.Extensions = cloneExtensions(d.Extensions)

	if d.Nsmap != nil {
		c.Nsmap = make(map[string]string, len(d.Nsmap))
		for k, v := range d.Nsmap {
			c.Nsmap[k] = v
		}
	}
	if d.SchemaLocations != nil {
		c.SchemaLocations = append([]string{}, d.SchemaLocations...)
	}

	if d.Waypoints != nil {
		c.Waypoints = make([]*Waypoint, len(d.Waypoints))
		for i, w := range d.Waypoints {
			c.Waypoints[i] = w.Clone()
		}
	}
	if d.Routes != nil {
		c.Routes = make([]*Route, len(d.Routes))
		for i, r := range d.Routes {
			c.Routes[i] = r.Clone()
		}
	}
	if d.Tracks != nil {
		c.Tracks = make([]*Track, len(d.Tracks))
		for i, t := range d.Tracks {
			c.Tracks[i] = t.Clone()
		}
	}
	return &c
}
