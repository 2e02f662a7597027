package gpx

import "time"

// Summary records returned by analytics. They are plain values, never
// persisted back onto entities.

// TimeBounds holds the first and last timestamp seen during a scan.
type TimeBounds struct {
	StartTime *time.Time
	EndTime   *time.Time
}

// MovingData aggregates moving/stopped classification over timed point pairs.
type MovingData struct {
	MovingTime      time.Duration
	StoppedTime     time.Duration
	MovingDistance  float64 // meters
	StoppedDistance float64 // meters
	MaxSpeed        *float64 // m/s; nil when no usable samples exist
}

// UphillDownhill holds the total climb and descent in meters.
type UphillDownhill struct {
	Uphill   float64
	Downhill float64
}

// MinimumMaximum holds the extremes of a scanned quantity; both sides are nil
// for empty input.
type MinimumMaximum struct {
	Minimum *float64
	Maximum *float64
}

// PointIndex locates a point inside the document tree.
type PointIndex struct {
	TrackNo   int
	SegmentNo int
	PointNo   int
}

// NearestLocation is the closest on-track point to a query location.
type NearestLocation struct {
	Point     *TrackPoint
	TrackNo   int
	SegmentNo int
	PointNo   int
}

// PointData pairs a point with its cumulative distance from the start of the
// document and its position in the tree.
type PointData struct {
	Point             *TrackPoint
	DistanceFromStart float64 // meters
	TrackNo           int
	SegmentNo         int
	PointNo           int
}
