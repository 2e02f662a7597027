package gpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gpxkit/internal/geo"
)

func fp(v float64) *float64 { return &v }

func tp(lat, lon float64) *TrackPoint {
	return &TrackPoint{Point: Point{Latitude: lat, Longitude: lon}}
}

// timedSegment builds a straight northward segment: n points latStep degrees
// apart, timestamped step apart starting at start.
func timedSegment(n int, start time.Time, step time.Duration, latStep float64) *Segment {
	s := &Segment{}
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * step)
		ele := 1000.0 + float64(i)*10
		s.Points = append(s.Points, &TrackPoint{Point: Point{
			Latitude:  46.0 + float64(i)*latStep,
			Longitude: 7.0,
			Elevation: &ele,
			Time:      &at,
		}})
	}
	return s
}

func singleTrackDoc(segments ...*Segment) *Document {
	return &Document{Tracks: []*Track{{Segments: segments}}}
}

func TestSimplify(t *testing.T) {
	t.Run("collinear points collapse", func(t *testing.T) {
		s := &Segment{Points: []*TrackPoint{
			tp(46.0, 7.0), tp(46.00001, 7.0), tp(46.00002, 7.0),
		}}
		first, last := s.Points[0], s.Points[2]

		s.Simplify(1000)

		require.Len(t, s.Points, 2)
		assert.Same(t, first, s.Points[0])
		assert.Same(t, last, s.Points[1])
	})

	t.Run("spike survives", func(t *testing.T) {
		s := &Segment{Points: []*TrackPoint{
			tp(46.0, 7.0), tp(46.0005, 7.01), tp(46.0, 7.02),
		}}
		s.Simplify(10)
		assert.Len(t, s.Points, 3)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := timedSegment(50, time.Now(), time.Minute, 0.001)
		s.Points[25].Latitude += 0.01

		s.Simplify(10)
		once := len(s.Points)
		s.Simplify(10)
		assert.Equal(t, once, len(s.Points))
	})

	t.Run("default threshold", func(t *testing.T) {
		s := &Segment{Points: []*TrackPoint{
			tp(46.0, 7.0), tp(46.000001, 7.000001), tp(46.0, 7.000002),
		}}
		s.Simplify(0)
		assert.Len(t, s.Points, 2)
	})
}

func TestReducePoints(t *testing.T) {
	// Points ~111m apart; a 150m minimum keeps every other one.
	s := timedSegment(9, time.Now(), time.Minute, 0.001)
	s.ReducePoints(150)
	assert.Equal(t, 5, len(s.Points))
	assert.Equal(t, 46.0, s.Points[0].Latitude)
}

func TestDocumentReducePoints(t *testing.T) {
	t.Run("no constraint is invalid", func(t *testing.T) {
		doc := singleTrackDoc(timedSegment(5, time.Now(), time.Minute, 0.001))
		var ve *ValidationError
		require.ErrorAs(t, doc.ReducePoints(0, 0), &ve)
	})

	t.Run("max below two is invalid", func(t *testing.T) {
		doc := singleTrackDoc(timedSegment(5, time.Now(), time.Minute, 0.001))
		var ve *ValidationError
		require.ErrorAs(t, doc.ReducePoints(1, 0), &ve)
	})

	t.Run("already few enough", func(t *testing.T) {
		doc := singleTrackDoc(timedSegment(5, time.Now(), time.Minute, 0.001))
		require.NoError(t, doc.ReducePoints(100, 0))
		assert.Equal(t, 5, doc.GetPointsNo())
	})

	t.Run("derives distance from target count", func(t *testing.T) {
		doc := singleTrackDoc(timedSegment(100, time.Now(), time.Minute, 0.001))
		require.NoError(t, doc.ReducePoints(10, 0))
		got := doc.GetPointsNo()
		assert.Greater(t, got, 1)
		assert.LessOrEqual(t, got, 12)
	})
}

func TestSmooth(t *testing.T) {
	t.Run("keeps count and endpoints", func(t *testing.T) {
		s := timedSegment(10, time.Now(), time.Minute, 0.001)
		s.Points[5].Elevation = fp(2000) // spike

		firstLat := s.Points[0].Latitude
		lastEle := *s.Points[9].Elevation

		s.Smooth(true, true, false)

		assert.Len(t, s.Points, 10)
		assert.Equal(t, firstLat, s.Points[0].Latitude)
		assert.Equal(t, lastEle, *s.Points[9].Elevation)
		// The spike was averaged down.
		assert.Less(t, *s.Points[5].Elevation, 2000.0)
	})

	t.Run("short segments untouched", func(t *testing.T) {
		s := timedSegment(3, time.Now(), time.Minute, 0.001)
		before := *s.Points[1].Elevation
		s.Smooth(true, true, true)
		assert.Len(t, s.Points, 3)
		assert.Equal(t, before, *s.Points[1].Elevation)
	})

	t.Run("remove extremes drops outlier", func(t *testing.T) {
		s := timedSegment(10, time.Now(), time.Minute, 0.001)
		s.Points[5].Elevation = fp(9000)

		s.Smooth(true, false, true)
		// The spike and its heavily shifted neighbours go.
		assert.Len(t, s.Points, 7)
		for _, p := range s.Points {
			assert.Less(t, *p.Elevation, 2000.0)
		}
	})
}

func TestGetMovingData(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("continuous movement", func(t *testing.T) {
		// ~111m per minute is ~6.7 km/h: all moving.
		s := timedSegment(5, start, time.Minute, 0.001)
		md := s.GetMovingData(0)

		assert.Equal(t, 4*time.Minute, md.MovingTime+md.StoppedTime)
		assert.Equal(t, 4*time.Minute, md.MovingTime)
		assert.Greater(t, md.MovingDistance, 400.0)
	})

	t.Run("standing still counts as stopped", func(t *testing.T) {
		s := timedSegment(5, start, time.Minute, 0)
		md := s.GetMovingData(0)

		assert.Equal(t, time.Duration(0), md.MovingTime)
		assert.Equal(t, 4*time.Minute, md.StoppedTime)
	})

	t.Run("max speed skips edge intervals", func(t *testing.T) {
		s := timedSegment(5, start, time.Minute, 0.001)
		// Teleport on the last interval must not drive the max.
		s.Points[4].Latitude = 46.1

		md := s.GetMovingData(0)
		require.NotNil(t, md.MaxSpeed)
		assert.Less(t, *md.MaxSpeed, 100.0)
		assert.Greater(t, *md.MaxSpeed, 1.0)
	})

	t.Run("untimed points contribute nothing", func(t *testing.T) {
		s := timedSegment(5, start, time.Minute, 0.001)
		for _, p := range s.Points {
			p.Time = nil
		}
		md := s.GetMovingData(0)
		assert.Equal(t, time.Duration(0), md.MovingTime+md.StoppedTime)
		assert.Nil(t, md.MaxSpeed)
	})
}

func TestAddMissingElevations(t *testing.T) {
	s := timedSegment(5, time.Now(), time.Minute, 0.001)
	s.Points[1].Elevation = nil
	s.Points[2].Elevation = nil
	// Bounded run: 1000 .. nil nil .. 1030 over equal spacing.
	*s.Points[3].Elevation = 1030

	s.AddMissingElevations()

	require.NotNil(t, s.Points[1].Elevation)
	require.NotNil(t, s.Points[2].Elevation)
	assert.InDelta(t, 1010, *s.Points[1].Elevation, 0.5)
	assert.InDelta(t, 1020, *s.Points[2].Elevation, 0.5)
}

func TestAddMissingElevationsUnboundedRunStaysEmpty(t *testing.T) {
	s := timedSegment(4, time.Now(), time.Minute, 0.001)
	s.Points[3].Elevation = nil

	s.AddMissingElevations()
	assert.Nil(t, s.Points[3].Elevation)
}

func TestAddMissingTimes(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	s := timedSegment(3, start, 2*time.Minute, 0.001)
	s.Points[1].Time = nil

	s.AddMissingTimes()

	require.NotNil(t, s.Points[1].Time)
	// Equal spacing puts the interpolated time in the middle.
	assert.WithinDuration(t, start.Add(2*time.Minute), *s.Points[1].Time, 2*time.Second)
}

func TestAddMissingSpeeds(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	s := timedSegment(3, start, time.Minute, 0.001)
	s.Points[0].Speed = fp(1)
	s.Points[2].Speed = fp(1)

	s.AddMissingSpeeds()

	require.NotNil(t, s.Points[1].Speed)
	// Both neighbour legs are ~111m in 60s.
	assert.InDelta(t, 111.0/60.0, *s.Points[1].Speed, 0.1)
}

func TestSplitAndJoin(t *testing.T) {
	s := timedSegment(5, time.Now(), time.Minute, 0.001)

	first, second := s.Split(1)
	assert.Equal(t, 2, len(first.Points))
	assert.Equal(t, 3, len(second.Points))

	first.Join(second)
	assert.Equal(t, 5, len(first.Points))

	track := &Track{Segments: []*Segment{timedSegment(5, time.Now(), time.Minute, 0.001)}}
	track.Split(0, 2)
	require.Len(t, track.Segments, 2)
	assert.Equal(t, 3, len(track.Segments[0].Points))
	track.Join(0)
	require.Len(t, track.Segments, 1)
	assert.Equal(t, 5, track.GetPointsNo())
}

func TestRemovePoint(t *testing.T) {
	s := timedSegment(3, time.Now(), time.Minute, 0.001)
	second := s.Points[1]
	s.RemovePoint(0)
	assert.Len(t, s.Points, 2)
	assert.Same(t, second, s.Points[0])

	s.RemovePoint(99)
	assert.Len(t, s.Points, 2)
}

func TestGetDuration(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("plain", func(t *testing.T) {
		s := timedSegment(5, start, time.Minute, 0.001)
		d := s.GetDuration()
		require.NotNil(t, d)
		assert.Equal(t, 4*time.Minute, *d)
	})

	t.Run("too short is zero", func(t *testing.T) {
		s := timedSegment(1, start, time.Minute, 0.001)
		d := s.GetDuration()
		require.NotNil(t, d)
		assert.Equal(t, time.Duration(0), *d)
	})

	t.Run("endpoint substitution", func(t *testing.T) {
		s := timedSegment(5, start, time.Minute, 0.001)
		s.Points[4].Time = nil
		d := s.GetDuration()
		require.NotNil(t, d)
		assert.Equal(t, 3*time.Minute, *d)
	})

	t.Run("unusable is nil", func(t *testing.T) {
		s := timedSegment(4, start, time.Minute, 0.001)
		for _, p := range s.Points {
			p.Time = nil
		}
		assert.Nil(t, s.GetDuration())
	})
}

func TestGetLocationAt(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	s := timedSegment(5, start, time.Minute, 0.001)

	p := s.GetLocationAt(start.Add(90 * time.Second))
	require.NotNil(t, p)
	assert.Same(t, s.Points[2], p)

	assert.Nil(t, s.GetLocationAt(start.Add(-time.Minute)))
	assert.Nil(t, s.GetLocationAt(start.Add(time.Hour)))
}

func TestGetSpeed(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	s := timedSegment(3, start, time.Minute, 0.001)

	v := s.GetSpeed(1)
	require.NotNil(t, v)
	assert.InDelta(t, 111.0/60.0, *v, 0.2)

	assert.Nil(t, s.GetSpeed(-1))
	assert.Nil(t, s.GetSpeed(99))
}

func TestNearestLocation(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	doc := singleTrackDoc(timedSegment(10, start, time.Minute, 0.001))

	near := doc.GetNearestLocation(geo.Location{Latitude: 46.0031, Longitude: 7.0})
	require.NotNil(t, near)
	assert.Equal(t, 3, near.PointNo)
	assert.Equal(t, 0, near.TrackNo)

	empty := &Document{}
	assert.Nil(t, empty.GetNearestLocation(geo.Location{}))
}

func TestGetNearestLocationsFindsEachPass(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	s := timedSegment(11, start, time.Minute, 0.001)
	// Revisit the location of point 2 later in the track.
	s.Points[8].Latitude = s.Points[2].Latitude
	doc := singleTrackDoc(s)

	query := geo.Location{Latitude: s.Points[2].Latitude, Longitude: 7.0}
	results := doc.GetNearestLocations(query, 0)

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].PointNo)
	assert.Equal(t, 8, results[1].PointNo)
}

func TestGetNearestLocationsUsesElevation(t *testing.T) {
	s := &Segment{}
	for i := 0; i < 5; i++ {
		p := tp(46.0+0.001*float64(i), 7.0)
		p.Elevation = fp(10000)
		s.Points = append(s.Points, p)
	}
	doc := singleTrackDoc(s)

	// 2D-coincident with point 2 but 10 km below the track, so every point
	// is farther away than the threshold.
	ground := geo.Location{Latitude: s.Points[2].Latitude, Longitude: 7.0, Elevation: fp(0)}
	assert.Empty(t, doc.GetNearestLocations(ground, 0.4))

	// The same query at track elevation matches.
	airborne := geo.Location{Latitude: s.Points[2].Latitude, Longitude: 7.0, Elevation: fp(10000)}
	results := doc.GetNearestLocations(airborne, 0.4)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].PointNo)
}

func TestFillTimeDataWithRegularIntervals(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Minute)

	newDoc := func() *Document {
		s := timedSegment(5, start, time.Minute, 0.001)
		for _, p := range s.Points {
			p.Time = nil
		}
		return singleTrackDoc(s)
	}

	t.Run("start and end", func(t *testing.T) {
		doc := newDoc()
		require.NoError(t, doc.FillTimeDataWithRegularIntervals(&start, nil, &end, false))

		require.NotNil(t, doc.Time)
		assert.Equal(t, start, *doc.Time)

		points := doc.Tracks[0].Segments[0].Points
		assert.Equal(t, start, *points[0].Time)
		assert.Equal(t, end, *points[4].Time)
		assert.Equal(t, start.Add(2*time.Minute), *points[2].Time)
	})

	t.Run("start and end override delta", func(t *testing.T) {
		doc := newDoc()
		misleading := time.Hour
		require.NoError(t, doc.FillTimeDataWithRegularIntervals(&start, &misleading, &end, false))

		points := doc.Tracks[0].Segments[0].Points
		assert.Equal(t, end, *points[4].Time)
		assert.Equal(t, start.Add(time.Minute), *points[1].Time)
	})

	t.Run("end and delta derive start", func(t *testing.T) {
		doc := newDoc()
		delta := time.Minute
		require.NoError(t, doc.FillTimeDataWithRegularIntervals(nil, &delta, &end, false))

		points := doc.Tracks[0].Segments[0].Points
		assert.Equal(t, end, *points[4].Time)
		assert.Equal(t, end.Add(-4*time.Minute), *points[0].Time)
	})

	t.Run("one parameter is not enough", func(t *testing.T) {
		doc := newDoc()
		var de *DomainError
		require.ErrorAs(t, doc.FillTimeDataWithRegularIntervals(&start, nil, nil, false), &de)
	})

	t.Run("existing times need force", func(t *testing.T) {
		doc := singleTrackDoc(timedSegment(5, start, time.Minute, 0.001))
		var de *DomainError
		require.ErrorAs(t, doc.FillTimeDataWithRegularIntervals(&start, nil, &end, false), &de)
		require.NoError(t, doc.FillTimeDataWithRegularIntervals(&start, nil, &end, true))
	})

	t.Run("inverted range", func(t *testing.T) {
		doc := newDoc()
		before := start.Add(-time.Hour)
		var de *DomainError
		require.ErrorAs(t, doc.FillTimeDataWithRegularIntervals(&start, nil, &before, false), &de)
	})

	t.Run("not enough points", func(t *testing.T) {
		doc := &Document{}
		var de *DomainError
		require.ErrorAs(t, doc.FillTimeDataWithRegularIntervals(&start, nil, &end, false), &de)
	})
}

func TestUphillDownhillAndExtremes(t *testing.T) {
	s := timedSegment(5, time.Now(), time.Minute, 0.001) // climbs 10m per point
	doc := singleTrackDoc(s)

	ud := doc.GetUphillDownhill()
	assert.InDelta(t, 40, ud.Uphill, 0.5)
	assert.InDelta(t, 0, ud.Downhill, 0.5)

	mm := doc.GetElevationExtremes()
	require.NotNil(t, mm.Minimum)
	require.NotNil(t, mm.Maximum)
	assert.Equal(t, 1000.0, *mm.Minimum)
	assert.Equal(t, 1040.0, *mm.Maximum)
}

func TestAddElevationIsInvertible(t *testing.T) {
	s := timedSegment(5, time.Now(), time.Minute, 0.001)
	s.Points[2].Elevation = nil
	doc := singleTrackDoc(s)

	doc.AddElevation(100)
	doc.AddElevation(-100)

	assert.Equal(t, 1000.0, *s.Points[0].Elevation)
	assert.Nil(t, s.Points[2].Elevation)
}

func TestRemoveTimeAndElevation(t *testing.T) {
	s := timedSegment(3, time.Now(), time.Minute, 0.001)
	doc := singleTrackDoc(s)
	doc.Waypoints = []*Waypoint{{Point: Point{Latitude: 1, Longitude: 2, Elevation: fp(5)}}}

	doc.RemoveTime(false)
	doc.RemoveElevation(true, false, false)

	for _, p := range s.Points {
		assert.Nil(t, p.Time)
		assert.Nil(t, p.Elevation)
	}
	assert.NotNil(t, doc.Waypoints[0].Elevation)

	doc.RemoveElevation(false, false, true)
	assert.Nil(t, doc.Waypoints[0].Elevation)
}

func TestAdjustTime(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	doc := singleTrackDoc(timedSegment(3, start, time.Minute, 0.001))
	doc.Time = &start

	doc.AdjustTime(time.Hour)

	assert.Equal(t, start.Add(time.Hour), *doc.Time)
	assert.Equal(t, start.Add(time.Hour), *doc.Tracks[0].Segments[0].Points[0].Time)
}

func TestMoveShiftsEverything(t *testing.T) {
	doc := singleTrackDoc(timedSegment(2, time.Now(), time.Minute, 0.001))
	doc.Waypoints = []*Waypoint{{Point: Point{Latitude: 10, Longitude: 20}}}

	doc.Move(geo.DeltaByOffset(1, -1))

	assert.Equal(t, 47.0, doc.Tracks[0].Segments[0].Points[0].Latitude)
	assert.Equal(t, 11.0, doc.Waypoints[0].Latitude)
	assert.Equal(t, 19.0, doc.Waypoints[0].Longitude)
}

func TestRemoveEmpty(t *testing.T) {
	doc := &Document{
		Tracks: []*Track{
			{Segments: []*Segment{
				timedSegment(5, time.Now(), time.Minute, 0.001),
				{Points: []*TrackPoint{tp(1, 2)}}, // single point: kept
				{},                                // no points: dropped
			}},
			{Segments: []*Segment{{}}}, // empty track: dropped
		},
		Routes: []*Route{{}},
	}

	doc.RemoveEmpty()

	require.Len(t, doc.Tracks, 1)
	assert.Len(t, doc.Tracks[0].Segments, 2)
	assert.Len(t, doc.Tracks[0].Segments[1].Points, 1)
	assert.Empty(t, doc.Routes)
}

func TestHasTimesAndElevations(t *testing.T) {
	s := timedSegment(8, time.Now(), time.Minute, 0.001)
	doc := singleTrackDoc(s)

	assert.True(t, doc.HasTimes())
	assert.True(t, doc.HasElevations())

	// Dropping 3 of 8 timestamps goes below the 75% rule.
	s.Points[0].Time = nil
	s.Points[1].Time = nil
	s.Points[2].Time = nil
	assert.False(t, doc.HasTimes())

	assert.False(t, (&Document{}).HasTimes())
}

func TestGetPointsData(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	doc := singleTrackDoc(
		timedSegment(3, start, time.Minute, 0.001),
		timedSegment(2, start.Add(time.Hour), time.Minute, 0.001),
	)

	data := doc.GetPointsData(false)
	require.Len(t, data, 5)

	assert.Equal(t, 0.0, data[0].DistanceFromStart)
	assert.Greater(t, data[2].DistanceFromStart, 200.0)
	// No distance is added for the jump between segments.
	assert.Equal(t, data[2].DistanceFromStart, data[3].DistanceFromStart)
	assert.Equal(t, 1, data[3].SegmentNo)

	// The elevation gain of 10 m per point makes the 3D distances strictly
	// longer than the flat ones.
	flat := doc.GetPointsData(true)
	require.Len(t, flat, 5)
	assert.Less(t, flat[2].DistanceFromStart, data[2].DistanceFromStart)
}

func TestWalk(t *testing.T) {
	doc := singleTrackDoc(
		timedSegment(3, time.Now(), time.Minute, 0.001),
		timedSegment(2, time.Now(), time.Minute, 0.001),
	)

	var indices []PointIndex
	for index := range doc.Walk() {
		indices = append(indices, index)
	}
	require.Len(t, indices, 5)
	assert.Equal(t, PointIndex{TrackNo: 0, SegmentNo: 1, PointNo: 1}, indices[4])

	// Restartable: a second full pass sees everything again.
	count := 0
	for range doc.Walk() {
		count++
	}
	assert.Equal(t, 5, count)

	// Early break stops the walk.
	count = 0
	for range doc.Walk() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestPoints(t *testing.T) {
	doc := singleTrackDoc(
		timedSegment(3, time.Now(), time.Minute, 0.001),
		timedSegment(2, time.Now(), time.Minute, 0.001),
	)

	var points []*TrackPoint
	for p := range doc.Points() {
		points = append(points, p)
	}
	require.Len(t, points, 5)
	assert.Same(t, doc.Tracks[0].Segments[0].Points[0], points[0])
	assert.Same(t, doc.Tracks[0].Segments[1].Points[1], points[4])

	count := 0
	for range doc.Points() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestTimeBoundsAndBounds(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	doc := singleTrackDoc(timedSegment(5, start, time.Minute, 0.001))

	tb := doc.GetTimeBounds()
	require.NotNil(t, tb.StartTime)
	require.NotNil(t, tb.EndTime)
	assert.Equal(t, start, *tb.StartTime)
	assert.Equal(t, start.Add(4*time.Minute), *tb.EndTime)

	doc.RefreshBounds()
	require.NotNil(t, doc.Bounds)
	assert.Equal(t, 46.0, *doc.Bounds.MinLatitude)
	assert.InDelta(t, 46.004, *doc.Bounds.MaxLatitude, 1e-9)
}

func TestGetCenter(t *testing.T) {
	track := &Track{Segments: []*Segment{{Points: []*TrackPoint{
		tp(46.0, 7.0), tp(48.0, 9.0),
	}}}}
	c := track.GetCenter()
	require.NotNil(t, c)
	assert.Equal(t, 47.0, c.Latitude)
	assert.Equal(t, 8.0, c.Longitude)

	assert.Nil(t, (&Track{}).GetCenter())
}

func TestCloneIsDeep(t *testing.T) {
	start := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	doc := singleTrackDoc(timedSegment(3, start, time.Minute, 0.001))
	doc.Name = "original"
	doc.Bounds = &Bounds{MinLatitude: fp(1)}

	clone := doc.Clone()
	clone.Name = "copy"
	clone.Tracks[0].Segments[0].Points[0].Latitude = 0
	*clone.Bounds.MinLatitude = 99
	clone.Tracks[0].Segments[0].Points[1].Time = nil

	assert.Equal(t, "original", doc.Name)
	assert.Equal(t, 46.0, doc.Tracks[0].Segments[0].Points[0].Latitude)
	assert.Equal(t, 1.0, *doc.Bounds.MinLatitude)
	assert.NotNil(t, doc.Tracks[0].Segments[0].Points[1].Time)
}
