package gpx

// Bounds is a latitude/longitude extent rectangle. Every side is
// independently optional.
type Bounds struct {
	MinLatitude  *float64
	MaxLatitude  *float64
	MinLongitude *float64
	MaxLongitude *float64
}

// Clone returns a deep copy of the bounds.
func (b *Bounds) Clone() *Bounds {
	if b == nil {
		return nil
	}
	return &Bounds{
		MinLatitude:  cloneFloat(b.MinLatitude),
		MaxLatitude:  cloneFloat(b.MaxLatitude),
		MinLongitude: cloneFloat(b.MinLongitude),
		MaxLongitude: cloneFloat(b.MaxLongitude),
	}
}

// boundsAccumulator builds up a min/max rectangle over a linear point scan.
type boundsAccumulator struct {
	b Bounds
}

func (a *boundsAccumulator) add(lat, lon float64) {
	if a.b.MinLatitude == nil || lat < *a.b.MinLatitude {
		v := lat
		a.b.MinLatitude = &v
	}
	if a.b.MaxLatitude == nil || lat > *a.b.MaxLatitude {
		v := lat
		a.b.MaxLatitude = &v
	}
	if a.b.MinLongitude == nil || lon < *a.b.MinLongitude {
		v := lon
		a.b.MinLongitude = &v
	}
	if a.b.MaxLongitude == nil || lon > *a.b.MaxLongitude {
		v := lon
		a.b.MaxLongitude = &v
	}
}

// merge folds another rectangle into the accumulator.
func (a *boundsAccumulator) merge(other Bounds) {
	if other.MinLatitude != nil && other.MinLongitude != nil {
		a.add(*other.MinLatitude, *other.MinLongitude)
	}
	if other.MaxLatitude != nil && other.MaxLongitude != nil {
		a.add(*other.MaxLatitude, *other.MaxLongitude)
	}
}
