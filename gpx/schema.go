package gpx

import (
	"time"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/schema"
)

// registry declares, per entity and schema version, the ordered field layout
// used for parsing and serialization. The layouts follow the GPX 1.0 and 1.1
// XSDs: 1.0 keeps document metadata flat on the root element with url/urlname
// link pairs, 1.1 groups metadata into containers with href links.
var registry = schema.Registry{
	"gpx":    documentSchema(),
	"bounds": boundsSchema(),
	"wpt":    pointSchema(nil),
	"rtept":  pointSchema(nil),
	"trkpt":  pointSchema(trackPointExtra()),
	"rte":    routeSchema(),
	"trk":    trackSchema(),
	"trkseg": segmentSchema(),
}

// pointOf unwraps the shared point core of any concrete point type.
func pointOf(e any) *Point {
	switch p := e.(type) {
	case *TrackPoint:
		return &p.Point
	case *Waypoint:
		return &p.Point
	case *RoutePoint:
		return &p.Point
	}
	return nil
}

// optStr maps the empty string to absent.
func optStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func optTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// Field constructors binding a descriptor to a struct field through an
// accessor returning the field's address.

func strField(name, tag string, f func(any) *string) schema.Field {
	return schema.Field{
		Name: name,
		Tag:  tag,
		Get:  func(e any) any { return optStr(*f(e)) },
		Set:  func(e any, v any) { *f(e) = v.(string) },
	}
}

func attrStrField(name, attr string, f func(any) *string) schema.Field {
	return schema.Field{
		Name: name,
		Attr: attr,
		Get:  func(e any) any { return optStr(*f(e)) },
		Set:  func(e any, v any) { *f(e) = v.(string) },
	}
}

func floatField(name, tag string, f func(any) **float64) schema.Field {
	return schema.Field{
		Name: name,
		Tag:  tag,
		Kind: schema.Float,
		Get:  func(e any) any { return optFloat(*f(e)) },
		Set: func(e any, v any) {
			x := v.(float64)
			*f(e) = &x
		},
	}
}

func attrFloatField(name, attr string, mandatory bool, f func(any) **float64) schema.Field {
	return schema.Field{
		Name:      name,
		Attr:      attr,
		Kind:      schema.Float,
		Mandatory: mandatory,
		Get:       func(e any) any { return optFloat(*f(e)) },
		Set: func(e any, v any) {
			x := v.(float64)
			*f(e) = &x
		},
	}
}

func intField(name, tag string, f func(any) **int) schema.Field {
	return schema.Field{
		Name: name,
		Tag:  tag,
		Kind: schema.Int,
		Get:  func(e any) any { return optInt(*f(e)) },
		Set: func(e any, v any) {
			x := v.(int)
			*f(e) = &x
		},
	}
}

func timeField(name, tag string, f func(any) **time.Time) schema.Field {
	return schema.Field{
		Name: name,
		Tag:  tag,
		Kind: schema.Time,
		Get:  func(e any) any { return optTime(*f(e)) },
		Set: func(e any, v any) {
			x := v.(time.Time)
			*f(e) = &x
		},
	}
}

// pointFields returns the shared point descriptor sequence for one version.
// extraAfterTime is spliced in right after the time field; GPX 1.0 track
// points carry course and speed there.
func pointFields(v schema.Version, extraAfterTime []schema.Descriptor) []schema.Descriptor {
	head := []schema.Descriptor{
		schema.Field{
			Name: "latitude", Attr: "lat", Kind: schema.Float, Mandatory: true,
			Get: func(e any) any { return pointOf(e).Latitude },
			Set: func(e any, v any) { pointOf(e).Latitude = v.(float64) },
		},
		schema.Field{
			Name: "longitude", Attr: "lon", Kind: schema.Float, Mandatory: true,
			Get: func(e any) any { return pointOf(e).Longitude },
			Set: func(e any, v any) { pointOf(e).Longitude = v.(float64) },
		},
		floatField("elevation", "ele", func(e any) **float64 { return &pointOf(e).Elevation }),
		timeField("time", "time", func(e any) **time.Time { return &pointOf(e).Time }),
	}
	if v == schema.V10 {
		head = append(head, extraAfterTime...)
	}

	mid := []schema.Descriptor{
		floatField("magnetic_variation", "magvar", func(e any) **float64 { return &pointOf(e).MagneticVariation }),
		floatField("geoid_height", "geoidheight", func(e any) **float64 { return &pointOf(e).GeoidHeight }),
		strField("name", "name", func(e any) *string { return &pointOf(e).Name }),
		strField("comment", "cmt", func(e any) *string { return &pointOf(e).Comment }),
		strField("description", "desc", func(e any) *string { return &pointOf(e).Description }),
		strField("source", "src", func(e any) *string { return &pointOf(e).Source }),
	}

	var link []schema.Descriptor
	if v == schema.V10 {
		link = []schema.Descriptor{
			strField("link", "url", func(e any) *string { return &pointOf(e).Link }),
			strField("link_text", "urlname", func(e any) *string { return &pointOf(e).LinkText }),
		}
	} else {
		link = []schema.Descriptor{
			schema.OpenContainer{Tag: "link", Deps: schema.Deps("@link")},
			attrStrField("link", "href", func(e any) *string { return &pointOf(e).Link }),
			strField("link_text", "text", func(e any) *string { return &pointOf(e).LinkText }),
			strField("link_type", "type", func(e any) *string { return &pointOf(e).LinkType }),
			schema.CloseContainer{},
		}
	}

	tail := []schema.Descriptor{
		strField("symbol", "sym", func(e any) *string { return &pointOf(e).Symbol }),
		strField("type", "type", func(e any) *string { return &pointOf(e).Type }),
		schema.Field{
			Name:     "fix",
			Kind:     schema.Choice,
			Possible: fixTypes,
			Get:      func(e any) any { return optStr(pointOf(e).FixType) },
			Set:      func(e any, v any) { pointOf(e).FixType = v.(string) },
		},
		intField("satellites", "sat", func(e any) **int { return &pointOf(e).Satellites }),
		floatField("horizontal_dilution", "hdop", func(e any) **float64 { return &pointOf(e).HorizontalDilution }),
		floatField("vertical_dilution", "vdop", func(e any) **float64 { return &pointOf(e).VerticalDilution }),
		floatField("position_dilution", "pdop", func(e any) **float64 { return &pointOf(e).PositionDilution }),
		floatField("age_of_dgps_data", "ageofdgpsdata", func(e any) **float64 { return &pointOf(e).AgeOfDGPSData }),
		strField("dgps_id", "dgpsid", func(e any) *string { return &pointOf(e).DGPSID }),
	}

	fields := append(head, mid...)
	fields = append(fields, link...)
	fields = append(fields, tail...)
	if v == schema.V11 {
		fields = append(fields, schema.ExtensionsField{
			Name: "extensions",
			Get:  func(e any) []*etree.Element { return pointOf(e).Extensions },
			Set:  func(e any, children []*etree.Element) { pointOf(e).Extensions = children },
		})
	}
	return fields
}

// trackPointExtra returns the course and speed fields that GPX 1.0 track
// points carry between time and magvar.
func trackPointExtra() []schema.Descriptor {
	return []schema.Descriptor{
		floatField("course", "course", func(e any) **float64 { return &e.(*TrackPoint).Course }),
		floatField("speed", "speed", func(e any) **float64 { return &e.(*TrackPoint).Speed }),
	}
}

func pointSchema(extraAfterTime []schema.Descriptor) *schema.EntitySchema {
	return &schema.EntitySchema{
		V10: pointFields(schema.V10, extraAfterTime),
		V11: pointFields(schema.V11, nil),
	}
}

func boundsSchema() *schema.EntitySchema {
	fields := []schema.Descriptor{
		attrFloatField("min_latitude", "minlat", false, func(e any) **float64 { return &e.(*Bounds).MinLatitude }),
		attrFloatField("max_latitude", "maxlat", false, func(e any) **float64 { return &e.(*Bounds).MaxLatitude }),
		attrFloatField("min_longitude", "minlon", false, func(e any) **float64 { return &e.(*Bounds).MinLongitude }),
		attrFloatField("max_longitude", "maxlon", false, func(e any) **float64 { return &e.(*Bounds).MaxLongitude }),
	}
	return &schema.EntitySchema{V10: fields, V11: fields}
}

func segmentSchema() *schema.EntitySchema {
	points := schema.ComplexField{
		Name:   "points",
		Tag:    "trkpt",
		Schema: "trkpt",
		IsList: true,
		Get: func(e any) []any {
			s := e.(*Segment)
			out := make([]any, len(s.Points))
			for i, p := range s.Points {
				out[i] = p
			}
			return out
		},
		Append: func(e any, child any) {
			s := e.(*Segment)
			s.Points = append(s.Points, child.(*TrackPoint))
		},
		New: func() any { return &TrackPoint{} },
	}
	return &schema.EntitySchema{
		V10: []schema.Descriptor{points},
		V11: []schema.Descriptor{
			points,
			schema.ExtensionsField{
				Name: "extensions",
				Get:  func(e any) []*etree.Element { return e.(*Segment).Extensions },
				Set:  func(e any, children []*etree.Element) { e.(*Segment).Extensions = children },
			},
		},
	}
}

func trackSchema() *schema.EntitySchema {
	segments := schema.ComplexField{
		Name:   "segments",
		Tag:    "trkseg",
		Schema: "trkseg",
		IsList: true,
		Get: func(e any) []any {
			t := e.(*Track)
			out := make([]any, len(t.Segments))
			for i, s := range t.Segments {
				out[i] = s
			}
			return out
		},
		Append: func(e any, child any) {
			t := e.(*Track)
			t.Segments = append(t.Segments, child.(*Segment))
		},
		New: func() any { return &Segment{} },
	}

	name := strField("name", "name", func(e any) *string { return &e.(*Track).Name })
	comment := strField("comment", "cmt", func(e any) *string { return &e.(*Track).Comment })
	description := strField("description", "desc", func(e any) *string { return &e.(*Track).Description })
	source := strField("source", "src", func(e any) *string { return &e.(*Track).Source })
	number := intField("number", "number", func(e any) **int { return &e.(*Track).Number })

	return &schema.EntitySchema{
		V10: []schema.Descriptor{
			name, comment, description, source,
			strField("link", "url", func(e any) *string { return &e.(*Track).Link }),
			strField("link_text", "urlname", func(e any) *string { return &e.(*Track).LinkText }),
			number,
			segments,
		},
		V11: []schema.Descriptor{
			name, comment, description, source,
			schema.OpenContainer{Tag: "link", Deps: schema.Deps("@link")},
			attrStrField("link", "href", func(e any) *string { return &e.(*Track).Link }),
			strField("link_text", "text", func(e any) *string { return &e.(*Track).LinkText }),
			strField("link_type", "type", func(e any) *string { return &e.(*Track).LinkType }),
			schema.CloseContainer{},
			number,
			strField("type", "type", func(e any) *string { return &e.(*Track).Type }),
			schema.ExtensionsField{
				Name: "extensions",
				Get:  func(e any) []*etree.Element { return e.(*Track).Extensions },
				Set:  func(e any, children []*etree.Element) { e.(*Track).Extensions = children },
			},
			segments,
		},
	}
}

func routeSchema() *schema.EntitySchema {
	points := schema.ComplexField{
		Name:   "points",
		Tag:    "rtept",
		Schema: "rtept",
		IsList: true,
		Get: func(e any) []any {
			r := e.(*Route)
			out := make([]any, len(r.Points))
			for i, p := range r.Points {
				out[i] = p
			}
			return out
		},
		Append: func(e any, child any) {
			r := e.(*Route)
			r.Points = append(r.Points, child.(*RoutePoint))
		},
		New: func() any { return &RoutePoint{} },
	}

	name := strField("name", "name", func(e any) *string { return &e.(*Route).Name })
	comment := strField("comment", "cmt", func(e any) *string { return &e.(*Route).Comment })
	description := strField("description", "desc", func(e any) *string { return &e.(*Route).Description })
	source := strField("source", "src", func(e any) *string { return &e.(*Route).Source })
	number := intField("number", "number", func(e any) **int { return &e.(*Route).Number })

	return &schema.EntitySchema{
		V10: []schema.Descriptor{
			name, comment, description, source,
			strField("link", "url", func(e any) *string { return &e.(*Route).Link }),
			strField("link_text", "urlname", func(e any) *string { return &e.(*Route).LinkText }),
			number,
			points,
		},
		V11: []schema.Descriptor{
			name, comment, description, source,
			schema.OpenContainer{Tag: "link", Deps: schema.Deps("@link")},
			attrStrField("link", "href", func(e any) *string { return &e.(*Route).Link }),
			strField("link_text", "text", func(e any) *string { return &e.(*Route).LinkText }),
			strField("link_type", "type", func(e any) *string { return &e.(*Route).LinkType }),
			schema.CloseContainer{},
			number,
			strField("type", "type", func(e any) *string { return &e.(*Route).Type }),
			schema.ExtensionsField{
				Name: "extensions",
				Get:  func(e any) []*etree.Element { return e.(*Route).Extensions },
				Set:  func(e any, children []*etree.Element) { e.(*Route).Extensions = children },
			},
			points,
		},
	}
}

func documentSchema() *schema.EntitySchema {
	version := attrStrField("version", "version", func(e any) *string { return &e.(*Document).Version })
	creator := attrStrField("creator", "creator", func(e any) *string { return &e.(*Document).Creator })

	bounds := schema.ComplexField{
		Name:   "bounds",
		Tag:    "bounds",
		Schema: "bounds",
		Get: func(e any) []any {
			d := e.(*Document)
			if d.Bounds == nil {
				return nil
			}
			return []any{d.Bounds}
		},
		Append: func(e any, child any) { e.(*Document).Bounds = child.(*Bounds) },
		New:    func() any { return &Bounds{} },
	}

	waypoints := schema.ComplexField{
		Name:   "waypoints",
		Tag:    "wpt",
		Schema: "wpt",
		IsList: true,
		Get: func(e any) []any {
			d := e.(*Document)
			out := make([]any, len(d.Waypoints))
			for i, w := range d.Waypoints {
				out[i] = w
			}
			return out
		},
		Append: func(e any, child any) {
			d := e.(*Document)
			d.Waypoints = append(d.Waypoints, child.(*Waypoint))
		},
		New: func() any { return &Waypoint{} },
	}

	routes := schema.ComplexField{
		Name:   "routes",
		Tag:    "rte",
		Schema: "rte",
		IsList: true,
		Get: func(e any) []any {
			d := e.(*Document)
			out := make([]any, len(d.Routes))
			for i, r := range d.Routes {
				out[i] = r
			}
			return out
		},
		Append: func(e any, child any) {
			d := e.(*Document)
			d.Routes = append(d.Routes, child.(*Route))
		},
		New: func() any { return &Route{} },
	}

	tracks := schema.ComplexField{
		Name:   "tracks",
		Tag:    "trk",
		Schema: "trk",
		IsList: true,
		Get: func(e any) []any {
			d := e.(*Document)
			out := make([]any, len(d.Tracks))
			for i, t := range d.Tracks {
				out[i] = t
			}
			return out
		},
		Append: func(e any, child any) {
			d := e.(*Document)
			d.Tracks = append(d.Tracks, child.(*Track))
		},
		New: func() any { return &Track{} },
	}

	docTime := timeField("time", "time", func(e any) **time.Time { return &e.(*Document).Time })
	keywords := strField("keywords", "keywords", func(e any) *string { return &e.(*Document).Keywords })

	return &schema.EntitySchema{
		V10: []schema.Descriptor{
			version, creator,
			strField("name", "name", func(e any) *string { return &e.(*Document).Name }),
			strField("description", "desc", func(e any) *string { return &e.(*Document).Description }),
			strField("author_name", "author", func(e any) *string { return &e.(*Document).AuthorName }),
			strField("author_email", "email", func(e any) *string { return &e.(*Document).AuthorEmail }),
			strField("link", "url", func(e any) *string { return &e.(*Document).Link }),
			strField("link_text", "urlname", func(e any) *string { return &e.(*Document).LinkText }),
			docTime,
			keywords,
			bounds,
			waypoints, routes, tracks,
		},
		V11: []schema.Descriptor{
			version, creator,
			schema.OpenContainer{Tag: "metadata", Deps: schema.Deps(
				"name", "description", "author_name", "author_email", "author_link",
				"copyright_author", "copyright_year", "copyright_license",
				"link", "time", "keywords", "bounds")},
			strField("name", "name", func(e any) *string { return &e.(*Document).Name }),
			strField("description", "desc", func(e any) *string { return &e.(*Document).Description }),
			schema.OpenContainer{Tag: "author", Deps: schema.Deps("author_name", "author_email", "author_link")},
			strField("author_name", "name", func(e any) *string { return &e.(*Document).AuthorName }),
			schema.EmailField{
				Name: "author_email",
				Tag:  "email",
				Get:  func(e any) string { return e.(*Document).AuthorEmail },
				Set:  func(e any, v string) { e.(*Document).AuthorEmail = v },
			},
			schema.OpenContainer{Tag: "link", Deps: schema.Deps("@author_link")},
			attrStrField("author_link", "href", func(e any) *string { return &e.(*Document).AuthorLink }),
			strField("author_link_text", "text", func(e any) *string { return &e.(*Document).AuthorLinkText }),
			strField("author_link_type", "type", func(e any) *string { return &e.(*Document).AuthorLinkType }),
			schema.CloseContainer{},
			schema.CloseContainer{},
			schema.OpenContainer{Tag: "copyright", Deps: schema.Deps(
				"copyright_author", "copyright_year", "copyright_license")},
			attrStrField("copyright_author", "author", func(e any) *string { return &e.(*Document).Copyright }),
			strField("copyright_year", "year", func(e any) *string { return &e.(*Document).CopyrightYear }),
			strField("copyright_license", "license", func(e any) *string { return &e.(*Document).CopyrightLicense }),
			schema.CloseContainer{},
			schema.OpenContainer{Tag: "link", Deps: schema.Deps("@link")},
			attrStrField("link", "href", func(e any) *string { return &e.(*Document).Link }),
			strField("link_text", "text", func(e any) *string { return &e.(*Document).LinkText }),
			strField("link_type", "type", func(e any) *string { return &e.(*Document).LinkType }),
			schema.CloseContainer{},
			docTime,
			keywords,
			bounds,
			schema.ExtensionsField{
				Name: "metadata_extensions",
				Get:  func(e any) []*etree.Element { return e.(*Document).MetadataExtensions },
				Set:  func(e any, children []*etree.Element) { e.(*Document).MetadataExtensions = children },
			},
			schema.CloseContainer{},
			waypoints, routes, tracks,
			schema.ExtensionsField{
				Name: "extensions",
				Get:  func(e any) []*etree.Element { return e.(*Document).Extensions },
				Set:  func(e any, children []*etree.Element) { e.(*Document).Extensions = children },
			},
		},
	}
}
