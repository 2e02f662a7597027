package gpx

import "github.com/planbiir/gpxkit/internal/schema"

// Error types surfaced by parsing and serialization. They are aliases so
// errors.As works the same whether the caller imports this package or the
// schema internals leak through wrapping.
type (
	// SyntaxError reports malformed XML input.
	SyntaxError = schema.SyntaxError
	// ValidationError reports well-formed XML that violates the document
	// schema, such as a missing mandatory field or a bad enum value.
	ValidationError = schema.ValidationError
	// VersionError reports a missing gpx root element or an unsupported
	// version attribute.
	VersionError = schema.VersionError
)

// DomainError reports an operation invoked with arguments that make no sense
// for the document, such as filling time data over a span that ends before
// it starts.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string { return "gpx: " + e.Reason }
