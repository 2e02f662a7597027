package schema

import "fmt"

// SyntaxError reports malformed source XML. The underlying parser error is
// preserved as the cause.
type SyntaxError struct {
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("gpx: malformed xml: %v", e.Cause)
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

// ValidationError reports well-formed XML carrying invalid GPX data: a missing
// mandatory field, an invalid enumerated value, an unparsable timestamp, or
// invalid call arguments.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "gpx: " + e.Reason }

// VersionError reports an unrecognized root element or version string.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("gpx: unsupported version %q", e.Version)
}
