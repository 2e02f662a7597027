// Package schema implements the declarative, versioned mapping between the
// in-memory GPX document tree and its XML structure. Each entity type
// registers one ordered descriptor sequence per format version; the engine
// walks the active sequence to parse or serialize, with no runtime
// introspection of entity state.
package schema

import "github.com/beevik/etree"

// Version selects which descriptor sequence of an entity schema is active.
type Version string

const (
	V10 Version = "1.0"
	V11 Version = "1.1"
)

// Known reports whether v is one of the supported schema versions.
func (v Version) Known() bool { return v == V10 || v == V11 }

// Kind is the declared type of a simple field.
type Kind int

const (
	String Kind = iota
	Float
	Int
	Time
	Choice // string restricted to Field.Possible
)

// Descriptor is one step in an entity's field sequence: a simple field, a
// nested entity, an extensions pass-through, or a container marker.
type Descriptor interface {
	descriptor()
}

// Field maps one entity attribute to a child element's text, or to an
// attribute of the host element when Attr is set.
//
// Get returns the coerced value (string, float64, int or time.Time) or nil
// when the attribute is absent. Set receives a value of the same shape.
type Field struct {
	Name      string // entity attribute name, referenced by container dependents
	Tag       string // child element tag; defaults to Name
	Attr      string // host element attribute; when set, Tag is ignored
	Kind      Kind
	Possible  []string // valid values for Choice fields
	Mandatory bool
	Get       func(entity any) any
	Set       func(entity any, v any)
}

func (Field) descriptor() {}

func (f Field) tagName() string {
	if f.Tag != "" {
		return f.Tag
	}
	return f.Name
}

// ComplexField maps one entity attribute (or an ordered list of them) to
// nested child elements, delegating to the nested entity's own
// version-specific descriptor sequence.
//
// Get returns the current children; for a single-valued field it holds zero
// or one entries. Append attaches a newly parsed child and New constructs an
// empty one.
type ComplexField struct {
	Name   string
	Tag    string
	Schema string // registry name of the nested entity schema
	IsList bool
	Get    func(entity any) []any
	Append func(entity any, child any)
	New    func() any
}

func (ComplexField) descriptor() {}

// EmailField maps an address string to the split representation used by GPX
// 1.1, where <email id="user" domain="example.com"/> stands for
// user@example.com. The empty string means absent.
type EmailField struct {
	Name string
	Tag  string // defaults to Name
	Get  func(entity any) string
	Set  func(entity any, v string)
}

func (EmailField) descriptor() {}

func (f EmailField) tagName() string {
	if f.Tag != "" {
		return f.Tag
	}
	return f.Name
}

// ExtensionsField passes raw child subtrees through unmodified. The field
// value is the ordered list of child elements of the wrapping tag.
type ExtensionsField struct {
	Name string
	Tag  string // defaults to "extensions"
	Get  func(entity any) []*etree.Element
	Set  func(entity any, children []*etree.Element)
}

func (ExtensionsField) descriptor() {}

func (f ExtensionsField) tagName() string {
	if f.Tag != "" {
		return f.Tag
	}
	return "extensions"
}

// Dependent names an entity attribute a container's serialization depends on.
// A required dependent suppresses the whole container when empty.
type Dependent struct {
	Name     string
	Required bool
}

// Dep builds a dependent from the registry notation: a leading '@' marks the
// dependent as required.
func Dep(name string) Dependent {
	if len(name) > 0 && name[0] == '@' {
		return Dependent{Name: name[1:], Required: true}
	}
	return Dependent{Name: name}
}

// Deps builds a dependent list from registry notation.
func Deps(names ...string) []Dependent {
	out := make([]Dependent, len(names))
	for i, n := range names {
		out[i] = Dep(n)
	}
	return out
}

// OpenContainer introduces a wrapping element around the descriptors that
// follow it, up to the matching CloseContainer. On serialize the container is
// emitted only if at least one dependent is non-empty, and never if a
// required dependent is empty. Containers nest.
type OpenContainer struct {
	Tag  string
	Deps []Dependent
}

func (OpenContainer) descriptor() {}

// CloseContainer ends the innermost open container.
type CloseContainer struct{}

func (CloseContainer) descriptor() {}

// EntitySchema holds the two independently ordered descriptor sequences of
// one entity type.
type EntitySchema struct {
	V10 []Descriptor
	V11 []Descriptor
}

func (s *EntitySchema) fields(v Version) []Descriptor {
	if v == V10 {
		return s.V10
	}
	return s.V11
}

// Registry maps entity schema names to their descriptor sequences.
type Registry map[string]*EntitySchema
