// Package gpx reads, writes and analyzes GPX (GPS Exchange Format)
// documents. It supports the 1.0 and 1.1 schema versions with a shared
// in-memory model, so a document parsed from one version can be written out
// as the other.
package gpx

import (
	"io"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/planbiir/gpxkit/internal/schema"
)

// DefaultCreator identifies documents serialized without an explicit creator.
const DefaultCreator = "gpxkit -- https://github.com/planbiir/gpxkit"

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Parse reads a GPX document from raw bytes.
//
// The returned error is a *SyntaxError for malformed XML, a *VersionError
// for a missing gpx root or an unsupported version attribute, and a
// *ValidationError for well-formed XML with invalid content. A document
// without a version attribute is read using the 1.1 layout but keeps
// Version == "".
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &SyntaxError{Cause: err}
	}
	return parseDocument(doc)
}

// ParseString reads a GPX document from a string.
func ParseString(data string) (*Document, error) {
	return Parse([]byte(data))
}

// ParseReader reads a GPX document from a stream.
func ParseReader(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &SyntaxError{Cause: err}
	}
	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil || root.Tag != "gpx" {
		return nil, &VersionError{Version: ""}
	}

	version := ""
	if a := root.SelectAttr("version"); a != nil {
		version = strings.TrimSpace(a.Value)
	}

	// Documents without a version attribute are read with the 1.1 layout;
	// anything explicitly different from 1.0/1.1 is rejected.
	active := schema.V11
	switch version {
	case "1.0":
		active = schema.V10
	case "1.1", "":
	default:
		return nil, &VersionError{Version: version}
	}

	d := &Document{}
	for _, a := range root.Attr {
		switch {
		case a.Space == "xmlns":
			if d.Nsmap == nil {
				d.Nsmap = map[string]string{}
			}
			d.Nsmap[a.Key] = a.Value
		case a.Space == "" && a.Key == "xmlns":
			if d.Nsmap == nil {
				d.Nsmap = map[string]string{}
			}
			d.Nsmap[""] = a.Value
		case a.Key == "schemaLocation":
			d.SchemaLocations = strings.Fields(a.Value)
		}
	}

	if err := schema.ParseInto(registry, "gpx", active, root, d); err != nil {
		return nil, err
	}
	d.Version = version
	return d, nil
}

// ToXML serializes the document in the requested schema version, defaulting
// to the document's own version and then to 1.1. The document's Version and
// Creator fields are updated to what was actually written.
func (d *Document) ToXML(version string) (string, error) {
	if version == "" {
		version = d.Version
	}
	if version == "" {
		version = "1.1"
	}
	if !schema.Version(version).Known() {
		return "", &VersionError{Version: version}
	}

	d.Version = version
	if d.Creator == "" {
		d.Creator = DefaultCreator
	}

	namespace := "http://www.topografix.com/GPX/" + strings.ReplaceAll(version, ".", "/")
	if d.Nsmap == nil {
		d.Nsmap = map[string]string{}
	}
	d.Nsmap[""] = namespace
	d.Nsmap["xsi"] = xsiNamespace
	if len(d.SchemaLocations) == 0 {
		d.SchemaLocations = []string{namespace, namespace + "/gpx.xsd"}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("gpx")

	prefixes := make([]string, 0, len(d.Nsmap))
	for prefix := range d.Nsmap {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		if prefix == "" {
			root.CreateAttr("xmlns", d.Nsmap[""])
		} else {
			root.CreateAttr("xmlns:"+prefix, d.Nsmap[prefix])
		}
	}
	root.CreateAttr("xsi:schemaLocation", strings.Join(d.SchemaLocations, " "))

	if err := schema.SerializeInto(registry, "gpx", schema.Version(version), root, d); err != nil {
		return "", err
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return out, nil
}

// WriteTo serializes the document into w using the document's own version.
func (d *Document) WriteTo(w io.Writer) error {
	out, err := d.ToXML("")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
