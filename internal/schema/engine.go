package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// ParseInto populates target from elem according to the named entity schema
// and version. Child elements are matched by local tag name so namespaced
// documents parse the same as plain ones.
func ParseInto(reg Registry, name string, v Version, elem *etree.Element, target any) error {
	ent, ok := reg[name]
	if !ok {
		return fmt.Errorf("schema: unknown entity %q", name)
	}
	return parseFields(reg, ent.fields(v), v, elem, target)
}

func parseFields(reg Registry, fields []Descriptor, v Version, elem *etree.Element, target any) error {
	// Stack of container context elements. A nil entry means the container
	// element is absent in the source: everything nested resolves to absent.
	stack := []*etree.Element{elem}

	for _, d := range fields {
		cur := stack[len(stack)-1]
		switch f := d.(type) {
		case OpenContainer:
			var child *etree.Element
			if cur != nil {
				child = findChild(cur, f.Tag)
			}
			stack = append(stack, child)
		case CloseContainer:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case Field:
			if err := parseField(f, cur, target); err != nil {
				return err
			}
		case ComplexField:
			if err := parseComplex(reg, f, v, cur, target); err != nil {
				return err
			}
		case EmailField:
			parseEmail(f, cur, target)
		case ExtensionsField:
			parseExtensions(f, cur, target)
		}
	}
	return nil
}

func parseField(f Field, elem *etree.Element, target any) error {
	var raw string
	if elem != nil {
		if f.Attr != "" {
			if a := elem.SelectAttr(f.Attr); a != nil {
				raw = a.Value
			}
		} else if c := findChild(elem, f.tagName()); c != nil {
			raw = strings.TrimSpace(c.Text())
		}
	}

	if raw == "" {
		// Absent under an absent container is never an error.
		if f.Mandatory && elem != nil {
			return &ValidationError{Reason: fmt.Sprintf("missing mandatory field %q", f.Name)}
		}
		return nil
	}

	val, err := coerce(f, raw)
	if err != nil {
		return err
	}
	f.Set(target, val)
	return nil
}

func coerce(f Field, raw string) (any, error) {
	switch f.Kind {
	case String:
		return raw, nil
	case Float:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("field %q: invalid number %q", f.Name, raw)}
		}
		return v, nil
	case Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("field %q: invalid integer %q", f.Name, raw)}
		}
		return v, nil
	case Time:
		t, err := ParseTime(raw)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("field %q: %v", f.Name, err)}
		}
		return t, nil
	case Choice:
		for _, p := range f.Possible {
			if raw == p {
				return raw, nil
			}
		}
		return nil, &ValidationError{Reason: fmt.Sprintf("field %q: invalid value %q (expected one of %s)",
			f.Name, raw, strings.Join(f.Possible, ", "))}
	}
	return nil, fmt.Errorf("schema: field %q has unknown kind", f.Name)
}

func parseComplex(reg Registry, f ComplexField, v Version, elem *etree.Element, target any) error {
	if elem == nil {
		return nil
	}
	if f.IsList {
		for _, child := range findChildren(elem, f.Tag) {
			nested := f.New()
			if err := ParseInto(reg, f.Schema, v, child, nested); err != nil {
				return err
			}
			f.Append(target, nested)
		}
		return nil
	}
	child := findChild(elem, f.Tag)
	if child == nil {
		return nil
	}
	nested := f.New()
	if err := ParseInto(reg, f.Schema, v, child, nested); err != nil {
		return err
	}
	f.Append(target, nested)
	return nil
}

func parseEmail(f EmailField, elem *etree.Element, target any) {
	if elem == nil {
		return
	}
	child := findChild(elem, f.tagName())
	if child == nil {
		return
	}
	var id, domain string
	if a := child.SelectAttr("id"); a != nil {
		id = a.Value
	}
	if a := child.SelectAttr("domain"); a != nil {
		domain = a.Value
	}
	switch {
	case id != "" && domain != "":
		f.Set(target, id+"@"+domain)
	case id != "":
		f.Set(target, id)
	}
}

func parseExtensions(f ExtensionsField, elem *etree.Element, target any) {
	if elem == nil {
		return
	}
	wrapper := findChild(elem, f.tagName())
	if wrapper == nil {
		return
	}
	children := wrapper.ChildElements()
	copied := make([]*etree.Element, 0, len(children))
	for _, c := range children {
		copied = append(copied, c.Copy())
	}
	if len(copied) > 0 {
		f.Set(target, copied)
	}
}

// SerializeInto writes source's fields into elem according to the named
// entity schema and version. Descriptors are emitted in declared order, so
// the output is deterministic per version.
func SerializeInto(reg Registry, name string, v Version, elem *etree.Element, source any) error {
	ent, ok := reg[name]
	if !ok {
		return fmt.Errorf("schema: unknown entity %q", name)
	}
	return serializeFields(reg, ent.fields(v), v, elem, source)
}

func serializeFields(reg Registry, fields []Descriptor, v Version, elem *etree.Element, source any) error {
	// Stack of output container elements. A nil entry marks a suppressed (or
	// nested-under-suppressed) container: nothing inside it is emitted.
	stack := []*etree.Element{elem}

	for _, d := range fields {
		cur := stack[len(stack)-1]
		switch f := d.(type) {
		case OpenContainer:
			if cur == nil || !containerWanted(fields, f, source) {
				stack = append(stack, nil)
			} else {
				stack = append(stack, cur.CreateElement(f.Tag))
			}
		case CloseContainer:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case Field:
			if cur != nil {
				serializeField(f, cur, source)
			}
		case ComplexField:
			if cur != nil {
				if err := serializeComplex(reg, f, v, cur, source); err != nil {
					return err
				}
			}
		case EmailField:
			if cur != nil {
				serializeEmail(f, cur, source)
			}
		case ExtensionsField:
			if cur != nil {
				serializeExtensions(f, cur, source)
			}
		}
	}
	return nil
}

// containerWanted evaluates the dependent rule: with no dependents the
// container always serializes; an empty required dependent suppresses it
// outright; otherwise at least one dependent must be non-empty.
func containerWanted(fields []Descriptor, c OpenContainer, source any) bool {
	if len(c.Deps) == 0 {
		return true
	}
	anySet := false
	for _, dep := range c.Deps {
		empty := depEmpty(fields, source, dep.Name)
		if dep.Required && empty {
			return false
		}
		if !empty {
			anySet = true
		}
	}
	return anySet
}

// depEmpty resolves a dependent by name against the entity's own descriptor
// sequence and reports whether its value is empty.
func depEmpty(fields []Descriptor, source any, name string) bool {
	for _, d := range fields {
		switch f := d.(type) {
		case Field:
			if f.Name == name {
				v := f.Get(source)
				if s, ok := v.(string); ok {
					return s == ""
				}
				return v == nil
			}
		case ComplexField:
			if f.Name == name {
				return len(f.Get(source)) == 0
			}
		case EmailField:
			if f.Name == name {
				return f.Get(source) == ""
			}
		case ExtensionsField:
			if f.Name == name {
				return len(f.Get(source)) == 0
			}
		}
	}
	return true
}

func serializeField(f Field, elem *etree.Element, source any) {
	v := f.Get(source)
	if v == nil {
		return
	}

	var raw string
	switch x := v.(type) {
	case string:
		if x == "" {
			return
		}
		raw = x
	case float64:
		raw = formatFloat(x)
	case int:
		raw = strconv.Itoa(x)
	case time.Time:
		raw = FormatTime(x)
	default:
		return
	}

	if f.Attr != "" {
		elem.CreateAttr(f.Attr, raw)
	} else {
		elem.CreateElement(f.tagName()).SetText(raw)
	}
}

func serializeComplex(reg Registry, f ComplexField, v Version, elem *etree.Element, source any) error {
	for _, child := range f.Get(source) {
		if child == nil {
			continue
		}
		childElem := elem.CreateElement(f.Tag)
		if err := SerializeInto(reg, f.Schema, v, childElem, child); err != nil {
			return err
		}
	}
	return nil
}

func serializeEmail(f EmailField, elem *etree.Element, source any) {
	address := f.Get(source)
	if address == "" {
		return
	}
	child := elem.CreateElement(f.tagName())
	if i := strings.LastIndexByte(address, '@'); i >= 0 {
		child.CreateAttr("id", address[:i])
		child.CreateAttr("domain", address[i+1:])
	} else {
		child.CreateAttr("id", address)
	}
}

func serializeExtensions(f ExtensionsField, elem *etree.Element, source any) {
	children := f.Get(source)
	if len(children) == 0 {
		return
	}
	wrapper := elem.CreateElement(f.tagName())
	for _, c := range children {
		wrapper.AddChild(c.Copy())
	}
}

// findChild returns the first child element whose local tag matches.
func findChild(elem *etree.Element, tag string) *etree.Element {
	for _, c := range elem.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// findChildren returns all child elements whose local tag matches, in order.
func findChildren(elem *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range elem.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}
