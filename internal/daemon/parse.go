package daemon

import (
	"fmt"
	"strings"
)

// Element is one node of a parsed pipeline description.
type Element struct {
	Factory    string
	Name       string
	Properties map[string]string
}

// parseDescription parses a gst-launch style description into its element
// chain: factories separated by "!", each optionally followed by key=value
// properties. A "name" property overrides the generated <factory><index>
// element name.
//
// The daemon has no element registry, so factories are accepted as opaque
// identifiers; only the syntax is validated.
func parseDescription(desc string) ([]*Element, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil, fmt.Errorf("empty description")
	}

	var elements []*Element
	seen := map[string]int{}

	for _, segment := range strings.Split(desc, "!") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty element segment in %q", desc)
		}

		factory := fields[0]
		if strings.Contains(factory, "=") {
			return nil, fmt.Errorf("segment %q starts with a property, not a factory", segment)
		}

		el := &Element{
			Factory:    factory,
			Properties: map[string]string{},
		}
		for _, field := range fields[1:] {
			key, value, ok := strings.Cut(field, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("malformed property %q for element %q", field, factory)
			}
			el.Properties[key] = value
		}

		if name, ok := el.Properties["name"]; ok {
			el.Name = name
		} else {
			el.Name = fmt.Sprintf("%s%d", factory, seen[factory])
		}
		seen[factory]++

		elements = append(elements, el)
	}

	return elements, nil
}

// findElement returns the element named name, or nil.
func findElement(elements []*Element, name string) *Element {
	for _, el := range elements {
		if el.Name == name {
			return el
		}
	}
	return nil
}
