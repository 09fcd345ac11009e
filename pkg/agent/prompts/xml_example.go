package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// XMLExampleProvider lets a tool supply a hand-written usage example
// instead of the generated one.
type XMLExampleProvider interface {
	XMLExample() string
}

// GenerateXMLExample renders a concrete tool call example from a JSON
// schema. Only required fields appear, so the model sees the minimal
// valid call.
func GenerateXMLExample(schema map[string]interface{}, toolName string) string {
	var b strings.Builder

	b.WriteString("<tool>\n")
	b.WriteString("<server_name>local</server_name>\n")
	fmt.Fprintf(&b, "<tool_name>%s</tool_name>\n", toolName)
	b.WriteString("<arguments>\n")

	properties, _ := schema["properties"].(map[string]interface{}) //nolint:errcheck
	required := requiredFields(schema)

	for _, name := range sortedKeys(properties) {
		if !required[name] {
			continue
		}
		if propMap, ok := properties[name].(map[string]interface{}); ok {
			b.WriteString(exampleForProperty(name, propMap, "  "))
		}
	}

	b.WriteString("</arguments>\n")
	b.WriteString("</tool>")

	return b.String()
}

func requiredFields(schema map[string]interface{}) map[string]bool {
	out := make(map[string]bool)
	if req, ok := schema["required"].([]string); ok {
		for _, field := range req {
			out[field] = true
		}
	}
	return out
}

// sortedKeys keeps the generated examples deterministic across runs.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func exampleForProperty(name string, propSchema map[string]interface{}, indent string) string {
	propType, _ := propSchema["type"].(string) //nolint:errcheck

	switch propType {
	case "string":
		return stringExample(name, propSchema, indent)
	case "integer":
		return fmt.Sprintf("%s<%s>2</%s>\n", indent, name, name)
	case "number":
		return fmt.Sprintf("%s<%s>2.5</%s>\n", indent, name, name)
	case "boolean":
		return fmt.Sprintf("%s<%s>true</%s>\n", indent, name, name)
	case "array":
		return arrayExample(name, propSchema, indent)
	case "object":
		return objectExample(name, propSchema, indent)
	default:
		return fmt.Sprintf("%s<%s>value</%s>\n", indent, name, name)
	}
}

// freeTextField reports whether a string property carries prose. Those
// get an example with an escaped ampersand so the model sees the
// preferred encoding.
func freeTextField(name, description string) bool {
	for _, hint := range []string{"content", "description", "message", "result"} {
		if strings.Contains(name, hint) || strings.Contains(description, hint) {
			return true
		}
	}
	return false
}

func stringExample(name string, propSchema map[string]interface{}, indent string) string {
	description, _ := propSchema["description"].(string) //nolint:errcheck

	if freeTextField(name, description) {
		return fmt.Sprintf("%s<%s>planning &amp; review notes</%s>\n", indent, name, name)
	}

	value := "value"
	if enum, ok := propSchema["enum"].([]interface{}); ok && len(enum) > 0 {
		if first, ok := enum[0].(string); ok {
			value = first
		}
	}
	return fmt.Sprintf("%s<%s>%s</%s>\n", indent, name, value, name)
}

// singular trims a plural tag name for its item elements, matching the
// Tags []string `xml:"tags>tag"` unmarshaling convention.
func singular(name string) string {
	if strings.HasSuffix(name, "s") {
		return name[:len(name)-1]
	}
	return name
}

func arrayExample(name string, propSchema map[string]interface{}, indent string) string {
	items, ok := propSchema["items"].(map[string]interface{})
	if !ok {
		return fmt.Sprintf("%s<%s>first</%s>\n%s<%s>second</%s>\n",
			indent, name, name, indent, name, name)
	}

	item := singular(name)
	var b strings.Builder
	fmt.Fprintf(&b, "%s<%s>\n", indent, name)

	if itemType, _ := items["type"].(string); itemType == "object" { //nolint:errcheck
		fmt.Fprintf(&b, "%s  <%s>\n", indent, item)
		if itemProps, ok := items["properties"].(map[string]interface{}); ok {
			for _, propName := range sortedKeys(itemProps) {
				if propMap, ok := itemProps[propName].(map[string]interface{}); ok {
					b.WriteString(exampleForProperty(propName, propMap, indent+"    "))
				}
			}
		}
		fmt.Fprintf(&b, "%s  </%s>\n", indent, item)
	} else {
		fmt.Fprintf(&b, "%s  <%s>first</%s>\n", indent, item, item)
		fmt.Fprintf(&b, "%s  <%s>second</%s>\n", indent, item, item)
	}

	fmt.Fprintf(&b, "%s</%s>\n", indent, name)
	return b.String()
}

func objectExample(name string, propSchema map[string]interface{}, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s<%s>\n", indent, name)

	if props, ok := propSchema["properties"].(map[string]interface{}); ok {
		for _, propName := range sortedKeys(props) {
			if propMap, ok := props[propName].(map[string]interface{}); ok {
				b.WriteString(exampleForProperty(propName, propMap, indent+"  "))
			}
		}
	}

	fmt.Fprintf(&b, "%s</%s>\n", indent, name)
	return b.String()
}
