package prompts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/daykeep/daykeep/pkg/agent/tools"
)

// FormatToolSchema formats a single tool's schema for inclusion in the
// system prompt. The output includes the tool's name, description,
// parameter details, and a concrete XML usage example.
func FormatToolSchema(tool tools.Tool) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("## %s\n", tool.Name()))
	builder.WriteString(fmt.Sprintf("%s\n", tool.Description()))

	if tool.IsLoopBreaking() {
		builder.WriteString("This is a loop-breaking tool: calling it ends the agent loop for this turn.\n")
	}

	schema := tool.Schema()
	builder.WriteString("\nParameters:\n")
	builder.WriteString(formatSchemaProperties(schema))

	builder.WriteString("\nExample:\n")
	if provider, ok := tool.(XMLExampleProvider); ok {
		builder.WriteString(provider.XMLExample())
	} else {
		builder.WriteString(GenerateXMLExample(schema, tool.Name()))
	}
	builder.WriteString("\n")

	return builder.String()
}

// formatSchemaProperties renders the properties of a JSON schema as an
// indented parameter list, marking required parameters.
func formatSchemaProperties(schema map[string]interface{}) string {
	properties, ok := schema["properties"].(map[string]interface{})
	if !ok || len(properties) == 0 {
		return "- (none)\n"
	}

	required := make(map[string]bool)
	if req, ok := schema["required"].([]string); ok {
		for _, field := range req {
			required[field] = true
		}
	}

	// Sort property names for deterministic prompt output
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		propMap, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}

		propType, _ := propMap["type"].(string)           //nolint:errcheck
		description, _ := propMap["description"].(string) //nolint:errcheck

		marker := "optional"
		if required[name] {
			marker = "required"
		}

		builder.WriteString(fmt.Sprintf("- %s (%s, %s): %s\n", name, propType, marker, description))
	}

	return builder.String()
}

// FormatToolSchemas formats all tool schemas into a single section for
// inclusion in the system prompt.
func FormatToolSchemas(toolsList []tools.Tool) string {
	if len(toolsList) == 0 {
		return "No tools available.\n"
	}

	// Sort tools by name for deterministic prompt output
	sorted := make([]tools.Tool, len(toolsList))
	copy(sorted, toolsList)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})

	var builder strings.Builder
	builder.WriteString("# AVAILABLE TOOLS\n\n")

	for _, tool := range sorted {
		builder.WriteString(FormatToolSchema(tool))
		builder.WriteString("\n")
	}

	return builder.String()
}

// FormatToolForLLM converts a tool into the function-call style map used by
// providers that accept structured tool definitions.
func FormatToolForLLM(tool tools.Tool) map[string]interface{} {
	return map[string]interface{}{
		"name":        tool.Name(),
		"description": tool.Description(),
		"parameters":  tool.Schema(),
	}
}

// SchemaToJSON serializes a JSON schema map to an indented JSON string.
func SchemaToJSON(schema map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize schema: %w", err)
	}
	return string(data), nil
}
