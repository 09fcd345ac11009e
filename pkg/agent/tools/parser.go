package tools

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	defaultServerName = "local"
	maxXMLSize        = 10 * 1024 * 1024 // refuse pathological model output
	argumentsTagName  = "arguments"
)

var toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

// xmlEntityRegex matches ampersands that already start a valid XML entity
// (&amp; &lt; &gt; &quot; &apos; &#123; &#xAB;) so the fallback escaper
// leaves them alone.
var xmlEntityRegex = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);`)

// ParseToolCall extracts the first <tool> element from a model response.
//
// The models are prompted to emit calls in this shape:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>add_task</tool_name>
//	<arguments>
//	  <title>Book dentist appointment</title>
//	  <priority>3</priority>
//	  <due_date>2026-08-28</due_date>
//	</arguments>
//	</tool>
//
// Returns the parsed call and the response text with the tool element
// stripped out.
func ParseToolCall(text string) (*ToolCall, string, error) {
	if len(text) > maxXMLSize {
		return nil, text, fmt.Errorf("tool call XML exceeds maximum size of %d bytes", maxXMLSize)
	}

	loc := toolRegex.FindStringIndex(text)
	if loc == nil {
		return nil, text, fmt.Errorf("no tool call found in text")
	}
	toolXML := strings.TrimSpace(text[loc[0]:loc[1]])

	var call ToolCall
	if err := UnmarshalXMLWithFallback([]byte(toolXML), &call); err != nil {
		snippet := toolXML
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, text, fmt.Errorf("failed to unmarshal tool call XML: %w\nXML snippet: %s", err, snippet)
	}

	if call.ToolName == "" {
		return nil, text, fmt.Errorf("tool_name is required in tool call")
	}
	if call.ServerName == "" {
		call.ServerName = defaultServerName
	}

	remaining := strings.TrimSpace(toolRegex.ReplaceAllString(text, ""))
	return &call, remaining, nil
}

// ExtractThinkingAndToolCall splits a model response into the reasoning
// text before the tool call, the call itself, and anything after it.
// A response with no tool call is returned whole as thinking.
func ExtractThinkingAndToolCall(text string) (thinking string, toolCall *ToolCall, remaining string, err error) {
	loc := toolRegex.FindStringIndex(text)
	if loc == nil {
		return text, nil, "", nil
	}

	thinking = strings.TrimSpace(text[:loc[0]])
	remaining = strings.TrimSpace(text[loc[1]:])

	toolCall, _, err = ParseToolCall(text[loc[0]:loc[1]])
	if err != nil {
		return thinking, nil, remaining, err
	}
	return thinking, toolCall, remaining, nil
}

// HasToolCall reports whether the text contains a <tool> element.
func HasToolCall(text string) bool {
	return toolRegex.MatchString(text)
}

// ValidateToolCall checks that a parsed call names its tool and server.
func ValidateToolCall(tc *ToolCall) error {
	if tc == nil {
		return fmt.Errorf("tool call is nil")
	}
	if tc.ToolName == "" {
		return fmt.Errorf("tool_name is required")
	}
	if tc.ServerName == "" {
		return fmt.Errorf("server_name is required")
	}
	return nil
}

// UnmarshalXMLWithFallback unmarshals XML, retrying with bare ampersands
// escaped when the first parse fails. Task titles like "budget & travel"
// regularly arrive unescaped from the model.
func UnmarshalXMLWithFallback(data []byte, v interface{}) error {
	if err := xml.Unmarshal(data, v); err == nil {
		return nil
	}
	return xml.Unmarshal(escapeBareAmpersands(data), v)
}

// escapeBareAmpersands replaces & with &amp; everywhere except inside
// existing entities.
func escapeBareAmpersands(data []byte) []byte {
	text := string(data)

	var out strings.Builder
	out.Grow(len(text) + 16)

	last := 0
	for _, loc := range xmlEntityRegex.FindAllStringIndex(text, -1) {
		out.WriteString(strings.ReplaceAll(text[last:loc[0]], "&", "&amp;"))
		out.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	out.WriteString(strings.ReplaceAll(text[last:], "&", "&amp;"))

	return []byte(out.String())
}

// XMLToMap flattens the direct children of an <arguments> element into a
// map, used to attach tool arguments to events without knowing the tool's
// argument struct.
func XMLToMap(data []byte) (map[string]interface{}, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	result := make(map[string]interface{})

	var path []string
	var textBuf strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == argumentsTagName && len(path) == 0 {
				path = append(path, t.Name.Local)
				continue
			}
			path = append(path, t.Name.Local)
			textBuf.Reset()

		case xml.EndElement:
			if len(path) == 0 {
				continue
			}

			name := path[len(path)-1]
			path = path[:len(path)-1]

			if name == argumentsTagName && len(path) == 0 {
				continue
			}

			// Only direct children of <arguments> become map keys
			if len(path) == 1 && path[0] == argumentsTagName {
				if text := strings.TrimSpace(textBuf.String()); text != "" {
					result[name] = text
				}
			}
			textBuf.Reset()

		case xml.CharData:
			textBuf.Write(t)
		}
	}

	return result, nil
}
