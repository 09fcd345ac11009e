package tools

import (
	"context"
	"encoding/xml"
)

// Tool is a capability the agents can invoke during a turn: adding or
// completing tasks, reading the schedule, recording progress, checking
// the calendar. The models request tools with XML elements embedded in
// their responses:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>update_task_status</tool_name>
//	<arguments>
//	  <task_id>4</task_id>
//	  <status>completed</status>
//	</arguments>
//	</tool>
type Tool interface {
	// Name is the identifier the model uses to invoke the tool,
	// e.g. "add_task" or "get_daily_report".
	Name() string

	// Description tells the model when to reach for this tool. It is
	// rendered into the system prompt verbatim.
	Description() string

	// Schema describes the tool's arguments as a JSON Schema object.
	Schema() map[string]interface{}

	// Execute runs the tool against the raw <arguments> XML. The string
	// result goes back to the model (or, for loop-breaking tools, to the
	// user); the optional metadata map is attached to the tool result
	// event and may be nil.
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)

	// IsLoopBreaking marks tools that end the agent's turn instead of
	// feeding a result back into the loop. task_completion, ask_question
	// and converse are loop-breaking; the task and schedule tools are not.
	IsLoopBreaking() bool
}

// ToolCall is one parsed tool invocation from a model response.
type ToolCall struct {
	XMLName    xml.Name       `xml:"tool"`
	ServerName string         `xml:"server_name"`
	ToolName   string         `xml:"tool_name"`
	Arguments  ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML inside the arguments element.
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML re-wraps the inner XML in <arguments> tags so tools can
// unmarshal it into their argument structs.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const opening = "<arguments>"
	const closing = "</arguments>"

	buf := make([]byte, 0, len(opening)+len(tc.Arguments.InnerXML)+len(closing))
	buf = append(buf, opening...)
	buf = append(buf, tc.Arguments.InnerXML...)
	buf = append(buf, closing...)
	return buf
}

// BaseToolSchema assembles the object-typed JSON schema shared by every
// tool from its property map and required field names.
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
