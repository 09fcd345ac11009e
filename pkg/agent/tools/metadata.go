package tools

import "context"

// ToolResult represents the result of a tool execution with optional metadata.
type ToolResult struct {
	Output   string                 // The main output/result message
	Metadata map[string]interface{} // Optional metadata about the execution
}

// MetadataProvider is an optional interface that tools can implement to return
// structured metadata along with their execution result. This metadata can be
// used for tracking, analytics, or other purposes.
//
// For example, task-modifying tools can return change counts:
//
//	return &ToolResult{
//	    Output: "Rolled over incomplete tasks",
//	    Metadata: map[string]interface{}{
//	        "tasks_rolled_over": 3,
//	    },
//	}
type MetadataProvider interface {
	Tool
	// ExecuteWithMetadata runs the tool and returns both output and metadata
	ExecuteWithMetadata(ctx context.Context, argumentsXML []byte) (*ToolResult, error)
}

// ConditionallyVisible is an optional interface that tools can implement to
// control whether they are advertised to the LLM. Tools that depend on
// external configuration (for example calendar sync, which needs OAuth
// credentials) return false from ShouldShow until they are usable.
type ConditionallyVisible interface {
	// ShouldShow returns true if the tool should be included in the
	// system prompt's available tools list
	ShouldShow() bool
}
