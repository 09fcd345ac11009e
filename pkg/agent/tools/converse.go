package tools

import (
	"context"
	"encoding/xml"
	"fmt"
)

// ConverseTool replies to the user without touching any task data. It
// covers the small talk and quick questions that make up much of a daily
// check-in: "how am I doing this week?", "good morning", "what does
// rollover mean?".
type ConverseTool struct{}

// NewConverseTool creates a new converse tool
func NewConverseTool() *ConverseTool {
	return &ConverseTool{}
}

// Name returns the tool's identifier
func (c *ConverseTool) Name() string {
	return "converse"
}

// Description returns a description of what this tool does
func (c *ConverseTool) Description() string {
	return "Reply to the user when their message is conversational and doesn't call for " +
		"changing any tasks or schedule entries. Use it for greetings, encouragement, " +
		"and answering questions about information you already have."
}

// Schema returns the JSON schema for the tool's arguments
func (c *ConverseTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"message": map[string]interface{}{
				"type":        "string",
				"description": "The reply to show the user. Keep it warm and concrete, mentioning their actual tasks or progress where relevant.",
			},
		},
		[]string{"message"},
	)
}

type converseArgs struct {
	XMLName xml.Name `xml:"arguments"`
	Message string   `xml:"message"`
}

// Execute returns the conversational reply for the executor to display.
func (c *ConverseTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var args converseArgs
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for converse: %w", err)
	}
	if args.Message == "" {
		return "", nil, fmt.Errorf("message cannot be empty")
	}
	return args.Message, nil, nil
}

// IsLoopBreaking returns true; the reply ends the turn.
func (c *ConverseTool) IsLoopBreaking() bool {
	return true
}
