package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// AskQuestionTool surfaces a clarifying question to the user and pauses
// the loop until they answer. The assistant reaches for it when a request
// is underspecified, e.g. "add a task for the thing tomorrow" with no
// title or priority.
type AskQuestionTool struct{}

// NewAskQuestionTool creates a new ask question tool
func NewAskQuestionTool() *AskQuestionTool {
	return &AskQuestionTool{}
}

// Name returns the tool's identifier
func (a *AskQuestionTool) Name() string {
	return "ask_question"
}

// Description returns a description of what this tool does
func (a *AskQuestionTool) Description() string {
	return "Ask the user a clarifying question when their request is missing details you need, " +
		"such as a task's title, priority, due date, or which of several matching tasks they mean. " +
		"Ask for exactly the missing information, nothing more."
}

// Schema returns the JSON schema for the tool's arguments
func (a *AskQuestionTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"question": map[string]interface{}{
				"type":        "string",
				"description": "A clear, specific question about the missing detail, e.g. 'Which task did you mean: task 3 or task 7?'",
			},
			"suggestions": map[string]interface{}{
				"type":        "array",
				"description": "Optional list of 2-4 likely answers so the user can reply with one word.",
				"items": map[string]interface{}{
					"type": "string",
				},
				"minItems": 0,
				"maxItems": 4,
			},
		},
		[]string{"question"},
	)
}

type askQuestionArgs struct {
	XMLName     xml.Name `xml:"arguments"`
	Question    string   `xml:"question"`
	Suggestions []string `xml:"suggestions>suggestion"`
}

// Execute returns the question, with any suggestions appended as a
// numbered list, for the executor to present to the user.
func (a *AskQuestionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var args askQuestionArgs
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for ask_question: %w", err)
	}
	if args.Question == "" {
		return "", nil, fmt.Errorf("question cannot be empty")
	}

	var out strings.Builder
	out.WriteString(args.Question)
	if len(args.Suggestions) > 0 {
		out.WriteString("\n\nSuggested answers:")
		for i, s := range args.Suggestions {
			fmt.Fprintf(&out, "\n%d. %s", i+1, s)
		}
	}
	return out.String(), nil, nil
}

// IsLoopBreaking returns true; the agent cannot proceed until the user
// answers.
func (a *AskQuestionTool) IsLoopBreaking() bool {
	return true
}
