// Package llm defines the provider seam the agents speak through.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/daykeep/daykeep/pkg/llm/openai"
//	    "github.com/daykeep/daykeep/pkg/types"
//	)
//
//	func main() {
//	    // Create provider (Groq by default)
//	    provider, err := openai.NewProvider(os.Getenv("GROQ_API_KEY"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Use streaming
//	    messages := []*types.Message{
//	        types.NewUserMessage("What should I work on today?"),
//	    }
//
//	    stream, err := provider.StreamCompletion(context.Background(), messages)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for chunk := range stream {
//	        if chunk.IsError() {
//	            log.Fatal(chunk.Error)
//	        }
//	        fmt.Print(chunk.Content)
//	    }
//	}
package llm

import (
	"context"

	"github.com/daykeep/daykeep/pkg/types"
)

// ModelCloner is optionally implemented by providers that can retarget a
// different model cheaply. The clone keeps the original's credentials and
// transport and only changes which model the calls go to.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

// Provider is the LLM integration seam. A provider only talks to its API
// and hands back StreamChunks; turning those into agent events, thinking
// blocks, and conversation state is the agent layer's job. That keeps
// providers usable outside the agent too, e.g. for the end-of-day report
// batch path, and testable on their own.
type Provider interface {
	// StreamCompletion sends the conversation to the model and streams the
	// response back as StreamChunks: usually a Role-bearing chunk first,
	// then Content deltas, then a chunk with Finished set. The channel
	// closes when the stream ends; drain it fully.
	//
	// The error return covers only failures to start the stream, e.g. bad
	// configuration or an unreachable endpoint. Failures mid-stream arrive
	// on the channel as chunks with Error set.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete collects a whole StreamCompletion response into one
	// message, for callers that have no use for streaming.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo describes the model behind this provider.
	GetModelInfo() *types.ModelInfo

	// GetModel reports the model name.
	GetModel() string

	// GetBaseURL reports the API endpoint.
	GetBaseURL() string

	// GetAPIKey reports the credential in use.
	GetAPIKey() string
}
