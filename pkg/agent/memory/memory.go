// Package memory provides conversation history storage for agents.
package memory

import (
	"sync"

	"github.com/daykeep/daykeep/pkg/types"
)

// Memory stores the conversation history for an agent.
type Memory interface {
	// Add appends a message to the history
	Add(msg *types.Message)

	// GetAll returns a copy of the full history in order
	GetAll() []*types.Message

	// Clear removes all messages from the history
	Clear()
}

// ConversationMemory is an in-memory, thread-safe implementation of Memory.
type ConversationMemory struct {
	mu       sync.RWMutex
	messages []*types.Message
}

// NewConversationMemory creates an empty conversation memory.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{
		messages: make([]*types.Message, 0, 16),
	}
}

// Add appends a message to the history. Nil messages are ignored.
func (m *ConversationMemory) Add(msg *types.Message) {
	if msg == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// GetAll returns a copy of the message history in insertion order.
// The slice is a copy but the messages are shared, callers must not mutate them.
func (m *ConversationMemory) GetAll() []*types.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Clear removes all messages from the history.
func (m *ConversationMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = m.messages[:0]
}

// Load replaces the history with the given messages.
// Used to restore a persisted session transcript on startup.
func (m *ConversationMemory) Load(messages []*types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = make([]*types.Message, 0, len(messages))
	for _, msg := range messages {
		if msg != nil {
			m.messages = append(m.messages, msg)
		}
	}
}

// Len returns the number of messages in the history.
func (m *ConversationMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}
