package types

// AgentChannels bundles the channels an executor uses to talk to an agent.
// Input carries user turns toward the agent; Event streams the agent's
// activity back out. Shutdown is closed by the agent's owner to request a
// stop, and Done is closed by the agent once its loop has fully exited.
type AgentChannels struct {
	Input    chan *Input
	Event    chan *AgentEvent
	Shutdown chan struct{}
	Done     chan struct{}
}

// NewAgentChannels creates a channel bundle with the given buffer size for
// the input and event channels.
func NewAgentChannels(bufferSize int) *AgentChannels {
	return &AgentChannels{
		Input:    make(chan *Input, bufferSize),
		Event:    make(chan *AgentEvent, bufferSize),
		Shutdown: make(chan struct{}),
		Done:     make(chan struct{}),
	}
}

// Close closes the outbound channels. Called by the agent when its event
// loop exits; senders must not use the channels afterwards.
func (c *AgentChannels) Close() {
	close(c.Event)
	close(c.Done)
}
