package agent

import (
	"github.com/daykeep/daykeep/pkg/agent/tools"
)

// visibleTools returns the tools currently offered to the model. Tools
// implementing ConditionallyVisible are skipped while ShouldShow reports
// false, so e.g. calendar tools stay hidden until credentials exist.
func (a *DefaultAgent) visibleTools() []tools.Tool {
	a.toolsMu.RLock()
	defer a.toolsMu.RUnlock()

	visible := make([]tools.Tool, 0, len(a.tools))
	for _, tool := range a.tools {
		if cv, ok := tool.(tools.ConditionallyVisible); ok && !cv.ShouldShow() {
			continue
		}
		visible = append(visible, tool)
	}
	return visible
}

// getTool retrieves a tool by name (thread-safe)
func (a *DefaultAgent) getTool(name string) (tools.Tool, bool) {
	a.toolsMu.RLock()
	defer a.toolsMu.RUnlock()

	tool, exists := a.tools[name]
	return tool, exists
}
