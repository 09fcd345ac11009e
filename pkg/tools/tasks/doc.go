// Package tasks provides the agent tools for managing the task list,
// the weekly schedule, and the progress log.
package tasks
