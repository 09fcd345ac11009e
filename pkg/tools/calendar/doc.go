// Package calendar provides the agent tools for Google Calendar sync.
// The tools stay hidden from the agents until calendar credentials are
// configured.
package calendar
