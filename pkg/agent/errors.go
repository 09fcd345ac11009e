package agent

// trackError records an error message in the ring buffer and reports whether
// the circuit breaker should trip. The breaker trips after 5 consecutive
// errors without a successful tool execution in between.
func (a *DefaultAgent) trackError(errMsg string) bool {
	a.lastErrors[a.errorIndex%len(a.lastErrors)] = errMsg
	a.errorIndex++

	if a.errorIndex < len(a.lastErrors) {
		return false
	}

	// All slots filled since the last success
	for _, e := range a.lastErrors {
		if e == "" {
			return false
		}
	}

	agentDebugLog.Printf("Circuit breaker: %d consecutive errors, last: %s", len(a.lastErrors), errMsg)
	return true
}

// resetErrorTracking clears the error ring buffer after a successful
// tool execution.
func (a *DefaultAgent) resetErrorTracking() {
	for i := range a.lastErrors {
		a.lastErrors[i] = ""
	}
	a.errorIndex = 0
}
