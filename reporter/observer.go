package reporter

import "gqlcheck/toolkit"

// Observer receives test-session lifecycle events. Observation is passive:
// an observer must never alter a test outcome, only record and report it.
type Observer interface {
	OnSessionStart(total int)
	OnTestStart(name string)
	OnTestEnd(res toolkit.CaseResult)
	OnSessionEnd(sum toolkit.Summary)
}
