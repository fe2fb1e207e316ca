package agent

import "math"

// SoonDelay is how far ahead RequestEvaluationSoon schedules, in seconds.
const SoonDelay = 0.25

var never = math.Inf(1)

// ScheduleIn sets the wake time to now+delay. A zero delay is picked up by
// the dispatcher's next wake check, never synchronously.
func (a *Agent) ScheduleIn(delay float64) {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	a.wake = a.clock.Now() + delay
}

// RequestEvaluationSoon is how event handlers and leaves ask for a fresh
// decision. The tree is only ever walked from the wake handler.
func (a *Agent) RequestEvaluationSoon() { a.ScheduleIn(SoonDelay) }

// CancelReconsideration stops timer-driven evaluation until something
// schedules again.
func (a *Agent) CancelReconsideration() { a.wake = never }

// WakeTime returns the scheduled wake time, or false when none is armed.
func (a *Agent) WakeTime() (float64, bool) {
	if math.IsInf(a.wake, 1) {
		return 0, false
	}
	return a.wake, true
}

// Wake reports whether the agent is due at now. A due agent is disarmed
// before returning; the caller then fires EventAwoken at the entity.
func (a *Agent) Wake(now float64) bool {
	if a.wake > now {
		return false
	}
	a.wake = never
	return true
}
