// Package wizard drives the multi-step lead form: a linear, reversible
// sequence of steps whose aggregated answers are submitted exactly once per
// user action. Step progress is a pure integer state machine; rendering is a
// separate View projection so the machine tests without a rendering surface.
package wizard

// State tracks the current step of a linear wizard. Steps are indexed
// 0..StepCount-1, the last being the terminal confirmation step. There is no
// persistence: a new State always starts at step 0.
type State struct {
	stepCount int
	current   int
}

// NewState creates a wizard state with the given number of step panels.
func NewState(stepCount int) *State {
	if stepCount < 1 {
		stepCount = 1
	}
	return &State{stepCount: stepCount}
}

// Current returns the active step index.
func (s *State) Current() int { return s.current }

// StepCount returns the number of steps.
func (s *State) StepCount() int { return s.stepCount }

// Advance moves one step forward, clamped to the last step.
func (s *State) Advance() int {
	if s.current < s.stepCount-1 {
		s.current++
	}
	return s.current
}

// Retreat moves one step back, clamped to the first step.
func (s *State) Retreat() int {
	if s.current > 0 {
		s.current--
	}
	return s.current
}

// JumpToTerminal moves directly to the confirmation step.
func (s *State) JumpToTerminal() int {
	s.current = s.stepCount - 1
	return s.current
}

// Reset returns to the first step.
func (s *State) Reset() int {
	s.current = 0
	return s.current
}

// StatusKind distinguishes user-facing status messages.
type StatusKind string

const (
	StatusError   StatusKind = "error"
	StatusSuccess StatusKind = "success"
)

// View is the rendering projection the controller drives. Implementations
// own all presentation side effects: toggling step visibility, scrolling the
// active step into view, enabling and disabling the submit control.
type View interface {
	ShowStep(index int)
	LockSubmit(locked bool)
	SetStatus(message string, kind StatusKind)
	ClearStatus()
	ResetForm()
}
