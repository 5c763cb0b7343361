package sim

import "github.com/pthm-cable/striker/policy"

// stackEntry is an action plus the progress the executor keeps for it.
type stackEntry struct {
	action    policy.Action
	started   float64
	begun     bool
	contacted bool // the car touched the ball while this action ran
	padTaken  bool // CollectBoostAction: the pad has been picked up
}

// ActionStack is a LIFO stack of actions. The top action runs until it
// completes or times out; the agent only pushes onto an empty stack.
type ActionStack struct {
	entries []stackEntry
}

// Len returns the number of queued actions.
func (s *ActionStack) Len() int {
	return len(s.entries)
}

// Push puts an action on top of the stack.
func (s *ActionStack) Push(a policy.Action) {
	s.entries = append(s.entries, stackEntry{action: a})
}

// Peek returns the top action.
func (s *ActionStack) Peek() (policy.Action, bool) {
	if e := s.top(); e != nil {
		return e.action, true
	}
	return nil, false
}

// Pop removes and returns the top action.
func (s *ActionStack) Pop() (policy.Action, bool) {
	e := s.top()
	if e == nil {
		return nil, false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return e.action, true
}

// Clear drops every queued action.
func (s *ActionStack) Clear() {
	s.entries = s.entries[:0]
}

// Names lists the queued action names from bottom to top.
func (s *ActionStack) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.action.Name()
	}
	return names
}

func (s *ActionStack) top() *stackEntry {
	if len(s.entries) == 0 {
		return nil
	}
	return &s.entries[len(s.entries)-1]
}
