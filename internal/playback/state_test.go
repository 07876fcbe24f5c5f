package playback

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateRequesting, "requesting"},
		{StateDecoding, "decoding"},
		{StatePlaying, "playing"},
		{StateError, "error"},
		{State(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.state.String(); result != tt.expected {
				t.Errorf("State.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestStateBusyAndLabel(t *testing.T) {
	tests := []struct {
		state State
		busy  bool
		label string
	}{
		{StateIdle, false, "Dengarkan"},
		{StateRequesting, true, "Menyiapkan..."},
		{StateDecoding, true, "Menyiapkan..."},
		{StatePlaying, true, "Sedang Dibaca"},
		{StateError, false, "Dengarkan"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.Busy(); got != tt.busy {
				t.Errorf("Busy() = %v, want %v", got, tt.busy)
			}
			if got := tt.state.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name  string
		path  []State
		valid []bool
	}{
		{
			name:  "success path",
			path:  []State{StateRequesting, StateDecoding, StatePlaying, StateIdle},
			valid: []bool{true, true, true, true},
		},
		{
			name:  "no audio",
			path:  []State{StateRequesting, StateIdle},
			valid: []bool{true, true},
		},
		{
			name:  "synthesis failure",
			path:  []State{StateRequesting, StateError, StateIdle},
			valid: []bool{true, true, true},
		},
		{
			name:  "reentry rejected",
			path:  []State{StateRequesting, StateRequesting},
			valid: []bool{true, false},
		},
		{
			name:  "cannot skip synthesis",
			path:  []State{StateDecoding, StatePlaying},
			valid: []bool{false, false},
		},
		{
			name:  "error must return to idle",
			path:  []State{StateRequesting, StateError, StateRequesting},
			valid: []bool{true, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			for i, to := range tt.path {
				before := sm.Current()
				if got := sm.Transition(to); got != tt.valid[i] {
					t.Fatalf("step %d: Transition(%v) from %v = %v, want %v", i, to, before, got, tt.valid[i])
				}
				if !tt.valid[i] && sm.Current() != before {
					t.Fatalf("step %d: rejected transition changed state to %v", i, sm.Current())
				}
			}
		})
	}
}

func TestStateMachineCallbacks(t *testing.T) {
	sm := NewStateMachine()
	var order []string
	sm.OnExit(StateIdle, func() { order = append(order, "exit idle") })
	sm.OnEnter(StateRequesting, func() { order = append(order, "enter requesting") })

	sm.Transition(StatePlaying)
	if len(order) != 0 {
		t.Fatalf("callbacks ran for a rejected transition: %v", order)
	}

	sm.Transition(StateRequesting)
	if len(order) != 2 || order[0] != "exit idle" || order[1] != "enter requesting" {
		t.Errorf("callback order = %v", order)
	}
}
