package playback

// State is a stage of the playback lifecycle.
type State int

const (
	// StateIdle indicates nothing is being played.
	StateIdle State = iota
	// StateRequesting indicates speech is being synthesized.
	StateRequesting
	// StateDecoding indicates the synthesized audio is being decoded.
	StateDecoding
	// StatePlaying indicates audio is playing.
	StatePlaying
	// StateError indicates the last cycle failed.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateDecoding:
		return "decoding"
	case StatePlaying:
		return "playing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether a cycle is in flight.
func (s State) Busy() bool {
	return s == StateRequesting || s == StateDecoding || s == StatePlaying
}

// Label is the text shown on the play button.
func (s State) Label() string {
	switch s {
	case StateRequesting, StateDecoding:
		return "Menyiapkan..."
	case StatePlaying:
		return "Sedang Dibaca"
	default:
		return "Dengarkan"
	}
}

// StateMachine guards playback transitions. It is not safe for concurrent
// use; Controller serializes access.
type StateMachine struct {
	current     State
	transitions map[State][]State
	onEnter     map[State]func()
	onExit      map[State]func()
}

// NewStateMachine creates a state machine in StateIdle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:       {StateRequesting},
			StateRequesting: {StateDecoding, StateIdle, StateError},
			StateDecoding:   {StatePlaying, StateError},
			StatePlaying:    {StateIdle, StateError},
			StateError:      {StateIdle},
		},
		onEnter: make(map[State]func()),
		onExit:  make(map[State]func()),
	}
}

// Transition moves to the given state. It reports false, leaving the
// current state untouched, when the move is not allowed.
func (sm *StateMachine) Transition(to State) bool {
	if !sm.CanTransition(to) {
		return false
	}

	if exitFn, ok := sm.onExit[sm.current]; ok && exitFn != nil {
		exitFn()
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}
	return true
}

// CanTransition reports whether the move to the given state is allowed.
func (sm *StateMachine) CanTransition(to State) bool {
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			return true
		}
	}
	return false
}

// Current returns the current state.
func (sm *StateMachine) Current() State {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state State, fn func()) {
	sm.onEnter[state] = fn
}

// OnExit registers a callback for exiting a state.
func (sm *StateMachine) OnExit(state State, fn func()) {
	sm.onExit[state] = fn
}
