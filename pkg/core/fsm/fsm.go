// Package fsm is a small thread-safe finite state machine used to guard
// lifecycle transitions.
package fsm

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidTransition is wrapped by Trigger when no transition exists for
// the current state and event.
var ErrInvalidTransition = errors.New("invalid transition")

// State represents a state in the machine
type State string

// Event represents an event that triggers a transition
type Event string

// Transition represents a valid state transition
type Transition struct {
	From  State
	Event Event
	To    State
}

// EnterFunc runs when the machine enters a state.
type EnterFunc func(from State, event Event)

// FSM is a thread-safe finite state machine
type FSM struct {
	currentState State
	transitions  map[State]map[Event]State
	onEnter      map[State]EnterFunc
	mu           sync.RWMutex
}

// NewFSM creates a new FSM with the initial state and transition table
func NewFSM(initialState State, transitions ...Transition) *FSM {
	f := &FSM{
		currentState: initialState,
		transitions:  make(map[State]map[Event]State),
		onEnter:      make(map[State]EnterFunc),
	}
	for _, t := range transitions {
		if _, ok := f.transitions[t.From]; !ok {
			f.transitions[t.From] = make(map[Event]State)
		}
		f.transitions[t.From][t.Event] = t.To
	}
	return f
}

// OnEnter sets the callback executed when entering a state.
// The callback runs while the machine is locked and must not call back into it.
func (f *FSM) OnEnter(state State, fn EnterFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEnter[state] = fn
}

// CurrentState returns the current state
func (f *FSM) CurrentState() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.currentState
}

// Is reports whether the machine is currently in state s
func (f *FSM) Is(s State) bool {
	return f.CurrentState() == s
}

// Trigger fires an event and returns the state entered
func (f *FSM) Trigger(event Event) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	from := f.currentState
	to, ok := f.transitions[from][event]
	if !ok {
		return from, fmt.Errorf("%w from state '%s' with event '%s'", ErrInvalidTransition, from, event)
	}

	f.currentState = to
	if fn, exists := f.onEnter[to]; exists {
		fn(from, event)
	}
	return to, nil
}
