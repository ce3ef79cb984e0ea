package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard decides at fire time whether a transition may be taken.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action runs before the state changes. Returning an error aborts the
// transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Observer is notified after every completed transition.
type Observer[S, E comparable] func(from, to S, event E)

// Transition is a state change triggered by an event.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // all must pass
	Actions []Action[S, E] // run in order before the change
}

// Machine is a thread-safe in-memory finite state machine over comparable
// state and event types.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	observers   []Observer[S, E]
}

// Option configures a Machine during construction.
type Option[S, E comparable] func(*Machine[S, E]) error

// New creates a machine in the initial state.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on error.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the current state is one of states.
func (m *Machine[S, E]) Is(states ...S) bool {
	cur := m.Current()
	for _, s := range states {
		if s == cur {
			return true
		}
	}
	return false
}

// AddTransition registers a transition. Several transitions for the same
// state and event are tried in registration order; the first whose guards
// pass wins.
func (m *Machine[S, E]) AddTransition(t Transition[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Fire triggers event. It returns *ErrNoTransitionAvailable when the current
// state has no transition for event and *ErrTransitionRejected when every
// candidate was blocked by a guard.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()

	from := m.current
	t, err := m.find(ctx, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	observers := m.observers
	m.mu.Unlock()

	for _, o := range observers {
		o(from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.find(ctx, event, data)
	return err == nil
}

// Reset returns the machine to its initial state without running actions
// or observers.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) find(ctx context.Context, event E, data any) (*Transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
	}

	for i := range candidates {
		if guardsPass(ctx, candidates[i], m.current, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &ErrTransitionRejected{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
}

func guardsPass[S, E comparable](ctx context.Context, t Transition[S, E], from S, event E, data any) bool {
	for _, guard := range t.Guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
