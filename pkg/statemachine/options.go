package statemachine

// TransitionOption adds guards or actions to a transition.
type TransitionOption[S, E comparable] func(*Transition[S, E])

// WithGuard adds a guard to the transition.
func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		t.Guards = append(t.Guards, g)
	}
}

// WithAction adds an action to the transition.
func WithAction[S, E comparable](a Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		t.Actions = append(t.Actions, a)
	}
}

// WithTransition registers from --event--> to.
func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		t := Transition[S, E]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		m.AddTransition(t)
		return nil
	}
}

// WithObserver registers fn to be called after each transition, outside
// the machine's lock.
func WithObserver[S, E comparable](fn Observer[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if fn == nil {
			return ErrNilObserver
		}
		m.observers = append(m.observers, fn)
		return nil
	}
}
