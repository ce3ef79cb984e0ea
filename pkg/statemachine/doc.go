// Package statemachine implements a small generic finite state machine.
//
// States and events are any comparable types, usually string-backed
// constants. Transitions are registered with functional options; guards
// choose between several transitions for the same state and event, actions
// run before the state changes and observers are told afterwards.
//
//	type State string
//	type Event string
//
//	m := statemachine.MustNew[State, Event]("idle",
//		statemachine.WithTransition[State, Event]("idle", "running", "start"),
//		statemachine.WithTransition[State, Event]("running", "idle", "stop"),
//		statemachine.WithObserver[State, Event](func(from, to State, ev Event) {
//			log.Printf("%s -> %s on %s", from, to, ev)
//		}),
//	)
//
//	if err := m.Fire(ctx, "start", nil); err != nil {
//		if statemachine.IsNoTransitionAvailableError(err) {
//			// not allowed from the current state
//		}
//	}
//
// Actions and guards run while the machine's lock is held and must not call
// back into the machine.
package statemachine
