package formkit

import (
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/statemachine"
)

// State is the submission lifecycle state of an Instance.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateValid      State = "valid"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// Event drives the lifecycle.
type Event string

const (
	EventSubmit  Event = "submit"
	EventInvalid Event = "invalid"
	EventValid   Event = "valid"
	EventCancel  Event = "cancel"
	EventSend    Event = "send"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventSettle  Event = "settle"
)

func newMachine(log *slog.Logger) *statemachine.Machine[State, Event] {
	return statemachine.MustNew(StateIdle,
		statemachine.WithTransition[State, Event](StateIdle, StateValidating, EventSubmit),
		statemachine.WithTransition[State, Event](StateValidating, StateInvalid, EventInvalid),
		statemachine.WithTransition[State, Event](StateValidating, StateValid, EventValid),
		statemachine.WithTransition[State, Event](StateValid, StateIdle, EventCancel),
		statemachine.WithTransition[State, Event](StateValid, StateSubmitting, EventSend),
		statemachine.WithTransition[State, Event](StateSubmitting, StateSuccess, EventSucceed),
		statemachine.WithTransition[State, Event](StateSubmitting, StateFailure, EventFail),
		statemachine.WithTransition[State, Event](StateInvalid, StateIdle, EventSettle),
		statemachine.WithTransition[State, Event](StateSuccess, StateIdle, EventSettle),
		statemachine.WithTransition[State, Event](StateFailure, StateIdle, EventSettle),
		statemachine.WithObserver(statemachine.Observer[State, Event](func(from, to State, event Event) {
			log.Debug("state changed",
				logger.Event(string(event)),
				slog.String("from", string(from)),
				logger.State(to),
			)
		})),
	)
}
