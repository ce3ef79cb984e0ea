package statemachine_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrymomot/formkit/pkg/statemachine"
)

type state string
type event string

const (
	draft     state = "draft"
	inReview  state = "in_review"
	approved  state = "approved"
	rejected  state = "rejected"
	published state = "published"

	submit  event = "submit"
	approve event = "approve"
	reject  event = "reject"
	publish event = "publish"
)

func TestMachine(t *testing.T) {
	t.Parallel()

	t.Run("basic transitions", func(t *testing.T) {
		t.Parallel()

		sm := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit),
			statemachine.WithTransition(inReview, approved, approve),
		)

		if sm.Current() != draft {
			t.Fatalf("expected initial state %s, got %s", draft, sm.Current())
		}

		ctx := context.Background()
		if !sm.CanFire(ctx, submit, nil) {
			t.Fatal("expected submit to be allowed from draft")
		}
		if err := sm.Fire(ctx, submit, nil); err != nil {
			t.Fatalf("fire submit: %v", err)
		}
		if err := sm.Fire(ctx, approve, nil); err != nil {
			t.Fatalf("fire approve: %v", err)
		}
		if !sm.Is(approved, published) {
			t.Fatalf("expected approved, got %s", sm.Current())
		}

		sm.Reset()
		if sm.Current() != draft {
			t.Fatalf("expected %s after reset, got %s", draft, sm.Current())
		}
	})

	t.Run("no transition", func(t *testing.T) {
		t.Parallel()

		sm := statemachine.MustNew(draft, statemachine.WithTransition(draft, inReview, submit))

		err := sm.Fire(context.Background(), publish, nil)
		if !statemachine.IsNoTransitionAvailableError(err) {
			t.Fatalf("expected no transition error, got %v", err)
		}
		if !strings.Contains(err.Error(), "draft") || !strings.Contains(err.Error(), "publish") {
			t.Fatalf("error should name state and event: %v", err)
		}
		if sm.Current() != draft {
			t.Fatalf("state changed on failed fire: %s", sm.Current())
		}
	})

	t.Run("guards choose the branch", func(t *testing.T) {
		t.Parallel()

		score := func(min int) statemachine.Guard[state, event] {
			return func(_ context.Context, _ state, _ event, data any) bool {
				n, _ := data.(int)
				return n >= min
			}
		}

		sm := statemachine.MustNew(inReview,
			statemachine.WithTransition(inReview, approved, approve, statemachine.WithGuard(score(80))),
			statemachine.WithTransition(inReview, rejected, approve, statemachine.WithGuard(score(0))),
		)

		if err := sm.Fire(context.Background(), approve, 50); err != nil {
			t.Fatalf("fire: %v", err)
		}
		if sm.Current() != rejected {
			t.Fatalf("expected %s, got %s", rejected, sm.Current())
		}
	})

	t.Run("guards reject", func(t *testing.T) {
		t.Parallel()

		never := func(context.Context, state, event, any) bool { return false }
		sm := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit, statemachine.WithGuard[state, event](never)),
		)

		err := sm.Fire(context.Background(), submit, nil)
		if !statemachine.IsTransitionRejectedError(err) {
			t.Fatalf("expected rejected error, got %v", err)
		}
		if sm.CanFire(context.Background(), submit, nil) {
			t.Fatal("CanFire should follow guards")
		}
	})

	t.Run("failing action aborts", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		fail := func(context.Context, state, state, event, any) error { return boom }
		sm := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit, statemachine.WithAction[state, event](fail)),
		)

		err := sm.Fire(context.Background(), submit, nil)
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped action error, got %v", err)
		}
		if sm.Current() != draft {
			t.Fatalf("state changed after failing action: %s", sm.Current())
		}
	})

	t.Run("observers", func(t *testing.T) {
		t.Parallel()

		var seen []string
		sm := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit),
			statemachine.WithObserver[state, event](func(from, to state, ev event) {
				seen = append(seen, string(from)+">"+string(to)+":"+string(ev))
			}),
		)

		if err := sm.Fire(context.Background(), submit, nil); err != nil {
			t.Fatalf("fire: %v", err)
		}
		if len(seen) != 1 || seen[0] != "draft>in_review:submit" {
			t.Fatalf("unexpected observations: %v", seen)
		}
	})

	t.Run("nil observer", func(t *testing.T) {
		t.Parallel()

		_, err := statemachine.New[state, event](draft, statemachine.WithObserver[state, event](nil))
		if !errors.Is(err, statemachine.ErrNilObserver) {
			t.Fatalf("expected ErrNilObserver, got %v", err)
		}
	})
}

func TestMachineConcurrentFire(t *testing.T) {
	t.Parallel()

	sm := statemachine.MustNew(draft,
		statemachine.WithTransition(draft, inReview, submit),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sm.Fire(context.Background(), submit, nil); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful fire, got %d", wins)
	}
}
