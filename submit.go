package formkit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formdata"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/statemachine"
	"github.com/dmitrymomot/formkit/pkg/transport"
)

// Result is the outcome of a submission that reached the destination with
// a 2xx answer.
type Result struct {
	SubmissionID string
	StatusCode   int
	// Body is the decoded JSON body; nil for native submissions.
	Body map[string]any
	Raw  []byte
}

// Click handles a click on a control anywhere in the document. Clicking
// the configured submit control, a selector match associated with this
// form, or a native submit control of the form submits it. Clicks on any
// other control, including selector matches that belong to other forms,
// are ignored and return nil, nil.
func (i *Instance) Click(ctx context.Context, id string) (*Result, error) {
	c := i.doc.ControlByID(id)
	if c == nil {
		c = i.form.Control(id)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrControlNotFound, id)
	}

	triggers, remember := i.triggeredBy(c)
	if !triggers {
		i.log.Debug("click ignored", logger.Event("click"), slog.String("control", c.Key()))
		return nil, nil
	}
	if c.Disabled {
		if !i.machine.Is(StateIdle) {
			return nil, ErrSubmissionInFlight
		}
		return nil, fmt.Errorf("%w: %q", ErrControlDisabled, id)
	}

	if remember {
		i.mu.Lock()
		i.lastClicked = c
		i.captureLabel(c)
		i.mu.Unlock()
	}
	return i.Submit(ctx)
}

// triggeredBy reports whether clicking c submits this form and whether c
// becomes the active submit control.
func (i *Instance) triggeredBy(c *form.Control) (triggers, remember bool) {
	owned := i.form.Owns(c)
	switch {
	case i.selector != nil && owned && i.selector.Match(c):
		return true, true
	case i.submitControl != nil && c == i.submitControl:
		return true, true
	case owned && c.IsSubmit():
		return true, false
	}
	return false, false
}

// Submit validates the form and, when valid, sends it. It returns
// validator.ValidationErrors when the form is invalid, a *SubmitError when
// the submission was vetoed or failed, and ErrSubmissionInFlight when
// another submission has not finished yet.
func (i *Instance) Submit(ctx context.Context) (*Result, error) {
	if err := i.machine.Fire(ctx, EventSubmit, nil); err != nil {
		if statemachine.IsNoTransitionAvailableError(err) {
			return nil, ErrSubmissionInFlight
		}
		return nil, err
	}
	defer func() {
		if !i.machine.Is(StateIdle) {
			i.machine.Reset()
		}
	}()

	submissionID := uuid.NewString()
	ctx = logger.WithSubmissionID(ctx, submissionID)
	hooks := i.settings.Hooks

	if hooks.BeforeValidate != nil {
		hooks.BeforeValidate(ctx, i.form)
	}
	i.mu.Lock()
	report := i.validateLocked()
	i.mu.Unlock()
	valid := report.IsEmpty()
	if hooks.AfterValidate != nil {
		hooks.AfterValidate(ctx, i.form, valid)
	}

	if !valid {
		i.fire(ctx, EventInvalid)
		i.fire(ctx, EventSettle)
		i.log.InfoContext(ctx, "submission blocked by validation", logger.Event("submit"), slog.Int("errors", len(report)))
		return nil, report
	}
	i.fire(ctx, EventValid)

	active := i.beginSubmitting()

	payload, err := formdata.FromForm(i.form, i.store)
	if err != nil {
		i.endSubmitting(active)
		i.fire(ctx, EventCancel)
		return nil, err
	}

	if !i.settings.AJAX {
		return i.submitNative(ctx, submissionID, active, payload)
	}

	if hooks.BeforeSubmit != nil && !hooks.BeforeSubmit(ctx, i.form, payload) {
		i.endSubmitting(active)
		i.fire(ctx, EventCancel)
		i.log.InfoContext(ctx, "submission vetoed", logger.Event("submit"))
		return nil, &SubmitError{Kind: KindVetoed, Err: ErrVetoed}
	}

	i.fire(ctx, EventSend)
	i.setProgress(0)

	start := time.Now()
	resp, err := i.transport.Do(ctx, &transport.Request{
		Method:   i.form.HTTPMethod(),
		URL:      i.form.Action,
		Payload:  payload,
		Encoding: formdata.EncodingMultipart,
		Header:   http.Header{transport.HeaderID: []string{submissionID}},
		Progress: i.reportProgress,
	})
	i.endSubmitting(active)

	if err != nil {
		return nil, i.fail(ctx, networkError(err), start)
	}
	if !resp.OK() {
		return nil, i.fail(ctx, &SubmitError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode),
		}, start)
	}

	body, err := resp.JSON()
	if err != nil {
		return nil, i.fail(ctx, &SubmitError{
			Kind:       KindMalformed,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        fmt.Errorf("%w: %w", ErrMalformedResponse, err),
		}, start)
	}

	if hooks.OnSuccess != nil {
		hooks.OnSuccess(ctx, i.form, body)
	} else {
		i.notifier.Notify(ctx, Notice{Level: LevelInfo, Message: i.settings.SuccessMessage, FormID: i.form.ID})
	}
	if i.settings.ResetAfterSubmit {
		i.mu.Lock()
		i.form.Reset()
		i.store.Clear()
		i.progress = 0
		i.mu.Unlock()
	}

	i.fire(ctx, EventSucceed)
	i.fire(ctx, EventSettle)
	i.log.InfoContext(ctx, "form submitted",
		logger.Event("submit"),
		logger.StatusCode(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)
	return &Result{
		SubmissionID: submissionID,
		StatusCode:   resp.StatusCode,
		Body:         body,
		Raw:          resp.Body,
	}, nil
}

// submitNative sends the form the way a browser does without scripting:
// encoded per its enctype, without progress or submission hooks.
func (i *Instance) submitNative(ctx context.Context, submissionID string, active *form.Control, payload *formdata.Payload) (*Result, error) {
	i.fire(ctx, EventSend)
	start := time.Now()
	resp, err := i.transport.Do(ctx, &transport.Request{
		Method:   i.form.HTTPMethod(),
		URL:      i.form.Action,
		Payload:  payload,
		Encoding: formdata.ParseEncoding(i.form.Enctype),
		Header:   http.Header{transport.HeaderID: []string{submissionID}},
	})
	i.endSubmitting(active)

	var serr *SubmitError
	switch {
	case err != nil:
		serr = networkError(err)
	case !resp.OK():
		serr = &SubmitError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode),
		}
	}
	if serr != nil {
		i.fire(ctx, EventFail)
		i.fire(ctx, EventSettle)
		i.log.ErrorContext(ctx, "native submission failed", logger.Event("submit"), logger.Error(serr))
		return nil, serr
	}

	i.fire(ctx, EventSucceed)
	i.fire(ctx, EventSettle)
	i.log.InfoContext(ctx, "form submitted natively",
		logger.Event("submit"),
		logger.StatusCode(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)
	return &Result{SubmissionID: submissionID, StatusCode: resp.StatusCode, Raw: resp.Body}, nil
}

// fail routes a failure to OnError, or to a default notice.
func (i *Instance) fail(ctx context.Context, serr *SubmitError, start time.Time) *SubmitError {
	if h := i.settings.Hooks.OnError; h != nil {
		h(ctx, i.form, serr)
	} else {
		i.notifier.Notify(ctx, Notice{Level: LevelError, Message: serr.Notice(), FormID: i.form.ID})
	}
	i.fire(ctx, EventFail)
	i.fire(ctx, EventSettle)
	i.log.ErrorContext(ctx, "submission failed",
		logger.Event("submit"),
		slog.String("kind", serr.Kind.String()),
		logger.Error(serr),
		logger.Duration(time.Since(start)),
	)
	return serr
}

func (i *Instance) fire(ctx context.Context, e Event) {
	if err := i.machine.Fire(ctx, e, nil); err != nil {
		i.log.ErrorContext(ctx, "unexpected lifecycle event", logger.Event(string(e)), logger.Error(err))
	}
}

// beginSubmitting disables the active submit control and shows the
// in-flight label. The last clicked control wins over the resolved one.
func (i *Instance) beginSubmitting() *form.Control {
	i.mu.Lock()
	defer i.mu.Unlock()

	active := i.lastClicked
	if active == nil {
		active = i.submitControl
	}
	if active == nil {
		return nil
	}
	i.captureLabel(active)
	active.Disabled = true
	setControlLabel(active, submittingLabel)
	return active
}

// endSubmitting re-enables c and restores the label captured before the
// first attempt.
func (i *Instance) endSubmitting(c *form.Control) {
	if c == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	c.Disabled = false
	label := i.labels[c]
	if label == "" {
		label = fallbackLabel
	}
	setControlLabel(c, label)
}

func (i *Instance) setProgress(p float64) {
	i.mu.Lock()
	i.progress = p
	i.mu.Unlock()
}

// reportProgress converts transport byte counts to a percentage. Unknown
// totals are not reported.
func (i *Instance) reportProgress(loaded, total int64) {
	if total <= 0 {
		return
	}
	percent := float64(loaded) / float64(total) * 100
	i.setProgress(percent)
	if h := i.settings.Hooks.OnProgress; h != nil {
		h(percent, i.form)
	}
}
