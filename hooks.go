package formkit

import (
	"context"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formdata"
)

// Hooks are lifecycle callbacks. Every field is optional. Hooks run on the
// goroutine calling Submit, except OnProgress, which runs on the transport's
// goroutine while the body is being sent.
type Hooks struct {
	// BeforeValidate runs before the validation pass.
	BeforeValidate func(ctx context.Context, f *form.Form)
	// AfterValidate receives the aggregate validity.
	AfterValidate func(ctx context.Context, f *form.Form, valid bool)
	// BeforeSubmit may change the payload; returning false cancels the
	// submission before anything is sent.
	BeforeSubmit func(ctx context.Context, f *form.Form, p *formdata.Payload) bool
	// OnSuccess receives the decoded response body.
	OnSuccess func(ctx context.Context, f *form.Form, body map[string]any)
	// OnError receives network, status and malformed-response failures.
	OnError func(ctx context.Context, f *form.Form, err *SubmitError)
	// OnProgress receives the upload percentage, 0..100.
	OnProgress func(percent float64, f *form.Form)
}

// WithHooks replaces every hook.
func WithHooks(h Hooks) Option {
	return func(s *Settings) {
		s.Hooks = h
	}
}

// WithBeforeValidate runs before every full validation.
func WithBeforeValidate(fn func(ctx context.Context, f *form.Form)) Option {
	return func(s *Settings) {
		s.Hooks.BeforeValidate = fn
	}
}

// WithAfterValidate receives the outcome of every full validation.
func WithAfterValidate(fn func(ctx context.Context, f *form.Form, valid bool)) Option {
	return func(s *Settings) {
		s.Hooks.AfterValidate = fn
	}
}

// WithBeforeSubmit can change the payload. Returning false cancels the submission.
func WithBeforeSubmit(fn func(ctx context.Context, f *form.Form, p *formdata.Payload) bool) Option {
	return func(s *Settings) {
		s.Hooks.BeforeSubmit = fn
	}
}

// WithOnSuccess receives the decoded response body and replaces the success notice.
func WithOnSuccess(fn func(ctx context.Context, f *form.Form, body map[string]any)) Option {
	return func(s *Settings) {
		s.Hooks.OnSuccess = fn
	}
}

// WithOnError receives submission failures and replaces the failure notice.
func WithOnError(fn func(ctx context.Context, f *form.Form, err *SubmitError)) Option {
	return func(s *Settings) {
		s.Hooks.OnError = fn
	}
}

// WithOnProgress receives upload progress in percent.
func WithOnProgress(fn func(percent float64, f *form.Form)) Option {
	return func(s *Settings) {
		s.Hooks.OnProgress = fn
	}
}
