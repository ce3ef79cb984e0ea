package formkit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/messages"
	"github.com/dmitrymomot/formkit/pkg/preview"
	"github.com/dmitrymomot/formkit/pkg/statemachine"
	"github.com/dmitrymomot/formkit/pkg/transport"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const (
	submittingLabel = "Submitting..."
	fallbackLabel   = "Submit"
)

// Instance enhances one form of a document. Instances never share state,
// even when they enhance forms of the same document. It is safe for
// concurrent use; at most one submission is in flight at a time.
type Instance struct {
	id       string
	doc      *form.Document
	form     *form.Form
	settings Settings
	catalog  messages.Catalog

	validator *validator.Validator
	files     *file.Validator
	store     *file.Store
	transport transport.Transport
	notifier  Notifier
	log       *slog.Logger
	machine   *statemachine.Machine[State, Event]

	selector      *form.Selector
	submitControl *form.Control
	ownsStyle     bool

	mu          sync.Mutex
	lastClicked *form.Control
	labels      map[*form.Control]string
	report      validator.ValidationErrors
	progress    float64
	thumbs      []*async.Future[bool]
}

// New enhances the form with id formID in doc. The form is switched to
// novalidate and the recommended stylesheet is registered once per
// document.
func New(doc *form.Document, formID string, opts ...Option) (*Instance, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	f := doc.FormByID(formID)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}

	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := s.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("formkit"), logger.FormID(formID), logger.InstanceID(id))

	catalog := s.Catalog()
	i := &Instance{
		id:       id,
		doc:      doc,
		form:     f,
		settings: s,
		catalog:  catalog,
		validator: validator.New(
			validator.WithMessages(catalog),
			validator.WithCustomRules(s.CustomRules),
			validator.WithLogger(log),
		),
		files:     file.NewValidator(catalog, s.MaxFileSize, s.AllowedFileTypes...),
		store:     file.NewStore(),
		transport: s.Transport,
		notifier:  s.Notifier,
		log:       log,
		machine:   newMachine(log),
		labels:    make(map[*form.Control]string),
	}
	if i.transport == nil {
		i.transport = transport.NewMux(transport.NewHTTP())
	}
	if i.notifier == nil {
		i.notifier = LogNotifier{Logger: log}
	}

	f.NoValidate = true
	i.ownsStyle = doc.EnsureStyle(preview.StyleID)

	if err := i.resolveSubmitControl(); err != nil {
		return nil, err
	}

	log.Debug("form enhanced", logger.Event("init"))
	return i, nil
}

// MustNew is New that panics on error.
func MustNew(doc *form.Document, formID string, opts ...Option) *Instance {
	i, err := New(doc, formID, opts...)
	if err != nil {
		panic(fmt.Sprintf("formkit: %v", err))
	}
	return i
}

// resolveSubmitControl picks the control whose label is switched while a
// submission is in flight: the explicit control if it belongs to the form,
// else the first selector match inside the form, else the first match
// associated with the form, else the first native submit control.
func (i *Instance) resolveSubmitControl() error {
	s := i.settings
	switch {
	case s.SubmitControl != nil:
		if i.form.Owns(s.SubmitControl) {
			i.submitControl = s.SubmitControl
			i.captureLabel(s.SubmitControl)
		}
	case s.SubmitButton != "":
		sel, err := form.ParseSelector(s.SubmitButton)
		if err != nil {
			return err
		}
		i.selector = &sel
		if inside := sel.Filter(i.form.Controls()); len(inside) > 0 {
			i.submitControl = inside[0]
			return nil
		}
		for _, c := range sel.Filter(i.doc.Controls()) {
			if i.form.Owns(c) {
				i.submitControl = c
				break
			}
		}
	default:
		for _, c := range i.form.Controls() {
			if c.IsSubmit() {
				i.submitControl = c
				i.captureLabel(c)
				break
			}
		}
	}
	return nil
}

// ID returns the instance id used in logs.
func (i *Instance) ID() string {
	return i.id
}

// Form returns the enhanced form.
func (i *Instance) Form() *form.Form {
	return i.form
}

// Settings returns the resolved settings.
func (i *Instance) Settings() Settings {
	return i.settings
}

// Messages returns the resolved message catalog.
func (i *Instance) Messages() messages.Catalog {
	return i.catalog.Clone()
}

// SubmitControl returns the resolved submit control, or nil.
func (i *Instance) SubmitControl() *form.Control {
	return i.submitControl
}

// State returns the lifecycle state.
func (i *Instance) State() State {
	return i.machine.Current()
}

// Progress returns the last reported upload percentage.
func (i *Instance) Progress() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.progress
}

// Errors returns the validation report of the last pass.
func (i *Instance) Errors() validator.ValidationErrors {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make(validator.ValidationErrors, len(i.report))
	copy(out, i.report)
	return out
}

// Reset restores the form fields, removes every error decoration and
// forgets selected files and the last clicked submit control.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.form.Reset()
	i.clearDecorations()
	i.store.Clear()
	i.report = nil
	i.progress = 0
	i.lastClicked = nil
	i.log.Debug("form reset", logger.Event("reset"))
}

// ClearErrors removes every error decoration without validating.
func (i *Instance) ClearErrors() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clearDecorations()
	i.report = nil
}

func (i *Instance) clearDecorations() {
	for _, c := range i.form.Controls() {
		c.Undecorate(i.settings.ErrorClass)
	}
}

// control finds a control nested in the form by id or name.
func (i *Instance) control(idOrName string) (*form.Control, error) {
	c := i.form.Control(idOrName)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrControlNotFound, idOrName)
	}
	return c, nil
}

func controlLabel(c *form.Control) string {
	if c.Tag == form.TagInput {
		return c.Value
	}
	return c.Label
}

func setControlLabel(c *form.Control, label string) {
	if c.Tag == form.TagInput {
		c.Value = label
		return
	}
	c.Label = label
}

// captureLabel remembers the label of c unless one is already cached.
// Callers hold mu or run during construction.
func (i *Instance) captureLabel(c *form.Control) {
	if _, ok := i.labels[c]; !ok {
		i.labels[c] = controlLabel(c)
	}
}
