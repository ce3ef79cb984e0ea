package formkit

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/messages"
	"github.com/dmitrymomot/formkit/pkg/preview"
	"github.com/dmitrymomot/formkit/pkg/transport"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// EnvPrefix is the prefix of the variables read by FromEnv.
const EnvPrefix = "FORMKIT_"

// Settings is the resolved configuration of an Instance.
type Settings struct {
	// SubmitButton is a selector for the submit control; it may match
	// controls outside the form that reference it through the form attribute.
	SubmitButton string
	// SubmitControl is an explicit submit control. It takes precedence over
	// SubmitButton.
	SubmitControl *form.Control

	ErrorClass       string
	ErrorSpanClass   string
	ProgressBarClass string
	PreviewClass     string

	// ShowNameError prefixes field errors with the field name.
	ShowNameError bool
	// HumanizeNames turns "first_name" into "First Name" in that prefix.
	HumanizeNames bool

	SuccessMessage   string
	AJAX             bool
	ResetAfterSubmit bool

	// MaxFileSize in bytes; zero disables the size check.
	MaxFileSize int64
	// AllowedFileTypes holds MIME types or family wildcards ("image/*").
	AllowedFileTypes []string

	CustomRules map[string]validator.CustomRule
	Hooks       Hooks

	// Messages are overrides merged key by key over the defaults.
	Messages messages.Catalog
	Bundle   *messages.Bundle
	Locale   string

	Transport transport.Transport
	Logger    *slog.Logger
	Notifier  Notifier

	errs []error
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	classes := preview.DefaultClasses()
	return Settings{
		ErrorClass:       classes.Error,
		ErrorSpanClass:   classes.ErrorSpan,
		ProgressBarClass: classes.ProgressBar,
		PreviewClass:     classes.Preview,
		ShowNameError:    true,
		HumanizeNames:    true,
		SuccessMessage:   "Form submitted successfully!",
		AJAX:             true,
		MaxFileSize:      file.DefaultMaxSize,
		CustomRules:      make(map[string]validator.CustomRule),
	}
}

// Catalog resolves the message catalog: defaults, then the bundle entry for
// Locale, then Messages.
func (s Settings) Catalog() messages.Catalog {
	c := messages.Defaults()
	if s.Bundle != nil {
		c = s.Bundle.Catalog(s.Locale)
	}
	return c.Merge(s.Messages)
}

// Classes returns the preview class names.
func (s Settings) Classes() preview.Classes {
	return preview.Classes{
		Error:       s.ErrorClass,
		ErrorSpan:   s.ErrorSpanClass,
		ProgressBar: s.ProgressBarClass,
		Preview:     s.PreviewClass,
	}
}

func (s Settings) err() error {
	return errors.Join(s.errs...)
}

// Option configures an Instance.
type Option func(*Settings)

// WithSubmitButton selects the submit control by selector. Matches inside the
// form win over controls elsewhere in the document.
func WithSubmitButton(selector string) Option {
	return func(s *Settings) {
		s.SubmitButton = selector
	}
}

// WithSubmitControl binds an explicit submit control. It wins over WithSubmitButton.
func WithSubmitControl(c *form.Control) Option {
	return func(s *Settings) {
		s.SubmitControl = c
	}
}

// WithErrorClass sets the class added to invalid controls.
func WithErrorClass(class string) Option {
	return func(s *Settings) {
		s.ErrorClass = class
	}
}

// WithErrorSpanClass sets the class of the error text element.
func WithErrorSpanClass(class string) Option {
	return func(s *Settings) {
		s.ErrorSpanClass = class
	}
}

// WithProgressBarClass sets the class of file progress bars.
func WithProgressBarClass(class string) Option {
	return func(s *Settings) {
		s.ProgressBarClass = class
	}
}

// WithPreviewClass sets the class of file preview containers.
func WithPreviewClass(class string) Option {
	return func(s *Settings) {
		s.PreviewClass = class
	}
}

// WithShowNameError prefixes field errors with the field name.
func WithShowNameError(show bool) Option {
	return func(s *Settings) {
		s.ShowNameError = show
	}
}

// WithHumanizeNames turns names like first_name into "First Name" in error prefixes.
func WithHumanizeNames(humanize bool) Option {
	return func(s *Settings) {
		s.HumanizeNames = humanize
	}
}

// WithSuccessMessage sets the notice shown after a successful submission
// when no OnSuccess hook is registered.
func WithSuccessMessage(msg string) Option {
	return func(s *Settings) {
		s.SuccessMessage = msg
	}
}

// WithAJAX toggles asynchronous submission. Without it the form is sent
// the way a browser would: encoded per its enctype, with no progress and
// no submission hooks.
func WithAJAX(enabled bool) Option {
	return func(s *Settings) {
		s.AJAX = enabled
	}
}

// WithResetAfterSubmit resets the form after a successful submission.
func WithResetAfterSubmit(reset bool) Option {
	return func(s *Settings) {
		s.ResetAfterSubmit = reset
	}
}

// WithMaxFileSize sets the per-file size limit in bytes.
func WithMaxFileSize(bytes int64) Option {
	return func(s *Settings) {
		s.MaxFileSize = bytes
	}
}

// WithAllowedFileTypes restricts file MIME types. Patterns like image/* are accepted.
func WithAllowedFileTypes(types ...string) Option {
	return func(s *Settings) {
		s.AllowedFileTypes = append([]string(nil), types...)
	}
}

// WithCustomRule registers a rule for the field name. It runs after every
// built-in check.
func WithCustomRule(name string, rule validator.CustomRule) Option {
	return func(s *Settings) {
		if s.CustomRules == nil {
			s.CustomRules = make(map[string]validator.CustomRule)
		}
		s.CustomRules[name] = rule
	}
}

// WithCustomRules registers several rules keyed by field name.
func WithCustomRules(rules map[string]validator.CustomRule) Option {
	return func(s *Settings) {
		if s.CustomRules == nil {
			s.CustomRules = make(map[string]validator.CustomRule)
		}
		maps.Copy(s.CustomRules, rules)
	}
}

// WithMessages merges overrides over the catalog. Repeated calls
// accumulate.
func WithMessages(overrides messages.Catalog) Option {
	return func(s *Settings) {
		s.Messages = s.Messages.Merge(overrides)
	}
}

// WithMessageBundle resolves messages per locale from b.
func WithMessageBundle(b *messages.Bundle) Option {
	return func(s *Settings) {
		s.Bundle = b
	}
}

// WithLocale picks the message bundle locale.
func WithLocale(locale string) Option {
	return func(s *Settings) {
		s.Locale = locale
	}
}

// WithTransport sets the destination used for AJAX and native submissions.
func WithTransport(t transport.Transport) Option {
	return func(s *Settings) {
		s.Transport = t
	}
}

// WithLogger sets the instance logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Settings) {
		s.Logger = l
	}
}

// WithNotifier sets where default notices go when no hook handles an
// outcome.
func WithNotifier(n Notifier) Option {
	return func(s *Settings) {
		s.Notifier = n
	}
}

// envSettings lists the settings that can come from the environment.
type envSettings struct {
	SubmitButton     string   `env:"SUBMIT_BUTTON"`
	ErrorClass       string   `env:"ERROR_CLASS"`
	ErrorSpanClass   string   `env:"ERROR_SPAN_CLASS"`
	ProgressBarClass string   `env:"PROGRESS_BAR_CLASS"`
	PreviewClass     string   `env:"PREVIEW_CLASS"`
	ShowNameError    bool     `env:"SHOW_NAME_ERROR"`
	HumanizeNames    bool     `env:"HUMANIZE_NAMES"`
	SuccessMessage   string   `env:"SUCCESS_MESSAGE"`
	AJAX             bool     `env:"AJAX"`
	ResetAfterSubmit bool     `env:"RESET_AFTER_SUBMIT"`
	MaxFileSize      int64    `env:"MAX_FILE_SIZE"`
	AllowedFileTypes []string `env:"ALLOWED_FILE_TYPES" envSeparator:","`
	Locale           string   `env:"LOCALE"`
	MessagesFile     string   `env:"MESSAGES_FILE"`
}

// FromEnv overlays FORMKIT_* environment variables on the settings built
// so far; unset variables keep the current values. FORMKIT_MESSAGES_FILE
// names a YAML or JSON catalog file loaded into the message bundle.
// Loading errors are reported by New.
func FromEnv(opts ...config.Option) Option {
	return func(s *Settings) {
		e := envSettings{
			SubmitButton:     s.SubmitButton,
			ErrorClass:       s.ErrorClass,
			ErrorSpanClass:   s.ErrorSpanClass,
			ProgressBarClass: s.ProgressBarClass,
			PreviewClass:     s.PreviewClass,
			ShowNameError:    s.ShowNameError,
			HumanizeNames:    s.HumanizeNames,
			SuccessMessage:   s.SuccessMessage,
			AJAX:             s.AJAX,
			ResetAfterSubmit: s.ResetAfterSubmit,
			MaxFileSize:      s.MaxFileSize,
			AllowedFileTypes: s.AllowedFileTypes,
			Locale:           s.Locale,
		}
		loadOpts := append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
		if err := config.Load(&e, loadOpts...); err != nil {
			s.errs = append(s.errs, err)
			return
		}

		s.SubmitButton = e.SubmitButton
		s.ErrorClass = e.ErrorClass
		s.ErrorSpanClass = e.ErrorSpanClass
		s.ProgressBarClass = e.ProgressBarClass
		s.PreviewClass = e.PreviewClass
		s.ShowNameError = e.ShowNameError
		s.HumanizeNames = e.HumanizeNames
		s.SuccessMessage = e.SuccessMessage
		s.AJAX = e.AJAX
		s.ResetAfterSubmit = e.ResetAfterSubmit
		s.MaxFileSize = e.MaxFileSize
		s.AllowedFileTypes = e.AllowedFileTypes
		s.Locale = e.Locale

		if e.MessagesFile != "" {
			if s.Bundle == nil {
				s.Bundle = messages.NewBundle("en")
			}
			if err := s.Bundle.LoadFile(e.MessagesFile); err != nil {
				s.errs = append(s.errs, err)
			}
		}
	}
}
