package validator

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/messages"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRegex   = regexp.MustCompile(`^https?://.+\..+`)
	phoneRegex = regexp.MustCompile(`^[\d\s\-+()]+$`)
	// Leading decimal literal, the way browsers read a numeric prefix.
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// PatternMatchTimeout bounds a single match of a declared pattern.
const PatternMatchTimeout = 100 * time.Millisecond

// CustomRule validates a field by name. A non-empty return is reported
// verbatim as the error.
type CustomRule func(value string, c *form.Control) string

// Validator validates fields and groups. It is safe for concurrent use.
type Validator struct {
	messages messages.Catalog
	rules    map[string]CustomRule
	logger   *slog.Logger

	mu       sync.Mutex
	patterns map[string]*regexp2.Regexp
}

// Option configures a Validator.
type Option func(*Validator)

// WithMessages sets the catalog used for error messages.
func WithMessages(c messages.Catalog) Option {
	return func(v *Validator) {
		if c != nil {
			v.messages = c
		}
	}
}

// WithCustomRule registers rule for the field name.
func WithCustomRule(name string, rule CustomRule) Option {
	return func(v *Validator) {
		if name != "" && rule != nil {
			v.rules[name] = rule
		}
	}
}

// WithCustomRules registers several rules keyed by field name.
func WithCustomRules(rules map[string]CustomRule) Option {
	return func(v *Validator) {
		for name, rule := range rules {
			WithCustomRule(name, rule)(v)
		}
	}
}

// WithLogger sets the logger used to report invalid patterns.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Validator with the default catalog.
func New(opts ...Option) *Validator {
	v := &Validator{
		messages: messages.Defaults(),
		rules:    make(map[string]CustomRule),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		patterns: make(map[string]*regexp2.Regexp),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Messages returns the catalog in use.
func (v *Validator) Messages() messages.Catalog {
	return v.messages
}

// Control validates the current value of c against its declared constraint.
func (v *Validator) Control(c *form.Control) Result {
	if c == nil {
		return Valid()
	}
	return v.Field(c.Value, ConstraintOf(c), c)
}

// Field validates value against con. ref is handed to the custom rule and
// may be nil.
func (v *Validator) Field(value string, con Constraint, ref *form.Control) Result {
	val := strings.TrimSpace(value)

	if con.Kind.IsGroup() {
		if con.Required && !con.Checked {
			return DeferToGroup()
		}
		if !con.Checked {
			return Valid()
		}
	}

	if con.Required && val == "" {
		return resultFrom(v.required(con.Name))
	}

	// Optional fields without a value are never checked further.
	if val == "" {
		return Valid()
	}

	if err, failed := First(v.rulesFor(val, con)...); failed {
		return resultFrom(err)
	}

	if rule, ok := v.rules[con.Name]; ok && con.Name != "" {
		if msg := rule(val, ref); msg != "" {
			return Result{
				Status:  StatusInvalid,
				Message: msg,
				Values:  map[string]any{"field": con.Name},
			}
		}
	}
	return Valid()
}

func (v *Validator) rulesFor(val string, con Constraint) []Rule {
	rules := make([]Rule, 0, 8)

	if con.MinLength >= 0 {
		rules = append(rules, MinLength(v.messages, con.Name, val, con.MinLength))
	}
	if con.MaxLength >= 0 {
		rules = append(rules, MaxLength(v.messages, con.Name, val, con.MaxLength))
	}

	switch {
	case con.Kind == form.KindEmail:
		rules = append(rules, MatchKey(v.messages, con.Name, val, emailRegex, messages.Email))
	case con.Kind == form.KindURL:
		rules = append(rules, MatchKey(v.messages, con.Name, val, urlRegex, messages.URL))
	case con.Kind == form.KindTel:
		rules = append(rules, MatchKey(v.messages, con.Name, val, phoneRegex, messages.Phone))
	case con.Kind.IsNumeric():
		rules = append(rules, NumberRules(v.messages, con.Name, val, con.Min, con.Max)...)
	case con.Kind.IsDateLike():
		rules = append(rules, OrderedRules(v.messages, con.Name, val, con.Min, con.Max)...)
	}

	if con.Pattern != "" {
		rules = append(rules, v.patternRule(con.Name, val, con.Pattern))
	}

	return rules
}

func (v *Validator) required(field string) ValidationError {
	return catalogError(v.messages, field, messages.Required)
}

func (v *Validator) patternRule(field, val, pattern string) Rule {
	re, err := v.compile(pattern)
	if err != nil {
		v.logger.Warn("pattern does not compile, field treated as invalid",
			slog.String("field", field),
			slog.String("pattern", pattern),
			slog.Any("error", err),
		)
		return Rule{
			Check: func() bool { return false },
			Error: catalogError(v.messages, field, messages.Pattern),
		}
	}
	return Rule{
		Check: func() bool {
			ok, err := re.MatchString(val)
			return err == nil && ok
		},
		Error: catalogError(v.messages, field, messages.Pattern),
	}
}

// compile parses pattern with ECMAScript semantics, the dialect of the
// HTML pattern attribute. Compiled patterns are cached.
func (v *Validator) compile(pattern string) (*regexp2.Regexp, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if re, ok := v.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}
	re.MatchTimeout = PatternMatchTimeout
	v.patterns[pattern] = re
	return re, nil
}

// MinLength fails when val has fewer than min characters.
func MinLength(c messages.Catalog, field, val string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(val) >= min },
		Error: catalogError(c, field, messages.MinLength, messages.Arg("min", min)),
	}
}

// MaxLength fails when val has more than max characters.
func MaxLength(c messages.Catalog, field, val string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(val) <= max },
		Error: catalogError(c, field, messages.MaxLength, messages.Arg("max", max)),
	}
}

// MatchKey fails when val does not match re, reporting the key message.
func MatchKey(c messages.Catalog, field, val string, re *regexp.Regexp, key messages.Key) Rule {
	return Rule{
		Check: func() bool { return re.MatchString(val) },
		Error: catalogError(c, field, key),
	}
}

// NumberRules checks that val starts with a finite number, then applies the
// numeric min and max bounds. Bounds that do not parse are ignored.
func NumberRules(c messages.Catalog, field, val, min, max string) []Rule {
	num, ok := ParseNumber(val)
	rules := []Rule{{
		Check: func() bool { return ok },
		Error: catalogError(c, field, messages.Number),
	}}
	if bound, bok := ParseNumber(min); min != "" && bok {
		rules = append(rules, Rule{
			Check: func() bool { return num >= bound },
			Error: catalogError(c, field, messages.Min, messages.Arg("min", min)),
		})
	}
	if bound, bok := ParseNumber(max); max != "" && bok {
		rules = append(rules, Rule{
			Check: func() bool { return num <= bound },
			Error: catalogError(c, field, messages.Max, messages.Arg("max", max)),
		})
	}
	return rules
}

// OrderedRules compares val against min and max as plain strings. This is
// only meaningful for ISO-ordered formats such as dates, times and weeks.
func OrderedRules(c messages.Catalog, field, val, min, max string) []Rule {
	var rules []Rule
	if min != "" {
		rules = append(rules, Rule{
			Check: func() bool { return val >= min },
			Error: catalogError(c, field, messages.Min, messages.Arg("min", min)),
		})
	}
	if max != "" {
		rules = append(rules, Rule{
			Check: func() bool { return val <= max },
			Error: catalogError(c, field, messages.Max, messages.Arg("max", max)),
		})
	}
	return rules
}

// ParseNumber reads the leading decimal number of s. It reports false when s
// does not start with a number or the number is not finite.
func ParseNumber(s string) (float64, bool) {
	lit := leadingFloatRegex.FindString(strings.TrimSpace(s))
	if lit == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func catalogError(c messages.Catalog, field string, key messages.Key, args ...messages.Placeholder) ValidationError {
	values := map[string]any{"field": field}
	for _, a := range args {
		values[a.Name] = a.Value
	}
	return ValidationError{
		Field:             field,
		Message:           c.Format(key, args...),
		TranslationKey:    string(key),
		TranslationValues: values,
	}
}
