package command

import (
	"encoding/json"
	"errors"
	"io"

	formkit "github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

type validationReport struct {
	Form   string              `json:"form"`
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

type submitReport struct {
	Form         string              `json:"form"`
	SubmissionID string              `json:"submission_id,omitempty"`
	Status       int                 `json:"status,omitempty"`
	Body         any                 `json:"body,omitempty"`
	Error        string              `json:"error,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
}

func errorMap(ve validator.ValidationErrors) map[string][]string {
	if ve.IsEmpty() {
		return nil
	}
	out := make(map[string][]string)
	for _, field := range ve.Fields() {
		out[field] = ve.Get(field)
	}
	return out
}

func newSubmitReport(formID string, res *formkit.Result, err error) submitReport {
	r := submitReport{Form: formID}
	if res != nil {
		r.SubmissionID = res.SubmissionID
		r.Status = res.StatusCode
		if res.Body != nil {
			r.Body = res.Body
		} else if len(res.Raw) > 0 {
			r.Body = string(res.Raw)
		}
	}
	if err == nil {
		return r
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		r.Errors = errorMap(ve)
		r.Error = ErrInvalidForm.Error()
		return r
	}
	r.Error = err.Error()
	var serr *formkit.SubmitError
	if errors.As(err, &serr) {
		r.Status = serr.StatusCode
		if len(serr.Body) > 0 {
			r.Body = string(serr.Body)
		}
	}
	return r
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
