package formkit_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formkit "github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formdata"
	"github.com/dmitrymomot/formkit/pkg/transport"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	tr := &recorder{body: `{"id":42}`}
	notices := &formkit.Recorder{}

	var got map[string]any
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(tr),
		formkit.WithNotifier(notices),
		formkit.WithOnSuccess(func(ctx context.Context, f *form.Form, body map[string]any) {
			got = body
		}),
	)
	_, err := fk.ChooseFiles(t.Context(), "avatar", pdf("a.pdf", 3), pdf("b.pdf", 3))
	require.NoError(t, err)

	res, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(42), res.Body["id"])
	assert.Equal(t, res.Body, got)
	assert.NotEmpty(t, res.SubmissionID)
	assert.Empty(t, notices.Notices())

	req := tr.last()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/submit", req.URL)
	assert.Equal(t, formdata.EncodingMultipart, req.Encoding)
	assert.Equal(t, res.SubmissionID, req.Header.Get(transport.HeaderID))

	p := req.Payload
	assert.Equal(t, "Ann Lee", p.Get("full_name"))
	assert.Equal(t, []string{"pro"}, p.Values("plan"))
	assert.Len(t, p.Files("avatar[]"), 2)
	assert.False(t, p.Has("send"))

	send := doc.ControlByID("send")
	assert.Equal(t, "Send", send.Label)
	assert.False(t, send.Disabled)
	assert.Equal(t, formkit.StateIdle, fk.State())
}

func TestSubmitDefaultSuccessNotice(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	notices := &formkit.Recorder{}
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(&recorder{}),
		formkit.WithNotifier(notices),
		formkit.WithSuccessMessage("Thanks!"),
	)

	res, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Body)

	n, ok := notices.Last()
	require.True(t, ok)
	assert.Equal(t, formkit.Notice{Level: formkit.LevelInfo, Message: "Thanks!", FormID: "signup"}, n)
}

func TestSubmitInvalidSendsNothing(t *testing.T) {
	t.Parallel()

	tr := &recorder{}
	var (
		order []string
		valid = true
	)
	fk := formkit.MustNew(signupDoc(), "signup",
		formkit.WithTransport(tr),
		formkit.WithBeforeValidate(func(ctx context.Context, f *form.Form) {
			order = append(order, "before")
		}),
		formkit.WithAfterValidate(func(ctx context.Context, f *form.Form, ok bool) {
			order = append(order, "after")
			valid = ok
		}),
	)

	res, err := fk.Submit(t.Context())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, validator.ErrValidationFailed)
	assert.Len(t, validator.ExtractValidationErrors(err), 2)
	assert.Equal(t, []string{"before", "after"}, order)
	assert.False(t, valid)
	assert.Zero(t, tr.calls())
	assert.Equal(t, formkit.StateIdle, fk.State())
}

func TestSubmitVetoed(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	tr := &recorder{}
	notices := &formkit.Recorder{}

	var labelDuringHook string
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(tr),
		formkit.WithNotifier(notices),
		formkit.WithBeforeSubmit(func(ctx context.Context, f *form.Form, p *formdata.Payload) bool {
			labelDuringHook = doc.ControlByID("send").Label
			return false
		}),
	)

	res, err := fk.Submit(t.Context())
	assert.Nil(t, res)
	assert.True(t, formkit.IsSubmitError(err, formkit.KindVetoed))
	assert.ErrorIs(t, err, formkit.ErrVetoed)
	assert.Zero(t, tr.calls())
	assert.Empty(t, notices.Notices())

	assert.Equal(t, "Submitting...", labelDuringHook)
	send := doc.ControlByID("send")
	assert.Equal(t, "Send", send.Label)
	assert.False(t, send.Disabled)
	assert.Equal(t, formkit.StateIdle, fk.State())
}

func TestBeforeSubmitCanChangePayload(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	tr := &recorder{}
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(tr),
		formkit.WithBeforeSubmit(func(ctx context.Context, f *form.Form, p *formdata.Payload) bool {
			p.Set("source", "landing")
			return true
		}),
	)

	_, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "landing", tr.payload().Get("source"))
}

func TestSubmitFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tr      *recorder
		kind    formkit.Kind
		notice  string
		wantErr error
	}{
		{
			name:    "server error",
			tr:      &recorder{status: http.StatusInternalServerError, body: "boom"},
			kind:    formkit.KindStatus,
			notice:  "Upload failed! Status: 500",
			wantErr: formkit.ErrUnexpectedStatus,
		},
		{
			name:    "network",
			tr:      &recorder{err: errors.New("connection refused")},
			kind:    formkit.KindNetwork,
			notice:  "Network error occurred!",
			wantErr: transport.ErrNetwork,
		},
		{
			name:    "malformed body",
			tr:      &recorder{body: "<html>ok</html>"},
			kind:    formkit.KindMalformed,
			notice:  "Response received but invalid JSON format",
			wantErr: formkit.ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := signupDoc()
			fillValid(doc)
			notices := &formkit.Recorder{}
			fk := formkit.MustNew(doc, "signup",
				formkit.WithTransport(tt.tr),
				formkit.WithNotifier(notices),
				formkit.WithResetAfterSubmit(true),
			)

			res, err := fk.Submit(t.Context())
			assert.Nil(t, res)
			assert.True(t, formkit.IsSubmitError(err, tt.kind))
			assert.ErrorIs(t, err, tt.wantErr)

			n, ok := notices.Last()
			require.True(t, ok)
			assert.Equal(t, formkit.LevelError, n.Level)
			assert.Equal(t, tt.notice, n.Message)

			send := doc.ControlByID("send")
			assert.False(t, send.Disabled)
			assert.Equal(t, "Send", send.Label)
			assert.Equal(t, formkit.StateIdle, fk.State())
			// Failures never reset the form.
			assert.Equal(t, "Ann Lee", doc.ControlByID("full_name").Value)
		})
	}
}

func TestOnErrorReplacesNotice(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	notices := &formkit.Recorder{}
	var got *formkit.SubmitError
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(&recorder{status: http.StatusUnprocessableEntity, body: `{"error":"taken"}`}),
		formkit.WithNotifier(notices),
		formkit.WithOnError(func(ctx context.Context, f *form.Form, err *formkit.SubmitError) {
			got = err
		}),
	)

	_, err := fk.Submit(t.Context())
	require.Error(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusUnprocessableEntity, got.StatusCode)
	assert.JSONEq(t, `{"error":"taken"}`, string(got.Body))
	assert.Empty(t, notices.Notices())
}

func TestResetAfterSubmit(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(&recorder{}),
		formkit.WithResetAfterSubmit(true),
	)
	_, err := fk.ChooseFiles(t.Context(), "avatar", pdf("a.pdf", 1))
	require.NoError(t, err)

	_, err = fk.Submit(t.Context())
	require.NoError(t, err)

	assert.Empty(t, doc.ControlByID("full_name").Value)
	assert.False(t, doc.ControlByID("plan-pro").Checked)
	sel, err := fk.Selection("avatar")
	require.NoError(t, err)
	assert.Zero(t, sel.Len())
}

func TestSubmitInFlight(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)

	entered := make(chan struct{})
	release := make(chan struct{})
	tr := transport.Func(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		close(entered)
		<-release
		return &transport.Response{StatusCode: http.StatusOK}, nil
	})
	fk := formkit.MustNew(doc, "signup", formkit.WithTransport(tr))

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = fk.Submit(context.Background())
	}()

	<-entered
	assert.Equal(t, formkit.StateSubmitting, fk.State())

	_, err := fk.Submit(t.Context())
	assert.ErrorIs(t, err, formkit.ErrSubmissionInFlight)

	_, err = fk.Click(t.Context(), "send")
	assert.ErrorIs(t, err, formkit.ErrSubmissionInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, formkit.StateIdle, fk.State())
	assert.False(t, doc.ControlByID("send").Disabled)
}

func TestSubmitOverHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fh := r.MultipartForm.File["avatar[]"]
		if len(fh) != 1 || r.FormValue("full_name") != "Ann Lee" {
			http.Error(w, "unexpected payload", http.StatusBadRequest)
			return
		}
		f, _ := fh[0].Open()
		data, _ := io.ReadAll(f)
		_ = f.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bytes":` + strconv.Itoa(len(data)) + `}`))
	}))
	defer srv.Close()

	doc := signupDoc()
	fillValid(doc)

	var (
		mu      sync.Mutex
		percent []float64
	)
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(transport.NewHTTP(transport.WithBaseURL(srv.URL))),
		formkit.WithOnProgress(func(p float64, f *form.Form) {
			mu.Lock()
			percent = append(percent, p)
			mu.Unlock()
		}),
	)
	_, err := fk.ChooseFiles(t.Context(), "avatar", pdf("cv.pdf", 2048))
	require.NoError(t, err)

	res, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, float64(2048), res.Body["bytes"])

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, percent)
	assert.InDelta(t, 100, percent[len(percent)-1], 0.001)
	assert.InDelta(t, 100, fk.Progress(), 0.001)
}

func TestSubmitLargeJSONResponse(t *testing.T) {
	t.Parallel()

	large := strings.Repeat("x", 2<<20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":"` + large + `"}`))
	}))
	defer srv.Close()

	doc := signupDoc()
	fillValid(doc)
	fk := formkit.MustNew(doc, "signup",
		formkit.WithTransport(transport.NewHTTP(transport.WithBaseURL(srv.URL))),
	)
	_, err := fk.ChooseFiles(t.Context(), "avatar", pdf("cv.pdf", 16))
	require.NoError(t, err)

	res, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.False(t, formkit.IsSubmitError(err, formkit.KindMalformed))
	assert.Equal(t, large, res.Body["data"])
}

func TestNativeSubmit(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	doc.FormByID("signup").Method = "get"
	tr := &recorder{body: "<html>thanks</html>"}

	hookCalled := false
	fk := formkit.MustNew(doc, "signup",
		formkit.WithAJAX(false),
		formkit.WithTransport(tr),
		formkit.WithBeforeSubmit(func(ctx context.Context, f *form.Form, p *formdata.Payload) bool {
			hookCalled = true
			return false
		}),
		formkit.WithOnSuccess(func(ctx context.Context, f *form.Form, body map[string]any) {
			hookCalled = true
		}),
	)

	res, err := fk.Submit(t.Context())
	require.NoError(t, err)
	assert.False(t, hookCalled)
	assert.Nil(t, res.Body)
	assert.Equal(t, "<html>thanks</html>", string(res.Raw))

	req := tr.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, formdata.EncodingURLEncoded, req.Encoding)
	assert.Nil(t, req.Progress)
}

func TestNativeSubmitFailure(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	notices := &formkit.Recorder{}
	fk := formkit.MustNew(doc, "signup",
		formkit.WithAJAX(false),
		formkit.WithTransport(&recorder{status: http.StatusBadGateway}),
		formkit.WithNotifier(notices),
	)

	_, err := fk.Submit(t.Context())
	assert.True(t, formkit.IsSubmitError(err, formkit.KindStatus))
	assert.Empty(t, notices.Notices())
}

func TestSubmitWithTimeoutContext(t *testing.T) {
	t.Parallel()

	doc := signupDoc()
	fillValid(doc)
	tr := transport.Func(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	fk := formkit.MustNew(doc, "signup", formkit.WithTransport(tr), formkit.WithNotifier(&formkit.Recorder{}))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err := fk.Submit(ctx)
	assert.True(t, formkit.IsSubmitError(err, formkit.KindNetwork))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
