package formkit_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formdata"
	"github.com/dmitrymomot/formkit/pkg/transport"
)

// signupDoc builds:
//
//	<form id="signup" action="/submit" method="post">
//	  <input id="full_name" name="full_name" required>
//	  <input id="email" name="email" type="email">
//	  <input id="plan-basic" name="plan" type="radio" value="basic" required>
//	  <input id="plan-pro" name="plan" type="radio" value="pro">
//	  <input id="avatar" name="avatar" type="file" multiple>
//	  <button id="send" type="submit">Send</button>
//	</form>
func signupDoc() *form.Document {
	name := form.NewInput("full_name", form.KindText)
	name.ID = "full_name"
	name.Required = true

	email := form.NewInput("email", form.KindEmail)
	email.ID = "email"

	basic := form.NewInput("plan", form.KindRadio)
	basic.ID = "plan-basic"
	basic.Value = "basic"
	basic.Required = true

	pro := form.NewInput("plan", form.KindRadio)
	pro.ID = "plan-pro"
	pro.Value = "pro"

	avatar := form.NewInput("avatar", form.KindFile)
	avatar.ID = "avatar"
	avatar.Multiple = true

	send := form.NewButton(form.KindSubmit, "Send")
	send.ID = "send"

	f := form.NewForm("signup", "/submit", "post").Add(name, email, basic, pro, avatar, send)
	return form.NewDocument().AddForm(f)
}

// fillValid makes the signup form valid.
func fillValid(doc *form.Document) {
	doc.ControlByID("full_name").Value = "Ann Lee"
	doc.ControlByID("email").Value = "ann@example.com"
	doc.ControlByID("plan-pro").Checked = true
}

// recorder is a transport answering with a fixed response and recording
// every request.
type recorder struct {
	mu     sync.Mutex
	reqs   []*transport.Request
	status int
	body   string
	err    error
}

func (r *recorder) Do(_ context.Context, req *transport.Request) (*transport.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return nil, r.err
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &transport.Response{StatusCode: status, Body: []byte(r.body)}, nil
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func (r *recorder) last() *transport.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		return nil
	}
	return r.reqs[len(r.reqs)-1]
}

func (r *recorder) payload() *formdata.Payload {
	if req := r.last(); req != nil {
		return req.Payload
	}
	return nil
}
