// Package formkit enhances HTML forms: declarative field validation with
// inline errors, multi-file selection with previews, and asynchronous
// multipart submission with upload progress and lifecycle hooks.
//
// Forms are modelled by package form, either built in code or parsed from
// markup. An Instance wraps one form of a document and exposes the event
// entry points a page would wire (Input, ChooseFiles, RemoveFile, Click,
// Submit) and the public operations Validate, Reset and ClearErrors.
//
// Basic usage:
//
//	doc, err := form.Parse(strings.NewReader(page))
//	if err != nil {
//		return err
//	}
//	fk, err := formkit.New(doc, "signup",
//		formkit.WithMaxFileSize(5<<20),
//		formkit.WithAllowedFileTypes("image/*", "application/pdf"),
//		formkit.WithMessages(messages.Catalog{messages.Required: "Required"}),
//		formkit.WithOnSuccess(func(ctx context.Context, f *form.Form, body map[string]any) {
//			log.Println("saved", body["id"])
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	fk.SetValue("email", "ann@example.com")
//	fk.ChooseFiles(ctx, "avatar", avatar)
//	res, err := fk.Submit(ctx)
//
// Submission lifecycle:
//
//	idle -> validating -> invalid -> idle
//	                   -> valid -> idle (vetoed)
//	                            -> submitting -> success|failure -> idle
//
// Validation failures are returned as validator.ValidationErrors and shown
// on the controls. Vetoes, network failures, non-2xx answers and malformed
// bodies are returned as *SubmitError and handed to the OnError hook, or to
// the Notifier when no hook is set.
//
// Configuration can also come from FORMKIT_* environment variables through
// FromEnv.
package formkit
