// Package transport delivers form submissions.
//
// A Transport takes a Request carrying a formdata.Payload and returns the
// destination's Response. Every answer, successful or not, comes back as a
// Response; an error means no answer was obtained, and such errors wrap
// ErrNetwork when the cause was the connection, a timeout or cancellation.
//
// Three implementations are provided:
//
//   - HTTP posts the payload as multipart/form-data or urlencoded, reports
//     upload progress while the body is written and can sign each body with
//     HMAC-SHA256 (see Sign and Verify).
//   - S3 stores files and a JSON manifest in a bucket for s3:// URLs.
//   - Mux routes requests by URL scheme.
//
// Example:
//
//	tr := transport.NewMux(transport.NewHTTP(transport.WithBaseURL("https://api.example.com")))
//	resp, err := tr.Do(ctx, &transport.Request{
//		URL:      "/contact",
//		Payload:  payload,
//		Encoding: formdata.EncodingMultipart,
//		Progress: func(loaded, total int64) { fmt.Println(loaded, total) },
//	})
//	if err != nil {
//		return err
//	}
//	if !resp.OK() {
//		return fmt.Errorf("status %d", resp.StatusCode)
//	}
package transport
