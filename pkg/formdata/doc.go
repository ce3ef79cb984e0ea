// Package formdata builds and encodes form submission payloads.
//
// A Payload is an ordered list of named scalar and file entries. FromForm
// collects it from a form and its file selections; Encode writes it as
// multipart/form-data (each file part carrying its own Content-Type) or as
// application/x-www-form-urlencoded.
//
//	p, err := formdata.FromForm(f, store)
//	if err != nil {
//		return err
//	}
//	body, contentType, err := p.Encode(formdata.EncodingMultipart)
package formdata
