package formdata

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

// Encoding names a request body format.
type Encoding string

const (
	EncodingMultipart  Encoding = "multipart/form-data"
	EncodingURLEncoded Encoding = "application/x-www-form-urlencoded"
)

// ParseEncoding maps a form enctype to an Encoding; anything but multipart
// is urlencoded.
func ParseEncoding(enctype string) Encoding {
	if strings.EqualFold(strings.TrimSpace(enctype), string(EncodingMultipart)) {
		return EncodingMultipart
	}
	return EncodingURLEncoded
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// WriteMultipart writes the payload as multipart/form-data and returns the
// content type including the boundary. Each file part carries the file's
// own MIME type.
func (p *Payload) WriteMultipart(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)

	for _, part := range p.parts {
		if !part.IsFile() {
			if err := mw.WriteField(part.Name, part.Value); err != nil {
				return "", fmt.Errorf("%w: %v", ErrEncodeFailed, err)
			}
			continue
		}

		ct := part.File.MIMEType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(part.Name), quoteEscaper.Replace(part.File.Name)))
		h.Set("Content-Type", ct)

		pw, err := mw.CreatePart(h)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		if _, err := pw.Write(part.File.Data); err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return mw.FormDataContentType(), nil
}

// Multipart encodes the payload into memory.
func (p *Payload) Multipart() ([]byte, string, error) {
	var buf bytes.Buffer
	ct, err := p.WriteMultipart(&buf)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ct, nil
}

// URLEncoded encodes the payload as application/x-www-form-urlencoded,
// keeping entry order. Files contribute their name, as browsers do.
func (p *Payload) URLEncoded() string {
	var b strings.Builder
	for i, part := range p.parts {
		if i > 0 {
			b.WriteByte('&')
		}
		value := part.Value
		if part.IsFile() {
			value = part.File.Name
		}
		b.WriteString(url.QueryEscape(part.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	return b.String()
}

// Encode encodes the payload in the given encoding and returns the body
// with its content type.
func (p *Payload) Encode(enc Encoding) ([]byte, string, error) {
	switch enc {
	case EncodingMultipart:
		return p.Multipart()
	case EncodingURLEncoded:
		return []byte(p.URLEncoded()), string(EncodingURLEncoded), nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
}
