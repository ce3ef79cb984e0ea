package formdata_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formdata"
	"github.com/dmitrymomot/formkit/pkg/messages"
)

func field(name string, kind form.Kind, value string) *form.Control {
	c := form.NewInput(name, kind)
	c.Value = value
	return c
}

func TestPayload(t *testing.T) {
	t.Parallel()

	p := formdata.New().
		Add("tags", "go").
		Add("tags", "rust").
		Add("name", "Ann").
		AddFile("cv[]", file.New("cv.pdf", "application/pdf", []byte("%PDF")))

	assert.Equal(t, 4, p.Len())
	assert.Equal(t, []string{"go", "rust"}, p.Values("tags"))
	assert.Equal(t, "Ann", p.Get("name"))
	assert.True(t, p.Has("cv[]"))
	assert.True(t, p.HasFiles())
	assert.Len(t, p.Files("cv[]"), 1)
	assert.Equal(t, map[string][]string{"tags": {"go", "rust"}, "name": {"Ann"}}, p.Fields())

	p.Set("tags", "zig")
	assert.Equal(t, []string{"zig"}, p.Values("tags"))

	p.Delete("cv[]")
	assert.False(t, p.HasFiles())
}

func TestFileFieldName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "photos[]", formdata.FileFieldName("photos"))
	assert.Equal(t, "photos[]", formdata.FileFieldName("photos[]"))
}

func TestFromForm(t *testing.T) {
	t.Parallel()

	email := field("email", form.KindEmail, "a@b.c")
	unnamed := field("", form.KindText, "skip")
	news := field("news", form.KindCheckbox, "yes")
	planFree := field("plan", form.KindRadio, "free")
	planPro := field("plan", form.KindRadio, "pro")
	planPro.Checked = true
	bio := form.NewTextarea("bio")
	bio.Value = "hello"
	goInput := field("go", form.KindSubmit, "Go")
	docs := field("docs", form.KindFile, "")
	docs.ID = "docs"
	btn := form.NewButton(form.KindSubmit, "Send")
	btn.Name = "action"

	f := form.NewForm("signup", "/submit", "post").
		Add(email, unnamed, news, planFree, planPro, bio, goInput, docs, btn)

	store := file.NewStore()
	v := file.NewValidator(messages.Defaults(), 0, "application/pdf")
	store.Select("docs", []file.File{
		file.New("a.pdf", "application/pdf", []byte("a")),
		file.New("b.txt", "text/plain", []byte("b")),
	}, v)

	p, err := formdata.FromForm(f, store)
	require.NoError(t, err)

	var names []string
	for _, part := range p.Parts() {
		names = append(names, part.Name)
	}
	assert.Equal(t, []string{"email", "plan", "bio", "docs[]"}, names)
	assert.Equal(t, "pro", p.Get("plan"))

	files := p.Files("docs[]")
	require.Len(t, files, 1)
	assert.Equal(t, "a.pdf", files[0].Name)

	_, err = formdata.FromForm(nil, store)
	assert.ErrorIs(t, err, formdata.ErrNilForm)
}

func TestMultipart(t *testing.T) {
	t.Parallel()

	p := formdata.New().
		Add("name", "Ann").
		AddFile("pic[]", file.New("cat.png", "image/png", []byte{1, 2, 3}))

	body, ct, err := p.Encode(formdata.EncodingMultipart)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "name", part.FormName())
	data, _ := io.ReadAll(part)
	assert.Equal(t, "Ann", string(data))

	part, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "pic[]", part.FormName())
	assert.Equal(t, "cat.png", part.FileName())
	assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
	data, _ = io.ReadAll(part)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestURLEncoded(t *testing.T) {
	t.Parallel()

	p := formdata.New().
		Add("q", "a b&c").
		Add("tags", "x").
		AddFile("f[]", file.New("r.txt", "text/plain", nil))

	body, ct, err := p.Encode(formdata.EncodingURLEncoded)
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", ct)
	assert.Equal(t, "q=a+b%26c&tags=x&f%5B%5D=r.txt", string(body))

	vals, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	assert.Equal(t, "a b&c", vals.Get("q"))

	_, _, err = p.Encode("text/plain")
	assert.ErrorIs(t, err, formdata.ErrUnsupportedEncoding)
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, formdata.EncodingMultipart, formdata.ParseEncoding("Multipart/Form-Data"))
	assert.Equal(t, formdata.EncodingURLEncoded, formdata.ParseEncoding(""))
	assert.Equal(t, formdata.EncodingURLEncoded, formdata.ParseEncoding("text/plain"))
	assert.True(t, strings.HasPrefix(string(formdata.EncodingMultipart), "multipart/"))
}
