package messages_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/messages"
)

const bundleYAML = `
de:
  required: "Dieses Feld ist erforderlich"
  email: "Bitte eine gültige E-Mail-Adresse eingeben"
fr:
  required: "Ce champ est obligatoire"
`

func TestBundle(t *testing.T) {
	t.Parallel()

	t.Run("resolves closest locale and merges over defaults", func(t *testing.T) {
		t.Parallel()
		b := messages.NewBundle("en")
		require.NoError(t, b.LoadYAML(strings.NewReader(bundleYAML)))

		de := b.Catalog("de-AT")
		assert.Equal(t, "Dieses Feld ist erforderlich", de.Get(messages.Required))
		assert.Equal(t, "Invalid format", de.Get(messages.Pattern))

		fr := b.Catalog("fr")
		assert.Equal(t, "Ce champ est obligatoire", fr.Get(messages.Required))
	})

	t.Run("unknown locale falls back to defaults", func(t *testing.T) {
		t.Parallel()
		b := messages.NewBundle("en")
		require.NoError(t, b.Add("de", messages.Catalog{messages.Required: "Pflichtfeld"}))
		assert.Equal(t, "This field is required", b.Catalog("ja").Get(messages.Required))
		assert.Equal(t, "This field is required", b.Catalog("").Get(messages.Required))
	})

	t.Run("empty bundle returns defaults", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, messages.Defaults(), messages.NewBundle("en").Catalog("de"))
	})

	t.Run("invalid locale is rejected", func(t *testing.T) {
		t.Parallel()
		err := messages.NewBundle("en").Add("not a locale!", nil)
		assert.ErrorIs(t, err, messages.ErrInvalidLocale)
	})

	t.Run("json file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "messages.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"es":{"required":"Campo obligatorio"}}`), 0o600))

		b := messages.NewBundle("en")
		require.NoError(t, b.LoadFile(path))
		assert.Equal(t, []string{"es"}, b.Locales())
		assert.Equal(t, "Campo obligatorio", b.Catalog("es-MX").Get(messages.Required))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "messages.toml")
		require.NoError(t, os.WriteFile(path, []byte(`x = 1`), 0o600))
		assert.ErrorIs(t, messages.NewBundle("en").LoadFile(path), messages.ErrUnsupportedFormat)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, messages.NewBundle("en").LoadJSON(strings.NewReader(`{}`)), messages.ErrEmptyDocument)
	})
}
