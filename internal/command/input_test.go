package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
)

func TestSplitAssignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		name, value string
		wantErr     bool
	}{
		{in: "email=a@b.co", name: "email", value: "a@b.co"},
		{in: "q=", name: "q", value: ""},
		{in: "expr=a=b", name: "expr", value: "a=b"},
		{in: " name =Ann", name: "name", value: "Ann"},
		{in: "novalue", wantErr: true},
		{in: "=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			name, value, err := splitAssignment(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAssignment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestAssign(t *testing.T) {
	t.Parallel()

	news := form.NewInput("news", form.KindCheckbox)
	news.Value = "weekly"
	offers := form.NewInput("news", form.KindCheckbox)
	offers.Value = "offers"
	red := form.NewInput("color", form.KindRadio)
	red.Value = "red"
	red.Checked = true
	blue := form.NewInput("color", form.KindRadio)
	blue.Value = "blue"
	note := form.NewTextarea("note")
	note.ID = "note-field"

	f := form.NewForm("prefs", "/prefs", "post").Add(news, offers, red, blue, note)

	require.NoError(t, assign(f, "news", "weekly"))
	require.NoError(t, assign(f, "news", "offers"))
	assert.True(t, news.Checked)
	assert.True(t, offers.Checked)

	require.NoError(t, assign(f, "color", "blue"))
	assert.True(t, blue.Checked)
	assert.False(t, red.Checked)

	require.NoError(t, assign(f, "note-field", "hello"))
	assert.Equal(t, "hello", note.Value)

	assert.ErrorIs(t, assign(f, "color", "green"), ErrNoOption)
	assert.ErrorIs(t, assign(f, "size", "L"), ErrUnknownField)
}
