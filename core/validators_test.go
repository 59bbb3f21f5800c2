package core

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-03-04", want: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{in: " 2024-03-04T09:30 ", want: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)},
		{in: "2024-03-04T09:30:15", want: time.Date(2024, 3, 4, 9, 30, 15, 0, time.UTC)},
		{in: "2024-03-04T09:30:00+02:00", want: time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC)},
		{in: "", wantErr: true},
		{in: "04/03/2024", wantErr: true},
		{in: "2024-13-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestCleanStrings(t *testing.T) {
	assert.Nil(t, CleanStrings(nil))
	assert.Equal(t, []string{"1", "2"}, CleanStrings([]string{" 1", "", "2 ", "1", "  "}))
	assert.Equal(t, "abc", CleanString(" ABC ", true))
}

func TestTranslateErrors(t *testing.T) {
	validate, translator := NewValidator()

	type form struct {
		Name  string `json:"name" validate:"notblank"`
		Color string `json:"color" validate:"omitempty,hexcolor"`
		Due   string `json:"due" validate:"date_"`
	}

	err := validate.Struct(form{Name: " ", Color: "red", Due: "soon"})
	assert.Equal(t, map[string]string{
		"name":  "this field is required",
		"color": "must be a hex color (eg. #4361ee)",
		"due":   "invalid date",
	}, TranslateErrors(errors.Wrap(err, "validating"), translator))

	assert.NoError(t, validate.Struct(form{Name: "ok"}))
	assert.Nil(t, TranslateErrors(errors.New("boom"), translator))
}

func TestErrors(t *testing.T) {
	lookup := errors.Wrap(NewLookupError("group", "9"), "getting group")
	assert.True(t, IsLookup(lookup))
	assert.Equal(t, `getting group: group "9" not found`, lookup.Error())

	remote := errors.Wrap(NewRemoteFetchError("loading events", errors.New("refused")), "reload")
	assert.True(t, IsRemoteFetch(remote))
	assert.False(t, IsRemoteFetch(lookup))
	assert.Equal(t, "reload: loading events: refused", remote.Error())

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "saving")))
	assert.False(t, IsShutdown(lookup))

	v := NewValidationError(nil, FieldError{Field: "date", Error: "invalid date"})
	assert.Equal(t, "date: invalid date", v.Error())
}
