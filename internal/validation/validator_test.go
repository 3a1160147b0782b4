package validation_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/rememberthis/remember-server/internal/errors"
	"github.com/rememberthis/remember-server/internal/validation"
)

type TestRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=1000"`
	Category    string   `json:"category" validate:"required,memorycategory"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

func validRequest() TestRequest {
	return TestRequest{
		Title:       "First day of school",
		Description: "Nervous, excited, and a too-big backpack.",
		Category:    "Moment",
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := validRequest()
	req.ImageURL = "https://example.com/photo.jpg"
	req.Tags = []string{"school", "childhood"}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	longString := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'a'
		}
		return string(b)
	}

	tests := []struct {
		name     string
		mutate   func(*TestRequest)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing title",
			mutate:   func(r *TestRequest) { r.Title = "" },
			wantCode: http.StatusBadRequest,
			wantMsg:  "title",
		},
		{
			name:     "title too long",
			mutate:   func(r *TestRequest) { r.Title = longString(201) },
			wantCode: http.StatusBadRequest,
			wantMsg:  "title",
		},
		{
			name:     "description too long",
			mutate:   func(r *TestRequest) { r.Description = longString(1001) },
			wantCode: http.StatusBadRequest,
			wantMsg:  "description",
		},
		{
			name:     "unknown category",
			mutate:   func(r *TestRequest) { r.Category = "Feeling" },
			wantCode: http.StatusBadRequest,
			wantMsg:  "category",
		},
		{
			name:     "lowercase category rejected",
			mutate:   func(r *TestRequest) { r.Category = "person" },
			wantCode: http.StatusBadRequest,
			wantMsg:  "category",
		},
		{
			name:     "image url not a url",
			mutate:   func(r *TestRequest) { r.ImageURL = "not a url" },
			wantCode: http.StatusBadRequest,
			wantMsg:  "image_url",
		},
		{
			name:     "empty tag in list",
			mutate:   func(r *TestRequest) { r.Tags = []string{"ok", ""} },
			wantCode: http.StatusBadRequest,
			wantMsg:  "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, tt.wantCode, domainErr.HTTPStatus())
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok, "details should be a field error map") {
					// Slice elements report as e.g. "tags[1]", so match on prefix.
					found := false
					for field := range details {
						if strings.HasPrefix(field, tt.wantMsg) {
							found = true
							break
						}
					}
					assert.True(t, found, "expected a field error for %q, got %v", tt.wantMsg, details)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := validRequest()
	req.ImageURL = "nope"

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		details, ok := domainErr.Details.(map[string]string)
		if assert.True(t, ok) {
			// JSON tag name "image_url", not struct field name "ImageURL".
			assert.Contains(t, details, "image_url")
			assert.NotContains(t, details, "ImageURL")
		}
	}
}
