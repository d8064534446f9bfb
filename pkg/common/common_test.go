package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "supramolecular/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONBody(t *testing.T) {
	type body struct {
		Fitter string `json:"fitter"`
	}

	tests := []struct {
		name    string
		payload string
		max     int64
		wantErr bool
	}{
		{"ok", `{"fitter":"nmr1to1"}`, 1024, false},
		{"unknown field", `{"fitter":"nmr1to1","x":1}`, 1024, true},
		{"empty", ``, 1024, true},
		{"too large", `{"fitter":"nmr1to1"}`, 5, true},
		{"trailing", `{"fitter":"a"}{"fitter":"b"}`, 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var got body
			err := ParseJSONBody(rec, req, &got, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "nmr1to1", got.Fitter)
		})
	}
}

func TestExtractLimit(t *testing.T) {
	limit, err := ExtractLimit(httptest.NewRequest(http.MethodGet, "/fits?limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	limit, err = ExtractLimit(httptest.NewRequest(http.MethodGet, "/fits", nil))
	require.NoError(t, err)
	assert.Zero(t, limit)

	_, err = ExtractLimit(httptest.NewRequest(http.MethodGet, "/fits?limit=-2", nil))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestSubjectContext(t *testing.T) {
	_, ok := GetSubject(context.Background())
	assert.False(t, ok)

	subject, ok := GetSubject(WithSubject(context.Background(), "alice"))
	assert.True(t, ok)
	assert.Equal(t, "alice", subject)
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, RespondJSON(rec, http.StatusCreated, map[string]string{"id": "x"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"x"}`, rec.Body.String())
}
