// AngelaMos | 2026
// validation_test.go

package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Name   string           `json:"name"   validate:"required"`
	Email  string           `json:"email"  validate:"omitempty,email"`
	Amount *decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantFields []string
	}{
		{name: "valid", body: `{"name":"a","amount":"10.50"}`},
		{name: "numeric amount", body: `{"name":"a","amount":10.5}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed json", body: `{"name":`, wantErr: true},
		{name: "wrong type", body: `{"name":5,"amount":"1"}`, wantErr: true, wantFields: []string{"name"}},
		{name: "missing fields", body: `{}`, wantErr: true, wantFields: []string{"name", "amount"}},
		{name: "zero amount", body: `{"name":"a","amount":"0"}`, wantErr: true, wantFields: []string{"amount"}},
		{name: "bad email", body: `{"name":"a","email":"nope","amount":"1"}`, wantErr: true, wantFields: []string{"email"}},
	}

	v := NewValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst bindTarget
			err := Bind(req, v, &dst)

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr, ok := AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			if tt.wantFields != nil {
				assert.ElementsMatch(t, tt.wantFields, appErr.Fields)
			}
		})
	}
}

func TestJSONError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, InternalError(assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), `"message"`)
}
