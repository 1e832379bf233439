// AngelaMos | 2026
// handler_test.go

package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), &middleware.Identity{UserID: userID}))
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		wantStatus int
		wantField  string
	}{
		{
			name:       "purchase",
			userID:     "u1",
			body:       `{"softwareId": 1, "totalAmount": "299.00"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "numeric amount",
			userID:     "u1",
			body:       `{"softwareId": 1, "totalAmount": 299}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing software",
			userID:     "u1",
			body:       `{"totalAmount": "299.00"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "softwareId",
		},
		{
			name:       "negative amount",
			userID:     "u1",
			body:       `{"softwareId": 1, "totalAmount": "-5"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "totalAmount",
		},
		{
			name:       "amount past the column",
			userID:     "u1",
			body:       `{"softwareId": 1, "totalAmount": "100000000.00"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "totalAmount",
		},
		{
			name:       "anonymous",
			body:       `{"softwareId": 1, "totalAmount": "299.00"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(&memDB{}, config.PricePolicyCatalog, 3)
			h := NewHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.userID != "" {
				req = withUser(req, tt.userID)
			}
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				var body OrderResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "299.00", body.TotalAmount)
				assert.Equal(t, StatusCompleted, body.Status)
				require.NotNil(t, body.License)
				assert.Equal(t, body.ID, body.License.OrderID)
				assert.NotEmpty(t, body.License.LicenseKey)
			}

			if tt.wantField != "" {
				var body core.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Contains(t, body.Fields, tt.wantField)
			}
		})
	}
}
