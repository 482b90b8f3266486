package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := NewMockJWTServiceInterface(ctrl)

	var seenID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = OperatorIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthMiddleware(validator)(next)

	tests := []struct {
		name         string
		header       string
		prepareMock  func()
		expectedCode int
		expectedID   int
	}{
		{
			name:   "Valid bearer token",
			header: "Bearer good",
			prepareMock: func() {
				validator.EXPECT().ValidateToken("good").Return(&Claims{OperatorID: 4}, nil)
			},
			expectedCode: http.StatusNoContent,
			expectedID:   4,
		},
		{
			name:         "Missing header",
			prepareMock:  func() {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Wrong scheme",
			header:       "Basic abc",
			prepareMock:  func() {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:   "Rejected token",
			header: "Bearer bad",
			prepareMock: func() {
				validator.EXPECT().ValidateToken("bad").Return(nil, ErrInvalidToken)
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenID = 0
			tt.prepareMock()

			req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedID, seenID)
		})
	}
}
