package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-canteen/order-service/internal/middleware"
	"github.com/campus-canteen/order-service/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	strategy := auth.NewHMACStrategy("secret", auth.Options{TTL: time.Hour})

	var gotOwner string
	handler := middleware.Auth(strategy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = middleware.OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes identity through", func(t *testing.T) {
		token, err := strategy.IssueToken("student-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/orders/my-orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "student-1", gotOwner)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/my-orders", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"kind":"UNAUTHENTICATED","message":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/my-orders", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
