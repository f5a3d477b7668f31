package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/middleware"
	"gotransfer/internal/pkg/token"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware(t *testing.T) {
	tokenSvc := token.NewService("segredo", time.Hour)
	auth := middleware.NewAuthMiddleware(tokenSvc, logger.NewNop())

	var seen middleware.OperatorClaims
	handler := auth(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetOperatorClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	valid, err := tokenSvc.GenerateToken("op-1", "staff", "B2")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"sem header", "", http.StatusUnauthorized},
		{"sem Bearer", valid, http.StatusUnauthorized},
		{"token inválido", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"token válido", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/branches", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, "op-1", seen.OperatorID)
	assert.Equal(t, domain.RoleStaff, seen.Role)
	assert.Equal(t, "B2", seen.BranchID)
}

func TestPermissionMiddleware(t *testing.T) {
	perm := middleware.PermissionMiddleware(logger.NewNop(), domain.RoleLogistics, domain.RoleAdmin)
	handler := perm(okHandler)

	withRole := func(role domain.OperatorRole) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/slips/S1/cancel", nil)
		ctx := context.WithValue(req.Context(), middleware.OperatorClaimsKey, middleware.OperatorClaims{OperatorID: "op", Role: role})
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	handler(rec, withRole(domain.RoleLogistics))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, withRole(domain.RoleStaff))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/v1/slips/S1/cancel", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.RateLimiter(cache.NewMemoryClient(), 2, time.Minute, logger.NewNop())
	handler := limiter(http.HandlerFunc(okHandler))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/branches", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111").Code)
	rec := call("10.0.0.1:2222")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:3333").Code)

	// Outro IP tem o próprio contador.
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1111").Code)
}

// brokenCache falha em todas as operações.
type brokenCache struct{ cache.Client }

func (brokenCache) IncrWithTTL(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("redis fora do ar")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	handler := middleware.RateLimiter(brokenCache{}, 1, time.Minute, logger.NewNop())(http.HandlerFunc(okHandler))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/branches", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
