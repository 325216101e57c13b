package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
)

type stubTokenService struct {
	adapter.TokenService
	claims map[string]*adapter.TokenClaims
}

func (s *stubTokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	claims, ok := s.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func newProtectedRouter(tokens adapter.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := NewAuthMiddleware(tokens)

	router.GET("/me", auth.Authenticate(), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, id.String())
	})
	router.GET("/admin", auth.Authenticate(), RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	clientID := uuid.New()
	tokens := &stubTokenService{claims: map[string]*adapter.TokenClaims{
		"client-token": {UserID: clientID, Role: entity.RoleClient},
		"admin-token":  {UserID: uuid.New(), Role: entity.RoleAdmin},
	}}
	router := newProtectedRouter(tokens)

	tests := []struct {
		name           string
		path           string
		header         string
		expectedStatus int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"client on own route", "/me", "Bearer client-token", http.StatusOK},
		{"client on admin route", "/admin", "Bearer client-token", http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer admin-token", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer client-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Body.String() != clientID.String() {
		t.Errorf("expected user ID %s in context, got %s", clientID, rec.Body.String())
	}
}

func TestRateLimiter_PerClientBurst(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("E2E_MODE", "")

	limiter := NewRateLimiterWithConfig(2, time.Hour)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("expected request %d to pass, got %d", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("expected another client to be unaffected, got %d", code)
	}

	limiter.Reset()
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("expected reset to restore the burst, got %d", code)
	}
}
