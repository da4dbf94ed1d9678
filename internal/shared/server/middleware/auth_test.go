package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAuthResolvesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(RequestID(), Auth())
		r.GET("/whoami", func(c *gin.Context) {
			c.String(http.StatusOK, UserIDFromContext(c))
		})
		return r
	}

	t.Run("user header wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-User-Id", "user-1")
		req.Header.Set("X-Guest-Id", "g-1")
		resp := httptest.NewRecorder()
		newRouter().ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if got := resp.Body.String(); got != "user-1" {
			t.Fatalf("expected user-1, got %q", got)
		}
	})

	t.Run("guest header prefixed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Guest-Id", "g-1")
		resp := httptest.NewRecorder()
		newRouter().ServeHTTP(resp, req)
		if got := resp.Body.String(); got != "guest:g-1" {
			t.Fatalf("expected guest:g-1, got %q", got)
		}
	})

	t.Run("missing identity rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		resp := httptest.NewRecorder()
		newRouter().ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.Code)
		}
	})
}

func TestAuthPreflightShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reached := false
	r := gin.New()
	r.Use(Auth())
	r.OPTIONS("/whoami", func(c *gin.Context) {
		reached = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if reached {
		t.Fatal("preflight reached the handler chain")
	}
}
