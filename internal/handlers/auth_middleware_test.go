package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
)

func newPrincipalRouter(t *testing.T, middleware gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", middleware, func(c *gin.Context) {
		p := currentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"kind": string(p.Kind), "username": p.Username})
	})
	return router
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	manager := utils.NewJWTManager("test-secret", time.Hour, "test")
	middleware := NewAuthMiddleware(manager, testLogger(), "", "")
	router := newPrincipalRouter(t, middleware.RequireAuth())

	t.Run("no header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid token resolves the principal", func(t *testing.T) {
		token, err := manager.Mint(7, "ada", "ada@example.com", []string{"USER"})
		if err != nil {
			t.Fatalf("Mint failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if body != `{"kind":"authenticated","username":"ada"}` {
			t.Errorf("unexpected body: %s", body)
		}
	})
}

func TestAuthMiddleware_CustomHeaderAndPrefix(t *testing.T) {
	manager := utils.NewJWTManager("test-secret", time.Hour, "test")
	middleware := NewAuthMiddleware(manager, testLogger(), "X-Api-Token", "Token ")
	router := newPrincipalRouter(t, middleware.RequireAuth())

	token, err := manager.Mint(7, "ada", "ada@example.com", []string{"USER"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	t.Run("configured header accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Api-Token", "Token "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("default header ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("configured prefix enforced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Api-Token", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	manager := utils.NewJWTManager("test-secret", time.Hour, "test")
	middleware := NewAuthMiddleware(manager, testLogger(), "", "")
	router := newPrincipalRouter(t, middleware.OptionalAuth())

	t.Run("anonymous passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if w.Body.String() != `{"kind":"anonymous","username":""}` {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("bad token degrades to anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer junk")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestCurrentPrincipal_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	p := currentPrincipal(c)
	if p.Kind != models.PrincipalAnonymous {
		t.Errorf("expected anonymous fallback, got %s", p.Kind)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", RateLimitMiddleware(1, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.Code)
	}
}
