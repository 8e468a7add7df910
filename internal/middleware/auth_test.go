package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/security"
)

func newAuthRouter(t *testing.T, jwtm *security.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(jwtm))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserIDFrom(c.Request.Context()).String(),
			"role":    RoleFrom(c.Request.Context()),
		})
	})
	admin := authed.Group("/admin", RequireRole(security.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAuthMissingHeader(t *testing.T) {
	jwtm := security.NewJWTManager("test-secret", time.Minute, time.Hour)
	r := newAuthRouter(t, jwtm)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMalformedToken(t *testing.T) {
	jwtm := security.NewJWTManager("test-secret", time.Minute, time.Hour)
	r := newAuthRouter(t, jwtm)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthValidTokenPopulatesContext(t *testing.T) {
	jwtm := security.NewJWTManager("test-secret", time.Minute, time.Hour)
	r := newAuthRouter(t, jwtm)

	uid := uuid.New()
	tokens, err := jwtm.Issue(security.RoleOperator, uid)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, uid.String()) || !strings.Contains(body, security.RoleOperator) {
		t.Fatalf("context not populated, body: %s", body)
	}
}

func TestRequireRoleRefusesOperator(t *testing.T) {
	jwtm := security.NewJWTManager("test-secret", time.Minute, time.Hour)
	r := newAuthRouter(t, jwtm)

	tokens, err := jwtm.Issue(security.RoleOperator, uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	jwtm := security.NewJWTManager("test-secret", time.Minute, time.Hour)
	r := newAuthRouter(t, jwtm)

	tokens, err := jwtm.Issue(security.RoleAdmin, uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
