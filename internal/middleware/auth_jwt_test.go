package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/domain"
)

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken("secret", "user-123", domain.RoleReverend)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}
	identity, err := VerifyToken("secret", token)
	if err != nil {
		t.Fatalf("VerifyToken() error: %v", err)
	}
	if identity.UserID != "user-123" || identity.Role != domain.RoleReverend {
		t.Fatalf("VerifyToken() returned %+v", identity)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret-a", "user-123", domain.RoleMember)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}
	if _, err := VerifyToken("secret-b", token); err == nil {
		t.Fatal("VerifyToken() expected signature error")
	}
}

func TestAuthJWTRejectsMissingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a token")
	})
	handler := AuthJWT("secret")(next)

	req := httptest.NewRequest(http.MethodPost, "/api/feed", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token returned %d, want 401", rec.Code)
	}
}

func TestAuthJWTInjectsIdentity(t *testing.T) {
	token, err := IssueToken("secret", "user-123", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}
	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		got = identity
	})
	handler := AuthJWT("secret")(next)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("valid token returned %d", rec.Code)
	}
	if got.UserID != "user-123" || !got.IsAdmin() {
		t.Fatalf("injected identity = %+v", got)
	}
}

func TestRequireRolesBlocksMembers(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without the required role")
	})
	handler := RequireRoles(domain.RoleAdmin, domain.RoleReverend)(next)

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/abc/status", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(), Identity{UserID: "user-1", Role: domain.RoleMember}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("member returned %d, want 403", rec.Code)
	}
}

func TestRequireRolesAllowsClergy(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := RequireRoles(domain.RoleAdmin, domain.RoleReverend)(next)

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/abc/status", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(), Identity{UserID: "user-2", Role: domain.RoleReverend}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("clergy caller was blocked")
	}
}
