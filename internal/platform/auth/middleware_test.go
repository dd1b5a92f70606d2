package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier struct {
	identity *Identity
	err      error
}

func (s *stubVerifier) Verify(string) (*Identity, error) {
	return s.identity, s.err
}

func identityEcho(t *testing.T, captured **Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			*captured = identity
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateStoresVerifiedIdentity(t *testing.T) {
	var captured *Identity
	handler := Authenticate(MiddlewareOptions{
		Verifier: &stubVerifier{identity: &Identity{UID: "user-1"}},
	})(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if captured == nil || captured.UID != "user-1" {
		t.Fatalf("unexpected identity: %+v", captured)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	handler := Authenticate(MiddlewareOptions{
		Verifier: &stubVerifier{err: errors.New("bad token")},
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateMintsGuestFromSessionHeader(t *testing.T) {
	var captured *Identity
	handler := Authenticate(MiddlewareOptions{
		AllowGuests:   true,
		SessionHeader: "X-Session-Id",
	})(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", "sess-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == nil || captured.UID != "guest:sess-42" || !captured.Guest {
		t.Fatalf("unexpected identity: %+v", captured)
	}
}

func TestAuthenticatePassesThroughWithoutCredentials(t *testing.T) {
	var captured *Identity
	handler := Authenticate(MiddlewareOptions{})(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if captured != nil {
		t.Fatalf("expected no identity, got %+v", captured)
	}
}

func TestRequireIdentity(t *testing.T) {
	handler := RequireIdentity()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UID: "user-1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
