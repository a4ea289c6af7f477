package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region helpers
const testSecret = "test-secret-0123456789"

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	svc := NewService(st, NewIssuer(testSecret, time.Hour))
	svc.cost = bcrypt.MinCost
	return svc, st
}

// #endregion helpers

// #region token-tests
func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	tok, err := iss.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p, err := iss.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.UserID != "user-1" || p.Email != "a@example.com" {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer(testSecret, time.Minute)
	iss.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	tok, err := iss.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	iss.now = func() time.Time { return time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC) }
	if _, err := iss.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	tok, err := NewIssuer(testSecret, time.Hour).Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewIssuer("another-secret-0123456", time.Hour).Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_Garbage(t *testing.T) {
	if _, err := NewIssuer(testSecret, time.Hour).Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// #endregion token-tests

// #region service-tests
func TestSignUpAndSignIn(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, "  Ada@Example.com ", "correct horse", "Ada")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.Token == "" || sess.Profile.Email != "ada@example.com" || sess.Profile.FullName != "Ada" {
		t.Errorf("unexpected session %+v", sess)
	}
	if sess.Profile.PasswordHash == "correct horse" {
		t.Error("password stored in clear text")
	}

	in, err := svc.SignIn(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if in.Profile.ID != sess.Profile.ID {
		t.Errorf("expected same profile, got %s vs %s", in.Profile.ID, sess.Profile.ID)
	}

	if _, err := svc.SignIn(ctx, "ada@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "long enough", ""); !errors.Is(err, ErrWeakInput) {
		t.Errorf("expected ErrWeakInput for bad email, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "b@example.com", "short", ""); !errors.Is(err, ErrWeakInput) {
		t.Errorf("expected ErrWeakInput for short password, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "c@example.com", "password1", ""); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.SignUp(ctx, "C@example.com", "password2", ""); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

// #endregion service-tests

// #region middleware-tests
func TestRequireUser(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	var seen Principal
	h := RequireUser(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			t.Error("expected principal in context")
		}
		seen = p
		w.WriteHeader(http.StatusNoContent)
	}))

	tok, _ := iss.Issue("user-9", "z@example.com")
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusNoContent},
		{"lowercase scheme", "bearer " + tok, http.StatusNoContent},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/fields", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
		if tc.want == http.StatusUnauthorized && !strings.Contains(w.Header().Get("Content-Type"), "problem+json") {
			t.Errorf("%s: expected problem+json body", tc.name)
		}
	}
	if seen.UserID != "user-9" {
		t.Errorf("unexpected principal %+v", seen)
	}
}

func TestPrincipalFrom_Empty(t *testing.T) {
	if _, ok := PrincipalFrom(context.Background()); ok {
		t.Error("expected no principal")
	}
	if _, ok := PrincipalFrom(WithPrincipal(context.Background(), Principal{})); ok {
		t.Error("expected empty principal to be rejected")
	}
}

// #endregion middleware-tests
