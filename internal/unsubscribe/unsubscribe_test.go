package unsubscribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"testimonials_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeContacts struct {
	calls []Target
}

func (f *fakeContacts) Unsubscribe(_ context.Context, tenantID, contactID uuid.UUID) error {
	f.calls = append(f.calls, Target{TenantID: tenantID, ContactID: contactID})
	return nil
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signer := NewSigner("secret")
	target := Target{TenantID: uuid.New(), ContactID: uuid.New()}

	tok, err := signer.Sign(target)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	got, err := signer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != target {
		t.Fatalf("expected %+v, got %+v", target, got)
	}
}

func TestVerifyRejects(t *testing.T) {
	signer := NewSigner("secret")
	target := Target{TenantID: uuid.New(), ContactID: uuid.New()}
	valid, err := signer.Sign(target)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	otherKey, _ := NewSigner("other").Sign(target)

	wrongPurpose, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose:  "access",
		TenantID: target.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   target.ContactID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose:          Purpose,
		TenantID:         target.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: target.ContactID.String()},
	}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"tampered", valid + "x", ErrInvalidToken},
		{"other key", otherKey, ErrInvalidToken},
		{"wrong purpose", wrongPurpose, ErrInvalidToken},
		{"missing expiry", noExpiry, ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := signer.Verify(tt.token); err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerifyExpiry(t *testing.T) {
	signer := NewSigner("secret")
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }

	tok, err := signer.Sign(Target{TenantID: uuid.New(), ContactID: uuid.New()})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	signer.now = func() time.Time { return issued.Add(89 * 24 * time.Hour) }
	if _, err := signer.Verify(tok); err != nil {
		t.Fatalf("expected token valid after 89 days: %v", err)
	}

	signer.now = func() time.Time { return issued.Add(91 * 24 * time.Hour) }
	if _, err := signer.Verify(tok); err != ErrExpiredToken {
		t.Fatalf("expected expiry after 91 days, got %v", err)
	}
}

func TestLinkAndRedeem(t *testing.T) {
	contacts := &fakeContacts{}
	svc := NewService(NewSigner("secret"), contacts, "https://app.example.com/")
	target := Target{TenantID: uuid.New(), ContactID: uuid.New()}

	link, err := svc.Link(target.TenantID, target.ContactID)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if !strings.HasPrefix(link, "https://app.example.com/unsubscribe?token=") {
		t.Fatalf("unexpected link %q", link)
	}

	parsed, _ := url.Parse(link)
	if err := svc.Redeem(context.Background(), parsed.Query().Get("token")); err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if len(contacts.calls) != 1 || contacts.calls[0] != target {
		t.Fatalf("unexpected calls %+v", contacts.calls)
	}

	if err := svc.Redeem(context.Background(), "bogus"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	contacts := &fakeContacts{}
	svc := NewService(NewSigner("secret"), contacts, "https://app.example.com")
	router := gin.New()
	router.GET("/unsubscribe", NewHandler(svc).Unsubscribe)

	tok, _ := svc.signer.Sign(Target{TenantID: uuid.New(), ContactID: uuid.New()})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing token", "", http.StatusBadRequest},
		{"invalid token", "?token=bogus", http.StatusBadRequest},
		{"valid token", "?token=" + url.QueryEscape(tok), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unsubscribe"+tt.query, nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
	if len(contacts.calls) != 1 {
		t.Fatalf("expected one unsubscribe, got %d", len(contacts.calls))
	}
}
