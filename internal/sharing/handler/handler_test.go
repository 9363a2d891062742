package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"testimonials_backend/internal/contacts/domain"
	"testimonials_backend/internal/events"
	"testimonials_backend/internal/sharing/repository"
	"testimonials_backend/internal/sharing/service"
	"testimonials_backend/internal/sharing/transport"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"
	"testimonials_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubStore struct {
	target   repository.RecordingTarget
	failTx   error
	txCalled bool
}

func (s *stubStore) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.txCalled = true
	if s.failTx != nil {
		return s.failTx
	}
	return fn(stubTx{target: s.target})
}

func (s *stubStore) FindRecording(_ context.Context, token string) (repository.RecordingTarget, error) {
	if token != "tok" {
		return repository.RecordingTarget{}, apperr.NotFound("contact not found")
	}
	return s.target, nil
}

type stubTx struct {
	target repository.RecordingTarget
}

func (t stubTx) LockContact(context.Context, uuid.UUID, uuid.UUID) (repository.LockedContact, error) {
	return repository.LockedContact{
		ID:               t.target.ContactID,
		OrganizationID:   t.target.OrganizationID,
		OrganizationName: t.target.OrganizationName,
		FirstName:        t.target.FirstName,
		Status:           t.target.Status,
	}, nil
}

func (t stubTx) GetTestimonial(context.Context, uuid.UUID, uuid.UUID) (repository.ShareTestimonial, error) {
	return repository.ShareTestimonial{ID: *t.target.TestimonialID, ContactID: t.target.ContactID}, nil
}

func (stubTx) MarkTestimonialShared(context.Context, uuid.UUID, uuid.UUID, domain.Platform, *string) error {
	return nil
}

func (stubTx) UpdateContactAfterShare(context.Context, repository.ContactShareUpdate) error {
	return nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func newRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	val := validator.New()
	if err := RegisterValidations(val); err != nil {
		panic(err)
	}
	h := New(service.New(store, nopBus{}, logger.NewWithWriter("test", io.Discard)), val)

	r := gin.New()
	r.POST("/record/:token/share", h.Share)
	r.GET("/record/:token/caption", h.PreviewCaption)
	return r
}

func newStubStore() *stubStore {
	testimonialID := uuid.New()
	return &stubStore{target: repository.RecordingTarget{
		OrganizationID:   uuid.New(),
		OrganizationName: "Acme",
		ContactID:        uuid.New(),
		FirstName:        "Ana",
		Status:           domain.StatusVideoCompleted,
		TestimonialID:    &testimonialID,
	}}
}

func postShare(r http.Handler, token, body string) (*httptest.ResponseRecorder, transport.ShareResponse) {
	req := httptest.NewRequest(http.MethodPost, "/record/"+token+"/share", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp transport.ShareResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestShareSuccess(t *testing.T) {
	r := newRouter(newStubStore())

	rec, resp := postShare(r, "tok", `{"platform":"google"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Status == nil || resp.Status.Status != domain.StatusShared1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.PreviousStatus == nil || resp.PreviousStatus.Status != domain.StatusVideoCompleted {
		t.Fatalf("unexpected previous status %+v", resp.PreviousStatus)
	}
}

func TestShareRejectsUnknownPlatform(t *testing.T) {
	store := newStubStore()
	r := newRouter(store)

	rec, _ := postShare(r, "tok", `{"platform":"myspace"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.txCalled {
		t.Fatal("invalid platform must not open a transaction")
	}
}

func TestShareFailureKeepsStatus(t *testing.T) {
	store := newStubStore()
	store.failTx = apperr.NotFound("contact not found")
	r := newRouter(store)

	rec, resp := postShare(r, "missing", `{"platform":"google"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("expected failure body, got %+v", resp)
	}
}

func TestPreviewCaption(t *testing.T) {
	r := newRouter(newStubStore())

	req := httptest.NewRequest(http.MethodGet, "/record/tok/caption?locale=nl-BE", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp transport.CaptionPreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Caption == "" || resp.Locale != "nl-BE" {
		t.Fatalf("unexpected response %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/record/tok/caption?locale=not%20a%20locale", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid locale, got %d", rec.Code)
	}
}
