package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"testimonials_backend/internal/adapters/storage"
	"testimonials_backend/internal/organizations/repository"
	"testimonials_backend/internal/organizations/transport"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	orgs map[uuid.UUID]repository.Organization
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return repository.Organization{}, apperr.NotFound("organization not found")
	}
	return org, nil
}

func (r *fakeRepo) UpdateSettings(_ context.Context, id uuid.UUID, params repository.UpdateSettingsParams) (repository.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return repository.Organization{}, apperr.NotFound("organization not found")
	}
	if params.Name != nil {
		org.Name = *params.Name
	}
	if params.WidgetEnabled != nil {
		org.WidgetEnabled = *params.WidgetEnabled
	}
	if params.WeeklyDigestEnabled != nil {
		org.WeeklyDigestEnabled = *params.WeeklyDigestEnabled
	}
	r.orgs[id] = org
	return org, nil
}

func (r *fakeRepo) SetLogoKey(_ context.Context, id uuid.UUID, logoKey *string) (repository.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return repository.Organization{}, apperr.NotFound("organization not found")
	}
	org.LogoKey = logoKey
	r.orgs[id] = org
	return org, nil
}

func (r *fakeRepo) GetOwner(context.Context, uuid.UUID) (repository.Owner, error) {
	return repository.Owner{Email: "owner@example.com"}, nil
}

func (r *fakeRepo) ListDigestRecipients(context.Context) ([]repository.DigestRecipient, error) {
	return nil, nil
}

type fakeStorage struct {
	objects map[string]storage.ObjectInfo
	deleted []string
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, kind storage.ObjectKind, _, folder, contentType string, size int64) (*storage.PresignedURL, error) {
	if err := storage.ValidateUpload(kind, contentType, size, 0); err != nil {
		return nil, err
	}
	return &storage.PresignedURL{URL: "https://s3/put", FileKey: folder + "/logo.png", ExpiresAt: time.Unix(1700000000, 0)}, nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, _, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://s3/get/" + key, FileKey: key}, nil
}

func (s *fakeStorage) StatObject(_ context.Context, _, key string) (storage.ObjectInfo, error) {
	info, ok := s.objects[key]
	if !ok {
		return storage.ObjectInfo{}, apperr.NotFound("uploaded file not found")
	}
	return info, nil
}

func (s *fakeStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, _, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeStorage, uuid.UUID) {
	t.Helper()
	orgID := uuid.New()
	repo := &fakeRepo{orgs: map[uuid.UUID]repository.Organization{
		orgID: {ID: orgID, Name: "Acme", Plan: "free", VideosLimit: 5, WeeklyDigestEnabled: true},
	}}
	store := &fakeStorage{objects: map[string]storage.ObjectInfo{}}
	return New(repo, store, "logos", logger.NewWithWriter("test", io.Discard)), repo, store, orgID
}

func TestUpdateSettings(t *testing.T) {
	svc, _, _, orgID := newTestService(t)
	name := "  <b>Acme BV</b> "
	widget := true

	resp, err := svc.UpdateSettings(context.Background(), orgID, transport.UpdateSettingsRequest{Name: &name, WidgetEnabled: &widget})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if resp.Name != "Acme BV" || !resp.WidgetEnabled || !resp.WeeklyDigestEnabled {
		t.Fatalf("unexpected settings %+v", resp)
	}

	enabled, err := svc.WidgetEnabled(context.Background(), orgID)
	if err != nil || !enabled {
		t.Fatalf("expected widget enabled, got %v %v", enabled, err)
	}
}

func TestUpdateSettingsRejectsBlankName(t *testing.T) {
	svc, _, _, orgID := newTestService(t)
	name := "<i></i>"

	_, err := svc.UpdateSettings(context.Background(), orgID, transport.UpdateSettingsRequest{Name: &name})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo, store, orgID := newTestService(t)

	upload, err := svc.PresignLogoUpload(ctx, orgID, transport.LogoUploadRequest{ContentType: "image/png", SizeBytes: 1024})
	if err != nil {
		t.Fatalf("PresignLogoUpload: %v", err)
	}
	if !strings.HasPrefix(upload.FileKey, "logos/"+orgID.String()+"/") {
		t.Fatalf("unexpected key %q", upload.FileKey)
	}

	if _, err := svc.SetLogo(ctx, orgID, transport.SetLogoRequest{FileKey: upload.FileKey}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error before upload, got %v", err)
	}

	store.objects[upload.FileKey] = storage.ObjectInfo{Key: upload.FileKey, Size: 1024, ContentType: "image/png"}
	old := "logos/" + orgID.String() + "/old.png"
	org := repo.orgs[orgID]
	org.LogoKey = &old
	repo.orgs[orgID] = org

	resp, err := svc.SetLogo(ctx, orgID, transport.SetLogoRequest{FileKey: upload.FileKey})
	if err != nil {
		t.Fatalf("SetLogo: %v", err)
	}
	if resp.LogoURL == nil || !strings.HasSuffix(*resp.LogoURL, upload.FileKey) {
		t.Fatalf("unexpected logo url %v", resp.LogoURL)
	}
	if len(store.deleted) != 1 || store.deleted[0] != old {
		t.Fatalf("expected previous logo to be deleted, got %v", store.deleted)
	}

	profile, err := svc.PublicProfile(ctx, orgID)
	if err != nil || profile.LogoURL == nil || profile.Name != "Acme" {
		t.Fatalf("unexpected profile %+v err=%v", profile, err)
	}

	resp, err = svc.DeleteLogo(ctx, orgID)
	if err != nil {
		t.Fatalf("DeleteLogo: %v", err)
	}
	if resp.LogoURL != nil {
		t.Fatal("expected logo to be cleared")
	}
}

func TestSetLogoRejectsForeignKeyAndBadType(t *testing.T) {
	ctx := context.Background()
	svc, _, store, orgID := newTestService(t)

	foreign := "logos/" + uuid.NewString() + "/logo.png"
	if _, err := svc.SetLogo(ctx, orgID, transport.SetLogoRequest{FileKey: foreign}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	key := "logos/" + orgID.String() + "/logo.gif"
	store.objects[key] = storage.ObjectInfo{Key: key, Size: 10, ContentType: "image/gif"}
	if _, err := svc.SetLogo(ctx, orgID, transport.SetLogoRequest{FileKey: key}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != key {
		t.Fatalf("expected rejected object to be removed, got %v", store.deleted)
	}
}

func TestLogoWithoutStorage(t *testing.T) {
	orgID := uuid.New()
	repo := &fakeRepo{orgs: map[uuid.UUID]repository.Organization{orgID: {ID: orgID, Name: "Acme"}}}
	svc := New(repo, nil, "logos", logger.NewWithWriter("test", io.Discard))

	if _, err := svc.PresignLogoUpload(context.Background(), orgID, transport.LogoUploadRequest{ContentType: "image/png", SizeBytes: 1}); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if _, err := svc.GetSettings(context.Background(), orgID); err != nil {
		t.Fatalf("settings should work without storage: %v", err)
	}
}
