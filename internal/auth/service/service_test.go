package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"testimonials_backend/internal/auth/repository"
	"testimonials_backend/internal/auth/transport"
	"testimonials_backend/internal/events"
	"testimonials_backend/platform/apperr"
	"testimonials_backend/platform/httpkit"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
)

const testSecret = "access-secret"

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return testSecret }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

type fakeRepo struct {
	users  map[uuid.UUID]repository.User
	tokens map[string]*repository.RefreshToken
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uuid.UUID]repository.User{}, tokens: map[string]*repository.RefreshToken{}}
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (r *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := r.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (r *fakeRepo) RegisterOwner(ctx context.Context, params repository.RegisterParams) (repository.Registration, error) {
	if _, err := r.GetUserByEmail(ctx, params.Email); err == nil {
		return repository.Registration{}, apperr.Conflict("an account with this email already exists")
	}
	u := repository.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          strings.ToLower(params.Email),
		PasswordHash:   params.PasswordHash,
		FullName:       params.FullName,
		Role:           "owner",
	}
	r.users[u.ID] = u
	return repository.Registration{OrganizationName: params.OrganizationName, User: u}, nil
}

func (r *fakeRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	r.tokens[hash] = &repository.RefreshToken{UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeRepo) GetRefreshToken(_ context.Context, hash string) (repository.RefreshToken, error) {
	rt, ok := r.tokens[hash]
	if !ok {
		return repository.RefreshToken{}, apperr.NotFound("refresh token not found")
	}
	return *rt, nil
}

func (r *fakeRepo) RevokeRefreshToken(_ context.Context, hash string) error {
	if rt, ok := r.tokens[hash]; ok && rt.RevokedAt == nil {
		now := time.Now()
		rt.RevokedAt = &now
	}
	return nil
}

func (r *fakeRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, rt := range r.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRepo) liveTokens() int {
	n := 0
	for _, rt := range r.tokens {
		if rt.RevokedAt == nil {
			n++
		}
	}
	return n
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *fakeRepo, *recordingBus) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	return New(repo, testConfig{}, bus, logger.NewWithWriter("test", io.Discard)), repo, bus
}

var registerReq = transport.RegisterRequest{
	OrganizationName: "Acme",
	FullName:         "Olga Owner",
	Email:            "Olga@Example.com",
	Password:         "Valid#Pass1",
}

func TestRegisterIssuesTenantScopedToken(t *testing.T) {
	svc, repo, bus := newTestService()

	tokens, err := svc.Register(context.Background(), registerReq)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := httpkit.ParseAccessToken(testSecret, tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	var owner repository.User
	for _, u := range repo.users {
		owner = u
	}
	if claims.TenantID != owner.OrganizationID.String() || claims.Subject != owner.ID.String() || len(claims.Roles) != 1 {
		t.Fatalf("unexpected claims %v", claims)
	}
	if tokens.RefreshToken == "" || repo.liveTokens() != 1 {
		t.Fatal("expected a stored refresh token")
	}
	if owner.PasswordHash == registerReq.Password {
		t.Fatal("password must be hashed")
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	evt, ok := bus.events[0].(events.OrganizationRegistered)
	if !ok || evt.OrganizationName != "Acme" || evt.OrganizationID != owner.OrganizationID {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Register(context.Background(), registerReq); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerReq); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerReq); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "olga@example.com", "Valid#Pass1", false},
		{"wrong password", "olga@example.com", "Wrong#Pass1", true},
		{"unknown email", "nobody@example.com", "Valid#Pass1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, transport.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindUnauthorized) {
					t.Fatalf("expected unauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
		})
	}
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Register(ctx, registerReq)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}
	if repo.liveTokens() != 1 {
		t.Fatalf("expected only the new token to be live, got %d", repo.liveTokens())
	}

	if _, err := svc.Refresh(ctx, first.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected reuse to be rejected, got %v", err)
	}
	if repo.liveTokens() != 0 {
		t.Fatal("reuse must revoke every token of the user")
	}
}

func TestRefreshExpiredAndUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tokens, err := svc.Register(ctx, registerReq)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
	if _, err := svc.Refresh(ctx, "unknown"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unknown token to be rejected, got %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	tokens, err := svc.Register(ctx, registerReq)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if repo.liveTokens() != 0 {
		t.Fatal("expected token to be revoked")
	}
}
