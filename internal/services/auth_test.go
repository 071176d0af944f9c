package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/solacehq/solace-backend/internal/apierr"
	"github.com/solacehq/solace-backend/internal/repos"
	"github.com/solacehq/solace-backend/internal/requestdata"
	"github.com/solacehq/solace-backend/internal/types"
)

func newTestAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	gdb := openTestDB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	svc := NewAuthService(gdb, log, userRepo, userTokenRepo, nil, "test-secret", time.Hour, 24*time.Hour)
	return svc, gdb
}

func registerTestUser(t *testing.T, svc AuthService, email string) *types.User {
	t.Helper()
	user := &types.User{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lin",
		Password:  "long-enough-password",
	}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func errCode(err error) string {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		user     types.User
		wantCode string
	}{
		{"BadEmail", types.User{Email: "not-an-email", FirstName: "A", LastName: "B", Password: "long-enough"}, "INVALID_EMAIL"},
		{"ShortPassword", types.User{Email: "a@b.com", FirstName: "A", LastName: "B", Password: "short"}, "WEAK_PASSWORD"},
		{"MissingName", types.User{Email: "a@b.com", Password: "long-enough"}, "MISSING_NAME"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			err := svc.RegisterUser(ctx, &u)
			if errCode(err) != tc.wantCode {
				t.Errorf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestUser(t, svc, "dupe@example.com")

	dupe := &types.User{Email: "Dupe@Example.com", FirstName: "A", LastName: "B", Password: "long-enough"}
	err := svc.RegisterUser(context.Background(), dupe)
	if errCode(err) != "EMAIL_EXISTS" {
		t.Fatalf("expected EMAIL_EXISTS, got %v", err)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, gdb := newTestAuthService(t)
	user := registerTestUser(t, svc, "hash@example.com")

	var stored types.User
	if err := gdb.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load stored user: %v", err)
	}
	if stored.Password == "long-enough-password" {
		t.Fatal("password stored in plaintext")
	}
}

func TestLoginAndTokenRoundtrip(t *testing.T) {
	svc, _ := newTestAuthService(t)
	user := registerTestUser(t, svc, "login@example.com")
	ctx := context.Background()

	if _, _, err := svc.LoginUser(ctx, "login@example.com", "wrong-password"); errCode(err) != "AUTH_FAILED" {
		t.Fatalf("expected AUTH_FAILED for bad password, got %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "nobody@example.com", "long-enough-password"); errCode(err) != "AUTH_FAILED" {
		t.Fatalf("expected AUTH_FAILED for unknown email, got %v", err)
	}

	access, refresh, err := svc.LoginUser(ctx, "Login@Example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token pair")
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context from token: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("expected caller identity %s, got %+v", user.ID, rd)
	}
}

func TestLoginReplacesPriorSession(t *testing.T) {
	svc, gdb := newTestAuthService(t)
	user := registerTestUser(t, svc, "session@example.com")
	ctx := context.Background()

	first, _, err := svc.LoginUser(ctx, "session@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, _, err := svc.LoginUser(ctx, "session@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	// Only the second session's token row survives.
	tokenRepo := repos.NewUserTokenRepo(gdb, testLogger(t))
	row, err := tokenRepo.GetByUserID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("load token row: %v", err)
	}
	if row == nil || row.AccessToken != second {
		t.Fatalf("expected the second session's token row, got %+v", row)
	}

	// The first session's token row is gone, so the JWT no longer resolves.
	if _, err := svc.SetContextFromToken(ctx, first); errCode(err) != "AUTH_FAILED" {
		t.Fatalf("expected AUTH_FAILED for replaced session, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestUser(t, svc, "refresh@example.com")
	ctx := context.Background()

	_, refresh, err := svc.LoginUser(ctx, "refresh@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rctx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	newAccess, newRefresh, err := svc.RefreshUser(rctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newAccess == "" || newRefresh == "" || newRefresh == refresh {
		t.Fatalf("expected rotated token pair, got access=%q refresh=%q", newAccess, newRefresh)
	}

	// The old refresh token was consumed by the rotation.
	if _, _, err := svc.RefreshUser(rctx); errCode(err) != "AUTH_FAILED" {
		t.Fatalf("expected AUTH_FAILED for consumed refresh token, got %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	user := registerTestUser(t, svc, "logout@example.com")
	ctx := context.Background()

	access, _, err := svc.LoginUser(ctx, "logout@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rctx := requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: user.ID})
	if err := svc.LogoutUser(rctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, access); errCode(err) != "AUTH_FAILED" {
		t.Fatalf("expected AUTH_FAILED after logout, got %v", err)
	}
}

// stubAvatarService stamps deterministic avatar fields without rendering.
type stubAvatarService struct{}

func (stubAvatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	user.AvatarMediaKey = "avatars/" + user.ID.String() + ".png"
	user.AvatarURL = "/media/" + user.AvatarMediaKey
	return nil
}

func TestRegisterPersistsAvatar(t *testing.T) {
	gdb := openTestDB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	svc := NewAuthService(gdb, log, userRepo, userTokenRepo, stubAvatarService{}, "test-secret", time.Hour, 24*time.Hour)

	user := &types.User{
		Email:     "avatar@example.com",
		FirstName: "Ada",
		LastName:  "Lin",
		Password:  "long-enough-password",
	}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := userRepo.GetByID(context.Background(), nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.AvatarMediaKey == "" || stored.AvatarURL == "" {
		t.Fatalf("expected avatar fields persisted, got key=%q url=%q", stored.AvatarMediaKey, stored.AvatarURL)
	}
}
