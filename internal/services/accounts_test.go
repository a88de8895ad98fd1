package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	"github.com/yungbote/gamehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
)

type accountsFixture struct {
	auth    AuthService
	users   UserService
	avatars AvatarService
	dir     *fakeDirectory
}

func newAccountsFixture(t *testing.T) *accountsFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens, err := NewTokenService("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	userRepo := repos.NewUserRepo(db, log)
	avatarRepo := repos.NewAvatarRepo(db, log)
	dir := &fakeDirectory{known: map[uuid.UUID]bool{}}
	return &accountsFixture{
		auth:    NewAuthService(db, log, userRepo, tokens, NewRedisRevocationStore(client)),
		users:   NewUserService(db, log, userRepo, avatarRepo),
		avatars: NewAvatarService(db, log, avatarRepo, dir),
		dir:     dir,
	}
}

func (f *accountsFixture) login(t *testing.T, username, password string) context.Context {
	t.Helper()
	res, err := f.auth.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("Login(%s): %v", username, err)
	}
	rd, err := f.auth.Authenticate(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Authenticate(%s): %v", username, err)
	}
	return ctxutil.WithRequestData(context.Background(), rd)
}

func TestRegisterAlwaysCreatesPlainUser(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	email := " Alice@Example.com "
	u, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: &email, Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != types.RoleUser {
		t.Fatalf("Role: want=%q got=%q", types.RoleUser, u.Role)
	}
	if u.Email == nil || *u.Email != "alice@example.com" {
		t.Fatalf("Email: got=%v", u.Email)
	}
	if u.PasswordHash == "pw" {
		t.Fatalf("password stored in clear")
	}
	if _, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "other"}); apierr.Status(err) != http.StatusInternalServerError {
		t.Fatalf("Register(duplicate): want 500 got=%v", err)
	}
	if _, err := f.auth.Register(ctx, RegisterInput{Username: " ", Password: "pw"}); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Register(blank): want 400 got=%v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, RegisterInput{Username: "bob", Password: "right"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPw := f.auth.Login(ctx, "bob", "wrong")
	_, noUser := f.auth.Login(ctx, "nobody", "right")
	for _, err := range []error{wrongPw, noUser} {
		if apierr.Status(err) != http.StatusUnauthorized || !errors.Is(err, apierr.ErrInvalidCredentials) {
			t.Fatalf("Login: want 401 invalid credentials got=%v", err)
		}
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("Login errors differ: %q vs %q", wrongPw.Error(), noUser.Error())
	}

	res, err := f.auth.Login(ctx, "bob", "right")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.User.Username != "bob" || res.ExpiresAt.IsZero() {
		t.Fatalf("Login: got=%+v", res)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, RegisterInput{Username: "carol", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := f.auth.Login(ctx, "carol", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	rd, err := f.auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := f.auth.Logout(ctxutil.WithRequestData(ctx, rd)); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, res.Token); apierr.Status(err) != http.StatusUnauthorized {
		t.Fatalf("Authenticate after logout: want 401 got=%v", err)
	}
	if err := f.auth.Logout(ctx); apierr.Status(err) != http.StatusUnauthorized {
		t.Fatalf("Logout without request data: want 401 got=%v", err)
	}
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	if err := f.auth.EnsureAdmin(ctx, "root", "pw"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := f.auth.EnsureAdmin(ctx, "root2", "pw"); err != nil {
		t.Fatalf("EnsureAdmin(second): %v", err)
	}
	res, err := f.auth.Login(ctx, "root", "pw")
	if err != nil {
		t.Fatalf("Login(admin): %v", err)
	}
	if res.User.Role != types.RoleAdmin {
		t.Fatalf("Role: want=%q got=%q", types.RoleAdmin, res.User.Role)
	}
	if _, err := f.auth.Login(ctx, "root2", "pw"); err == nil {
		t.Fatalf("second admin should not exist")
	}
}

func TestUpdateAvatarPermissions(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	walk, idle := uuid.New(), uuid.New()
	f.dir.known[walk], f.dir.known[idle] = true, true

	avatar, err := f.avatars.Create(ctx, &types.Avatar{Name: "Knight", WalkFileID: walk, IdleFileID: idle})
	if err != nil {
		t.Fatalf("avatar Create: %v", err)
	}
	dave, err := f.auth.Register(ctx, RegisterInput{Username: "dave", Password: "pw"})
	if err != nil {
		t.Fatalf("Register dave: %v", err)
	}
	if _, err := f.auth.Register(ctx, RegisterInput{Username: "erin", Password: "pw"}); err != nil {
		t.Fatalf("Register erin: %v", err)
	}
	if err := f.auth.EnsureAdmin(ctx, "root", "pw"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	daveCtx := f.login(t, "dave", "pw")
	erinCtx := f.login(t, "erin", "pw")
	adminCtx := f.login(t, "root", "pw")

	got, err := f.users.UpdateAvatar(daveCtx, dave.ID, &avatar.ID)
	if err != nil {
		t.Fatalf("UpdateAvatar(self): %v", err)
	}
	if got.AvatarID == nil || *got.AvatarID != avatar.ID {
		t.Fatalf("AvatarID: got=%v", got.AvatarID)
	}

	if _, err := f.users.UpdateAvatar(erinCtx, dave.ID, nil); apierr.Status(err) != http.StatusForbidden {
		t.Fatalf("UpdateAvatar(other user): want 403 got=%v", err)
	}

	got, err = f.users.UpdateAvatar(adminCtx, dave.ID, nil)
	if err != nil {
		t.Fatalf("UpdateAvatar(admin): %v", err)
	}
	if got.AvatarID != nil {
		t.Fatalf("AvatarID should be cleared: got=%v", got.AvatarID)
	}

	unknown := uuid.New()
	if _, err := f.users.UpdateAvatar(daveCtx, dave.ID, &unknown); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("UpdateAvatar(unknown avatar): want 400 got=%v", err)
	}
	if _, err := f.users.UpdateAvatar(adminCtx, uuid.New(), nil); !apierr.IsNotFound(err) {
		t.Fatalf("UpdateAvatar(unknown user): want not found got=%v", err)
	}

	me, err := f.users.GetMe(daveCtx)
	if err != nil || me.ID != dave.ID {
		t.Fatalf("GetMe: got=%v err=%v", me, err)
	}
}

func TestAvatarDeleteClearsUserReference(t *testing.T) {
	f := newAccountsFixture(t)
	ctx := context.Background()
	walk, idle := uuid.New(), uuid.New()
	f.dir.known[walk], f.dir.known[idle] = true, true

	if _, err := f.avatars.Create(ctx, &types.Avatar{Name: "Ghost", WalkFileID: walk, IdleFileID: uuid.New()}); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Create(unknown idle file): want 400 got=%v", err)
	}

	avatar, err := f.avatars.Create(ctx, &types.Avatar{Name: "Mage", WalkFileID: walk, IdleFileID: idle})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	user, err := f.auth.Register(ctx, RegisterInput{Username: "fay", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	userCtx := f.login(t, "fay", "pw")
	if _, err := f.users.UpdateAvatar(userCtx, user.ID, &avatar.ID); err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}

	if err := f.avatars.Delete(ctx, avatar.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := f.users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AvatarID != nil {
		t.Fatalf("AvatarID should be nulled: got=%v", got.AvatarID)
	}
	if err := f.avatars.Delete(ctx, avatar.ID); !apierr.IsNotFound(err) {
		t.Fatalf("Delete(again): want not found got=%v", err)
	}
}
