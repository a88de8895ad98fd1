package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

const (
	PasswordCost          = 10
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthorized       = "Unauthorized"
)

type RegisterInput struct {
	Username string
	Email    *string
	Password string
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *types.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Authenticate(ctx context.Context, tokenString string) (*ctxutil.RequestData, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

// Authenticator turns a bearer token into request data.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*ctxutil.RequestData, error)
}

type tokenAuthenticator struct {
	tokens      TokenService
	revocations RevocationStore
}

// NewTokenAuthenticator verifies tokens without touching the user table, so
// services that only share JWT_SECRET can check callers.
func NewTokenAuthenticator(tokens TokenService, revocations RevocationStore) Authenticator {
	if revocations == nil {
		revocations = NoopRevocationStore{}
	}
	return &tokenAuthenticator{tokens: tokens, revocations: revocations}
}

func (ta *tokenAuthenticator) Authenticate(ctx context.Context, tokenString string) (*ctxutil.RequestData, error) {
	rd, err := ta.tokens.Parse(tokenString)
	if err != nil {
		return nil, apierr.Unauthorized(MsgUnauthorized, err)
	}
	revoked, err := ta.revocations.IsRevoked(ctx, rd.TokenID)
	if err != nil {
		return nil, apierr.Persistence("Error checking token", err)
	}
	if revoked {
		return nil, apierr.Unauthorized(MsgUnauthorized, errors.New("token revoked"))
	}
	return rd, nil
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	tokens      TokenService
	revocations RevocationStore
	verifier    Authenticator
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	tokens TokenService,
	revocations RevocationStore,
) AuthService {
	if revocations == nil {
		revocations = NoopRevocationStore{}
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)
	return &authService{
		db:          db,
		log:         log.With("service", "AuthService"),
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
		verifier:    NewTokenAuthenticator(tokens, revocations),
		dummyHash:   dummy,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apierr.Validation("Invalid registration", errors.New("username and password are required"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return nil, apierr.Persistence("Error registering user", err)
	}
	var email *string
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		email = &e
	}
	user := &types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         types.RoleUser,
	}
	if err := as.userRepo.Create(dbctx.New(ctx), user); err != nil {
		as.log.Warn("User registration failed", "username", username, "error", err)
		return nil, apierr.Persistence("Error registering user", err)
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := as.userRepo.GetByUsername(dbctx.New(ctx), strings.TrimSpace(username))
	if err != nil {
		return nil, apierr.Persistence("Error logging in", err)
	}
	hash := as.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password)); cmpErr != nil || user == nil {
		return nil, apierr.Unauthorized(MsgInvalidCredentials, apierr.ErrInvalidCredentials)
	}
	signed, claims, err := as.tokens.Issue(user)
	if err != nil {
		return nil, apierr.Persistence("Error logging in", err)
	}
	return &LoginResult{Token: signed, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized(MsgUnauthorized, errors.New("request data not set in context"))
	}
	if err := as.revocations.Revoke(ctx, rd.TokenID, rd.ExpiresAt); err != nil {
		as.log.Error("Token revocation failed", "user_id", rd.UserID, "error", err)
		return apierr.Persistence("Error logging out", err)
	}
	return nil
}

func (as *authService) Authenticate(ctx context.Context, tokenString string) (*ctxutil.RequestData, error) {
	return as.verifier.Authenticate(ctx, tokenString)
}

// EnsureAdmin creates the given ADMIN account when no admin exists yet.
// Registration never grants ADMIN, so this is the only way to get one.
func (as *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	dbc := dbctx.New(ctx)
	n, err := as.userRepo.CountByRole(dbc, types.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	admin := &types.User{Username: username, PasswordHash: string(hash), Role: types.RoleAdmin}
	if err := as.userRepo.Create(dbc, admin); err != nil {
		return err
	}
	as.log.Info("Admin account seeded", "user_id", admin.ID, "username", username)
	return nil
}
