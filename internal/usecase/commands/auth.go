package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"coupon-manager/internal/domain/user"
	reqdto "coupon-manager/internal/handler/dto/request"
	"coupon-manager/internal/pkg/errs"
	"coupon-manager/internal/pkg/jwt"
	"coupon-manager/internal/pkg/password"
	"coupon-manager/internal/usecase/queries"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	readStore  queries.UserReadStore
	userRepo   UserRepository
	jwtService *jwt.Service
}

func NewAuthCommands(readStore queries.UserReadStore, userRepo UserRepository, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		readStore:  readStore,
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	userView, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userView.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(userView.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	if err := a.userRepo.UpdateLastLogin(ctx, userView.ID); err != nil {
		// Not critical, the login itself succeeded.
		slog.Warn("failed to update last login", "user_id", userView.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      userView.ID,
		AccessToken: accessToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthorizedUserView, error) {
	// The same error covers unknown email and wrong password so the
	// endpoint cannot be used to enumerate accounts.
	userView, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil || userView == nil {
		return nil, ErrInvalidCredentials
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return userView, nil
}
