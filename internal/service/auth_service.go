package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/middleware"
	"github.com/gurkanbulca/pronote/internal/models"
	"github.com/gurkanbulca/pronote/internal/repository"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

// UserStore is the user persistence the services need.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListExcept(ctx context.Context, exceptID string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	SetRefreshToken(ctx context.Context, id string, token sql.NullString) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

type AuthService struct {
	users           UserStore
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	logger          *slog.Logger
	now             func() time.Time
}

func NewAuthService(users UserStore, tokenManager *auth.TokenManager, passwordManager *auth.PasswordManager, logger *slog.Logger) *AuthService {
	if passwordManager == nil {
		passwordManager = auth.NewPasswordManager()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:           users,
		tokenManager:    tokenManager,
		passwordManager: passwordManager,
		logger:          logger.With("service", "auth"),
		now:             time.Now,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, req *pronotev1.RegisterRequest) (*pronotev1.AuthResponse, error) {
	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to check user existence")
	}
	if exists {
		return nil, status.Error(codes.AlreadyExists, "user with this email already exists")
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to hash password")
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Job:          req.Job,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return s.signIn(ctx, u)
}

// Login exchanges credentials for a token pair. Unknown emails and wrong
// passwords get the same answer.
func (s *AuthService) Login(ctx context.Context, req *pronotev1.LoginRequest) (*pronotev1.AuthResponse, error) {
	invalid := status.Error(codes.Unauthenticated, "invalid credentials")
	client := middleware.GetClientInfoFromContext(ctx)

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return nil, invalid
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.WarnContext(ctx, "login failed", "reason", "unknown email", "ip", client.IPAddress)
			return nil, invalid
		}
		return nil, toStatus(ctx, s.logger, err, "failed to find user")
	}

	if err := s.passwordManager.ComparePassword(u.PasswordHash, req.Password); err != nil {
		s.logger.WarnContext(ctx, "login failed", "reason", "bad password", "user_id", u.ID, "ip", client.IPAddress)
		return nil, invalid
	}

	return s.signIn(ctx, u)
}

func (s *AuthService) signIn(ctx context.Context, u *models.User) (*pronotev1.AuthResponse, error) {
	pair, err := s.tokenManager.GenerateTokenPair(u.ID, u.Email)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to generate tokens")
	}

	if err := s.users.SetRefreshToken(ctx, u.ID, sql.NullString{String: pair.RefreshToken, Valid: true}); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to save refresh token")
	}
	if err := s.users.TouchLogin(ctx, u.ID, s.now()); err != nil {
		// the session is already usable
		s.logger.WarnContext(ctx, "failed to record login time", "user_id", u.ID, "error", err)
	}

	return &pronotev1.AuthResponse{
		User:         convertUserToProto(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// RefreshToken issues a new access token. The refresh token must be the one
// stored at the last sign-in; Logout revokes it.
func (s *AuthService) RefreshToken(ctx context.Context, req *pronotev1.RefreshTokenRequest) (*pronotev1.RefreshTokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	claims, err := s.tokenManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, status.Error(codes.Unauthenticated, "refresh token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
		}
		return nil, toStatus(ctx, s.logger, err, "failed to find user")
	}
	if !u.RefreshToken.Valid || u.RefreshToken.String != req.RefreshToken {
		return nil, status.Error(codes.Unauthenticated, "refresh token revoked")
	}

	access, expiresIn, _, err := s.tokenManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}

	return &pronotev1.RefreshTokenResponse{
		AccessToken: access,
		ExpiresIn:   expiresIn,
	}, nil
}

// Logout revokes the caller's refresh token. Access tokens stay valid until
// they expire.
func (s *AuthService) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, userID, sql.NullString{}); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to revoke refresh token")
	}
	return &emptypb.Empty{}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, _ *emptypb.Empty) (*pronotev1.User, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to get user")
	}
	return convertUserToProto(u), nil
}

// UpdateProfile replaces the caller's names, job and email, and the
// password when one is given.
func (s *AuthService) UpdateProfile(ctx context.Context, req *pronotev1.UpdateProfileRequest) (*pronotev1.User, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to get user")
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if email != u.Email {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, toStatus(ctx, s.logger, err, "failed to check email")
		}
		if exists {
			return nil, status.Error(codes.AlreadyExists, "email is already in use")
		}
	}

	if req.Password != "" {
		hashed, err := s.passwordManager.HashPassword(req.Password)
		if err != nil {
			return nil, toStatus(ctx, s.logger, err, "failed to hash password")
		}
		u.PasswordHash = hashed
	}

	u.Email = email
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Job = req.Job

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to update profile")
	}
	// a new password ends every session's ability to refresh
	if req.Password != "" {
		if err := s.users.SetRefreshToken(ctx, u.ID, sql.NullString{}); err != nil {
			return nil, toStatus(ctx, s.logger, err, "failed to revoke refresh token")
		}
	}
	return convertUserToProto(u), nil
}

// ListUsers returns everyone except the caller.
func (s *AuthService) ListUsers(ctx context.Context, _ *emptypb.Empty) (*pronotev1.ListUsersResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListExcept(ctx, userID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err, "failed to list users")
	}

	resp := &pronotev1.ListUsersResponse{Users: make([]*pronotev1.User, len(users))}
	for i, u := range users {
		resp.Users[i] = convertUserToProto(u)
	}
	return resp, nil
}
