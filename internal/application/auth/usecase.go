package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/application/session"
	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/access"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

// AuthUseCase login, logout and current-principal lookups.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions *session.Provider
	log      *logger.Logger
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(userRepo repository.UserRepository, sessions *session.Provider, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, log: log}
}

// Login checks username/password and opens a session. Unknown users and wrong passwords
// both return domain.ErrInvalidCredentials; inactive accounts return domain.ErrInactiveAccount.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Info().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Info().Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrInactiveAccount
	}
	user.AssignedBarangay = access.NormalizeBarangay(user.AssignedBarangay)

	token, s, err := uc.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session opened")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: s.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

// Logout revokes the session bound to token.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	return uc.sessions.Revoke(ctx, token)
}

// Me describes the current principal.
func (uc *AuthUseCase) Me(p *entity.Principal) (*dto.PrincipalResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.PrincipalResponse{
		ID:                 p.ID,
		Username:           p.Username,
		Role:               p.Role,
		AssignedBarangay:   p.AssignedBarangay,
		SessionExpiry:      p.SessionExpiry,
		CanManageInventory: access.CanManageInventory(p.Role),
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Role:             u.Role,
		AssignedBarangay: u.AssignedBarangay,
		Status:           u.Status,
	}
}
