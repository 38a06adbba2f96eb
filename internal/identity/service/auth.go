// Package service implements authentication: verifying an identifier and
// password against the User Directory and issuing a stateless bearer
// token. There is no session store and no refresh-token flow; a token is
// valid for its configured lifetime and then simply expires.
package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendance-service/internal/identity/jwt"
	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/logger"
)

// UserLookup is the minimal view of the User Directory the auth service
// needs. Defined here (consumer side) so this package never imports the
// user repository directly.
type UserLookup interface {
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
}

// AuthService authenticates users and issues access tokens.
type AuthService struct {
	users      UserLookup
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users UserLookup, jwtManager *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager, logger: log}
}

// LoginRequest is the login payload. Identifier may be an employee code,
// email, or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
	User        *UserInfo `json:"user"`
}

// UserInfo is the subset of a user's record exposed to the client on login.
type UserInfo struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TeamID       string `json:"teamId,omitempty"`
}

func toUserInfo(u *domain.User) *UserInfo {
	return &UserInfo{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		TeamID:       u.TeamID,
	}
}

// Login authenticates identifier/password and issues an access token. An
// unknown identifier and a wrong password are indistinguishable to the
// caller: both produce errors.InvalidCredentials, so a login attempt never
// discloses whether an account exists.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, errors.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, errors.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	token, expiresAt, err := s.jwtManager.Issue(user.ID, user.Role, user.TeamID)
	if err != nil {
		return nil, errors.Internal("failed to issue access token")
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        toUserInfo(user),
	}, nil
}
