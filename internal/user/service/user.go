package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/internal/user/repository"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/logger"
)

// UserService implements the User Directory's business rules: password
// hashing, input normalization, and the soft-delete/restore/purge
// lifecycle bounded by the configured retention window. Uniqueness is
// enforced by the database's unique indexes, surfaced as CONFLICT.
type UserService struct {
	repo   *repository.UserRepository
	clock  *clock.Clock
	cfg    config.BusinessConfig
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo *repository.UserRepository, c *clock.Clock, cfg config.BusinessConfig, log *logger.Logger) *UserService {
	return &UserService{repo: repo, clock: c, cfg: cfg, logger: log}
}

// Create provisions a new user with a bcrypt-hashed password. Email is
// normalized to lower-case and string fields are trimmed before the
// uniqueness constraints are ever consulted.
func (s *UserService) Create(ctx context.Context, in domain.CreateInput) (*domain.User, error) {
	if in.Role != domain.RoleEmployee && in.Role != domain.RoleManager && in.Role != domain.RoleAdmin {
		return nil, errors.Validation(map[string]string{"role": "must be one of: EMPLOYEE, MANAGER, ADMIN"})
	}
	if len(in.PlainPassword) < 8 {
		return nil, errors.Validation(map[string]string{"password": "must be at least 8 characters"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.PlainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &domain.User{
		EmployeeCode: strings.TrimSpace(in.EmployeeCode),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		TeamID:       strings.TrimSpace(in.TeamID),
		StartDate:    strings.TrimSpace(in.StartDate),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns a single non-deleted user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// TeamMemberOf resolves the {userId, teamId} pair used by the policy
// package's team-scoped checks (request approval, today-attendance scope).
func (s *UserService) TeamMemberOf(ctx context.Context, userID string) (policy.TeamMember, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return policy.TeamMember{}, err
	}
	return policy.TeamMember{UserID: user.ID, TeamID: user.TeamID}, nil
}

// ListIDsByTeam returns the ids of every non-deleted user on teamID.
func (s *UserService) ListIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	return s.repo.ListIDsByTeam(ctx, teamID)
}

// List returns a paginated, filtered page of users.
func (s *UserService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.User, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 1
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Update applies a whitelisted partial update.
func (s *UserService) Update(ctx context.Context, id string, upd domain.Update) error {
	return s.repo.Update(ctx, id, upd)
}

// ResetPassword sets a new bcrypt-hashed password for a user. Refuses a
// soft-deleted target; the plaintext is never logged.
func (s *UserService) ResetPassword(ctx context.Context, id, plainPassword string) error {
	if len(plainPassword) < 8 {
		return errors.Validation(map[string]string{"newPassword": "must be at least 8 characters"})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("failed to hash password")
	}
	return s.repo.ResetPassword(ctx, id, string(hashed))
}

// SoftDelete soft-deletes id on behalf of actorID. Self-delete is refused:
// an admin can never lock themselves out by deleting their own account.
func (s *UserService) SoftDelete(ctx context.Context, actorID, id string) (time.Time, error) {
	if actorID == id {
		return time.Time{}, errors.BadRequest("cannot delete your own account")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return time.Time{}, err
	}
	deletedAt := s.clock.Now()
	return deletedAt.Add(time.Duration(s.cfg.RetentionDays) * 24 * time.Hour), nil
}

// Restore reactivates a soft-deleted user, only inside the retention window.
func (s *UserService) Restore(ctx context.Context, id string) error {
	user, err := s.repo.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsDeleted() {
		return errors.BadRequest("user is not deleted")
	}
	if s.pastRetentionWindow(*user.DeletedAt) {
		return errors.BadRequest("retention window has elapsed; user is no longer restorable")
	}
	return s.repo.Restore(ctx, id)
}

// Purge permanently removes every user whose soft-delete predates the
// retention window, cascading to their attendance and request records.
func (s *UserService) Purge(ctx context.Context) (repository.PurgeResult, error) {
	cutoff := s.clock.Now().Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
	return s.repo.PurgeEligible(ctx, cutoff)
}

func (s *UserService) pastRetentionWindow(deletedAt time.Time) bool {
	deadline := deletedAt.Add(time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
	return s.clock.Now().After(deadline)
}
