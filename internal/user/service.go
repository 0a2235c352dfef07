package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/upenergia/asset-management/internal"
)

type RepositoryAPI interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(limit, offset int) ([]*User, int64, error)
	Update(u *User) error
	UpdatePassword(id int64, passwordHash string) error
	Deactivate(id int64, deletedAt time.Time) error
	GrantPermission(userID, permissionID int64, grantedBy *int64) error
	RevokePermission(userID, permissionID int64) error
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		s.logger.Warn("create user rejected: email already registered", "email", dto.Email)
		return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		RoleID:       dto.RoleID,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

func (s *Service) ListUsers(limit, offset int) ([]*User, int64, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err == nil && existing != nil {
			return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateEmail)
		}
		u.Email = *dto.Email
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.RoleID != nil {
		u.RoleID = dto.RoleID
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	return u, nil
}

// DeactivateUser soft-deletes an account. In-flight access tokens stop
// working on the next request because the auth middleware re-checks the
// live record.
func (s *Service) DeactivateUser(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if !u.IsActive {
		return internal.NewValidationError("user is already inactive", internal.ErrCodeUserInactive)
	}

	if err := s.repo.Deactivate(id, time.Now()); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

func (s *Service) GrantPermission(userID int64, dto GrantPermissionDTO, grantedBy *int64) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := s.repo.GrantPermission(userID, dto.PermissionID, grantedBy); err != nil {
		s.logger.Error("failed to grant permission", "error", err, "user_id", userID, "permission_id", dto.PermissionID)
		return err
	}

	s.logger.Info("permission granted", "user_id", userID, "permission_id", dto.PermissionID)
	return nil
}

func (s *Service) RevokePermission(userID, permissionID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return s.repo.RevokePermission(userID, permissionID)
}
