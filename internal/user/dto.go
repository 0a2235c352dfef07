package user

import (
	"errors"
	"strings"
)

// CreateUserDTO is the payload for registering a new account.
type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UpdateUserDTO carries optional field updates.
type UpdateUserDTO struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	RoleID *int64  `json:"role_id,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Email != nil && !strings.Contains(*dto.Email, "@") {
		return errors.New("email is invalid")
	}
	return nil
}

// GrantPermissionDTO grants a direct permission to a user.
type GrantPermissionDTO struct {
	PermissionID int64 `json:"permission_id"`
}

func (dto GrantPermissionDTO) Validate() error {
	if dto.PermissionID <= 0 {
		return errors.New("permission_id is required")
	}
	return nil
}
