package user

import (
	"time"
)

// User is a platform account. Deactivation is a soft delete: the row is
// kept, is_active flips and deleted_at is stamped.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash"`
	RoleID       *int64     `json:"role_id,omitempty" gorm:"column:role_id"`
	IsActive     bool       `json:"is_active" gorm:"column:is_active;default:true"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	RoleID       int64     `json:"role_id" gorm:"column:role_id;not null"`
	PermissionID int64     `json:"permission_id" gorm:"column:permission_id;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserPermission struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"column:user_id;not null"`
	PermissionID int64     `json:"permission_id" gorm:"column:permission_id;not null"`
	GrantedBy    *int64    `json:"granted_by,omitempty" gorm:"column:granted_by"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
