package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	var hash sql.NullString

	query := `SELECT id, password_hash, is_active, deleted_at FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &hash, &creds.IsActive, &creds.DeletedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	creds.PasswordHash = hash.String
	return &creds, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User
	var roleName sql.NullString

	query := `SELECT u.id, u.email, u.name, r.name
	          FROM users u
	          LEFT JOIN roles r ON r.id = u.role_id
	          WHERE u.id = ? AND u.is_active = true AND u.deleted_at IS NULL`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &roleName); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	user.Role = roleName.String

	// Union of role permissions and direct grants, deduplicated in SQL.
	permQuery := `SELECT p.name
	              FROM permissions p
	              JOIN role_permissions rp ON p.id = rp.permission_id
	              JOIN users u ON u.role_id = rp.role_id
	              WHERE u.id = ?
	              UNION
	              SELECT p.name
	              FROM permissions p
	              JOIN user_permissions up ON p.id = up.permission_id
	              WHERE up.user_id = ?`

	rows, err := r.db.Raw(permQuery, userID, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	user.Permissions = permissions
	return &user, nil
}
