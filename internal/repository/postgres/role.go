package postgres

import (
	"context"
	"database/sql"
	"milkroute/internal/models"
	"milkroute/internal/repository"

	"github.com/google/uuid"
)

type roleRepository struct {
	repository.BaseRepository
}

// NewRoleRepository creates a new PostgreSQL role repository
func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const roleSelect = `
	SELECT id, name, is_protected, is_admin_group, created_at, updated_at
	FROM roles`

func (r *roleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return r.getOne(ctx, roleSelect+` WHERE id = $1`, id)
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return r.getOne(ctx, roleSelect+` WHERE name = $1`, name)
}

func (r *roleRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Role, error) {
	role := &models.Role{}
	err := r.Conn(ctx).QueryRowContext(ctx, query, arg).Scan(
		&role.ID,
		&role.Name,
		&role.IsProtected,
		&role.IsAdminGroup,
		&role.CreatedAt,
		&role.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	rows, err := r.Conn(ctx).QueryContext(ctx, roleSelect+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(
			&role.ID,
			&role.Name,
			&role.IsProtected,
			&role.IsAdminGroup,
			&role.CreatedAt,
			&role.UpdatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}
