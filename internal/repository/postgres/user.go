package postgres

import (
	"context"
	"database/sql"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const userSelect = `
	SELECT
		u.id, u.username, u.password, u.email, u.role_id,
		u.last_login_at, u.deleted_at, u.created_at, u.updated_at,
		r.id, r.name, r.is_protected, r.is_admin_group,
		r.created_at, r.updated_at
	FROM users u
	JOIN roles r ON u.role_id = r.id`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password, email, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING created_at, updated_at`

	user.ID = uuid.New()
	err := r.Conn(ctx).QueryRowContext(ctx, query,
		user.ID,
		user.Username,
		user.Password,
		user.Email,
		user.RoleID,
		time.Now(),
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		user.ID = uuid.Nil
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return errors.Wrap(repository.ErrNotFound, "role")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1 AND u.deleted_at IS NULL`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.username = $1 AND u.deleted_at IS NULL`, username)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{Role: &models.Role{}}
	err := r.Conn(ctx).QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Email,
		&user.RoleID,
		&user.LastLoginAt,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Role.ID,
		&user.Role.Name,
		&user.Role.IsProtected,
		&user.Role.IsAdminGroup,
		&user.Role.CreatedAt,
		&user.Role.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLogin time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.Conn(ctx).ExecContext(ctx, query, lastLogin, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
