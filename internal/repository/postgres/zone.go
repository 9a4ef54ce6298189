package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type zoneRepository struct {
	repository.BaseRepository
}

// NewZoneRepository creates a new PostgreSQL zone repository
func NewZoneRepository(db *sql.DB) repository.ZoneRepository {
	return &zoneRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const zoneSelect = `
	SELECT id, name, code, boundary, pincodes, verticals, is_active,
		window_start, window_end, created_at, updated_at
	FROM zones`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanZone(row rowScanner) (*models.Zone, error) {
	var (
		zone        models.Zone
		windowStart sql.NullString
		windowEnd   sql.NullString
	)
	err := row.Scan(
		&zone.ID,
		&zone.Name,
		&zone.Code,
		&zone.Boundary,
		pq.Array(&zone.Pincodes),
		pq.Array(&zone.Verticals),
		&zone.IsActive,
		&windowStart,
		&windowEnd,
		&zone.CreatedAt,
		&zone.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if windowStart.Valid && windowEnd.Valid {
		start, err := models.ParseClockTime(windowStart.String)
		if err != nil {
			return nil, errors.Wrapf(err, "zone %s", zone.Code)
		}
		end, err := models.ParseClockTime(windowEnd.String)
		if err != nil {
			return nil, errors.Wrapf(err, "zone %s", zone.Code)
		}
		zone.ServiceWindow = &models.ServiceWindow{Start: start, End: end}
	}
	if zone.Pincodes == nil {
		zone.Pincodes = []string{}
	}
	if zone.Verticals == nil {
		zone.Verticals = []string{}
	}
	return &zone, nil
}

func windowColumns(zone *models.Zone) (sql.NullString, sql.NullString) {
	if zone.ServiceWindow == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: zone.ServiceWindow.Start.String(), Valid: true},
		sql.NullString{String: zone.ServiceWindow.End.String(), Valid: true}
}

func (r *zoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	query := `
		INSERT INTO zones (
			id, name, code, boundary, pincodes, verticals, is_active,
			window_start, window_end, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING created_at, updated_at`

	windowStart, windowEnd := windowColumns(zone)
	zone.ID = uuid.New()

	err := r.Conn(ctx).QueryRowContext(ctx, query,
		zone.ID,
		zone.Name,
		zone.Code,
		zone.Boundary,
		pq.Array(zone.Pincodes),
		pq.Array(zone.Verticals),
		zone.IsActive,
		windowStart,
		windowEnd,
		time.Now(),
	).Scan(&zone.CreatedAt, &zone.UpdatedAt)

	if err != nil {
		zone.ID = uuid.Nil
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *zoneRepository) Update(ctx context.Context, zone *models.Zone) error {
	query := `
		UPDATE zones
		SET name = $1, code = $2, boundary = $3, pincodes = $4, verticals = $5,
			is_active = $6, window_start = $7, window_end = $8, updated_at = $9
		WHERE id = $10
		RETURNING created_at, updated_at`

	windowStart, windowEnd := windowColumns(zone)

	err := r.Conn(ctx).QueryRowContext(ctx, query,
		zone.Name,
		zone.Code,
		zone.Boundary,
		pq.Array(zone.Pincodes),
		pq.Array(zone.Verticals),
		zone.IsActive,
		windowStart,
		windowEnd,
		time.Now(),
		zone.ID,
	).Scan(&zone.CreatedAt, &zone.UpdatedAt)

	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *zoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		// Zones still referenced by subscriptions cannot be removed
		var count int
		err := r.Conn(ctx).QueryRowContext(ctx,
			"SELECT COUNT(*) FROM subscriptions WHERE zone_id = $1",
			id,
		).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return repository.ErrHasAssociatedRecords
		}

		result, err := r.Conn(ctx).ExecContext(ctx, `DELETE FROM zones WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrHasAssociatedRecords
			}
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *zoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Zone, error) {
	zone, err := scanZone(r.Conn(ctx).QueryRowContext(ctx, zoneSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return zone, err
}

func (r *zoneRepository) GetByCode(ctx context.Context, code string) (*models.Zone, error) {
	zone, err := scanZone(r.Conn(ctx).QueryRowContext(ctx, zoneSelect+` WHERE code = $1`, code))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return zone, err
}

func (r *zoneRepository) List(ctx context.Context, filter repository.ZoneFilter) ([]models.Zone, error) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filter.Search+"%")
		argCount++
	}

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filter.IsActive)
		argCount++
	}

	if filter.Vertical != nil {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(verticals)", argCount))
		args = append(args, *filter.Vertical)
		argCount++
	}

	query := zoneSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	// Add LIMIT and OFFSET
	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, *filter.Limit)
		argCount++
	}

	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, *filter.Offset)
	}

	return r.query(ctx, query, args...)
}

func (r *zoneRepository) ListActive(ctx context.Context) ([]models.Zone, error) {
	return r.query(ctx, zoneSelect+` WHERE is_active ORDER BY created_at ASC, id ASC`)
}

func (r *zoneRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Zone, error) {
	rows, err := r.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]models.Zone, 0)
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *zone)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return zones, nil
}
