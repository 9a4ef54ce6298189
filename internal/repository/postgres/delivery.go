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
)

type deliveryRepository struct {
	repository.BaseRepository
}

// NewDeliveryRepository creates a new PostgreSQL delivery repository
func NewDeliveryRepository(db *sql.DB) repository.DeliveryRepository {
	return &deliveryRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const deliveryColumns = `id, subscription_id, zone_id, delivery_date, product, quantity,
	amount, status, created_at, updated_at`

func scanDelivery(row rowScanner) (*models.Delivery, error) {
	var (
		d      models.Delivery
		zoneID uuid.NullUUID
	)
	err := row.Scan(
		&d.ID,
		&d.SubscriptionID,
		&zoneID,
		&d.DeliveryDate,
		&d.Product,
		&d.Quantity,
		&d.Amount,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if zoneID.Valid {
		d.ZoneID = &zoneID.UUID
	}
	return &d, nil
}

func (r *deliveryRepository) CreateBatch(ctx context.Context, deliveries []models.Delivery) (int, error) {
	if len(deliveries) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (subscription_id, delivery_date) DO NOTHING`

	created := 0
	err := r.Transaction(ctx, func(ctx context.Context) error {
		now := time.Now()
		for i := range deliveries {
			d := &deliveries[i]
			if d.Status == "" {
				d.Status = models.DeliveryStatusScheduled
			}

			result, err := r.Conn(ctx).ExecContext(ctx, query,
				uuid.New(),
				d.SubscriptionID,
				d.ZoneID,
				d.DeliveryDate,
				d.Product,
				d.Quantity,
				d.Amount,
				d.Status,
				now,
			)
			if err != nil {
				return errors.Wrapf(err, "insert delivery for subscription %s on %s", d.SubscriptionID, d.DeliveryDate)
			}

			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			created += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	d, err := scanDelivery(r.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return d, err
}

func (r *deliveryRepository) ListByDate(ctx context.Context, date models.Date, filter repository.DeliveryFilter) ([]models.Delivery, error) {
	conditions := []string{"delivery_date = $1"}
	args := []interface{}{date}
	argCount := 2

	if filter.ZoneID != nil {
		conditions = append(conditions, fmt.Sprintf("zone_id = $%d", argCount))
		args = append(args, *filter.ZoneID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY zone_id NULLS LAST, created_at ASC, id ASC`

	rows, err := r.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]models.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, *d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus) (*models.Delivery, error) {
	query := `
		UPDATE deliveries
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + deliveryColumns

	d, err := scanDelivery(r.Conn(ctx).QueryRowContext(ctx, query, status, time.Now(), id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return d, err
}
