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
	"github.com/samber/lo"
)

type subscriptionRepository struct {
	repository.BaseRepository
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const subscriptionSelect = `
	SELECT id, customer_name, phone, zone_id, product, quantity, unit_price,
		start_date, cadence, weekdays, vacation_start, vacation_end, status,
		created_at, updated_at
	FROM subscriptions`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var (
		sub           models.Subscription
		zoneID        uuid.NullUUID
		weekdays      []int64
		vacationStart models.Date
		vacationEnd   models.Date
	)
	err := row.Scan(
		&sub.ID,
		&sub.CustomerName,
		&sub.Phone,
		&zoneID,
		&sub.Product,
		&sub.Quantity,
		&sub.UnitPrice,
		&sub.StartDate,
		&sub.Cadence,
		pq.Array(&weekdays),
		&vacationStart,
		&vacationEnd,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if zoneID.Valid {
		sub.ZoneID = &zoneID.UUID
	}
	sub.Weekdays = lo.Map(weekdays, func(d int64, _ int) time.Weekday {
		return time.Weekday(d)
	})
	if !vacationStart.IsZero() {
		sub.VacationStart = &vacationStart
	}
	if !vacationEnd.IsZero() {
		sub.VacationEnd = &vacationEnd
	}
	return &sub, nil
}

func weekdayArray(days []time.Weekday) interface{} {
	return pq.Array(lo.Map(days, func(d time.Weekday, _ int) int64 {
		return int64(d)
	}))
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_name, phone, zone_id, product, quantity, unit_price,
			start_date, cadence, weekdays, vacation_start, vacation_end, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING created_at, updated_at`

	if sub.Status == "" {
		sub.Status = models.SubscriptionStatusActive
	}
	sub.ID = uuid.New()

	err := r.Conn(ctx).QueryRowContext(ctx, query,
		sub.ID,
		sub.CustomerName,
		sub.Phone,
		sub.ZoneID,
		sub.Product,
		sub.Quantity,
		sub.UnitPrice,
		sub.StartDate,
		sub.Cadence,
		weekdayArray(sub.Weekdays),
		sub.VacationStart,
		sub.VacationEnd,
		sub.Status,
		time.Now(),
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		sub.ID = uuid.Nil
		if isForeignKeyViolation(err) {
			return errors.Wrap(repository.ErrNotFound, "zone")
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET customer_name = $1, phone = $2, zone_id = $3, product = $4,
			quantity = $5, unit_price = $6, start_date = $7, cadence = $8,
			weekdays = $9, updated_at = $10
		WHERE id = $11
		RETURNING created_at, updated_at`

	err := r.Conn(ctx).QueryRowContext(ctx, query,
		sub.CustomerName,
		sub.Phone,
		sub.ZoneID,
		sub.Product,
		sub.Quantity,
		sub.UnitPrice,
		sub.StartDate,
		sub.Cadence,
		weekdayArray(sub.Weekdays),
		time.Now(),
		sub.ID,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)

	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if isForeignKeyViolation(err) {
		return errors.Wrap(repository.ErrNotFound, "zone")
	}
	return err
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, err := scanSubscription(r.Conn(ctx).QueryRowContext(ctx, subscriptionSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return sub, err
}

func (r *subscriptionRepository) List(ctx context.Context, filter repository.SubscriptionFilter) ([]models.Subscription, error) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(customer_name ILIKE $%d OR phone ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filter.Search+"%")
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.ZoneID != nil {
		conditions = append(conditions, fmt.Sprintf("zone_id = $%d", argCount))
		args = append(args, *filter.ZoneID)
		argCount++
	}

	query := subscriptionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

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

func (r *subscriptionRepository) ListActive(ctx context.Context) ([]models.Subscription, error) {
	return r.query(ctx, subscriptionSelect+` WHERE status = $1 ORDER BY created_at ASC, id ASC`,
		models.SubscriptionStatusActive)
}

func (r *subscriptionRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Subscription, error) {
	rows, err := r.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) (*models.Subscription, error) {
	var updated *models.Subscription
	err := r.Transaction(ctx, func(ctx context.Context) error {
		sub, err := scanSubscription(r.Conn(ctx).QueryRowContext(ctx,
			subscriptionSelect+` WHERE id = $1 FOR UPDATE`, id))
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}

		if !sub.Status.CanTransitionTo(status) {
			return errors.Wrapf(repository.ErrInvalidTransition, "%s to %s", sub.Status, status)
		}

		err = r.Conn(ctx).QueryRowContext(ctx, `
			UPDATE subscriptions
			SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING updated_at`,
			status, time.Now(), id,
		).Scan(&sub.UpdatedAt)
		if err != nil {
			return err
		}

		sub.Status = status
		updated = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *subscriptionRepository) SetVacation(ctx context.Context, id uuid.UUID, start, end models.Date) (*models.Subscription, error) {
	return r.updateVacation(ctx, id, &start, &end)
}

func (r *subscriptionRepository) ClearVacation(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return r.updateVacation(ctx, id, nil, nil)
}

func (r *subscriptionRepository) updateVacation(ctx context.Context, id uuid.UUID, start, end *models.Date) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET vacation_start = $1, vacation_end = $2, updated_at = $3
		WHERE id = $4
		RETURNING id, customer_name, phone, zone_id, product, quantity, unit_price,
			start_date, cadence, weekdays, vacation_start, vacation_end, status,
			created_at, updated_at`

	sub, err := scanSubscription(r.Conn(ctx).QueryRowContext(ctx, query, start, end, time.Now(), id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return sub, err
}
