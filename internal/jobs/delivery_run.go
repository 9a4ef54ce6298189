package jobs

import (
	"context"
	"milkroute/internal/config"
	"milkroute/internal/logger"
	"milkroute/internal/metrics"
	"milkroute/internal/models"
	"milkroute/internal/schedule"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DeliveryRunJobName is the name of the delivery run job
const DeliveryRunJobName = "delivery-run"

// SubscriptionLister loads the subscriptions that may deliver
type SubscriptionLister interface {
	ListActive(ctx context.Context) ([]models.Subscription, error)
}

// DeliveryWriter persists deliveries, skipping ones that already exist
type DeliveryWriter interface {
	CreateBatch(ctx context.Context, deliveries []models.Delivery) (int, error)
}

// DeliveryRunJob materializes the deliveries of a day from the active
// subscriptions. Running it twice for the same day creates nothing new.
type DeliveryRunJob struct {
	subscriptions SubscriptionLister
	deliveries    DeliveryWriter
	config        Config
	leadDays      int
	location      *time.Location
	metrics       *metrics.Recorder
	now           func() time.Time
}

// NewDeliveryRunJob creates the job. Days are counted in loc.
func NewDeliveryRunJob(
	subscriptions SubscriptionLister,
	deliveries DeliveryWriter,
	cfg config.JobsConfig,
	loc *time.Location,
	rec *metrics.Recorder,
) *DeliveryRunJob {
	if loc == nil {
		loc = time.UTC
	}
	return &DeliveryRunJob{
		subscriptions: subscriptions,
		deliveries:    deliveries,
		config: Config{
			Schedule: cfg.DeliveryRunSchedule,
			Enabled:  cfg.DeliveryRunEnabled,
		},
		leadDays: cfg.DeliveryLeadDays,
		location: loc,
		metrics:  rec,
		now:      time.Now,
	}
}

// Name returns the job's unique identifier
func (j *DeliveryRunJob) Name() string {
	return DeliveryRunJobName
}

// GetConfig returns the job's configuration
func (j *DeliveryRunJob) GetConfig() Config {
	return j.config
}

// TargetDate is the day a run started now would plan
func (j *DeliveryRunJob) TargetDate() models.Date {
	return models.DateOf(j.now().In(j.location)).AddDays(j.leadDays)
}

// Run plans the deliveries of TargetDate
func (j *DeliveryRunJob) Run(ctx context.Context) error {
	_, err := j.RunFor(ctx, j.TargetDate())
	return err
}

// RunFor plans the deliveries of date and returns how many were created
func (j *DeliveryRunJob) RunFor(ctx context.Context, date models.Date) (int, error) {
	subs, err := j.subscriptions.ListActive(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list active subscriptions")
	}

	batch := lo.FilterMap(subs, func(sub models.Subscription, _ int) (models.Delivery, bool) {
		if !schedule.IsDeliveryDay(&sub, date) {
			return models.Delivery{}, false
		}
		return models.Delivery{
			SubscriptionID: sub.ID,
			ZoneID:         sub.ZoneID,
			DeliveryDate:   date,
			Product:        sub.Product,
			Quantity:       sub.Quantity,
			Amount:         sub.UnitPrice.Mul(decimal.NewFromInt(int64(sub.Quantity))),
			Status:         models.DeliveryStatusScheduled,
		}, true
	})

	created, err := j.deliveries.CreateBatch(ctx, batch)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create deliveries for %s", date)
	}
	j.metrics.DeliveriesScheduled(created)

	logger.WithComponent("jobs").WithFields(logrus.Fields{
		"date":          date.String(),
		"subscriptions": len(subs),
		"due":           len(batch),
		"created":       created,
	}).Info("Delivery run complete")

	return created, nil
}
