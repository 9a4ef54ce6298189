// Package jobs schedules and runs background work such as materializing the
// next day's deliveries
package jobs

import (
	"context"
	"milkroute/internal/logger"
	"milkroute/internal/metrics"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config represents the schedule of a job
type Config struct {
	// Schedule in cron format (e.g. "0 20 * * *" for 20:00 every day)
	Schedule string `json:"schedule"`
	// Enabled determines if the job should run on schedule
	Enabled bool `json:"enabled"`
}

// Job is the interface that all background jobs must implement
type Job interface {
	// Name returns the unique name of the job
	Name() string
	// Run executes the job once
	Run(ctx context.Context) error
	// GetConfig returns the job's configuration
	GetConfig() Config
}

// Manager handles the scheduling and execution of jobs
type Manager struct {
	jobs    []Job
	cron    *cron.Cron
	metrics *metrics.Recorder
	log     *logrus.Entry
	wg      sync.WaitGroup
}

// NewManager creates a new job manager
func NewManager(rec *metrics.Recorder) *Manager {
	log := logger.WithComponent("jobs")
	cronLog := cron.PrintfLogger(log)

	// Standard five field specs, scheduled runs never overlap
	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow,
		)),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &Manager{
		jobs:    make([]Job, 0),
		cron:    c,
		metrics: rec,
		log:     log,
	}
}

// Register adds a job to the manager
func (m *Manager) Register(j Job) {
	m.jobs = append(m.jobs, j)
}

// GetJob returns a job by name
func (m *Manager) GetJob(name string) (Job, bool) {
	for _, j := range m.jobs {
		if j.Name() == name {
			return j, true
		}
	}
	return nil, false
}

// Names returns the registered job names in registration order
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		names = append(names, j.Name())
	}
	return names
}

// RunJob executes a specific job by name and waits for it to finish
func (m *Manager) RunJob(ctx context.Context, name string) error {
	job, err := m.lookup(name)
	if err != nil {
		return err
	}
	return m.run(ctx, job)
}

// Trigger starts a job in the background. It fails fast when the job is
// unknown or disabled. Use Wait to block until triggered runs are done.
func (m *Manager) Trigger(name string) error {
	job, err := m.lookup(name)
	if err != nil {
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		// The run outlives the request that triggered it
		_ = m.run(context.Background(), job)
	}()
	return nil
}

// Wait blocks until all triggered runs have returned
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) lookup(name string) (Job, error) {
	job, found := m.GetJob(name)
	if !found {
		return nil, errors.Wrapf(ErrJobNotFound, "%q", name)
	}
	if !job.GetConfig().Enabled {
		return nil, errors.Wrapf(ErrJobDisabled, "%q", name)
	}
	return job, nil
}

func (m *Manager) run(ctx context.Context, job Job) error {
	log := m.log.WithField("job", job.Name())
	log.Info("Job started")

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	m.metrics.JobRun(job.Name(), err, elapsed)

	if err != nil {
		log.WithError(err).WithField("duration", elapsed.String()).Error("Job failed")
		return err
	}
	log.WithField("duration", elapsed.String()).Info("Job finished")
	return nil
}

// Start schedules all enabled jobs and blocks until ctx is cancelled
func (m *Manager) Start(ctx context.Context) error {
	for _, j := range m.jobs {
		config := j.GetConfig()
		if !config.Enabled {
			m.log.Infof("Job %s is disabled, skipping scheduler", j.Name())
			continue
		}

		if config.Schedule == "" {
			return errors.Newf("job %s has no schedule configured", j.Name())
		}

		// Create a closure to capture the job
		job := j
		_, err := m.cron.AddFunc(config.Schedule, func() {
			_ = m.run(ctx, job)
		})
		if err != nil {
			return errors.Wrapf(err, "failed to schedule job %s", j.Name())
		}

		m.log.Infof("Scheduled job %s with schedule %s", j.Name(), config.Schedule)
	}

	// Start the cron scheduler
	m.cron.Start()
	m.log.Info("Job scheduler started")

	// Wait for context cancellation
	<-ctx.Done()
	m.log.Info("Stopping job scheduler...")
	<-m.cron.Stop().Done()

	return nil
}
