package jobs

import (
	"context"
	"milkroute/internal/metrics"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name   string
	config Config
	runs   atomic.Int32
	err    error
}

func (j *stubJob) Name() string      { return j.name }
func (j *stubJob) GetConfig() Config { return j.config }
func (j *stubJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestManager_RunJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(metrics.NewRecorder(reg))

	ok := &stubJob{name: "ok", config: Config{Schedule: "* * * * *", Enabled: true}}
	failing := &stubJob{name: "failing", config: Config{Schedule: "* * * * *", Enabled: true}, err: errors.New("boom")}
	disabled := &stubJob{name: "disabled", config: Config{Schedule: "* * * * *"}}
	m.Register(ok)
	m.Register(failing)
	m.Register(disabled)

	assert.Equal(t, []string{"ok", "failing", "disabled"}, m.Names())

	tests := []struct {
		name    string
		job     string
		wantErr error
	}{
		{name: "Success", job: "ok"},
		{name: "Job Error", job: "failing", wantErr: failing.err},
		{name: "Unknown Job", job: "missing", wantErr: ErrJobNotFound},
		{name: "Disabled Job", job: "disabled", wantErr: ErrJobDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.RunJob(context.Background(), tt.job)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(0), disabled.runs.Load())

	// One success series and one failure series
	families, err := reg.Gather()
	require.NoError(t, err)
	series := 0
	for _, mf := range families {
		if mf.GetName() == "milkroute_job_runs_total" {
			series = len(mf.GetMetric())
		}
	}
	assert.Equal(t, 2, series)
}

func TestManager_Trigger(t *testing.T) {
	m := NewManager(nil)
	job := &stubJob{name: "bg", config: Config{Schedule: "* * * * *", Enabled: true}}
	m.Register(job)

	require.NoError(t, m.Trigger("bg"))
	m.Wait()
	assert.Equal(t, int32(1), job.runs.Load())

	require.ErrorIs(t, m.Trigger("nope"), ErrJobNotFound)
}

func TestManager_Start(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		m := NewManager(nil)
		m.Register(&stubJob{name: "a", config: Config{Schedule: "0 3 * * *", Enabled: true}})
		m.Register(&stubJob{name: "b", config: Config{Enabled: false}})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- m.Start(ctx) }()

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	})

	t.Run("rejects a missing schedule", func(t *testing.T) {
		m := NewManager(nil)
		m.Register(&stubJob{name: "a", config: Config{Enabled: true}})
		err := m.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schedule")
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		m := NewManager(nil)
		m.Register(&stubJob{name: "a", config: Config{Schedule: "every day", Enabled: true}})
		err := m.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to schedule job a")
	})
}
