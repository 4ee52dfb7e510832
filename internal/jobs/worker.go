package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/yashwanthpalsu/YAR/internal/notify"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

// Deliverer performs the channel send for one work item and confirms the
// outcome. It returns nil when the job is consumed (delivered, skipped,
// or pointing at state that no longer exists), notify.ErrSendFailed when
// the single delivery attempt failed, and any other error when the
// attempt could not be made yet and should be retried.
type Deliverer interface {
	Deliver(ctx context.Context, work reminder.Work) error
}

type Worker struct {
	ID           string
	Repo         *Repo
	Deliver      Deliverer
	PollInterval time.Duration
	Log          zerolog.Logger
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.PollInterval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Log.Info().Str("worker_id", w.ID).Msg("dispatch worker started")
	for {
		select {
		case <-ctx.Done():
			w.Log.Info().Str("worker_id", w.ID).Msg("dispatch worker stopped")
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Error().Err(err).Msg("claim failed")
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeReminderDispatch:
		w.handleDispatch(ctx, job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleDispatch(ctx context.Context, job *Job) {
	var work reminder.Work
	if err := json.Unmarshal(job.Payload, &work); err != nil {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	err := w.Deliver.Deliver(ctx, work)
	if err == nil {
		_ = w.Repo.MarkDone(job.ID)
		return
	}

	if errors.Is(err, notify.ErrSendFailed) {
		// The one delivery attempt happened and failed. No redelivery;
		// the failure is on the job row for the operator.
		_ = w.Repo.MarkFailed(job.ID, err.Error())
		return
	}

	w.retry(job, err.Error())
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	w.Log.Warn().
		Uint64("job_id", job.ID).
		Int("attempt", attempts).
		Str("error", errMsg).
		Time("next_run", next).
		Msg("transient dispatch error, retrying")
	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}
