package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

// Queue is the database-backed deferred job executor. It satisfies
// reminder.Executor: Enqueue returns an opaque uuid handle, Cancel flips
// a still-pending job to CANCELLED and reports what actually happened.
type Queue struct {
	DB *gorm.DB
}

var _ reminder.Executor = (*Queue)(nil)

func (q *Queue) Enqueue(ctx context.Context, work reminder.Work, delay time.Duration) (string, error) {
	payload, err := json.Marshal(work)
	if err != nil {
		return "", fmt.Errorf("marshal work: %w", err)
	}

	// Non-positive delays pass through: run_at lands in the past and the
	// next claim picks the job up immediately.
	j := Job{
		Handle:  uuid.NewString(),
		UserID:  work.UserID,
		Type:    TypeReminderDispatch,
		Payload: payload,
		RunAt:   time.Now().Add(delay),
		Status:  StatusPending,
	}
	if err := q.DB.WithContext(ctx).Create(&j).Error; err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	return j.Handle, nil
}

func (q *Queue) Cancel(ctx context.Context, handle string) (reminder.CancelOutcome, error) {
	res := q.DB.WithContext(ctx).Exec(
		`update jobs set status=?, updated_at=now() where handle=? and status=?`,
		StatusCancelled, handle, StatusPending,
	)
	if res.Error != nil {
		return reminder.CancelOutcomeUnknown, fmt.Errorf("cancel job: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return reminder.CancelOutcomeCancelled, nil
	}

	var j Job
	err := q.DB.WithContext(ctx).Select("status").Where("handle = ?", handle).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reminder.CancelOutcomeUnknown, nil
	}
	if err != nil {
		return reminder.CancelOutcomeUnknown, fmt.Errorf("cancel job: %w", err)
	}
	return reminder.CancelOutcomeAlreadyRan, nil
}
