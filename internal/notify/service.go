package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

// ErrSendFailed marks a delivery attempt that ran and failed, as opposed
// to one that could not be made yet.
var ErrSendFailed = errors.New("send failed")

// Sender delivers one message over a single channel.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ScheduleSource loads the schedule and its owning reminder for a
// dispatch. A reminder.ErrNotFound means the row vanished after the job
// was enqueued.
type ScheduleSource interface {
	ScheduleForDispatch(ctx context.Context, scheduleID uint64) (*reminder.Schedule, *reminder.Reminder, error)
}

type confirmer interface {
	ConfirmDelivery(ctx context.Context, scheduleID uint64, ch reminder.Channel, succeeded bool) error
}

type directory interface {
	Contact(ctx context.Context, userID uint64) (reminder.Contact, error)
}

// Service is what the executor invokes at fire time: load state, resolve
// the verified contact, run the channel adapter, then confirm the
// outcome exactly once.
type Service struct {
	source  ScheduleSource
	dir     directory
	confirm confirmer
	senders map[reminder.Channel]Sender
	log     zerolog.Logger
}

func NewService(
	source ScheduleSource,
	dir directory,
	confirm confirmer,
	senders map[reminder.Channel]Sender,
	log zerolog.Logger,
) *Service {
	return &Service{source: source, dir: dir, confirm: confirm, senders: senders, log: log}
}

func (s *Service) Deliver(ctx context.Context, work reminder.Work) error {
	sc, r, err := s.source.ScheduleForDispatch(ctx, work.ScheduleID)
	if errors.Is(err, reminder.ErrNotFound) {
		// Deleted while the job was pending; the cancel was too late and
		// there is nothing left to notify about.
		s.log.Debug().
			Uint64("schedule_id", work.ScheduleID).
			Str("channel", string(work.Channel)).
			Msg("schedule gone, job consumed without sending")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load schedule %d: %w", work.ScheduleID, err)
	}

	contact, err := s.dir.Contact(ctx, work.UserID)
	if err != nil {
		return fmt.Errorf("resolve contact for user %d: %w", work.UserID, err)
	}
	to := contact.Address(work.Channel)
	if to == "" {
		// The contact was verified at enqueue time but is gone now.
		s.log.Warn().
			Uint64("schedule_id", work.ScheduleID).
			Str("channel", string(work.Channel)).
			Msg("no verified contact at fire time, skipping")
		return nil
	}

	sender, ok := s.senders[work.Channel]
	if !ok {
		return fmt.Errorf("%w: no sender configured for channel %s", ErrSendFailed, work.Channel)
	}

	body := fmt.Sprintf("Reminder: %s - Scheduled for %s.",
		r.Message, sc.FireAt().Format("January 02, 2006 at 3:04 PM"))

	sendErr := sender.Send(ctx, to, r.Name, body)
	if cerr := s.confirm.ConfirmDelivery(ctx, work.ScheduleID, work.Channel, sendErr == nil); cerr != nil {
		s.log.Error().Err(cerr).
			Uint64("schedule_id", work.ScheduleID).
			Str("channel", string(work.Channel)).
			Msg("delivery confirmation failed")
	}

	if sendErr != nil {
		return fmt.Errorf("%w: %s to user %d: %v", ErrSendFailed, work.Channel, work.UserID, sendErr)
	}

	s.log.Info().
		Uint64("schedule_id", work.ScheduleID).
		Uint64("reminder_id", r.ID).
		Str("channel", string(work.Channel)).
		Msg("notification sent")
	return nil
}
