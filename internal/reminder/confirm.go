package reminder

import (
	"context"
	"errors"
	"fmt"
)

// ConfirmDelivery records the outcome of a send attempt for one
// schedule/channel. It is called by the delivery path strictly after the
// attempt completed, and it is idempotent: a repeated confirmation for a
// schedule whose flag is already set is a no-op.
//
// The channel's handle is cleared either way since the job behind it has
// been consumed. On failure the sent flag stays false and the failure is
// surfaced to the operator log; there is no automatic redelivery.
func (s *Service) ConfirmDelivery(ctx context.Context, scheduleID uint64, ch Channel, succeeded bool) error {
	var owner uint64
	var delivered bool

	err := s.store.Transact(ctx, func(tx Store) error {
		sc, err := tx.GetScheduleForUpdate(ctx, scheduleID)
		if errors.Is(err, ErrNotFound) {
			// The schedule was deleted while its job was in flight. The
			// uncancelled job sent one extra notification; nothing to
			// record against.
			s.log.Warn().
				Uint64("schedule_id", scheduleID).
				Str("channel", string(ch)).
				Msg("confirm for missing schedule, row deleted mid-flight")
			return nil
		}
		if err != nil {
			return err
		}

		if succeeded && sc.Sent && sc.JobHandle(ch) == nil {
			// Duplicate confirmation, e.g. an executor-level retry.
			s.log.Debug().
				Uint64("schedule_id", scheduleID).
				Str("channel", string(ch)).
				Msg("duplicate delivery confirmation ignored")
			return nil
		}

		sc.SetJobHandle(ch, nil)
		if succeeded {
			if !sc.Sent {
				sc.Sent = true
				delivered = true
				owner = sc.UserID
			}
		} else {
			s.log.Error().
				Uint64("schedule_id", scheduleID).
				Uint64("reminder_id", sc.ReminderID).
				Str("channel", string(ch)).
				Msg("delivery failed, schedule left eligible for manual intervention")
		}
		return tx.SaveSchedule(ctx, sc)
	})
	if err != nil {
		return fmt.Errorf("confirm delivery for schedule %d: %w", scheduleID, err)
	}

	if delivered {
		s.invalidate(ctx, owner)
	}
	return nil
}
