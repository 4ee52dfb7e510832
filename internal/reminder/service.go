package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

const maxFieldLen = 250

// Service is the dispatch coordinator: the single authority keeping
// executor jobs synchronized with reminder and schedule state.
type Service struct {
	store Store
	exec  Executor
	dir   Directory
	cache ListCache // nil disables list caching
	log   zerolog.Logger
}

func NewService(store Store, exec Executor, dir Directory, cache ListCache, log zerolog.Logger) *Service {
	return &Service{store: store, exec: exec, dir: dir, cache: cache, log: log}
}

type ScheduleInput struct {
	Date      time.Time
	TimeOfDay time.Duration
}

type ReminderInput struct {
	Name       string
	Message    string
	Channels   []Channel
	Importance string
	Schedules  []ScheduleInput
}

func (in *ReminderInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if in.Message == "" {
		return fmt.Errorf("%w: message required", ErrValidation)
	}
	if len(in.Name) > maxFieldLen || len(in.Message) > maxFieldLen {
		return fmt.Errorf("%w: name and message must be at most %d characters", ErrValidation, maxFieldLen)
	}
	return nil
}

func channelStrings(chs []Channel) []string {
	out := make([]string, 0, len(chs))
	seen := map[Channel]struct{}{}
	for _, ch := range chs {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, string(ch))
	}
	return out
}

// Create persists a reminder with its schedules and enqueues one job per
// schedule per enabled channel that has a verified contact. Channels the
// user has no verified contact for are skipped silently; an executor
// enqueue failure abandons that single channel/schedule combination
// without failing the request.
func (s *Service) Create(ctx context.Context, userID uint64, in ReminderInput) (uint64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	var id uint64
	err := s.store.Transact(ctx, func(tx Store) error {
		r := &Reminder{
			UserID:     userID,
			Name:       in.Name,
			Message:    in.Message,
			Channels:   channelStrings(in.Channels),
			Importance: in.Importance,
		}
		if err := tx.CreateReminder(ctx, r); err != nil {
			return err
		}
		id = r.ID

		for _, si := range in.Schedules {
			sc := &Schedule{
				ReminderID: r.ID,
				UserID:     userID,
				Date:       si.Date,
				TimeOfDay:  si.TimeOfDay,
			}
			if err := tx.CreateSchedule(ctx, sc); err != nil {
				return err
			}
			if err := s.dispatch(ctx, tx, r, sc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}

	s.invalidate(ctx, userID)
	return id, nil
}

// Update applies a full cancel-and-recreate of the reminder's unsent
// schedules: incoming schedules carry no stable identity, so diffing
// them against stored rows would be guesswork. Sent schedules are left
// untouched; edits never rewrite delivery history.
func (s *Service) Update(ctx context.Context, userID, id uint64, in ReminderInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	err := s.store.Transact(ctx, func(tx Store) error {
		r, err := tx.GetReminderForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		var stale []uint64
		for i := range r.Schedules {
			sc := &r.Schedules[i]
			if sc.Sent {
				continue
			}
			s.cancelHandles(ctx, sc)
			stale = append(stale, sc.ID)
		}
		if len(stale) > 0 {
			if err := tx.DeleteSchedules(ctx, stale); err != nil {
				return err
			}
		}

		r.Name = in.Name
		r.Message = in.Message
		r.Channels = channelStrings(in.Channels)
		r.Importance = in.Importance
		if err := tx.UpdateReminder(ctx, r); err != nil {
			return err
		}

		for _, si := range in.Schedules {
			sc := &Schedule{
				ReminderID: r.ID,
				UserID:     userID,
				Date:       si.Date,
				TimeOfDay:  si.TimeOfDay,
			}
			if err := tx.CreateSchedule(ctx, sc); err != nil {
				return err
			}
			if err := s.dispatch(ctx, tx, r, sc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update reminder %d: %w", id, err)
	}

	s.invalidate(ctx, userID)
	return nil
}

// Delete cancels every outstanding job handle across the reminder's
// schedules, then removes the schedules and the reminder in one
// transaction. An ownership mismatch is indistinguishable from a missing
// row: both come back ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, id uint64) error {
	err := s.store.Transact(ctx, func(tx Store) error {
		r, err := tx.GetReminderForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		ids := make([]uint64, 0, len(r.Schedules))
		for i := range r.Schedules {
			s.cancelHandles(ctx, &r.Schedules[i])
			ids = append(ids, r.Schedules[i].ID)
		}
		if len(ids) > 0 {
			if err := tx.DeleteSchedules(ctx, ids); err != nil {
				return err
			}
		}
		return tx.DeleteReminder(ctx, r.ID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}

	s.invalidate(ctx, userID)
	return nil
}

// DeleteSchedule removes one occurrence without touching the rest of the
// reminder, with the same cancellation discipline as Delete.
func (s *Service) DeleteSchedule(ctx context.Context, userID, scheduleID uint64) error {
	err := s.store.Transact(ctx, func(tx Store) error {
		sc, err := tx.GetOwnedScheduleForUpdate(ctx, userID, scheduleID)
		if err != nil {
			return err
		}
		s.cancelHandles(ctx, sc)
		return tx.DeleteSchedules(ctx, []uint64{sc.ID})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete schedule %d: %w", scheduleID, err)
	}

	s.invalidate(ctx, userID)
	return nil
}

// Acknowledge records that the user has read the notification for a
// schedule.
func (s *Service) Acknowledge(ctx context.Context, userID, scheduleID uint64) error {
	err := s.store.Transact(ctx, func(tx Store) error {
		sc, err := tx.GetOwnedScheduleForUpdate(ctx, userID, scheduleID)
		if err != nil {
			return err
		}
		if sc.Acknowledged {
			return nil
		}
		sc.Acknowledged = true
		return tx.SaveSchedule(ctx, sc)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("acknowledge schedule %d: %w", scheduleID, err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) Get(ctx context.Context, userID, id uint64) (*Reminder, error) {
	r, err := s.store.GetReminder(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reminder %d: %w", id, err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, userID uint64) ([]Reminder, error) {
	if s.cache != nil {
		if rs, ok := s.cache.GetList(ctx, userID); ok {
			return rs, nil
		}
	}

	rs, err := s.store.ListReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	if s.cache != nil {
		s.cache.SetList(ctx, userID, rs)
	}
	return rs, nil
}

// dispatch enqueues one job per enabled channel for the schedule and
// persists the returned handles on the schedule row within the
// surrounding transaction.
func (s *Service) dispatch(ctx context.Context, tx Store, r *Reminder, sc *Schedule) error {
	contact, err := s.dir.Contact(ctx, r.UserID)
	if err != nil {
		// No contacts resolvable: the reminder still exists, nothing
		// gets enqueued.
		s.log.Warn().Err(err).Uint64("user_id", r.UserID).Msg("contact lookup failed, skipping dispatch")
		return nil
	}

	delay := time.Until(sc.FireAt())
	changed := false
	for _, ch := range r.EnabledChannels() {
		if contact.Address(ch) == "" {
			s.log.Debug().
				Uint64("schedule_id", sc.ID).
				Str("channel", string(ch)).
				Msg("no verified contact, channel skipped")
			continue
		}

		handle, err := s.exec.Enqueue(ctx, Work{
			ScheduleID: sc.ID,
			ReminderID: r.ID,
			UserID:     r.UserID,
			Channel:    ch,
		}, delay)
		if err != nil {
			s.log.Error().Err(err).
				Uint64("schedule_id", sc.ID).
				Str("channel", string(ch)).
				Msg("enqueue failed, channel abandoned for this schedule")
			continue
		}
		sc.SetJobHandle(ch, &handle)
		changed = true
	}

	if !changed {
		return nil
	}
	return tx.SaveSchedule(ctx, sc)
}

// cancelHandles cancels every non-null handle on the schedule and clears
// the fields. AlreadyRan and Unknown outcomes mean the job has already
// done its work or no longer needs to; both are logged and ignored.
func (s *Service) cancelHandles(ctx context.Context, sc *Schedule) {
	for _, ch := range AllChannels() {
		h := sc.JobHandle(ch)
		if h == nil {
			continue
		}

		outcome, err := s.exec.Cancel(ctx, *h)
		if err != nil {
			s.log.Error().Err(err).
				Uint64("schedule_id", sc.ID).
				Str("channel", string(ch)).
				Msg("cancel failed")
		} else if outcome != CancelOutcomeCancelled {
			s.log.Debug().
				Uint64("schedule_id", sc.ID).
				Str("channel", string(ch)).
				Str("outcome", outcome.String()).
				Msg("job was already consumed")
		}
		sc.SetJobHandle(ch, nil)
	}
}

func (s *Service) invalidate(ctx context.Context, userID uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
