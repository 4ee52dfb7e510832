package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

// Store is the GORM-backed entity store. A Store produced by Transact is
// scoped to that transaction; handle writes land in the same transaction
// as the schedule rows they belong to.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ reminder.Store = (*Store)(nil)

func (s *Store) Transact(ctx context.Context, fn func(tx reminder.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) CreateReminder(ctx context.Context, r *reminder.Reminder) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
}

func (s *Store) UpdateReminder(ctx context.Context, r *reminder.Reminder) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error
}

func (s *Store) DeleteReminder(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&reminder.Reminder{}, id).Error
}

func (s *Store) GetReminder(ctx context.Context, userID, id uint64) (*reminder.Reminder, error) {
	var r reminder.Reminder
	err := s.db.WithContext(ctx).
		Preload("Schedules").
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetReminderForUpdate locks the reminder row for the duration of the
// surrounding transaction, serializing concurrent edits of the same
// reminder.
func (s *Store) GetReminderForUpdate(ctx context.Context, userID, id uint64) (*reminder.Reminder, error) {
	var r reminder.Reminder
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Where("reminder_id = ?", r.ID).
		Order("id asc").
		Find(&r.Schedules).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListReminders(ctx context.Context, userID uint64) ([]reminder.Reminder, error) {
	var rs []reminder.Reminder
	err := s.db.WithContext(ctx).
		Preload("Schedules").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rs).Error
	return rs, err
}

func (s *Store) CreateSchedule(ctx context.Context, sc *reminder.Schedule) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(sc).Error
}

func (s *Store) SaveSchedule(ctx context.Context, sc *reminder.Schedule) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(sc).Error
}

func (s *Store) DeleteSchedules(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&reminder.Schedule{}, ids).Error
}

func (s *Store) GetScheduleForUpdate(ctx context.Context, id uint64) (*reminder.Schedule, error) {
	var sc reminder.Schedule
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// ScheduleForDispatch loads a schedule and its owning reminder for the
// delivery path. No lock: the worker only reads here, ConfirmDelivery
// does the locked write.
func (s *Store) ScheduleForDispatch(ctx context.Context, scheduleID uint64) (*reminder.Schedule, *reminder.Reminder, error) {
	var sc reminder.Schedule
	if err := s.db.WithContext(ctx).First(&sc, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, reminder.ErrNotFound
		}
		return nil, nil, err
	}

	var r reminder.Reminder
	if err := s.db.WithContext(ctx).First(&r, sc.ReminderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, reminder.ErrNotFound
		}
		return nil, nil, err
	}
	return &sc, &r, nil
}

func (s *Store) GetOwnedScheduleForUpdate(ctx context.Context, userID, id uint64) (*reminder.Schedule, error) {
	var sc reminder.Schedule
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}
