package reminder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// In-memory fakes for the Store, Executor and Directory capabilities.

type fakeStore struct {
	nextID    uint64
	reminders map[uint64]*Reminder
	schedules map[uint64]*Schedule
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reminders: map[uint64]*Reminder{},
		schedules: map[uint64]*Schedule{},
	}
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneSchedule(s *Schedule) Schedule {
	cp := *s
	cp.EmailJobID = cloneStr(s.EmailJobID)
	cp.SmsJobID = cloneStr(s.SmsJobID)
	cp.CallJobID = cloneStr(s.CallJobID)
	return cp
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(f)
}

func (f *fakeStore) CreateReminder(_ context.Context, r *Reminder) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	cp.Schedules = nil
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateReminder(_ context.Context, r *Reminder) error {
	if _, ok := f.reminders[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	cp.Schedules = nil
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteReminder(_ context.Context, id uint64) error {
	delete(f.reminders, id)
	return nil
}

func (f *fakeStore) schedulesOf(reminderID uint64) []Schedule {
	var out []Schedule
	for _, s := range f.schedules {
		if s.ReminderID == reminderID {
			out = append(out, cloneSchedule(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) getReminder(userID, id uint64) (*Reminder, error) {
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *r
	cp.Schedules = f.schedulesOf(id)
	return &cp, nil
}

func (f *fakeStore) GetReminder(_ context.Context, userID, id uint64) (*Reminder, error) {
	return f.getReminder(userID, id)
}

func (f *fakeStore) GetReminderForUpdate(_ context.Context, userID, id uint64) (*Reminder, error) {
	return f.getReminder(userID, id)
}

func (f *fakeStore) ListReminders(_ context.Context, userID uint64) ([]Reminder, error) {
	var out []Reminder
	for _, r := range f.reminders {
		if r.UserID != userID {
			continue
		}
		cp := *r
		cp.Schedules = f.schedulesOf(r.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateSchedule(_ context.Context, s *Schedule) error {
	f.nextID++
	s.ID = f.nextID
	cp := cloneSchedule(s)
	f.schedules[s.ID] = &cp
	return nil
}

func (f *fakeStore) SaveSchedule(_ context.Context, s *Schedule) error {
	if _, ok := f.schedules[s.ID]; !ok {
		return ErrNotFound
	}
	cp := cloneSchedule(s)
	f.schedules[s.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteSchedules(_ context.Context, ids []uint64) error {
	for _, id := range ids {
		delete(f.schedules, id)
	}
	return nil
}

func (f *fakeStore) GetScheduleForUpdate(_ context.Context, id uint64) (*Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneSchedule(s)
	return &cp, nil
}

func (f *fakeStore) GetOwnedScheduleForUpdate(_ context.Context, userID, id uint64) (*Schedule, error) {
	s, ok := f.schedules[id]
	if !ok || s.UserID != userID {
		return nil, ErrNotFound
	}
	cp := cloneSchedule(s)
	return &cp, nil
}

// seedReminder plants a reminder row directly, bypassing the service.
func (f *fakeStore) seedReminder(userID uint64, channels []string) *Reminder {
	f.nextID++
	r := &Reminder{ID: f.nextID, UserID: userID, Name: "seeded", Message: "seeded", Channels: channels}
	f.reminders[r.ID] = r
	return r
}

func (f *fakeStore) seedSchedule(r *Reminder, sent bool, handles map[Channel]string) *Schedule {
	f.nextID++
	s := &Schedule{
		ID:         f.nextID,
		ReminderID: r.ID,
		UserID:     r.UserID,
		Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TimeOfDay:  9 * time.Hour,
		Sent:       sent,
	}
	for ch, h := range handles {
		hc := h
		s.SetJobHandle(ch, &hc)
	}
	f.schedules[s.ID] = s
	return s
}

type fakeExecutor struct {
	enqueues   []Work
	delays     []time.Duration
	handles    []string
	cancelled  []string
	outcomes   map[string]CancelOutcome
	enqueueErr map[Channel]error
}

func (f *fakeExecutor) Enqueue(_ context.Context, w Work, d time.Duration) (string, error) {
	if err := f.enqueueErr[w.Channel]; err != nil {
		return "", err
	}
	h := fmt.Sprintf("job-%d", len(f.handles)+1)
	f.enqueues = append(f.enqueues, w)
	f.delays = append(f.delays, d)
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakeExecutor) Cancel(_ context.Context, h string) (CancelOutcome, error) {
	f.cancelled = append(f.cancelled, h)
	if o, ok := f.outcomes[h]; ok {
		return o, nil
	}
	return CancelOutcomeCancelled, nil
}

type fakeDirectory struct {
	contacts map[uint64]Contact
	err      error
}

func (f *fakeDirectory) Contact(_ context.Context, id uint64) (Contact, error) {
	if f.err != nil {
		return Contact{}, f.err
	}
	return f.contacts[id], nil
}

func newTestService(st *fakeStore, exec *fakeExecutor, dir *fakeDirectory) *Service {
	return NewService(st, exec, dir, nil, zerolog.Nop())
}

func fullContact() *fakeDirectory {
	return &fakeDirectory{contacts: map[uint64]Contact{
		1: {Email: "user@example.com", Phone: "+15550001111"},
	}}
}
