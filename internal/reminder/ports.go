package reminder

import (
	"context"
	"time"
)

// Store is the transactional entity store the coordinator runs against.
// Transact scopes fn to one durable transaction; every mutation a
// lifecycle operation makes (rows and job handles alike) goes through
// the tx-scoped Store it receives.
type Store interface {
	Transact(ctx context.Context, fn func(tx Store) error) error

	CreateReminder(ctx context.Context, r *Reminder) error
	UpdateReminder(ctx context.Context, r *Reminder) error
	DeleteReminder(ctx context.Context, id uint64) error
	GetReminder(ctx context.Context, userID, id uint64) (*Reminder, error)
	GetReminderForUpdate(ctx context.Context, userID, id uint64) (*Reminder, error)
	ListReminders(ctx context.Context, userID uint64) ([]Reminder, error)

	CreateSchedule(ctx context.Context, s *Schedule) error
	SaveSchedule(ctx context.Context, s *Schedule) error
	DeleteSchedules(ctx context.Context, ids []uint64) error
	GetScheduleForUpdate(ctx context.Context, id uint64) (*Schedule, error)
	GetOwnedScheduleForUpdate(ctx context.Context, userID, id uint64) (*Schedule, error)
}

// Work identifies one deferred delivery: which schedule, which channel.
// The executor hands it back verbatim at fire time.
type Work struct {
	ScheduleID uint64  `json:"schedule_id"`
	ReminderID uint64  `json:"reminder_id"`
	UserID     uint64  `json:"user_id"`
	Channel    Channel `json:"channel"`
}

// CancelOutcome reports what cancelling a handle actually did.
type CancelOutcome int

const (
	CancelOutcomeCancelled CancelOutcome = iota
	// CancelOutcomeAlreadyRan means the job already fired (or is firing);
	// too late to cancel, not an error.
	CancelOutcomeAlreadyRan
	// CancelOutcomeUnknown means the executor has no record of the
	// handle; treated as already consumed.
	CancelOutcomeUnknown
)

func (o CancelOutcome) String() string {
	switch o {
	case CancelOutcomeCancelled:
		return "cancelled"
	case CancelOutcomeAlreadyRan:
		return "already_ran"
	default:
		return "unknown"
	}
}

// Executor is the deferred job collaborator. Enqueue runs the work once
// at or after the delay; a non-positive delay means as soon as possible.
// Cancel is safe to call any number of times and never errors merely
// because the job already ran.
type Executor interface {
	Enqueue(ctx context.Context, work Work, delay time.Duration) (handle string, err error)
	Cancel(ctx context.Context, handle string) (CancelOutcome, error)
}

// Contact holds a user's verified notification addresses. A zero field
// means no verified contact exists for that transport.
type Contact struct {
	Email string
	Phone string
}

// Address returns the contact field a channel delivers to.
func (c Contact) Address(ch Channel) string {
	switch ch {
	case ChannelEmail:
		return c.Email
	case ChannelSMS, ChannelCall:
		return c.Phone
	}
	return ""
}

// Directory resolves a user to their verified contacts.
type Directory interface {
	Contact(ctx context.Context, userID uint64) (Contact, error)
}

// ListCache is an optional read cache for per-user reminder lists.
type ListCache interface {
	GetList(ctx context.Context, userID uint64) ([]Reminder, bool)
	SetList(ctx context.Context, userID uint64, rs []Reminder)
	Invalidate(ctx context.Context, userID uint64)
}
