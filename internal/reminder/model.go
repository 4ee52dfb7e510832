package reminder

import (
	"time"

	"github.com/lib/pq"
)

// Reminder is a user-owned notification intent. A reminder with zero
// schedules is valid and dispatches nothing.
type Reminder struct {
	ID         uint64         `gorm:"primaryKey"`
	UserID     uint64         `gorm:"index;not null"`
	Name       string         `gorm:"type:varchar(250);not null"`
	Message    string         `gorm:"type:varchar(250);not null"`
	Channels   pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Importance string         `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time      `gorm:"not null;default:now()"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()"`

	Schedules []Schedule `gorm:"constraint:OnDelete:CASCADE"`
}

// Schedule is one concrete occurrence of a reminder. Date and TimeOfDay
// are stored separately and composed into one absolute instant at
// dispatch time.
//
// Invariant: a non-null job handle for a channel means exactly one
// pending executor job is responsible for that channel on this schedule.
type Schedule struct {
	ID         uint64        `gorm:"primaryKey"`
	ReminderID uint64        `gorm:"index;not null"`
	UserID     uint64        `gorm:"index;not null"`
	Date       time.Time     `gorm:"not null"`
	TimeOfDay  time.Duration `gorm:"not null;default:0"`

	Sent         bool `gorm:"not null;default:false"`
	Acknowledged bool `gorm:"not null;default:false"`

	// Opaque executor handles, nil when no job is responsible for the
	// channel. Weak references: lookup keys for cancellation only.
	EmailJobID *string `gorm:"type:text"`
	SmsJobID   *string `gorm:"type:text"`
	CallJobID  *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

// FireAt composes the stored date and time-of-day into the instant the
// schedule's notifications are due.
func (s *Schedule) FireAt() time.Time {
	return s.Date.Add(s.TimeOfDay)
}
