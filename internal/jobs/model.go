package jobs

import "time"

const TypeReminderDispatch = "REMINDER_DISPATCH"

const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusDone      = "DONE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// Job is one deferred unit of work. Handle is the opaque token callers
// keep for cancellation; job ids never leave this package.
type Job struct {
	ID     uint64 `gorm:"primaryKey"`
	Handle string `gorm:"type:text;uniqueIndex;not null"`
	UserID uint64 `gorm:"index;not null"`

	Type    string `gorm:"type:text;not null"`
	Payload []byte `gorm:"type:jsonb;not null;default:'{}'::jsonb"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"`

	// Attempts cover transient claim/read failures only. A job never
	// makes a second delivery attempt.
	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:8"`

	LockedBy *string    `gorm:"type:text"`
	LockedAt *time.Time `gorm:"type:timestamptz"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
