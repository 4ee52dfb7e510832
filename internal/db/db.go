package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/jobs"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&reminder.Reminder{},
		&reminder.Schedule{},
		&jobs.Job{},
		&auth.User{},
	); err != nil {
		return err
	}

	// Schedules must not outlive their reminder.
	if err := gdb.Exec(`
alter table schedules
drop constraint if exists fk_schedules_reminder;
`).Error; err != nil {
		return err
	}
	if err := gdb.Exec(`
alter table schedules
add constraint fk_schedules_reminder
foreign key (reminder_id) references reminders(id) on delete cascade;
`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_schedules_reminder on schedules(reminder_id);`,
		`create index if not exists idx_schedules_user_sent on schedules(user_id, sent);`,
		`create index if not exists idx_reminders_user_created on reminders(user_id, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
