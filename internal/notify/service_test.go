package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

type fakeSource struct {
	schedule *reminder.Schedule
	reminder *reminder.Reminder
	err      error
}

func (f *fakeSource) ScheduleForDispatch(context.Context, uint64) (*reminder.Schedule, *reminder.Reminder, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.schedule, f.reminder, nil
}

type fakeDirectory struct {
	contact reminder.Contact
	err     error
}

func (f *fakeDirectory) Contact(context.Context, uint64) (reminder.Contact, error) {
	return f.contact, f.err
}

type confirmCall struct {
	scheduleID uint64
	channel    reminder.Channel
	succeeded  bool
}

type fakeConfirmer struct {
	calls []confirmCall
	err   error
}

func (f *fakeConfirmer) ConfirmDelivery(_ context.Context, id uint64, ch reminder.Channel, ok bool) error {
	f.calls = append(f.calls, confirmCall{id, ch, ok})
	return f.err
}

type fakeSender struct {
	to, subject, body string
	err               error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

func fixture() (*fakeSource, *fakeConfirmer, *fakeSender) {
	src := &fakeSource{
		schedule: &reminder.Schedule{
			ID:         7,
			ReminderID: 3,
			UserID:     1,
			Date:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			TimeOfDay:  9 * time.Hour,
		},
		reminder: &reminder.Reminder{ID: 3, UserID: 1, Name: "rent", Message: "Pay rent"},
	}
	return src, &fakeConfirmer{}, &fakeSender{}
}

func testWork() reminder.Work {
	return reminder.Work{ScheduleID: 7, ReminderID: 3, UserID: 1, Channel: reminder.ChannelEmail}
}

func TestDeliverSendsAndConfirmsSuccess(t *testing.T) {
	src, conf, sender := fixture()
	dir := &fakeDirectory{contact: reminder.Contact{Email: "user@example.com"}}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{reminder.ChannelEmail: sender}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", sender.to)
	assert.Equal(t, "rent", sender.subject)
	assert.Equal(t, "Reminder: Pay rent - Scheduled for September 01, 2026 at 9:00 AM.", sender.body)

	require.Len(t, conf.calls, 1)
	assert.Equal(t, confirmCall{7, reminder.ChannelEmail, true}, conf.calls[0])
}

func TestDeliverConfirmsFailureAndReturnsSendFailed(t *testing.T) {
	src, conf, sender := fixture()
	sender.err = errors.New("smtp: connection refused")
	dir := &fakeDirectory{contact: reminder.Contact{Email: "user@example.com"}}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{reminder.ChannelEmail: sender}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.ErrorIs(t, err, ErrSendFailed)

	require.Len(t, conf.calls, 1)
	assert.Equal(t, confirmCall{7, reminder.ChannelEmail, false}, conf.calls[0])
}

func TestDeliverConsumesJobWhenScheduleGone(t *testing.T) {
	_, conf, sender := fixture()
	src := &fakeSource{err: reminder.ErrNotFound}
	dir := &fakeDirectory{contact: reminder.Contact{Email: "user@example.com"}}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{reminder.ChannelEmail: sender}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.NoError(t, err)
	assert.Empty(t, sender.to)
	assert.Empty(t, conf.calls)
}

func TestDeliverSkipsWhenContactRevoked(t *testing.T) {
	src, conf, sender := fixture()
	dir := &fakeDirectory{contact: reminder.Contact{}}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{reminder.ChannelEmail: sender}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.NoError(t, err)
	assert.Empty(t, sender.to)
	assert.Empty(t, conf.calls)
}

func TestDeliverRetryableOnContactLookupError(t *testing.T) {
	src, conf, sender := fixture()
	dir := &fakeDirectory{err: errors.New("db down")}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{reminder.ChannelEmail: sender}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSendFailed)
	assert.Empty(t, conf.calls)
}

func TestDeliverFailsWhenChannelUnconfigured(t *testing.T) {
	src, conf, _ := fixture()
	dir := &fakeDirectory{contact: reminder.Contact{Email: "user@example.com"}}
	svc := NewService(src, dir, conf, map[reminder.Channel]Sender{}, zerolog.Nop())

	err := svc.Deliver(context.Background(), testWork())
	require.ErrorIs(t, err, ErrSendFailed)
	assert.Empty(t, conf.calls)
}
