package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"09:00", 9 * time.Hour, true},
		{"09:00:00", 9 * time.Hour, true},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second, true},
		{"00:00", 0, true},
		{"9am", 0, false},
		{"25:00", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := parseTimeOfDay(c.in)
		if !c.ok {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestReminderReqToInput(t *testing.T) {
	req := reminderReq{
		Name:     "rent",
		Message:  "Pay rent",
		Channels: []string{"email", "sms"},
		Schedules: []scheduleReq{
			{Date: "2026-09-01", Time: "09:00"},
		},
	}

	in, err := req.toInput()
	require.NoError(t, err)

	assert.Equal(t, []reminder.Channel{reminder.ChannelEmail, reminder.ChannelSMS}, in.Channels)
	require.Len(t, in.Schedules, 1)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), in.Schedules[0].Date)
	assert.Equal(t, 9*time.Hour, in.Schedules[0].TimeOfDay)
}

func TestReminderReqToInputRejectsBadDate(t *testing.T) {
	req := reminderReq{
		Name:      "rent",
		Message:   "Pay rent",
		Schedules: []scheduleReq{{Date: "01/09/2026", Time: "09:00"}},
	}
	_, err := req.toInput()
	assert.Error(t, err)
}
