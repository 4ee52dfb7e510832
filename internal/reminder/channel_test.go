package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannel(t *testing.T) {
	for _, want := range AllChannels() {
		got, ok := ParseChannel(string(want))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := ParseChannel("pigeon")
	assert.False(t, ok)
	_, ok = ParseChannel("")
	assert.False(t, ok)
}

func TestEnabledChannelsDropsUnknownValues(t *testing.T) {
	r := &Reminder{Channels: []string{"email", "pager", "call"}}
	assert.Equal(t, []Channel{ChannelEmail, ChannelCall}, r.EnabledChannels())
}

func TestJobHandleRoundTrip(t *testing.T) {
	sc := &Schedule{}
	for _, ch := range AllChannels() {
		assert.Nil(t, sc.JobHandle(ch))
	}

	h := "job-1"
	sc.SetJobHandle(ChannelSMS, &h)
	assert.Equal(t, &h, sc.JobHandle(ChannelSMS))
	assert.Nil(t, sc.JobHandle(ChannelEmail))
	assert.Nil(t, sc.JobHandle(ChannelCall))

	sc.SetJobHandle(ChannelSMS, nil)
	assert.Nil(t, sc.JobHandle(ChannelSMS))
}
