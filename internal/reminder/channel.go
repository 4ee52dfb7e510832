package reminder

// Channel is a notification transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelCall  Channel = "call"
)

// AllChannels returns every supported channel in a stable order.
func AllChannels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelCall}
}

// ParseChannel maps a wire string onto a known channel.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(s) {
	case ChannelEmail, ChannelSMS, ChannelCall:
		return Channel(s), true
	}
	return "", false
}

// EnabledChannels returns the reminder's channel set, dropping anything
// unrecognized that may have leaked into the column.
func (r *Reminder) EnabledChannels() []Channel {
	out := make([]Channel, 0, len(r.Channels))
	for _, s := range r.Channels {
		if ch, ok := ParseChannel(s); ok {
			out = append(out, ch)
		}
	}
	return out
}

// JobHandle returns a copy of the handle currently responsible for the
// channel on this schedule, nil if none.
func (s *Schedule) JobHandle(ch Channel) *string {
	switch ch {
	case ChannelEmail:
		return s.EmailJobID
	case ChannelSMS:
		return s.SmsJobID
	case ChannelCall:
		return s.CallJobID
	}
	return nil
}

// SetJobHandle stores (or clears, with nil) the handle for the channel.
func (s *Schedule) SetJobHandle(ch Channel, handle *string) {
	switch ch {
	case ChannelEmail:
		s.EmailJobID = handle
	case ChannelSMS:
		s.SmsJobID = handle
	case ChannelCall:
		s.CallJobID = handle
	}
}
