package agent

import "postbot/model"

// Transcript is the append-only conversation history replayed on every
// inference call. It is owned by a single Agent and is not safe for
// concurrent use.
type Transcript struct {
	messages []model.Message
}

// Append adds m at the end of the transcript.
func (t *Transcript) Append(m model.Message) {
	t.messages = append(t.messages, m)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the transcript in chronological order.
func (t *Transcript) Messages() []model.Message {
	out := make([]model.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
