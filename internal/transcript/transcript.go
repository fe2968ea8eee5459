// Package transcript holds the ordered conversation and the single-writer store that
// serializes every update to it.
package transcript

import (
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// Transcript is an immutable ordered list of messages. Every mutating method returns a
// new Transcript and leaves the receiver untouched.
type Transcript struct {
	messages []entity.Message
}

// New builds a transcript from msgs (copied)
func New(msgs ...entity.Message) Transcript {
	return Transcript{messages: clone(msgs)}
}

// Messages returns a copy of the ordered messages
func (t Transcript) Messages() []entity.Message {
	return clone(t.messages)
}

// Len returns the number of messages
func (t Transcript) Len() int {
	return len(t.messages)
}

// At returns the i-th message
func (t Transcript) At(i int) entity.Message {
	return t.messages[i]
}

// Last returns the tail message, if any
func (t Transcript) Last() (entity.Message, bool) {
	if len(t.messages) == 0 {
		return entity.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Find returns the message with the given id
func (t Transcript) Find(id string) (entity.Message, bool) {
	for _, m := range t.messages {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Message{}, false
}

// Append returns a transcript with msgs added at the end
func (t Transcript) Append(msgs ...entity.Message) Transcript {
	out := make([]entity.Message, 0, len(t.messages)+len(msgs))
	out = append(out, t.messages...)
	out = append(out, msgs...)
	return Transcript{messages: out}
}

// Replace returns a transcript in which the message with the given id is substituted by
// fn(message). Other messages are carried over as-is. Unknown ids yield an equal transcript.
func (t Transcript) Replace(id string, fn func(entity.Message) entity.Message) Transcript {
	idx := -1
	for i, m := range t.messages {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t
	}
	out := clone(t.messages)
	out[idx] = fn(out[idx])
	return Transcript{messages: out}
}

// LastIndex scans from the end and returns the index of the latest message matching pred,
// or -1.
func (t Transcript) LastIndex(pred func(entity.Message) bool) int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if pred(t.messages[i]) {
			return i
		}
	}
	return -1
}

// LatestPending returns the most recent message in pending_review
func (t Transcript) LatestPending() (entity.Message, bool) {
	i := t.LastIndex(func(m entity.Message) bool {
		return m.Status == entity.StatusPendingReview
	})
	if i < 0 {
		return entity.Message{}, false
	}
	return t.messages[i], true
}

// PendingCount returns how many messages are in pending_review
func (t Transcript) PendingCount() int {
	n := 0
	for _, m := range t.messages {
		if m.Status == entity.StatusPendingReview {
			n++
		}
	}
	return n
}

// InputLocked reports whether user input must be refused: the tail is an assistant
// message awaiting review.
func (t Transcript) InputLocked() bool {
	last, ok := t.Last()
	return ok && last.IsPendingAssistant()
}

func clone(msgs []entity.Message) []entity.Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]entity.Message, len(msgs))
	copy(out, msgs)
	return out
}
