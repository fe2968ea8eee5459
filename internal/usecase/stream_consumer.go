package usecase

import (
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
)

// ApplyStreamEvent folds one stream event into the assistant message identified by id.
// It returns the new transcript and, when the final event asks for supervisor review,
// the notification for the approval inbox. threadID is used when the event does not
// carry its own thread id.
func ApplyStreamEvent(t transcript.Transcript, id, threadID string, ev entity.StreamEvent) (transcript.Transcript, *entity.PendingReview) {
	var review *entity.PendingReview

	next := t.Replace(id, func(m entity.Message) entity.Message {
		switch ev.Type {
		case entity.EventThinking, entity.EventTool:
			m.Thinking = ev.Annotation()

		case entity.EventAnswer:
			m.Content += ev.Content

		case entity.EventFinal:
			if ev.Content != "" {
				m.Content = ev.Content
			}
			m.Thinking = ""
			if ev.Status == entity.FinalPendingReview {
				m.Status, _ = m.Status.Advance(entity.StatusPendingReview)
				if m.Status == entity.StatusPendingReview {
					tid := ev.ThreadID
					if tid == "" {
						tid = threadID
					}
					review = &entity.PendingReview{
						ThreadID:  tid,
						MessageID: m.ID,
						Summary:   m.Content,
					}
				}
			} else {
				m.Status, _ = m.Status.Advance(entity.StatusCompleted)
			}
		}
		return m
	})

	return next, review
}

// ApplyTransportFailure replaces the target message content with the fixed error text.
func ApplyTransportFailure(t transcript.Transcript, id string) transcript.Transcript {
	return t.Replace(id, func(m entity.Message) entity.Message {
		m.Content = domain.TransportFailureText
		return m
	})
}

// StartTurn appends the user message and the empty assistant message that the stream
// will fill. It returns the new transcript and the assistant message id.
func StartTurn(t transcript.Transcript, input string) (transcript.Transcript, string) {
	user := entity.NewMessage(entity.RoleUser, input, entity.StatusNone)
	assistant := entity.NewMessage(entity.RoleAssistant, "", entity.StatusNone)
	return t.Append(user, assistant), assistant.ID
}
