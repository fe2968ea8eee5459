package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fina-agent/fina-console/internal/domain/entity"
)

func msg(id string, role entity.Role, content string, status entity.Status) entity.Message {
	return entity.Message{ID: id, Role: role, Content: content, Status: status}
}

func TestReplaceMatchesByID(t *testing.T) {
	orig := New(
		msg("a", entity.RoleUser, "hi", entity.StatusNone),
		msg("b", entity.RoleAssistant, "", entity.StatusNone),
		msg("c", entity.RoleUser, "again", entity.StatusNone),
	)

	next := orig.Replace("b", func(m entity.Message) entity.Message {
		m.Content = "hello"
		return m
	})

	require.Equal(t, 3, next.Len())
	assert.Equal(t, "hello", next.At(1).Content)
	assert.Equal(t, "hi", next.At(0).Content)
	assert.Equal(t, "again", next.At(2).Content)

	// the receiver is never mutated
	assert.Equal(t, "", orig.At(1).Content)
}

func TestReplaceUnknownID(t *testing.T) {
	orig := New(msg("a", entity.RoleUser, "hi", entity.StatusNone))
	next := orig.Replace("zzz", func(m entity.Message) entity.Message {
		m.Content = "changed"
		return m
	})
	assert.Equal(t, orig.Messages(), next.Messages())
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := New(msg("a", entity.RoleUser, "hi", entity.StatusNone))
	left := base.Append(msg("l", entity.RoleAssistant, "left", entity.StatusNone))
	right := base.Append(msg("r", entity.RoleAssistant, "right", entity.StatusNone))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "l", left.At(1).ID)
	assert.Equal(t, "r", right.At(1).ID)
}

func TestLatestPending(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []entity.Message
		wantID string
		wantOK bool
	}{
		{
			name:   "empty transcript",
			wantOK: false,
		},
		{
			name: "nothing pending",
			msgs: []entity.Message{
				msg("a", entity.RoleUser, "q", entity.StatusNone),
				msg("b", entity.RoleAssistant, "r", entity.StatusCompleted),
			},
			wantOK: false,
		},
		{
			name: "pending not at tail",
			msgs: []entity.Message{
				msg("a", entity.RoleAssistant, "r", entity.StatusPendingReview),
				msg("b", entity.RoleAssistant, "x", entity.StatusCompleted),
			},
			wantID: "a",
			wantOK: true,
		},
		{
			name: "most recent wins",
			msgs: []entity.Message{
				msg("a", entity.RoleAssistant, "r", entity.StatusPendingReview),
				msg("b", entity.RoleAssistant, "x", entity.StatusPendingReview),
			},
			wantID: "b",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := New(tt.msgs...).LatestPending()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, m.ID)
			}
		})
	}
}

func TestInputLocked(t *testing.T) {
	tests := []struct {
		name string
		msgs []entity.Message
		want bool
	}{
		{name: "empty", want: false},
		{
			name: "assistant pending at tail",
			msgs: []entity.Message{
				msg("a", entity.RoleUser, "q", entity.StatusNone),
				msg("b", entity.RoleAssistant, "r", entity.StatusPendingReview),
			},
			want: true,
		},
		{
			name: "decision appended after pending",
			msgs: []entity.Message{
				msg("b", entity.RoleAssistant, "r", entity.StatusApproved),
				msg("c", entity.RoleAssistant, "ok", entity.StatusCompleted),
			},
			want: false,
		},
		{
			name: "user message at tail",
			msgs: []entity.Message{
				msg("a", entity.RoleUser, "q", entity.StatusPendingReview),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.msgs...).InputLocked())
		})
	}
}
