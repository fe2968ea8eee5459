package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
)

// StreamPrinter writes the latest assistant message of a transcript as it grows.
// Progress annotations are shown until the first answer fragment arrives.
type StreamPrinter struct {
	out io.Writer

	mu       sync.Mutex
	id       string
	printed  string
	thinking string
}

// NewStreamPrinter creates a printer writing to out
func NewStreamPrinter(out io.Writer) *StreamPrinter {
	return &StreamPrinter{out: out}
}

// Observe is a transcript.Observer
func (p *StreamPrinter) Observe(t transcript.Transcript) {
	i := t.LastIndex(func(m entity.Message) bool { return m.Role == entity.RoleAssistant })
	if i < 0 {
		return
	}
	msg := t.At(i)

	p.mu.Lock()
	defer p.mu.Unlock()

	if msg.ID != p.id {
		if p.printed != "" {
			fmt.Fprint(p.out, "\n\n")
		}
		p.id, p.printed, p.thinking = msg.ID, "", ""
	}

	if msg.Content == "" && msg.Thinking != "" && msg.Thinking != p.thinking {
		fmt.Fprintln(p.out, Styles.Dim.Render(msg.Thinking))
		p.thinking = msg.Thinking
	}

	switch {
	case msg.Content == p.printed:
	case strings.HasPrefix(msg.Content, p.printed):
		fmt.Fprint(p.out, msg.Content[len(p.printed):])
	default:
		// content was replaced wholesale
		if p.printed != "" {
			fmt.Fprint(p.out, "\n")
		}
		fmt.Fprint(p.out, msg.Content)
	}
	p.printed = msg.Content
}

// Finish terminates the current line
func (p *StreamPrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		fmt.Fprintln(p.out)
	}
}
