package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
	"github.com/fina-agent/fina-console/internal/transcript"
	"github.com/fina-agent/fina-console/internal/usecase"
)

// UI configuration constants
const (
	defaultInputWidth      = 100
	defaultViewportWidth   = 100
	defaultViewportHeight  = 30
	defaultWindowWidth     = 100
	defaultWindowHeight    = 40
	inputCharLimit         = 10000
	inputHeightReserved    = 2
	statusHeightReserved   = 3
	panelHeightReserved    = 6
	minContentHeight       = 10
	sessionIDDisplayLength = 8
	summaryPreviewLength   = 160
)

// Style definitions
var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

// Options identifies who is chatting and who decides reviews
type Options struct {
	UserID       string
	SupervisorID string
}

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	opts    Options
	store   *transcript.Store
	session *usecase.ChatSession

	// latest committed transcript not yet picked up by the event loop
	updates chan transcript.Transcript
}

// NewChatProgram creates a chat program. The program is the only consumer of the
// store's change notifications.
func NewChatProgram(client domain.AgentClient, opts Options, logger *slog.Logger) *ChatProgram {
	p := &ChatProgram{
		opts:    opts,
		updates: make(chan transcript.Transcript, 1),
	}
	p.store = transcript.NewStore(transcript.WithObserver(p.notify))
	p.session = usecase.NewChatSession(client, p.store, logger)
	return p
}

// notify runs on the store goroutine and must never wait for the event loop.
// An unread transcript is replaced by the newer one.
func (p *ChatProgram) notify(t transcript.Transcript) {
	for {
		select {
		case p.updates <- t:
			return
		default:
		}
		select {
		case <-p.updates:
		default:
		}
	}
}

// Run starts the chat TUI program and blocks until the user quits
func (p *ChatProgram) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer p.store.Close()

	_, err := p.newProgram(ctx, tea.WithAltScreen()).Run()
	return err
}

func (p *ChatProgram) newProgram(ctx context.Context, opts ...tea.ProgramOption) *tea.Program {
	model := initialModel(ctx, p.session, p.opts, p.updates)
	return tea.NewProgram(model, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	// Dependencies
	ctx     context.Context
	session *usecase.ChatSession
	opts    Options
	updates <-chan transcript.Transcript

	// UI components
	input       textinput.Model
	contentView viewport.Model

	// Conversation state, as last committed by the store
	transcript transcript.Transcript
	streaming  bool
	review     *entity.PendingReview
	deciding   bool
	resetting  bool

	// Error state
	err         error
	approvalErr string

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(ctx context.Context, session *usecase.ChatSession, opts Options, updates <-chan transcript.Transcript) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your finances..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	return chatModel{
		ctx:         ctx,
		session:     session,
		opts:        opts,
		updates:     updates,
		input:       input,
		contentView: contentViewport,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForTranscript(m.ctx, m.updates), waitForReview(m.session.Reviews()))
}

// Message type definitions
type (
	transcriptMsg struct{ t transcript.Transcript }
	resetDoneMsg  struct{ threadID string }
	sendDoneMsg   struct{ err error }
	reviewMsg     struct{ review entity.PendingReview }
	decisionMsg   struct {
		decision *entity.ApprovalDecision
		err      error
	}
)

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKeyPress(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case transcriptMsg:
		m.transcript = msg.t
		m.refreshContent()
		cmds = append(cmds, waitForTranscript(m.ctx, m.updates))

	case resetDoneMsg:
		m.resetting = false
		m.transcript = transcript.Transcript{}
		m.review = nil
		m.err = nil
		m.approvalErr = ""
		m.input.Reset()
		m.refreshContent()

	case sendDoneMsg:
		m.streaming = false
		m.err = msg.err
		m.refreshContent()

	case reviewMsg:
		review := msg.review
		m.review = &review
		m.approvalErr = ""
		cmds = append(cmds, waitForReview(m.session.Reviews()))

	case decisionMsg:
		m.deciding = false
		if msg.err != nil {
			m.approvalErr = domain.UserMessage(msg.err)
		} else {
			m.review = nil
			m.approvalErr = ""
		}
		m.refreshContent()
	}

	// the input only takes keys while it is open
	if m.inputOpen() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// inputOpen is the input gate: closed while a turn or reset runs, or while the tail awaits review
func (m chatModel) inputOpen() bool {
	return !m.streaming && !m.resetting && !m.transcript.InputLocked()
}

// handleKeyPress handles keyboard input; handled reports that the key was consumed
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit, true

	case tea.KeyCtrlN:
		if m.streaming || m.deciding || m.resetting {
			return nil, true
		}
		m.resetting = true
		return m.reset(), true

	case tea.KeyEnter:
		if !m.inputOpen() {
			return nil, true
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return nil, true
		}
		m.input.Reset()
		m.streaming = true
		m.err = nil
		return m.send(text), true

	case tea.KeyUp:
		m.contentView.LineUp(1)
		return nil, true

	case tea.KeyDown:
		m.contentView.LineDown(1)
		return nil, true

	case tea.KeyPgUp:
		m.contentView.ViewUp()
		return nil, true

	case tea.KeyPgDown:
		m.contentView.ViewDown()
		return nil, true
	}

	// governance keys act only while the input is locked on a review
	if m.review != nil && !m.inputOpen() && !m.deciding {
		switch msg.String() {
		case "a":
			return m.decide(true), true
		case "r":
			return m.decide(false), true
		}
	}

	return nil, false
}

// reset clears the session off the event loop; the store is never touched from Update
func (m *chatModel) reset() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return resetDoneMsg{threadID: session.Reset()}
	}
}

// send consumes one stream; folds reach the model through the store observer
func (m *chatModel) send(text string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		_, err := session.Send(ctx, text)
		return sendDoneMsg{err: err}
	}
}

// decide submits the supervisor decision for the pending review
func (m *chatModel) decide(approve bool) tea.Cmd {
	if m.opts.SupervisorID == "" {
		m.approvalErr = "no supervisor id configured (run 'finactl login' or set FINA_SUPERVISOR_ID)"
		return nil
	}
	m.deciding = true
	m.approvalErr = ""

	session, ctx, review, opts := m.session, m.ctx, *m.review, m.opts
	return func() tea.Msg {
		decision, err := session.Decide(ctx, review, approve, opts.SupervisorID, opts.UserID, "")
		return decisionMsg{decision: decision, err: err}
	}
}

// waitForTranscript waits for the next committed transcript
func waitForTranscript(ctx context.Context, updates <-chan transcript.Transcript) tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-updates:
			return transcriptMsg{t: t}
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForReview waits for the next approval inbox notification
func waitForReview(reviews <-chan entity.PendingReview) tea.Cmd {
	return func() tea.Msg {
		review, ok := <-reviews
		if !ok {
			return nil
		}
		return reviewMsg{review: review}
	}
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved - panelHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent refreshes the display content
func (m *chatModel) refreshContent() {
	display := renderTranscript(m.transcript)
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("Error: %s", domain.UserMessage(m.err)))
	}

	if m.width > 0 {
		display = m.wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// renderTranscript renders every message in order
func renderTranscript(t transcript.Transcript) string {
	var b strings.Builder
	for _, msg := range t.Messages() {
		b.WriteString("\n")
		if msg.Role == entity.RoleUser {
			b.WriteString(boldStyle.Render("You"))
		} else {
			b.WriteString(accentStyle.Render("Assistant"))
			if badge := statusBadge(msg.Status); badge != "" {
				b.WriteString(" " + badge)
			}
		}
		b.WriteString("\n")

		if msg.Thinking != "" {
			b.WriteString(dimStyle.Render(msg.Thinking))
			b.WriteString("\n")
		}
		if msg.Content != "" {
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusBadge(s entity.Status) string {
	switch s {
	case entity.StatusPendingReview:
		return pendingStyle.Render("[awaiting supervisor review]")
	case entity.StatusApproved:
		return okStyle.Render("[approved]")
	case entity.StatusRejected:
		return errorStyle.Render("[rejected]")
	}
	return ""
}

// wrapText applies auto-wrapping to text, correctly handling wide character widths
func (m *chatModel) wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		// Keep empty lines as-is
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(m.wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of text, correctly handling wide character widths
func (m *chatModel) wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		// If adding this character exceeds width, wrap first
		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// governancePanel renders the pending review and its actions
func (m chatModel) governancePanel() string {
	if m.review == nil {
		return ""
	}

	summary := strings.Join(strings.Fields(m.review.Summary), " ")
	if runewidth.StringWidth(summary) > summaryPreviewLength {
		summary = runewidth.Truncate(summary, summaryPreviewLength, "…")
	}

	lines := []string{
		pendingStyle.Render("Supervisor review required") + dimStyle.Render(" • thread "+shortID(m.review.ThreadID)),
		summary,
	}
	if m.deciding {
		lines = append(lines, dimStyle.Render("Submitting decision..."))
	} else {
		lines = append(lines, dimStyle.Render("a approve • r reject"))
	}
	if m.approvalErr != "" {
		lines = append(lines, errorStyle.Render("Approval failed: "+m.approvalErr))
	}

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > sessionIDDisplayLength {
		return id[:sessionIDDisplayLength]
	}
	return id
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	// Top status bar
	status := dimStyle.Render(fmt.Sprintf("FINA • session %s", shortID(m.session.ThreadID())))
	if m.streaming {
		status += dimStyle.Render(" • generating...")
	}
	if n := m.transcript.PendingCount(); n > 0 {
		status += pendingStyle.Render(fmt.Sprintf(" • %d pending review", n))
	}

	content := m.contentView.View()

	var inputView string
	switch {
	case m.streaming:
		inputView = dimStyle.Render("> ") + dimStyle.Render("waiting for the reply to finish...")
	case m.transcript.InputLocked():
		inputView = dimStyle.Render("> ") + dimStyle.Render("input locked until a supervisor decides")
	default:
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	help := ""
	if !m.streaming {
		help = dimStyle.Render("Enter send • ↑↓ scroll • Ctrl+N new session • Esc quit")
	}

	parts := []string{status, "", content}
	if panel := m.governancePanel(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, "", inputView)
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
