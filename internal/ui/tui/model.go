package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/assistant"
	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository"
)

type entry struct {
	role    domain.Role
	content string
}

// Bridge messages carry the turn they belong to. Events queued by a stream
// the user has since superseded or cancelled still sit in the channel; the
// update loop drops any whose turn no longer matches.
type (
	tokenMsg struct {
		turn     int64
		fragment string
	}
	userMessageMsg struct {
		turn      int64
		messageID string
	}
	doneMsg struct {
		turn      int64
		messageID string
	}
	streamTickMsg struct{}
)

// Model is the chat screen. It renders the transcript, the partial reply
// being assembled from token fragments, the running tool indicators, and the
// input area. The streaming client pushes callback events into a channel the
// update loop drains, so all state changes happen on the bubbletea goroutine.
type Model struct {
	app    *appState.App
	repo   repository.ConversationRepository
	conv   *domain.Conversation
	client *assistant.Client

	textArea   textarea.Model
	width      int
	height     int
	transcript []entry

	pending      string // assistant text assembled so far for the current turn
	pendingUser  string // user message content awaiting its user_message frame
	awaitingDone bool
	graceTicks   int
	errText      string

	events chan tea.Msg
	// turn is shared with the client callbacks, which stamp its current value
	// onto every bridge message. seq holds the value of the turn the update
	// loop currently accepts.
	turn   *atomic.Int64
	seq    int64
	pumpUp bool // one waitForEvent reader stays armed for the life of the screen
}

// New creates the chat screen for one conversation.
func New(app *appState.App, repo repository.ConversationRepository, conv *domain.Conversation) Model {
	input := textarea.New()
	input.Placeholder = "Ask Ralph about your portfolio..."
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.Focus()

	var transcript []entry
	for _, msg := range conv.Messages {
		transcript = append(transcript, entry{role: msg.Role, content: msg.Content})
	}

	events := make(chan tea.Msg, 256)
	turn := &atomic.Int64{}
	client := assistant.NewClient(assistant.Config{
		BaseURL: app.Config.API.BaseURL,
		Token:   app.Config.API.Token,
		Logger:  app.Logger,
	}, assistant.Callbacks{
		OnToken:       func(fragment string) { events <- tokenMsg{turn: turn.Load(), fragment: fragment} },
		OnUserMessage: func(messageID string) { events <- userMessageMsg{turn: turn.Load(), messageID: messageID} },
		OnDone:        func(messageID string) { events <- doneMsg{turn: turn.Load(), messageID: messageID} },
	})

	return Model{
		app:        app,
		repo:       repo,
		conv:       conv,
		client:     client,
		textArea:   input,
		transcript: transcript,
		events:     events,
		turn:       turn,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func streamTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return streamTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textArea.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.client.Cancel()
			return m, tea.Quit

		case "esc":
			if m.awaitingDone {
				// Bump the turn so anything the cancelled stream already
				// queued is discarded on arrival.
				m.seq = m.turn.Add(1)
				m.client.Cancel()
				m = m.finalizeTurn("")
			}
			return m, nil

		case "enter":
			content := strings.TrimSpace(m.textArea.Value())
			if content == "" {
				return m, nil
			}
			// Sending while a reply is streaming supersedes it; keep
			// whatever text had arrived.
			if m.awaitingDone {
				m = m.finalizeTurn("")
			}
			m.seq = m.turn.Add(1)
			m.transcript = append(m.transcript, entry{role: domain.RoleUser, content: content})
			m.pendingUser = content
			m.pending = ""
			m.errText = ""
			m.awaitingDone = true
			m.graceTicks = 0
			m.client.Send(m.conv.ID.String(), content)
			m.textArea.Reset()
			cmds := []tea.Cmd{streamTick()}
			if !m.pumpUp {
				m.pumpUp = true
				cmds = append(cmds, m.waitForEvent())
			}
			return m, tea.Batch(cmds...)
		}

		var cmd tea.Cmd
		m.textArea, cmd = m.textArea.Update(msg)
		return m, cmd

	case tokenMsg:
		if msg.turn == m.seq {
			m.pending += msg.fragment
		}
		return m, m.waitForEvent()

	case userMessageMsg:
		if msg.turn == m.seq {
			if err := m.repo.AddMessage(context.Background(), m.conv.ID, &domain.Message{
				Role:     domain.RoleUser,
				Content:  m.pendingUser,
				RemoteID: msg.messageID,
			}); err != nil {
				m.app.Logger.Warn("failed to cache user message", "error", err)
			}
		}
		return m, m.waitForEvent()

	case doneMsg:
		if msg.turn == m.seq {
			m = m.finalizeTurn(msg.messageID)
		}
		return m, m.waitForEvent()

	case streamTickMsg:
		if !m.awaitingDone {
			return m, nil
		}
		if m.client.IsStreaming() {
			m.graceTicks = 0
			return m, streamTick()
		}
		// The stream may have just terminated with its done frame still in
		// flight through the event channel; give it a few ticks to land.
		m.graceTicks++
		if m.graceTicks < 3 {
			return m, streamTick()
		}
		if err := m.client.Err(); err != nil {
			m.errText = err.Error()
		}
		m = m.finalizeTurn("")
		return m, nil
	}

	var cmd tea.Cmd
	m.textArea, cmd = m.textArea.Update(msg)
	return m, cmd
}

// finalizeTurn moves the assembled reply into the transcript and, when the
// backend confirmed it with a done frame, reconciles it into the cache under
// its remote message ID.
func (m Model) finalizeTurn(remoteID string) Model {
	if m.pending != "" {
		m.transcript = append(m.transcript, entry{role: domain.RoleAssistant, content: m.pending})
		if remoteID != "" {
			if err := m.repo.AddMessage(context.Background(), m.conv.ID, &domain.Message{
				Role:     domain.RoleAssistant,
				Content:  m.pending,
				RemoteID: remoteID,
			}); err != nil {
				m.app.Logger.Warn("failed to cache assistant message", "error", err)
			}
		}
	}
	m.pending = ""
	m.pendingUser = ""
	m.awaitingDone = false
	m.graceTicks = 0
	return m
}
