package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plexgram/internal/bot"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/transport"
)

// The console simulates a single private chat, so the chat and user
// identifiers are fixed.
const (
	consoleChatID int64 = 1
	consoleUserID int64 = 1
)

// chatLine is one rendered line of the conversation.
type chatLine struct {
	fromUser bool
	faint    bool
	text     string
}

// Model represents the console application state.
type Model struct {
	ctx      context.Context
	bot      *bot.Bot
	tp       *ConsoleTransport
	username string
	input    textinput.Model
	lines    []chatLine
	width    int
	height   int
	help     help.Model
	keys     keyMap
	msgSeq   int
}

// NewModel creates a console model wired to the given bot and transport.
//
// The transport must be the same [ConsoleTransport] the bot was built with,
// otherwise replies are never rendered.
func NewModel(ctx context.Context, b *bot.Bot, tp *ConsoleTransport, username string) *Model {
	input := textinput.New()
	input.Placeholder = "/start to begin, ? to ask what is playing"
	input.Focus()

	return &Model{
		ctx:      ctx,
		bot:      b,
		tp:       tp,
		username: username,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the input cursor and the reply pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForReply())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.clear):
			m.lines = nil
			return m, nil
		case key.Matches(msg, m.keys.submit):
			return m, m.submit()
		}

	case Msg:
		switch msg.kind {
		case MsgReply:
			reply := msg.data.(consoleReply)
			m.lines = append(m.lines, lineFromReply(reply))
			return m, m.waitForReply()
		case MsgHandled:
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the conversation, the input field and contextual help.
func (m *Model) View() string {
	title := styles.title.Render("plexgram console")

	var convo strings.Builder
	for _, line := range m.lines {
		convo.WriteString(m.renderLine(line))
		convo.WriteString("\n")
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, convo.String(), m.input.View(), helpView)
}

func (m *Model) renderLine(line chatLine) string {
	if line.fromUser {
		return styles.user.Render("you ▸ ") + line.text
	}
	if line.faint {
		return styles.help.Render(line.text)
	}
	return styles.bot.Render("bot ▸ ") + line.text
}

// submit turns the typed line into a dialog event and hands it to the bot.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	m.input.Reset()
	m.msgSeq++
	m.lines = append(m.lines, chatLine{fromUser: true, text: text})

	ev := m.eventFromInput(text)
	return func() tea.Msg {
		m.bot.Handle(m.ctx, ev)
		return handledMsg()
	}
}

// eventFromInput maps a console line onto a transport event.
//
// "/word args" becomes a command, a leading "?" becomes a query with the
// rest of the line as its text, anything else is a plain text reply.
func (m *Model) eventFromInput(text string) transport.Event {
	ev := transport.Event{
		ChatID:      consoleChatID,
		MessageID:   m.msgSeq,
		UserID:      consoleUserID,
		Username:    m.username,
		DisplayName: m.username,
	}

	switch {
	case strings.HasPrefix(text, "/"):
		parts := strings.SplitN(strings.TrimPrefix(text, "/"), " ", 2)
		ev.Kind = transport.EventCommand
		ev.Command = parts[0]
		if len(parts) > 1 {
			ev.Args = strings.TrimSpace(parts[1])
		}
	case strings.HasPrefix(text, "?"):
		ev.Kind = transport.EventQuery
		ev.QueryID = shared.GenerateID()
		ev.Query = strings.TrimSpace(strings.TrimPrefix(text, "?"))
	default:
		ev.Kind = transport.EventText
		ev.Text = text
	}

	return ev
}

// waitForReply blocks on the transport's reply channel and feeds the next
// rendered action back into the update loop.
func (m *Model) waitForReply() tea.Cmd {
	return func() tea.Msg {
		select {
		case reply, ok := <-m.tp.Replies():
			if !ok {
				return nil
			}
			return replyMsg(reply)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func lineFromReply(reply consoleReply) chatLine {
	switch reply.kind {
	case replyDeletion, replyTyping:
		return chatLine{faint: true, text: reply.text}
	default:
		return chatLine{text: reply.text}
	}
}
