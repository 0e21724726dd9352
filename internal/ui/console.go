package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/plexgram/internal/transport"
)

var (
	_ transport.Transport      = (*ConsoleTransport)(nil)
	_ transport.TypingNotifier = (*ConsoleTransport)(nil)
)

// replyKind enumerates the transport actions the console renders.
type replyKind int

const (
	replyMessage replyKind = iota
	replyAnswer
	replyDeletion
	replyTyping
)

// consoleReply is one transport action waiting to be rendered.
type consoleReply struct {
	kind replyKind
	text string
}

// ConsoleTransport renders bot output into a channel the console model drains.
//
// It implements [transport.Transport] and [transport.TypingNotifier] so the
// dialog handler behaves exactly as it does against Telegram, including the
// typing indicator and password message deletion.
type ConsoleTransport struct {
	replies chan consoleReply
}

// NewConsoleTransport creates a [ConsoleTransport] with a buffered reply channel.
func NewConsoleTransport() *ConsoleTransport {
	return &ConsoleTransport{replies: make(chan consoleReply, 32)}
}

// Replies returns the channel of rendered transport actions.
func (c *ConsoleTransport) Replies() <-chan consoleReply {
	return c.replies
}

// SendMessage renders a chat message, including any reply keyboard as a hint line.
func (c *ConsoleTransport) SendMessage(ctx context.Context, chatID int64, text string, opts *transport.SendOptions) error {
	body := text
	if opts != nil && len(opts.Keyboard) > 0 {
		var rows []string
		for _, row := range opts.Keyboard {
			rows = append(rows, "["+strings.Join(row, "] [")+"]")
		}
		body = fmt.Sprintf("%s\n%s", body, strings.Join(rows, "\n"))
	}
	c.push(ctx, consoleReply{kind: replyMessage, text: body})
	return nil
}

// AnswerQuery renders query results one line per variant.
func (c *ConsoleTransport) AnswerQuery(ctx context.Context, queryID string, results []transport.QueryResult) error {
	if len(results) == 0 {
		c.push(ctx, consoleReply{kind: replyAnswer, text: "(no results)"})
		return nil
	}

	lines := make([]string, 0, len(results))
	for _, res := range results {
		switch res.Kind {
		case transport.ResultAudio:
			lines = append(lines, fmt.Sprintf("♪ %s by %s (%ds)", res.Title, res.Performer, res.DurationSeconds))
		default:
			lines = append(lines, fmt.Sprintf("• %s: %s", res.Title, res.Description))
		}
	}
	c.push(ctx, consoleReply{kind: replyAnswer, text: strings.Join(lines, "\n")})
	return nil
}

// DeleteMessage renders a deletion note in place of removing anything.
func (c *ConsoleTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	c.push(ctx, consoleReply{kind: replyDeletion, text: fmt.Sprintf("(message %d deleted)", messageID)})
	return nil
}

// NotifyTyping renders the typing indicator.
func (c *ConsoleTransport) NotifyTyping(ctx context.Context, chatID int64) {
	c.push(ctx, consoleReply{kind: replyTyping, text: "typing..."})
}

func (c *ConsoleTransport) push(ctx context.Context, reply consoleReply) {
	select {
	case c.replies <- reply:
	case <-ctx.Done():
	}
}
