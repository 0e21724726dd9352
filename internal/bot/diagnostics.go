package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/desertthunder/plexgram/internal/transport"
)

// DiagnosticRecord is a structured failure report built for the operator
// destination. Constructed, formatted, sent, and discarded; nothing retains
// it after delivery.
type DiagnosticRecord struct {
	ErrorMessage string
	StackTrace   string
	// UserMention is a ready-to-embed HTML mention link, empty when the
	// event carried no sender.
	UserMention     string
	ChatDescription string
	PollID          string
}

// newDiagnosticRecord captures everything the triggering event can tell us.
func newDiagnosticRecord(ev transport.Event, err error, stack []byte) DiagnosticRecord {
	rec := DiagnosticRecord{
		ErrorMessage: err.Error(),
		StackTrace:   string(stack),
		PollID:       ev.PollID,
	}

	if ev.UserID != 0 {
		name := ev.DisplayName
		if name == "" {
			name = ev.Username
		}
		if name == "" {
			name = strconv.FormatInt(ev.UserID, 10)
		}
		rec.UserMention = fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, ev.UserID, html.EscapeString(name))
	}

	if ev.ChatTitle != "" || ev.ChatHandle != "" {
		desc := ev.ChatTitle
		if ev.ChatHandle != "" {
			desc = strings.TrimSpace(desc + " (@" + ev.ChatHandle + ")")
		}
		rec.ChatDescription = desc
	}

	return rec
}

// Format renders the record as an HTML message. The trace and error text are
// escaped so arbitrary failure output cannot corrupt the rich-text
// rendering; the mention link is already safe HTML.
func (r DiagnosticRecord) Format() string {
	payload := ""
	if r.UserMention != "" {
		payload += " with the user " + r.UserMention
	}
	if r.ChatDescription != "" {
		payload += " within the chat <i>" + html.EscapeString(r.ChatDescription) + "</i>"
	}
	if r.PollID != "" {
		payload += " with the poll id " + html.EscapeString(r.PollID)
	}

	msg := fmt.Sprintf("The error <code>%s</code> happened%s.",
		html.EscapeString(r.ErrorMessage), payload)
	// A stack exists only when the failure was a panic. Handler errors carry
	// their origin in the wrapped error chain.
	if r.StackTrace != "" {
		msg += fmt.Sprintf("\nThe full traceback:\n\n<code>%s</code>", html.EscapeString(r.StackTrace))
	}
	return msg
}

// report is the single entry point of the diagnostics pipeline. It sends a
// best-effort apology to the requester when the event has a visible message
// context, forwards the formatted record to the operator destination, and
// returns so the dispatch boundary can log the original failure.
func (b *Bot) report(ctx context.Context, ev transport.Event, err error, stack []byte) {
	if ev.ChatID != 0 {
		apology := "I'm sorry, an error happened while I tried to handle your message. My developer has been notified."
		if serr := b.transport.SendMessage(ctx, ev.ChatID, apology, nil); serr != nil {
			b.logger.Debug("failed to send apology", "chat", ev.ChatID, "error", serr)
		}
	}

	if b.operatorChat == 0 {
		b.logger.Warn("no operator destination configured; diagnostic dropped", "error", err)
		return
	}

	rec := newDiagnosticRecord(ev, err, stack)
	if serr := b.transport.SendMessage(ctx, b.operatorChat, rec.Format(), &transport.SendOptions{HTML: true}); serr != nil {
		b.logger.Warn("failed to forward diagnostic to operator", "error", serr)
	}
}
