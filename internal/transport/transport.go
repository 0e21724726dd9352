// package transport defines the chat platform contract the bot core talks to
package transport

import "context"

// EventKind enumerates the inbound event types the bot consumes.
type EventKind int

const (
	// EventCommand is a slash command, e.g. /start or /cancel.
	EventCommand EventKind = iota
	// EventText is a free-text reply inside a chat.
	EventText
	// EventQuery is a one-shot ad-hoc query (Telegram inline query).
	EventQuery
	// EventPoll is a poll state update; carried only for diagnostics.
	EventPoll
)

// Event is one inbound chat event, already normalized away from the
// platform's update shape.
type Event struct {
	Kind EventKind

	// Chat context. ChatID is zero for events without a visible message
	// (inline queries, poll updates).
	ChatID     int64
	MessageID  int
	ChatTitle  string
	ChatHandle string

	// Sender identity.
	UserID      int64
	Username    string
	DisplayName string

	// Command name (without slash) and trailing arguments, for EventCommand.
	Command string
	Args    string

	// Text payload for EventText.
	Text string

	// Ad-hoc query fields for EventQuery.
	QueryID string
	Query   string

	// PollID for EventPoll.
	PollID string
}

// ResultKind enumerates the response variants an ad-hoc query answer carries.
type ResultKind int

const (
	// ResultAudio is a playable track answer.
	ResultAudio ResultKind = iota
	// ResultArticle is an informational text answer.
	ResultArticle
)

// QueryResult is one platform-neutral response variant.
type QueryResult struct {
	ID   string
	Kind ResultKind

	// Audio fields.
	AudioURL        string
	Title           string
	Performer       string
	DurationSeconds int
	Caption         string

	// Article fields.
	Description string

	// MessageHTML is the rich-text body sent into the chat when the variant
	// is chosen, with the title linked to the stream URL for audio results.
	MessageHTML string
}

// SendOptions adjusts an outbound message.
type SendOptions struct {
	// HTML enables rich-text parsing of the message body.
	HTML bool
	// Keyboard shows a one-time reply keyboard, one row per inner slice.
	Keyboard [][]string
	// RemoveKeyboard hides any previously shown reply keyboard.
	RemoveKeyboard bool
}

// Transport is the outbound half of the chat platform. The bot core produces
// exactly these three actions; everything else (polling, retries, rate
// limits) is the transport's concern.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error
	AnswerQuery(ctx context.Context, queryID string, results []QueryResult) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// TypingNotifier is an optional transport capability: show a "typing"
// indicator while a dialog step is being processed. The bot feature-detects
// it with a type assertion.
type TypingNotifier interface {
	NotifyTyping(ctx context.Context, chatID int64)
}
