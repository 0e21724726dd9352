// Telegram implementation of [Transport] on top of the Bot API.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram caps bots at roughly 30 messages per second overall.
const sendInterval = 34 * time.Millisecond

// TelegramTransport adapts the Telegram Bot API to the [Transport] contract
// and converts long-polling updates into [Event] values.
type TelegramTransport struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *log.Logger
}

var (
	_ Transport      = (*TelegramTransport)(nil)
	_ TypingNotifier = (*TelegramTransport)(nil)
)

// NewTelegramTransport authorizes against the Bot API with the given token.
func NewTelegramTransport(token string, logger *log.Logger) (*TelegramTransport, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	logger.Info("authorized on telegram", "account", bot.Self.UserName)

	return &TelegramTransport{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Every(sendInterval), 1),
		logger:  logger,
	}, nil
}

// Updates starts long polling and returns a channel of normalized events.
// The channel closes when ctx is cancelled.
func (t *TelegramTransport) Updates(ctx context.Context) <-chan Event {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := t.bot.GetUpdatesChan(cfg)
	events := make(chan Event)

	go func() {
		defer close(events)
		defer t.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				ev, ok := eventFromUpdate(u)
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}

// SendMessage sends a (rate-limited) chat message.
func (t *TelegramTransport) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if opts != nil {
		if opts.HTML {
			msg.ParseMode = tgbotapi.ModeHTML
		}
		if len(opts.Keyboard) > 0 {
			msg.ReplyMarkup = replyKeyboard(opts.Keyboard)
		} else if opts.RemoveKeyboard {
			msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		}
	}

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// AnswerQuery answers an inline query with the translated result variants.
func (t *TelegramTransport) AnswerQuery(ctx context.Context, queryID string, results []QueryResult) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	inline := tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       make([]any, 0, len(results)),
		IsPersonal:    true,
		CacheTime:     0,
	}
	for _, r := range results {
		inline.Results = append(inline.Results, inlineResult(r))
	}

	if _, err := t.bot.Request(inline); err != nil {
		return fmt.Errorf("failed to answer inline query: %w", err)
	}
	return nil
}

// DeleteMessage removes a message from the chat transcript.
func (t *TelegramTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	if _, err := t.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// NotifyTyping shows the typing chat action. Failures are only logged; the
// indicator is cosmetic.
func (t *TelegramTransport) NotifyTyping(ctx context.Context, chatID int64) {
	if err := t.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := t.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		t.logger.Debug("failed to send typing action", "chat", chatID, "error", err)
	}
}

// eventFromUpdate maps one Telegram update onto the neutral event shape.
// Returns false for update types the bot does not consume.
func eventFromUpdate(u tgbotapi.Update) (Event, bool) {
	switch {
	case u.Message != nil:
		m := u.Message
		ev := Event{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
		}
		if m.Chat.Title != "" {
			ev.ChatTitle = m.Chat.Title
		}
		if m.Chat.UserName != "" {
			ev.ChatHandle = m.Chat.UserName
		}
		if m.From != nil {
			ev.UserID = m.From.ID
			ev.Username = m.From.UserName
			ev.DisplayName = m.From.FirstName
		}
		if m.IsCommand() {
			ev.Kind = EventCommand
			ev.Command = m.Command()
			ev.Args = m.CommandArguments()
		} else {
			ev.Kind = EventText
			ev.Text = m.Text
		}
		return ev, true

	case u.InlineQuery != nil:
		q := u.InlineQuery
		ev := Event{
			Kind:    EventQuery,
			QueryID: q.ID,
			Query:   q.Query,
		}
		if q.From != nil {
			ev.UserID = q.From.ID
			ev.Username = q.From.UserName
			ev.DisplayName = q.From.FirstName
		}
		return ev, true

	case u.Poll != nil:
		return Event{Kind: EventPoll, PollID: u.Poll.ID}, true

	default:
		return Event{}, false
	}
}

// inlineResult maps one neutral result variant onto its Telegram shape.
func inlineResult(r QueryResult) any {
	switch r.Kind {
	case ResultAudio:
		audio := tgbotapi.NewInlineQueryResultAudio(r.ID, r.AudioURL, r.Title)
		audio.Performer = r.Performer
		audio.Duration = r.DurationSeconds
		audio.Caption = r.Caption
		if r.MessageHTML != "" {
			audio.InputMessageContent = tgbotapi.InputTextMessageContent{
				Text:      r.MessageHTML,
				ParseMode: tgbotapi.ModeHTML,
			}
		}
		return audio

	default:
		article := tgbotapi.NewInlineQueryResultArticleHTML(r.ID, r.Title, r.MessageHTML)
		article.Description = r.Description
		return article
	}
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboard = append(keyboard, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(keyboard...)
	markup.OneTimeKeyboard = true
	return markup
}
