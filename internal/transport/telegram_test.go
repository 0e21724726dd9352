package transport

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestEventFromUpdate(t *testing.T) {
	t.Run("Command", func(t *testing.T) {
		u := tgbotapi.Update{
			Message: &tgbotapi.Message{
				MessageID: 7,
				Chat:      &tgbotapi.Chat{ID: 100, Title: "Jazz Club", UserName: "jazzclub"},
				From:      &tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice"},
				Text:      "/start now",
				Entities: []tgbotapi.MessageEntity{
					{Type: "bot_command", Offset: 0, Length: 6},
				},
			},
		}

		ev, ok := eventFromUpdate(u)
		if !ok {
			t.Fatal("expected event")
		}
		if ev.Kind != EventCommand {
			t.Errorf("expected EventCommand, got %v", ev.Kind)
		}
		if ev.Command != "start" {
			t.Errorf("expected command start, got %q", ev.Command)
		}
		if ev.Args != "now" {
			t.Errorf("expected args now, got %q", ev.Args)
		}
		if ev.ChatID != 100 || ev.MessageID != 7 {
			t.Errorf("unexpected chat context: %+v", ev)
		}
		if ev.UserID != 42 || ev.Username != "alice" || ev.DisplayName != "Alice" {
			t.Errorf("unexpected sender: %+v", ev)
		}
		if ev.ChatTitle != "Jazz Club" || ev.ChatHandle != "jazzclub" {
			t.Errorf("unexpected chat description: %+v", ev)
		}
	})

	t.Run("Text Reply", func(t *testing.T) {
		u := tgbotapi.Update{
			Message: &tgbotapi.Message{
				MessageID: 8,
				Chat:      &tgbotapi.Chat{ID: 100},
				From:      &tgbotapi.User{ID: 42},
				Text:      "hunter2",
			},
		}

		ev, ok := eventFromUpdate(u)
		if !ok {
			t.Fatal("expected event")
		}
		if ev.Kind != EventText {
			t.Errorf("expected EventText, got %v", ev.Kind)
		}
		if ev.Text != "hunter2" {
			t.Errorf("expected text hunter2, got %q", ev.Text)
		}
	})

	t.Run("Inline Query", func(t *testing.T) {
		u := tgbotapi.Update{
			InlineQuery: &tgbotapi.InlineQuery{
				ID:    "q1",
				From:  &tgbotapi.User{ID: 42, UserName: "alice"},
				Query: "so what",
			},
		}

		ev, ok := eventFromUpdate(u)
		if !ok {
			t.Fatal("expected event")
		}
		if ev.Kind != EventQuery {
			t.Errorf("expected EventQuery, got %v", ev.Kind)
		}
		if ev.QueryID != "q1" || ev.Query != "so what" {
			t.Errorf("unexpected query fields: %+v", ev)
		}
		if ev.ChatID != 0 {
			t.Errorf("inline queries have no chat, got chat id %d", ev.ChatID)
		}
	})

	t.Run("Poll Update", func(t *testing.T) {
		u := tgbotapi.Update{Poll: &tgbotapi.Poll{ID: "p9"}}

		ev, ok := eventFromUpdate(u)
		if !ok {
			t.Fatal("expected event")
		}
		if ev.Kind != EventPoll || ev.PollID != "p9" {
			t.Errorf("unexpected poll event: %+v", ev)
		}
	})

	t.Run("Unhandled Update", func(t *testing.T) {
		if _, ok := eventFromUpdate(tgbotapi.Update{}); ok {
			t.Error("expected no event for empty update")
		}
	})
}

func TestInlineResult(t *testing.T) {
	t.Run("Audio", func(t *testing.T) {
		r := QueryResult{
			ID:              "r1",
			Kind:            ResultAudio,
			AudioURL:        "http://plex.local/stream.mp3",
			Title:           "So What",
			Performer:       "Miles Davis",
			DurationSeconds: 545,
			Caption:         "Kind of Blue",
			MessageHTML:     `<a href="http://plex.local/stream.mp3">So What</a>`,
		}

		audio, ok := inlineResult(r).(tgbotapi.InlineQueryResultAudio)
		if !ok {
			t.Fatalf("expected audio result, got %T", inlineResult(r))
		}
		if audio.URL != r.AudioURL || audio.Title != r.Title {
			t.Errorf("unexpected audio fields: %+v", audio)
		}
		if audio.Performer != "Miles Davis" || audio.Duration != 545 || audio.Caption != "Kind of Blue" {
			t.Errorf("unexpected audio metadata: %+v", audio)
		}
		content, ok := audio.InputMessageContent.(tgbotapi.InputTextMessageContent)
		if !ok {
			t.Fatal("expected text fallback content")
		}
		if content.ParseMode != tgbotapi.ModeHTML {
			t.Errorf("expected HTML parse mode, got %q", content.ParseMode)
		}
	})

	t.Run("Article", func(t *testing.T) {
		r := QueryResult{
			ID:          "r2",
			Kind:        ResultArticle,
			Title:       "Sign in required",
			Description: "Open a chat with the bot and send /start",
			MessageHTML: "You are not signed in.",
		}

		article, ok := inlineResult(r).(tgbotapi.InlineQueryResultArticle)
		if !ok {
			t.Fatalf("expected article result, got %T", inlineResult(r))
		}
		if article.Title != r.Title || article.Description != r.Description {
			t.Errorf("unexpected article fields: %+v", article)
		}
	})
}

func TestReplyKeyboard(t *testing.T) {
	markup := replyKeyboard([][]string{{"sign-in", "sign-out"}, {"/cancel"}})

	if !markup.OneTimeKeyboard {
		t.Error("expected one-time keyboard")
	}
	if len(markup.Keyboard) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(markup.Keyboard))
	}
	if len(markup.Keyboard[0]) != 2 || markup.Keyboard[0][0].Text != "sign-in" {
		t.Errorf("unexpected first row: %+v", markup.Keyboard[0])
	}
	if markup.Keyboard[1][0].Text != "/cancel" {
		t.Errorf("unexpected second row: %+v", markup.Keyboard[1])
	}
}
