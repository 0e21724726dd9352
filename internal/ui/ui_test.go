package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/desertthunder/plexgram/internal/transport"
)

func TestEventFromInput(t *testing.T) {
	m := &Model{username: "console"}
	m.msgSeq = 3

	t.Run("Command With Args", func(t *testing.T) {
		ev := m.eventFromInput("/start now")
		if ev.Kind != transport.EventCommand {
			t.Fatalf("expected command event, got %v", ev.Kind)
		}
		if ev.Command != "start" {
			t.Errorf("expected start command, got %q", ev.Command)
		}
		if ev.Args != "now" {
			t.Errorf("expected args now, got %q", ev.Args)
		}
		if ev.MessageID != 3 {
			t.Errorf("expected message id 3, got %d", ev.MessageID)
		}
	})

	t.Run("Query Prefix", func(t *testing.T) {
		ev := m.eventFromInput("? blue in green")
		if ev.Kind != transport.EventQuery {
			t.Fatalf("expected query event, got %v", ev.Kind)
		}
		if ev.Query != "blue in green" {
			t.Errorf("expected trimmed query, got %q", ev.Query)
		}
		if ev.QueryID == "" {
			t.Error("expected a generated query id")
		}
	})

	t.Run("Bare Question Mark Is Empty Query", func(t *testing.T) {
		ev := m.eventFromInput("?")
		if ev.Kind != transport.EventQuery {
			t.Fatalf("expected query event, got %v", ev.Kind)
		}
		if ev.Query != "" {
			t.Errorf("expected empty query, got %q", ev.Query)
		}
	})

	t.Run("Plain Text", func(t *testing.T) {
		ev := m.eventFromInput("hunter2")
		if ev.Kind != transport.EventText {
			t.Fatalf("expected text event, got %v", ev.Kind)
		}
		if ev.Text != "hunter2" {
			t.Errorf("expected text hunter2, got %q", ev.Text)
		}
	})
}

func TestConsoleTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("Message With Keyboard Renders Hint Rows", func(t *testing.T) {
		tp := NewConsoleTransport()
		err := tp.SendMessage(ctx, 1, "Hi there!", &transport.SendOptions{
			Keyboard: [][]string{{"sign-in", "sign-out"}, {"/cancel"}},
		})
		if err != nil {
			t.Fatalf("send failed: %v", err)
		}

		reply := <-tp.Replies()
		if reply.kind != replyMessage {
			t.Fatalf("expected message reply, got %v", reply.kind)
		}
		if !strings.Contains(reply.text, "[sign-in] [sign-out]") {
			t.Errorf("expected keyboard row hint, got %q", reply.text)
		}
		if !strings.Contains(reply.text, "[/cancel]") {
			t.Errorf("expected cancel row hint, got %q", reply.text)
		}
	})

	t.Run("Audio Results Render One Line Each", func(t *testing.T) {
		tp := NewConsoleTransport()
		results := []transport.QueryResult{
			{Kind: transport.ResultAudio, Title: "So What", Performer: "Miles Davis", DurationSeconds: 545},
			{Kind: transport.ResultArticle, Title: "Not signed in", Description: "Send /start"},
		}
		if err := tp.AnswerQuery(ctx, "q1", results); err != nil {
			t.Fatalf("answer failed: %v", err)
		}

		reply := <-tp.Replies()
		if !strings.Contains(reply.text, "♪ So What by Miles Davis (545s)") {
			t.Errorf("expected audio line, got %q", reply.text)
		}
		if !strings.Contains(reply.text, "Not signed in: Send /start") {
			t.Errorf("expected article line, got %q", reply.text)
		}
	})

	t.Run("Empty Answer Says So", func(t *testing.T) {
		tp := NewConsoleTransport()
		if err := tp.AnswerQuery(ctx, "q1", nil); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		reply := <-tp.Replies()
		if reply.text != "(no results)" {
			t.Errorf("expected no results marker, got %q", reply.text)
		}
	})

	t.Run("Deletion Renders Note", func(t *testing.T) {
		tp := NewConsoleTransport()
		if err := tp.DeleteMessage(ctx, 1, 7); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		reply := <-tp.Replies()
		if reply.kind != replyDeletion || reply.text != "(message 7 deleted)" {
			t.Errorf("unexpected deletion reply: %+v", reply)
		}
	})
}
