package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/plexgram/internal/models"
	tu "github.com/desertthunder/plexgram/internal/testing"
	"github.com/desertthunder/plexgram/internal/transport"
)

func TestDiagnosticRecord(t *testing.T) {
	t.Run("Captures Event Context", func(t *testing.T) {
		ev := transport.Event{
			Kind:        transport.EventText,
			ChatID:      testChat,
			ChatTitle:   "Jazz Club",
			ChatHandle:  "jazzclub",
			UserID:      testUser,
			DisplayName: "Alice",
		}

		rec := newDiagnosticRecord(ev, errors.New("boom"), []byte("stack line 1\nstack line 2"))

		if rec.ErrorMessage != "boom" {
			t.Errorf("expected error message boom, got %q", rec.ErrorMessage)
		}
		if !strings.Contains(rec.UserMention, "tg://user?id=42") || !strings.Contains(rec.UserMention, "Alice") {
			t.Errorf("expected mention link for Alice, got %q", rec.UserMention)
		}
		if rec.ChatDescription != "Jazz Club (@jazzclub)" {
			t.Errorf("unexpected chat description %q", rec.ChatDescription)
		}
		if rec.PollID != "" {
			t.Errorf("expected empty poll id, got %q", rec.PollID)
		}
	})

	t.Run("Poll Update", func(t *testing.T) {
		ev := transport.Event{Kind: transport.EventPoll, PollID: "p9"}

		rec := newDiagnosticRecord(ev, errors.New("boom"), nil)
		if rec.UserMention != "" || rec.ChatDescription != "" {
			t.Error("poll updates carry no user or chat context")
		}
		if rec.PollID != "p9" {
			t.Errorf("expected poll id p9, got %q", rec.PollID)
		}

		if !strings.Contains(rec.Format(), "poll id p9") {
			t.Errorf("expected poll id in formatted output, got %q", rec.Format())
		}
	})

	t.Run("Format Escapes Markup", func(t *testing.T) {
		ev := transport.Event{UserID: testUser, DisplayName: "<Alice>"}

		rec := newDiagnosticRecord(ev, errors.New("tag <b> in error"), []byte("trace with <code> & friends"))
		out := rec.Format()

		if strings.Contains(out, "tag <b> in error") {
			t.Error("error message markup must be escaped")
		}
		if !strings.Contains(out, "trace with &lt;code&gt; &amp; friends") {
			t.Errorf("trace markup must be escaped, got %q", out)
		}
		if strings.Contains(rec.UserMention, "<Alice>") {
			t.Error("display name markup must be escaped inside the mention")
		}
		// the mention itself stays raw HTML
		if !strings.Contains(out, `<a href="tg://user?id=42">`) {
			t.Errorf("mention link must survive formatting, got %q", out)
		}
	})

	t.Run("Falls Back To Numeric Identity", func(t *testing.T) {
		rec := newDiagnosticRecord(transport.Event{UserID: 77}, errors.New("x"), nil)
		if !strings.Contains(rec.UserMention, ">77<") {
			t.Errorf("expected numeric fallback name, got %q", rec.UserMention)
		}
	})

	t.Run("Omits Traceback Without A Stack", func(t *testing.T) {
		err := errors.New("failed to send reply: network down")
		rec := newDiagnosticRecord(text("oops"), err, nil)
		out := rec.Format()

		if strings.Contains(out, "traceback") {
			t.Errorf("no stack was captured; no traceback section expected, got %q", out)
		}
		// the wrapped chain is the failure's location and must survive intact
		if !strings.Contains(out, "failed to send reply: network down") {
			t.Errorf("expected full error chain in diagnostic, got %q", out)
		}
	})
}

func TestReport(t *testing.T) {
	t.Run("Apology Then Operator Notification", func(t *testing.T) {
		b, tr := newTestBot(t, &tu.MockMedia{})

		ev := text("oops")
		b.report(context.Background(), ev, errors.New("boom"), []byte("trace"))

		user := tr.SentTo(testChat)
		if len(user) != 1 || !strings.Contains(user[0].Text, "notified") {
			t.Errorf("expected apology to requester, got %+v", user)
		}

		ops := tr.SentTo(operatorChat)
		if len(ops) != 1 {
			t.Fatalf("expected one operator message, got %d", len(ops))
		}
		if ops[0].Opts == nil || !ops[0].Opts.HTML {
			t.Error("diagnostic must be sent as HTML")
		}
		if !strings.Contains(ops[0].Text, "boom") || !strings.Contains(ops[0].Text, "trace") {
			t.Errorf("diagnostic missing error or trace: %q", ops[0].Text)
		}
	})

	t.Run("No Apology Without Message Context", func(t *testing.T) {
		b, tr := newTestBot(t, &tu.MockMedia{})

		b.report(context.Background(), query(""), errors.New("boom"), nil)

		if len(tr.SentTo(testChat)) != 0 {
			t.Error("inline queries have no chat; no apology expected")
		}
		if len(tr.SentTo(operatorChat)) != 1 {
			t.Error("operator must still be notified")
		}
	})

	t.Run("Send Failure Is Swallowed", func(t *testing.T) {
		b, tr := newTestBot(t, &tu.MockMedia{})
		tr.SendErr = errors.New("network down")

		// must not panic or escalate further
		b.report(context.Background(), text("oops"), errors.New("boom"), nil)
	})

	t.Run("Handler Panic Is Reported", func(t *testing.T) {
		media := &tu.MockMedia{
			CurrentlyPlayingFn: func(ctx context.Context, token string) ([]models.TrackInfo, error) {
				panic("unreachable")
			},
		}
		b, tr := newTestBot(t, media)
		if err := b.store.PutSession(testUser, "tok123"); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		b.Handle(context.Background(), query(""))

		ops := tr.SentTo(operatorChat)
		if len(ops) != 1 {
			t.Fatalf("expected panic diagnostic, got %d operator messages", len(ops))
		}
		if !strings.Contains(ops[0].Text, "panic") {
			t.Errorf("expected panic in diagnostic, got %q", ops[0].Text)
		}
	})
}
