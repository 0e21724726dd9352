package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/transport"
)

// errManual is raised by the operator /error command to exercise the
// diagnostics pipeline end to end.
var errManual = errors.New("manual error command")

const greeting = "Hi! I am the Plex media bot.\n" +
	"I can hand you the music stored on your Plex server, but first you need to sign in with your Plex account.\n" +
	"Send /cancel to stop talking to me.\n\n" +
	"Do you want to sign-in or sign-out?"

const helpText = "/start - begin the sign-in dialog\n" +
	"/cancel - abandon the current dialog\n" +
	"/help - show this message\n\n" +
	"Use me inline in any chat: an empty query shows what is playing right now, any text searches your music library."

// handleDialog drives the per-chat sign-in state machine. Commands are
// matched first; free text is interpreted according to the chat's current
// stage. Unrecognized input is an operational event, not a silent ignore.
//
// The chat lock is held from the stage read through the transition write so
// two events for the same chat always observe each other in some serial
// order. Only completeSignIn releases it, and only around the network call.
func (b *Bot) handleDialog(ctx context.Context, ev transport.Event) error {
	if ev.Kind == transport.EventCommand {
		switch ev.Command {
		case "start":
			return b.greet(ctx, ev)
		case "cancel":
			lock := b.chatLock(ev.ChatID)
			lock.Lock()
			defer lock.Unlock()
			return b.cancelDialog(ctx, ev)
		case "help":
			return b.send(ctx, ev.ChatID, helpText, nil)
		case "restart":
			return b.restartCommand(ctx, ev)
		case "error":
			return b.errorCommand(ctx, ev)
		default:
			return fmt.Errorf("%w: unknown command /%s", shared.ErrInvalidInput, ev.Command)
		}
	}

	lock := b.chatLock(ev.ChatID)
	lock.Lock()
	defer lock.Unlock()

	switch b.state(ev.ChatID).Stage {
	case models.StageAwaitingUsername:
		return b.acceptUsername(ctx, ev)
	case models.StageAwaitingPassword:
		return b.completeSignIn(ctx, ev, lock)
	default:
		return b.idleText(ctx, ev)
	}
}

// greet starts the conversation with the choice keyboard. No dialog state is
// created until the user picks sign-in.
func (b *Bot) greet(ctx context.Context, ev transport.Event) error {
	b.notifyTyping(ctx, ev.ChatID)
	return b.send(ctx, ev.ChatID, greeting, &transport.SendOptions{
		Keyboard: [][]string{{"sign-in", "sign-out"}, {"/cancel"}},
	})
}

// idleText interprets free text outside a dialog: the keyboard choices are
// the only inputs the bot understands here.
func (b *Bot) idleText(ctx context.Context, ev transport.Event) error {
	switch strings.ToLower(strings.TrimSpace(ev.Text)) {
	case "sign-in", "signin":
		return b.beginSignIn(ctx, ev)
	case "sign-out", "signout":
		return b.signOut(ctx, ev)
	default:
		return fmt.Errorf("%w: unexpected message outside a dialog", shared.ErrInvalidInput)
	}
}

// beginSignIn enters the dialog unless the user already holds a session.
// The caller holds the chat lock.
func (b *Bot) beginSignIn(ctx context.Context, ev transport.Event) error {
	sess, err := b.store.GetSession(ev.UserID)
	if err != nil {
		return err
	}
	if sess != nil {
		return b.send(ctx, ev.ChatID,
			"You are already signed in. Choose sign-out first if you want to switch accounts.",
			&transport.SendOptions{RemoveKeyboard: true})
	}

	b.state(ev.ChatID).Stage = models.StageAwaitingUsername

	b.logger.Info("sign-in dialog started", "chat", ev.ChatID, "user", ev.UserID)
	return b.send(ctx, ev.ChatID, "Please enter your username.",
		&transport.SendOptions{RemoveKeyboard: true})
}

// acceptUsername records the username and advances to the password step.
// The caller holds the chat lock.
func (b *Bot) acceptUsername(ctx context.Context, ev transport.Event) error {
	username := strings.TrimSpace(ev.Text)

	if err := b.store.SetPendingUsername(ev.ChatID, username); err != nil {
		return err
	}

	st := b.state(ev.ChatID)
	st.Stage = models.StageAwaitingPassword
	st.PendingUsername = username

	return b.send(ctx, ev.ChatID, "Please enter your password.", nil)
}

// completeSignIn treats the text as the secret and finishes the dialog. The
// caller holds the chat lock; it is released only for the duration of the
// network call so a slow media server cannot block /cancel. The stage is
// re-checked after reacquiring.
func (b *Bot) completeSignIn(ctx context.Context, ev transport.Event, lock *sync.Mutex) error {
	username, ok, err := b.store.PendingUsername(ev.ChatID)
	if err != nil {
		return err
	}

	b.notifyTyping(ctx, ev.ChatID)

	var token string
	authErr := error(nil)
	if !ok {
		// The transient vanished (e.g. restart mid-dialog); treat like a
		// failed attempt so the user restarts the flow.
		authErr = fmt.Errorf("%w: no pending username", shared.ErrAuth)
	} else {
		lock.Unlock()
		cctx, cancel := b.mediaContext(ctx)
		token, authErr = b.media.Authenticate(cctx, username, ev.Text)
		cancel()
		lock.Lock()

		if b.state(ev.ChatID).Stage != models.StageAwaitingPassword {
			// A concurrent /cancel reset the dialog while the call was in
			// flight; the user saw the cancellation, so drop the result.
			b.logger.Info("sign-in abandoned mid-dialog", "chat", ev.ChatID, "user", ev.UserID)
			return nil
		}
	}

	st := b.state(ev.ChatID)
	st.Stage = models.StageIdle
	st.PendingUsername = ""

	if err := b.store.ClearPendingUsername(ev.ChatID); err != nil {
		return err
	}

	if authErr != nil {
		if errors.Is(authErr, shared.ErrAuth) {
			b.logger.Info("sign-in failed", "chat", ev.ChatID, "user", ev.UserID)
			return b.send(ctx, ev.ChatID,
				"Login failed, please try again. Send /start to restart the sign-in.", nil)
		}
		return authErr
	}

	if err := b.store.PutSession(ev.UserID, token); err != nil {
		return err
	}

	// Keep the secret out of the transcript when the transport allows it.
	if ev.MessageID != 0 {
		if derr := b.transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID); derr != nil {
			b.logger.Debug("could not delete password message", "chat", ev.ChatID, "error", derr)
		}
	}

	b.logger.Info("sign-in succeeded", "chat", ev.ChatID, "user", ev.UserID)
	return b.send(ctx, ev.ChatID,
		"You are signed in. Use me inline in any chat to see what is playing.", nil)
}

// signOut removes the user's session. Signing out without a session replies
// but changes nothing.
func (b *Bot) signOut(ctx context.Context, ev transport.Event) error {
	sess, err := b.store.GetSession(ev.UserID)
	if err != nil {
		return err
	}
	if sess == nil {
		return b.send(ctx, ev.ChatID, "You were not signed in; nothing to remove.",
			&transport.SendOptions{RemoveKeyboard: true})
	}

	if err := b.store.RemoveSession(ev.UserID); err != nil {
		return err
	}

	b.logger.Info("signed out", "chat", ev.ChatID, "user", ev.UserID)
	return b.send(ctx, ev.ChatID, "You have been signed out.",
		&transport.SendOptions{RemoveKeyboard: true})
}

// cancelDialog resets the dialog to idle from any stage. The caller holds
// the chat lock.
func (b *Bot) cancelDialog(ctx context.Context, ev transport.Event) error {
	st := b.state(ev.ChatID)
	st.Stage = models.StageIdle
	st.PendingUsername = ""

	if err := b.store.ClearPendingUsername(ev.ChatID); err != nil {
		return err
	}

	return b.send(ctx, ev.ChatID, "Okay, cancelled. Send /start when you want to talk again.",
		&transport.SendOptions{RemoveKeyboard: true})
}

// restartCommand signals the host to restart the process. Operator only.
func (b *Bot) restartCommand(ctx context.Context, ev transport.Event) error {
	if !b.isOperator(ev) {
		b.logger.Warn("unauthorized restart attempt", "user", ev.UserID, "username", ev.Username)
		return b.send(ctx, ev.ChatID, "You don't have permission to do this.", nil)
	}

	if err := b.send(ctx, ev.ChatID, "Bot is restarting...", nil); err != nil {
		return err
	}

	select {
	case b.restart <- struct{}{}:
	default:
		// restart already pending
	}
	return nil
}

// errorCommand deliberately raises an operational error. Operator only.
func (b *Bot) errorCommand(ctx context.Context, ev transport.Event) error {
	if !b.isOperator(ev) {
		b.logger.Warn("unauthorized error command", "user", ev.UserID, "username", ev.Username)
		return b.send(ctx, ev.ChatID, "You don't have permission to do this.", nil)
	}
	return errManual
}

func (b *Bot) isOperator(ev transport.Event) bool {
	return b.operator != "" && ev.Username == b.operator
}
