package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/plexgram/internal/formatter"
	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/transport"
)

// handleQuery answers one ad-hoc inline query. An empty query asks what is
// playing right now; any text searches the user's music library. The
// responder only reads the session store, never the dialog state.
func (b *Bot) handleQuery(ctx context.Context, ev transport.Event) error {
	sess, err := b.store.GetSession(ev.UserID)
	if err != nil {
		return err
	}
	if sess == nil {
		return b.answer(ctx, ev.QueryID, formatter.Unauthenticated())
	}

	query := strings.TrimSpace(ev.Query)

	cctx, cancel := b.mediaContext(ctx)
	defer cancel()

	var tracks []models.TrackInfo
	if query == "" {
		tracks, err = b.media.CurrentlyPlaying(cctx, sess.Token)
	} else {
		tracks, err = b.media.Search(cctx, sess.Token, query, b.maxResults)
	}

	switch {
	case errors.Is(err, shared.ErrAuth):
		// Stale token: answered like a missing session. The session is left
		// in the store so a transient media server hiccup does not force a
		// re-login.
		b.logger.Info("token rejected on ad-hoc query", "user", ev.UserID)
		return b.answer(ctx, ev.QueryID, formatter.Unauthenticated())
	case errors.Is(err, shared.ErrService):
		b.logger.Warn("media service unavailable for ad-hoc query", "user", ev.UserID, "error", err)
		return b.answer(ctx, ev.QueryID, nil)
	case err != nil:
		return err
	}

	// Nothing playing produces no answer at all; only search queries get an
	// explicit empty result set.
	if query == "" && len(tracks) == 0 {
		b.logger.Debug("nothing playing; query left unanswered", "user", ev.UserID)
		return nil
	}

	return b.answer(ctx, ev.QueryID, formatter.Translate(tracks))
}

func (b *Bot) answer(ctx context.Context, queryID string, results []transport.QueryResult) error {
	if err := b.transport.AnswerQuery(ctx, queryID, results); err != nil {
		return fmt.Errorf("failed to answer query: %w", err)
	}
	return nil
}
