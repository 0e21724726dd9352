// package services defines interface MediaService for interacting with the
// remote media server HTTP API
package services

import (
	"context"

	"github.com/desertthunder/plexgram/internal/models"
)

// MediaService is the adapter contract the bot calls into. The bot owns no
// media semantics of its own; everything below is implemented by an external
// service client such as [PlexService].
//
// Error contract: Authenticate and AuthenticateToken fail with
// [shared.ErrAuth] (wrapped) on bad credentials, an invalid token, or an
// unreachable sign-in endpoint. CurrentlyPlaying and Search fail with
// [shared.ErrAuth] when the token is rejected and [shared.ErrService] on
// connectivity failures.
type MediaService interface {
	// Authenticate exchanges a username and password for an opaque auth token.
	Authenticate(ctx context.Context, username, password string) (string, error)

	// AuthenticateToken re-validates a previously issued token and returns it
	// (or a refreshed equivalent).
	AuthenticateToken(ctx context.Context, token string) (string, error)

	// CurrentlyPlaying returns the tracks playing right now, an empty slice
	// when nothing is playing.
	CurrentlyPlaying(ctx context.Context, token string) ([]models.TrackInfo, error)

	// Search looks up tracks matching query, returning at most maxResults.
	Search(ctx context.Context, token, query string, maxResults int) ([]models.TrackInfo, error)

	// Name returns the name of the service (e.g. "Plex")
	Name() string
}
