// package formatter translates media service results into chat response variants
//
// Translation is pure: nothing here calls the media service or the store,
// and well-formed input always produces output.
package formatter

import (
	"fmt"
	"html"

	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/transport"
)

// Translate maps each track onto a response variant, preserving order.
// Artist entries are not translated; only playable tracks and unknown items
// with a stream URL become results.
func Translate(tracks []models.TrackInfo) []transport.QueryResult {
	results := make([]transport.QueryResult, 0, len(tracks))
	for _, track := range tracks {
		if track.Kind == models.KindArtist {
			continue
		}
		results = append(results, translateTrack(track))
	}
	return results
}

// translateTrack builds the audio variant for a single track. Duration is
// truncated to whole seconds; the fallback body links the title to the
// stream URL for platforms that render the result as text.
func translateTrack(track models.TrackInfo) transport.QueryResult {
	return transport.QueryResult{
		ID:              shared.GenerateID(),
		Kind:            transport.ResultAudio,
		AudioURL:        track.StreamURL,
		Title:           track.Title,
		Performer:       track.Artist,
		DurationSeconds: track.DurationMS / 1000,
		Caption:         track.Album,
		MessageHTML:     fallbackBody(track),
	}
}

// Unauthenticated builds the single informational variant returned when the
// requesting user holds no session.
func Unauthenticated() []transport.QueryResult {
	return []transport.QueryResult{
		{
			ID:          shared.GenerateID(),
			Kind:        transport.ResultArticle,
			Title:       "Sign in required",
			Description: "Open a chat with the bot and send /start to sign in",
			MessageHTML: "I don't know your media server credentials yet. Open a chat with me and send /start to sign in.",
		},
	}
}

func fallbackBody(track models.TrackInfo) string {
	body := fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(track.StreamURL), html.EscapeString(track.Title))
	if track.Artist != "" {
		body += fmt.Sprintf(" by %s", html.EscapeString(track.Artist))
	}
	if track.Album != "" {
		body += fmt.Sprintf(" (%s)", html.EscapeString(track.Album))
	}
	return body
}
