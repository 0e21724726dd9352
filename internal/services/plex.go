// Plex implementation of [MediaService]
//
// Sign-in goes through plex.tv; playback and search queries go to the Plex
// Media Server directly with the X-Plex-Token header.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/shared"
)

const plexAuthBaseURL = "https://plex.tv"

// plexSignInResponse is the plex.tv sign-in envelope.
type plexSignInResponse struct {
	User plexUser `json:"user"`
}

type plexUser struct {
	AuthToken string `json:"authToken"`
	Username  string `json:"username"`
}

// plexMediaContainer is the envelope every PMS endpoint returns.
type plexMediaContainer struct {
	MediaContainer struct {
		Size     int            `json:"size"`
		Metadata []plexMetadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

// plexMetadata describes one media item. For music tracks the grandparent is
// the artist and the parent is the album.
type plexMetadata struct {
	Type             string      `json:"type"`
	Title            string      `json:"title"`
	GrandparentTitle string      `json:"grandparentTitle"`
	ParentTitle      string      `json:"parentTitle"`
	Duration         int         `json:"duration"`
	Media            []plexMedia `json:"Media"`
}

type plexMedia struct {
	Part []plexPart `json:"Part"`
}

type plexPart struct {
	Key string `json:"key"`
}

// PlexService implements [MediaService] against a Plex Media Server.
type PlexService struct {
	authURL    string
	serverURL  string
	clientID   string
	httpClient *http.Client
}

var _ MediaService = (*PlexService)(nil)

// NewPlexService creates a new Plex service for the given media server.
// clientID is sent as X-Plex-Client-Identifier on every request.
func NewPlexService(serverURL, clientID string, client *http.Client) (*PlexService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("%w: missing server URL", shared.ErrInvalidConfig)
	}
	if clientID == "" {
		clientID = "plexgram"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PlexService{
		authURL:    plexAuthBaseURL,
		serverURL:  strings.TrimRight(serverURL, "/"),
		clientID:   clientID,
		httpClient: client,
	}, nil
}

func (p *PlexService) Name() string {
	return "Plex"
}

// Authenticate exchanges a username and password for an auth token via
// plex.tv. Both bad credentials and an unreachable sign-in endpoint map to
// [shared.ErrAuth]; the dialog treats them identically.
func (p *PlexService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: empty username or password", shared.ErrAuth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL+"/users/sign_in.json", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.SetBasicAuth(username, password)
	p.setPlexHeaders(req, "")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sign-in request failed: %v", shared.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: bad credentials", shared.ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: sign-in status %d", shared.ErrAuth, resp.StatusCode)
	}

	var signIn plexSignInResponse
	if err := json.NewDecoder(resp.Body).Decode(&signIn); err != nil {
		return "", fmt.Errorf("%w: failed to decode sign-in response: %v", shared.ErrAuth, err)
	}
	if signIn.User.AuthToken == "" {
		return "", fmt.Errorf("%w: sign-in response missing token", shared.ErrAuth)
	}

	return signIn.User.AuthToken, nil
}

// AuthenticateToken re-validates an existing token against plex.tv and
// returns the (possibly refreshed) token.
func (p *PlexService) AuthenticateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", shared.ErrAuth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.authURL+"/users/account.json", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create account request: %w", err)
	}
	p.setPlexHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: account request failed: %v", shared.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: token rejected", shared.ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: account status %d", shared.ErrAuth, resp.StatusCode)
	}

	var account plexSignInResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", fmt.Errorf("%w: failed to decode account response: %v", shared.ErrAuth, err)
	}
	if account.User.AuthToken == "" {
		return token, nil
	}
	return account.User.AuthToken, nil
}

// CurrentlyPlaying lists the tracks playing right now on the media server.
func (p *PlexService) CurrentlyPlaying(ctx context.Context, token string) ([]models.TrackInfo, error) {
	var container plexMediaContainer
	if err := p.doServerRequest(ctx, token, "/status/sessions", &container); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackInfo, 0, container.MediaContainer.Size)
	for _, item := range container.MediaContainer.Metadata {
		tracks = append(tracks, p.trackFromMetadata(item, token))
	}
	return tracks, nil
}

// Search looks up tracks matching query, capped at maxResults.
func (p *PlexService) Search(ctx context.Context, token, query string, maxResults int) ([]models.TrackInfo, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "10") // music tracks only
	params.Set("limit", strconv.Itoa(maxResults))

	var container plexMediaContainer
	if err := p.doServerRequest(ctx, token, "/search?"+params.Encode(), &container); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackInfo, 0, len(container.MediaContainer.Metadata))
	for _, item := range container.MediaContainer.Metadata {
		if len(tracks) == maxResults {
			break
		}
		tracks = append(tracks, p.trackFromMetadata(item, token))
	}
	return tracks, nil
}

// doServerRequest performs an authenticated GET against the media server and
// decodes the MediaContainer envelope into result.
func (p *PlexService) doServerRequest(ctx context.Context, token, endpoint string, result any) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.serverURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	p.setPlexHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: token rejected by media server", shared.ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: media server status %d", shared.ErrService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrService, err)
	}
	return nil
}

func (p *PlexService) setPlexHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", p.clientID)
	req.Header.Set("X-Plex-Product", "plexgram")
	if token != "" {
		req.Header.Set("X-Plex-Token", token)
	}
}

// trackFromMetadata maps one PMS metadata item onto the neutral track value.
// The stream URL embeds the caller's token so the chat platform can fetch the
// file directly from the media server.
func (p *PlexService) trackFromMetadata(item plexMetadata, token string) models.TrackInfo {
	track := models.TrackInfo{
		Kind:       kindFromType(item.Type),
		Title:      item.Title,
		Artist:     item.GrandparentTitle,
		Album:      item.ParentTitle,
		DurationMS: item.Duration,
	}

	if len(item.Media) > 0 && len(item.Media[0].Part) > 0 {
		partKey := item.Media[0].Part[0].Key
		if partKey != "" {
			track.StreamURL = fmt.Sprintf("%s%s?X-Plex-Token=%s", p.serverURL, partKey, url.QueryEscape(token))
		}
	}

	return track
}

func kindFromType(plexType string) models.TrackKind {
	switch plexType {
	case "track":
		return models.KindTrack
	case "artist":
		return models.KindArtist
	default:
		return models.KindOther
	}
}
