package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plexgram/internal/bot"
	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/services"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/ui"
	"github.com/urfave/cli/v3"
)

// Console launches the local chat console against a real or fake Plex.
func (r *Runner) Console(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with console rendering
	fileLogger, err := shared.NewFileLogger("./tmp/plexgram-console.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, credentials, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var media services.MediaService
	if cmd.Bool("demo") {
		media = demoMedia{}
	} else {
		if r.config.Plex.ServerURL == "" {
			return fmt.Errorf("%w: plex.server_url is required without --demo", shared.ErrMissingConfig)
		}
		media, err = services.NewPlexService(r.config.Plex.ServerURL, r.config.Plex.ClientID, r.httpClient)
		if err != nil {
			return fmt.Errorf("failed to create media service: %w", err)
		}
	}

	username := cmd.String("user")
	tp := ui.NewConsoleTransport()

	// The console user is always the operator so /restart and /error can be
	// exercised locally, with diagnostics rendered in the same chat.
	b := bot.New(bot.Options{
		Store:          credentials,
		Media:          media,
		Transport:      tp,
		Logger:         fileLogger,
		Operator:       username,
		OperatorChatID: 1,
		CallTimeout:    time.Duration(r.config.Plex.TimeoutSeconds) * time.Second,
		MaxResults:     r.config.Plex.MaxResults,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-b.Restart()
		fileLogger.Info("restart requested, not supported in console")
	}()

	model := ui.NewModel(runCtx, b, tp, username)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}

	return nil
}

// demoMedia is a canned in-memory library for trying the bot without a Plex server.
type demoMedia struct{}

var _ services.MediaService = demoMedia{}

var demoTracks = []models.TrackInfo{
	{Kind: models.KindTrack, Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", StreamURL: "demo://track/1", DurationMS: 545000},
	{Kind: models.KindTrack, Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue", StreamURL: "demo://track/2", DurationMS: 277000},
	{Kind: models.KindTrack, Title: "Giant Steps", Artist: "John Coltrane", Album: "Giant Steps", StreamURL: "demo://track/3", DurationMS: 283000},
}

func (demoMedia) Name() string { return "demo" }

func (demoMedia) Authenticate(ctx context.Context, username, password string) (string, error) {
	if password == "wrong" {
		return "", fmt.Errorf("%w: demo rejects the password %q", shared.ErrAuth, password)
	}
	return "demo-token", nil
}

func (demoMedia) AuthenticateToken(ctx context.Context, token string) (string, error) {
	if token != "demo-token" {
		return "", fmt.Errorf("%w: unknown demo token", shared.ErrAuth)
	}
	return "demo", nil
}

func (demoMedia) CurrentlyPlaying(ctx context.Context, token string) ([]models.TrackInfo, error) {
	return demoTracks[:2], nil
}

func (demoMedia) Search(ctx context.Context, token, query string, maxResults int) ([]models.TrackInfo, error) {
	var matches []models.TrackInfo
	needle := strings.ToLower(query)
	for _, track := range demoTracks {
		if strings.Contains(strings.ToLower(track.Title), needle) || strings.Contains(strings.ToLower(track.Artist), needle) {
			matches = append(matches, track)
		}
		if len(matches) >= maxResults {
			break
		}
	}
	return matches, nil
}
