// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/services"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/store"
	"github.com/desertthunder/plexgram/internal/transport"
)

var (
	_ services.MediaService    = (*MockMedia)(nil)
	_ transport.Transport      = (*RecordingTransport)(nil)
	_ transport.TypingNotifier = (*RecordingTransport)(nil)
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockMedia is a configurable test double for [services.MediaService].
// Unset fields make the corresponding call fail the zero-value way (empty
// results, nil error). Call counters let tests assert the adapter was or
// was not reached.
type MockMedia struct {
	AuthenticateFn     func(ctx context.Context, username, password string) (string, error)
	AuthenticateTokFn  func(ctx context.Context, token string) (string, error)
	CurrentlyPlayingFn func(ctx context.Context, token string) ([]models.TrackInfo, error)
	SearchFn           func(ctx context.Context, token, query string, maxResults int) ([]models.TrackInfo, error)

	mu               sync.Mutex
	AuthCalls        int
	PlayingCalls     int
	SearchCalls      int
	LastSearchQuery  string
	LastAuthUsername string
	LastAuthPassword string
}

func (m *MockMedia) Authenticate(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	m.AuthCalls++
	m.LastAuthUsername = username
	m.LastAuthPassword = password
	m.mu.Unlock()
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return "", nil
}

func (m *MockMedia) AuthenticateToken(ctx context.Context, token string) (string, error) {
	if m.AuthenticateTokFn != nil {
		return m.AuthenticateTokFn(ctx, token)
	}
	return token, nil
}

func (m *MockMedia) CurrentlyPlaying(ctx context.Context, token string) ([]models.TrackInfo, error) {
	m.mu.Lock()
	m.PlayingCalls++
	m.mu.Unlock()
	if m.CurrentlyPlayingFn != nil {
		return m.CurrentlyPlayingFn(ctx, token)
	}
	return nil, nil
}

func (m *MockMedia) Search(ctx context.Context, token, query string, maxResults int) ([]models.TrackInfo, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.LastSearchQuery = query
	m.mu.Unlock()
	if m.SearchFn != nil {
		return m.SearchFn(ctx, token, query, maxResults)
	}
	return nil, nil
}

func (m *MockMedia) Name() string { return "mock" }

// SentMessage records one SendMessage call.
type SentMessage struct {
	ChatID int64
	Text   string
	Opts   *transport.SendOptions
}

// Answer records one AnswerQuery call.
type Answer struct {
	QueryID string
	Results []transport.QueryResult
}

// Deletion records one DeleteMessage call.
type Deletion struct {
	ChatID    int64
	MessageID int
}

// RecordingTransport is a test double for [transport.Transport] that records
// every outbound action. SendErr/AnswerErr/DeleteErr inject failures.
type RecordingTransport struct {
	mu        sync.Mutex
	Sent      []SentMessage
	Answers   []Answer
	Deleted   []Deletion
	Typing    []int64
	SendErr   error
	AnswerErr error
	DeleteErr error
}

func (r *RecordingTransport) SendMessage(ctx context.Context, chatID int64, text string, opts *transport.SendOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendErr != nil {
		return r.SendErr
	}
	r.Sent = append(r.Sent, SentMessage{ChatID: chatID, Text: text, Opts: opts})
	return nil
}

func (r *RecordingTransport) AnswerQuery(ctx context.Context, queryID string, results []transport.QueryResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AnswerErr != nil {
		return r.AnswerErr
	}
	r.Answers = append(r.Answers, Answer{QueryID: queryID, Results: results})
	return nil
}

func (r *RecordingTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.Deleted = append(r.Deleted, Deletion{ChatID: chatID, MessageID: messageID})
	return nil
}

func (r *RecordingTransport) NotifyTyping(ctx context.Context, chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Typing = append(r.Typing, chatID)
}

// SentTo returns the messages delivered to one chat, in order.
func (r *RecordingTransport) SentTo(chatID int64) []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []SentMessage
	for _, m := range r.Sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// NewTestStore returns a credential store backed by in-memory sqlite with
// migrations applied. The database closes with the test.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Keep the in-memory database on a single connection.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store.NewSQLiteStore(db)
}
