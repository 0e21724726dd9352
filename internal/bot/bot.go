// package bot dispatches inbound chat events to the auth dialog state
// machine and the ad-hoc query responder
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plexgram/internal/models"
	"github.com/desertthunder/plexgram/internal/services"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/store"
	"github.com/desertthunder/plexgram/internal/transport"
)

const (
	defaultCallTimeout = 10 * time.Second
	defaultMaxResults  = 10
)

// Options contains the collaborators and settings for a [Bot].
type Options struct {
	Store     store.CredentialStore
	Media     services.MediaService
	Transport transport.Transport
	Logger    *log.Logger

	// Operator is the chat username allowed to run /restart and /error.
	Operator string
	// OperatorChatID is the destination for diagnostic reports.
	OperatorChatID int64
	// CallTimeout bounds every media service call.
	CallTimeout time.Duration
	// MaxResults caps search answers per ad-hoc query.
	MaxResults int
}

// Bot owns the per-chat dialog state and routes every inbound event. It
// creates no worker pool of its own: the transport delivers events and the
// bot runs one goroutine per event, serializing same-chat dialog transitions
// with a per-chat lock.
type Bot struct {
	store        store.CredentialStore
	media        services.MediaService
	transport    transport.Transport
	logger       *log.Logger
	operator     string
	operatorChat int64
	callTimeout  time.Duration
	maxResults   int

	restart chan struct{}

	mu     sync.Mutex
	locks  map[int64]*sync.Mutex
	states map[int64]*models.ConversationState

	wg sync.WaitGroup
}

// New creates a new [Bot] with the provided collaborators.
func New(opts Options) *Bot {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}

	return &Bot{
		store:        opts.Store,
		media:        opts.Media,
		transport:    opts.Transport,
		logger:       opts.Logger,
		operator:     opts.Operator,
		operatorChat: opts.OperatorChatID,
		callTimeout:  opts.CallTimeout,
		maxResults:   opts.MaxResults,
		restart:      make(chan struct{}, 1),
		locks:        make(map[int64]*sync.Mutex),
		states:       make(map[int64]*models.ConversationState),
	}
}

// Restart is signalled when the operator requests a process restart. The
// host decides what a restart means; the bot only raises the signal.
func (b *Bot) Restart() <-chan struct{} {
	return b.restart
}

// Run consumes events until the channel closes, then waits for in-flight
// handlers to finish.
func (b *Bot) Run(ctx context.Context, events <-chan transport.Event) {
	for ev := range events {
		b.wg.Add(1)
		go func(ev transport.Event) {
			defer b.wg.Done()
			b.handle(ctx, ev)
		}(ev)
	}
	b.wg.Wait()
}

// Handle processes a single event synchronously. Exported for transports
// that drive the bot directly (the local console) and for tests.
func (b *Bot) Handle(ctx context.Context, ev transport.Event) {
	b.handle(ctx, ev)
}

// handle is the dispatch boundary: any error or panic escaping a handler is
// reported through the diagnostics pipeline, logged, and that event's
// processing is abandoned. Failures never take down the dispatcher.
func (b *Bot) handle(ctx context.Context, ev transport.Event) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panic: %v", r)
			b.report(ctx, ev, err, debug.Stack())
			b.logger.Error("event handler panicked", "panic", r)
		}
	}()

	var err error
	switch ev.Kind {
	case transport.EventCommand, transport.EventText:
		err = b.handleDialog(ctx, ev)
	case transport.EventQuery:
		err = b.handleQuery(ctx, ev)
	case transport.EventPoll:
		b.logger.Debug("ignoring poll update", "poll", ev.PollID)
	}

	if err != nil {
		// No stack here: by the time a handler returns, the frames of the
		// failure site are gone. The wrapped error chain locates it instead.
		b.report(ctx, ev, err, nil)
		b.logger.Error("event handler failed", "error", err)
	}
}

// chatLock returns the mutex serializing dialog transitions for one chat.
// Locks are per chat so unrelated chats never serialize on each other.
func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[chatID] = l
	}
	return l
}

// state returns the conversation state for a chat, creating an idle one on
// first use. Callers must hold the chat lock before mutating the result.
func (b *Bot) state(chatID int64) *models.ConversationState {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[chatID]
	if !ok {
		st = &models.ConversationState{Stage: models.StageIdle}
		b.states[chatID] = st
	}
	return st
}

// send delivers one reply. Delivery failures are operational: the caller
// returns them up to the dispatch boundary.
func (b *Bot) send(ctx context.Context, chatID int64, text string, opts *transport.SendOptions) error {
	if err := b.transport.SendMessage(ctx, chatID, text, opts); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// notifyTyping shows a typing indicator when the transport supports one.
func (b *Bot) notifyTyping(ctx context.Context, chatID int64) {
	if n, ok := b.transport.(transport.TypingNotifier); ok {
		n.NotifyTyping(ctx, chatID)
	}
}

// mediaContext bounds a media service call so a stuck server cannot pin an
// event handler forever.
func (b *Bot) mediaContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.callTimeout)
}
