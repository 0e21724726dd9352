// package models defines the data model for the plexgram bot
package models

// TrackKind classifies a media item returned by the media service.
type TrackKind int

const (
	// KindTrack is a playable music track.
	KindTrack TrackKind = iota
	// KindArtist is an artist entry (not directly playable).
	KindArtist
	// KindOther covers any media type the bot does not handle.
	KindOther
)

// TrackInfo is an immutable description of a media item. Fields are read-only
// once the adapter returns the value; the bot never mutates them.
type TrackInfo struct {
	Kind       TrackKind
	Title      string
	Artist     string
	Album      string
	StreamURL  string
	DurationMS int
}

// Session is the persisted proof that a chat user has authenticated against
// the media server. The credential store is the sole owner; at most one
// session exists per user.
type Session struct {
	UserID int64
	Token  string
}

// Stage is the current step of a per-chat sign-in dialog.
type Stage int

const (
	// StageIdle means no dialog is in progress.
	StageIdle Stage = iota
	// StageAwaitingUsername means the bot asked for a username.
	StageAwaitingUsername
	// StageAwaitingPassword means the bot asked for a password.
	StageAwaitingPassword
)

// String implements [fmt.Stringer] for log output.
func (s Stage) String() string {
	switch s {
	case StageAwaitingUsername:
		return "awaiting_username"
	case StageAwaitingPassword:
		return "awaiting_password"
	default:
		return "idle"
	}
}

// ConversationState tracks a single chat's progress through the sign-in
// dialog. Owned exclusively by the dialog state machine. A dialog only moves
// Idle -> AwaitingUsername -> AwaitingPassword -> Idle, never skipping.
type ConversationState struct {
	Stage           Stage
	PendingUsername string
}
