// package store provides the durable credential store backing the bot.
//
// Two logical namespaces live here: sessions (user id -> auth token, durable
// across restarts) and pending usernames (chat id -> in-progress sign-in
// input, transient). Each operation is a single SQL statement so writes are
// atomic per key; no cross-key transaction is needed.
package store

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/plexgram/internal/models"
)

// CredentialStore is the persistence contract the bot depends on.
//
// Implementations must be safe for concurrent use from different chats and
// users. Lookups for absent keys return the zero value, not an error, and
// RemoveSession is idempotent.
type CredentialStore interface {
	// GetSession returns the session for a user, or nil when none exists.
	GetSession(userID int64) (*models.Session, error)
	// PutSession upserts the token for a user, overwriting any existing one.
	PutSession(userID int64, token string) error
	// RemoveSession deletes a user's session; a no-op when absent.
	RemoveSession(userID int64) error
	// SessionCount reports how many users currently hold a session.
	SessionCount() (int, error)
	// ListSessions returns all stored sessions ordered by user id.
	ListSessions() ([]models.Session, error)

	// PendingUsername returns the in-progress sign-in username for a chat.
	PendingUsername(chatID int64) (string, bool, error)
	// SetPendingUsername records the username a chat entered mid-dialog.
	SetPendingUsername(chatID int64, username string) error
	// ClearPendingUsername drops the transient entry; a no-op when absent.
	ClearPendingUsername(chatID int64) error
}

// SQLiteStore implements [CredentialStore] on a sqlite database opened with
// shared.NewDatabase and migrated with shared.RunMigrations.
type SQLiteStore struct {
	db *sql.DB
}

var _ CredentialStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new [SQLiteStore] with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetSession retrieves the session for a user, or nil when absent.
func (s *SQLiteStore) GetSession(userID int64) (*models.Session, error) {
	var token string
	err := s.db.QueryRow("SELECT token FROM sessions WHERE user_id = ?", userID).Scan(&token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &models.Session{UserID: userID, Token: token}, nil
}

// PutSession upserts the token for a user.
func (s *SQLiteStore) PutSession(userID int64, token string) error {
	query := `
		INSERT INTO sessions (user_id, token) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, userID, token); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// RemoveSession deletes a user's session. Deleting an absent session is not
// an error.
func (s *SQLiteStore) RemoveSession(userID int64) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SessionCount reports the number of stored sessions.
func (s *SQLiteStore) SessionCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// ListSessions returns every stored session ordered by user id.
func (s *SQLiteStore) ListSessions() ([]models.Session, error) {
	rows, err := s.db.Query("SELECT user_id, token FROM sessions ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.UserID, &sess.Token); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// PendingUsername retrieves the in-progress username for a chat.
func (s *SQLiteStore) PendingUsername(chatID int64) (string, bool, error) {
	var username string
	err := s.db.QueryRow("SELECT username FROM pending_usernames WHERE chat_id = ?", chatID).Scan(&username)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query pending username: %w", err)
	}
	return username, true, nil
}

// SetPendingUsername upserts the in-progress username for a chat.
func (s *SQLiteStore) SetPendingUsername(chatID int64, username string) error {
	query := `
		INSERT INTO pending_usernames (chat_id, username) VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET username = excluded.username, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, chatID, username); err != nil {
		return fmt.Errorf("failed to upsert pending username: %w", err)
	}
	return nil
}

// ClearPendingUsername drops the transient entry for a chat.
func (s *SQLiteStore) ClearPendingUsername(chatID int64) error {
	if _, err := s.db.Exec("DELETE FROM pending_usernames WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to clear pending username: %w", err)
	}
	return nil
}
