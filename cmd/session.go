package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// sessionRow is the list output shape; tokens stay out of it on purpose.
type sessionRow struct {
	UserID int64 `json:"user_id"`
}

// SessionList prints the users holding a stored session.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	db, credentials, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := credentials.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if cmd.Bool("json") {
		rows := make([]sessionRow, 0, len(sessions))
		for _, sess := range sessions {
			rows = append(rows, sessionRow{UserID: sess.UserID})
		}
		return r.writeJSON(rows, true)
	}

	if len(sessions) == 0 {
		return r.writePlain("No stored sessions.\n")
	}

	r.writePlain("%d stored session(s):\n", len(sessions))
	for _, sess := range sessions {
		r.writePlain("  user %d\n", sess.UserID)
	}
	return nil
}

// SessionRemove deletes a user's stored session.
func (r *Runner) SessionRemove(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.Int64("user")

	db, credentials, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := credentials.GetSession(userID)
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if sess == nil {
		return r.writePlain("No session stored for user %d.\n", userID)
	}

	if err := credentials.RemoveSession(userID); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	r.logger.Info("session removed", "user", userID)
	return r.writePlain("Removed session for user %d.\n", userID)
}
