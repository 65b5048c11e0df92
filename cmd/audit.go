package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/repositories"
	"github.com/desertthunder/delegatify/internal/shared"
	"github.com/desertthunder/delegatify/internal/ui"
)

type auditEntry struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"sequence"`
	UserID    string    `json:"user_id"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditList prints recorded authentication events.
func (r *Runner) AuditList(ctx context.Context, cmd *cli.Command) error {
	outcome := models.AuthOutcome(cmd.String("outcome"))
	if outcome != "" && !outcome.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", shared.ErrInvalidInput, outcome)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	events, err := repositories.NewAuthEventRepository(db).List(map[string]any{
		"user_id": cmd.String("user"),
		"outcome": outcome,
		"limit":   int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]auditEntry, 0, len(events))
		for _, e := range events {
			entries = append(entries, auditEntry{
				ID:        e.ID(),
				Sequence:  e.Sequence(),
				UserID:    e.UserID(),
				Outcome:   string(e.Outcome()),
				Detail:    e.Detail(),
				CreatedAt: e.CreatedAt(),
			})
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", ui.Title("Authentication events"))
	return r.writePlain("%s\n", ui.AuditTable(events))
}
