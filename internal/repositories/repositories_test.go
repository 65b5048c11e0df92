package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestAuthEventRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(0, "1001", models.AuthSucceeded, "")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if event.ID() == "" {
			t.Error("event ID should be set after creation")
		}
		if event.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", event.Sequence())
		}
	})

	t.Run("Create rejects unknown outcome", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		if err := repo.Create(models.NewAuthEvent(0, "1001", "bogus", "")); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(0, "1001", models.AuthFailed, "invalid_grant")
		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		retrieved, err := repo.Get(event.ID())
		if err != nil {
			t.Fatalf("failed to get event: %v", err)
		}

		if retrieved.UserID() != "1001" {
			t.Errorf("expected user 1001, got %s", retrieved.UserID())
		}
		if retrieved.Outcome() != models.AuthFailed {
			t.Errorf("expected outcome failed, got %s", retrieved.Outcome())
		}
		if retrieved.Detail() != "invalid_grant" {
			t.Errorf("expected detail invalid_grant, got %s", retrieved.Detail())
		}

		if _, err := repo.Get("missing"); err == nil {
			t.Error("expected error for missing event")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(0, "1001", models.AuthFailed, "")
		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		event.SetDetail("retried later")
		if err := repo.Update(event); err != nil {
			t.Fatalf("failed to update event: %v", err)
		}

		retrieved, err := repo.Get(event.ID())
		if err != nil {
			t.Fatalf("failed to get event: %v", err)
		}
		if retrieved.Detail() != "retried later" {
			t.Errorf("expected updated detail, got %q", retrieved.Detail())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		event := models.NewAuthEvent(0, "1001", models.AuthDismissed, "")
		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if err := repo.Delete(event.ID()); err != nil {
			t.Fatalf("failed to delete event: %v", err)
		}

		if _, err := repo.Get(event.ID()); err == nil {
			t.Error("deleted event should not be retrievable")
		}

		if err := repo.Delete(event.ID()); err == nil {
			t.Error("deleting twice should fail")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewAuthEventRepository(setupTestDB(t))
		for _, e := range []*models.AuthEvent{
			models.NewAuthEvent(0, "1001", models.AuthRejected, "length 12"),
			models.NewAuthEvent(0, "1001", models.AuthSucceeded, ""),
			models.NewAuthEvent(0, "2002", models.AuthFailed, "invalid_grant"),
		} {
			if err := repo.Create(e); err != nil {
				t.Fatalf("failed to create event: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 events, got %d", len(all))
		}
		if all[0].Sequence() != 3 {
			t.Errorf("expected newest first, got sequence %d", all[0].Sequence())
		}

		byUser, err := repo.List(map[string]any{"user_id": "1001"})
		if err != nil {
			t.Fatalf("failed to list by user: %v", err)
		}
		if len(byUser) != 2 {
			t.Errorf("expected 2 events for user 1001, got %d", len(byUser))
		}

		byOutcome, err := repo.List(map[string]any{"outcome": models.AuthSucceeded})
		if err != nil {
			t.Fatalf("failed to list by outcome: %v", err)
		}
		if len(byOutcome) != 1 || byOutcome[0].UserID() != "1001" {
			t.Errorf("unexpected outcome filter result: %v", byOutcome)
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("failed to list with limit: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 event, got %d", len(limited))
		}
	})
}
