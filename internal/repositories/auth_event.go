package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/shared"
)

// AuthEventRepository implements [models.Repository] for [models.AuthEvent] persistence.
type AuthEventRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.AuthEvent] = (*AuthEventRepository)(nil)

// NewAuthEventRepository creates a new [AuthEventRepository] with the given database connection
func NewAuthEventRepository(db *sql.DB) *AuthEventRepository {
	return &AuthEventRepository{db: db}
}

const authEventColumns = `id, sequence, user_id, outcome, detail, created_at, updated_at, deleted_at`

// Create inserts a new event with generated ID and sequence
func (r *AuthEventRepository) Create(event *models.AuthEvent) error {
	sequence, err := NextSequence(r.db, "auth_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	event.SetID(shared.GenerateID())
	event.SetSequence(sequence)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO auth_events (id, sequence, user_id, outcome, detail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		event.ID(), sequence, event.UserID(), string(event.Outcome()), nullable(event.Detail()),
		event.CreatedAt(), event.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert auth event: %w", err)
	}

	return nil
}

// Get retrieves an event by ID, excluding soft-deleted events
func (r *AuthEventRepository) Get(id string) (*models.AuthEvent, error) {
	query := `SELECT ` + authEventColumns + ` FROM auth_events WHERE id = ? AND deleted_at IS NULL`

	event, err := scanAuthEvent(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth event not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query auth event: %w", err)
	}

	return event, nil
}

// Update rewrites the detail of an existing event
func (r *AuthEventRepository) Update(event *models.AuthEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	event.SetUpdatedAt(now)

	query := `
		UPDATE auth_events
		SET detail = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, nullable(event.Detail()), now, event.ID())
	if err != nil {
		return fmt.Errorf("failed to update auth event: %w", err)
	}

	return expectRow(result, event.ID())
}

// Delete soft-deletes an event by ID
func (r *AuthEventRepository) Delete(id string) error {
	query := `
		UPDATE auth_events
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete auth event: %w", err)
	}

	return expectRow(result, id)
}

// List retrieves events newest first. Supported criteria: "user_id" (string), "outcome"
// ([models.AuthOutcome] or string) and "limit" (int).
func (r *AuthEventRepository) List(criteria map[string]any) ([]*models.AuthEvent, error) {
	query := `SELECT ` + authEventColumns + ` FROM auth_events WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	switch outcome := criteria["outcome"].(type) {
	case models.AuthOutcome:
		if outcome != "" {
			query += " AND outcome = ?"
			args = append(args, string(outcome))
		}
	case string:
		if outcome != "" {
			query += " AND outcome = ?"
			args = append(args, outcome)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query auth events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuthEvent
	for rows.Next() {
		event, err := scanAuthEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auth event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuthEvent(row scanner) (*models.AuthEvent, error) {
	var (
		id        string
		sequence  int
		userID    string
		outcome   string
		detail    sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &userID, &outcome, &detail, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	event := models.NewAuthEvent(sequence, userID, models.AuthOutcome(outcome), detail.String)
	event.SetID(id)
	event.SetCreatedAt(createdAt)
	event.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		event.SetDeletedAt(&deletedAt.Time)
	}

	return event, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("auth event not found or already deleted: %s", id)
	}
	return nil
}
