package models

import (
	"fmt"
	"time"
)

// AuthOutcome is the terminal state of one acceptance cycle of the authentication flow.
type AuthOutcome string

const (
	AuthSucceeded AuthOutcome = "succeeded"
	AuthFailed    AuthOutcome = "failed"
	AuthDismissed AuthOutcome = "dismissed"
	AuthRejected  AuthOutcome = "rejected" // code failed length validation
)

// Valid reports whether o is one of the known outcomes.
func (o AuthOutcome) Valid() bool {
	switch o {
	case AuthSucceeded, AuthFailed, AuthDismissed, AuthRejected:
		return true
	}
	return false
}

// AuthEvent is an audit record of an authentication attempt made through /authenticate.
type AuthEvent struct {
	id        string
	sequence  int
	userID    string
	outcome   AuthOutcome
	detail    string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*AuthEvent)(nil)

// NewAuthEvent creates an unsaved [AuthEvent]. The repository assigns the id.
func NewAuthEvent(sequence int, userID string, outcome AuthOutcome, detail string) *AuthEvent {
	now := time.Now().UTC()
	return &AuthEvent{
		sequence:  sequence,
		userID:    userID,
		outcome:   outcome,
		detail:    detail,
		createdAt: now,
		updatedAt: now,
	}
}

func (e *AuthEvent) ID() string            { return e.id }
func (e *AuthEvent) Sequence() int         { return e.sequence }
func (e *AuthEvent) UserID() string        { return e.userID }
func (e *AuthEvent) Outcome() AuthOutcome  { return e.outcome }
func (e *AuthEvent) Detail() string        { return e.detail }
func (e *AuthEvent) CreatedAt() time.Time  { return e.createdAt }
func (e *AuthEvent) UpdatedAt() time.Time  { return e.updatedAt }
func (e *AuthEvent) DeletedAt() *time.Time { return e.deletedAt }

func (e *AuthEvent) SetID(id string)           { e.id = id }
func (e *AuthEvent) SetSequence(seq int)       { e.sequence = seq }
func (e *AuthEvent) SetDetail(detail string)   { e.detail = detail }
func (e *AuthEvent) SetCreatedAt(t time.Time)  { e.createdAt = t }
func (e *AuthEvent) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *AuthEvent) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// Validate checks the required fields.
func (e *AuthEvent) Validate() error {
	if e.id == "" {
		return fmt.Errorf("auth event id is required")
	}
	if e.userID == "" {
		return fmt.Errorf("auth event user id is required")
	}
	if !e.outcome.Valid() {
		return fmt.Errorf("unknown auth outcome %q", e.outcome)
	}
	return nil
}
