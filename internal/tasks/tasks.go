package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/delegatify/internal/formatter"
	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/playback"
)

// Interaction is one command invocation as seen by a task.
//
// Tasks that may not answer within the platform's acknowledgement deadline call Defer
// before doing slow work.
type Interaction interface {
	// User returns the id of the invoking user.
	User() string

	// Prompt sends a message with actions that only the invoking user can see.
	Prompt(ctx context.Context, prompt formatter.Prompt) error

	// AwaitAction blocks until the action with the given id is activated or ctx is done,
	// in which case ctx.Err() is returned. The action stays live for the rest of the
	// invocation; activations arriving between calls are turned away, not queued.
	AwaitAction(ctx context.Context, id string) (Activation, error)

	// Defer acknowledges the invocation without answering it. The next message sent
	// completes the answer. It is a no-op once a message was sent.
	Defer(ctx context.Context) error

	// Reply sends a short text message to the invoking user.
	Reply(ctx context.Context, text string) error

	// Send answers the invocation with a card visible to the channel.
	Send(ctx context.Context, card formatter.Card) error
}

// Activation is a single press of an action. It can be answered with a form exactly once.
type Activation interface {
	// OpenForm shows form and returns the submitted value.
	// A form closed without submitting returns [shared.ErrDismissedInput].
	OpenForm(ctx context.Context, form formatter.Form) (string, error)
}

// AuthRecorder persists authentication outcomes (implemented by repositories.AuthEventRepository).
type AuthRecorder interface {
	Create(event *models.AuthEvent) error
}

// CurrentTask answers /current with the playback card of the stored session.
type CurrentTask struct {
	store playback.Reader
	now   func() time.Time
}

// NewCurrentTask creates a [CurrentTask] reading from store.
func NewCurrentTask(store playback.Reader) *CurrentTask {
	return &CurrentTask{store: store, now: time.Now}
}

// Run fetches the current playback and sends the rendered card.
//
// The invocation is acknowledged before the provider is queried. Query failures are
// returned unchanged so the caller reports them once.
func (t *CurrentTask) Run(ctx context.Context, in Interaction) error {
	if err := in.Defer(ctx); err != nil {
		return err
	}

	outcome, err := playback.Fetch(ctx, t.store)
	if err != nil {
		return err
	}
	return in.Send(ctx, formatter.RenderAt(outcome, t.now()))
}
