package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/delegatify/internal/formatter"
	"github.com/desertthunder/delegatify/internal/models"
	"github.com/desertthunder/delegatify/internal/services"
	"github.com/desertthunder/delegatify/internal/shared"
)

// AuthWindow is how long a prompt waits for its trigger in each cycle.
const AuthWindow = 120 * time.Second

const (
	SucceededText = "Successfully authenticated!"
	DismissedText = "No input provided"
	failedPrefix  = "Failed to authenticate:\n"
)

// AuthorizationRequest identifies one invocation of the flow.
type AuthorizationRequest struct {
	URL      string        // provider consent page
	State    string        // OAuth2 state echoed on the redirect
	ActionID string        // custom id of the trigger action
	FormID   string        // custom id of the code form
	Window   time.Duration // wait budget per cycle
}

// NewAuthorizationRequest builds a request with fresh identities so concurrent invocations
// never share prompts.
func NewAuthorizationRequest(authorizer services.Authorizer, window time.Duration) AuthorizationRequest {
	state := shared.GenerateID()
	id := "authenticate:" + shared.ShortID()
	return AuthorizationRequest{
		URL:      authorizer.AuthURL(state),
		State:    state,
		ActionID: id,
		FormID:   id + ":code",
		Window:   window,
	}
}

// Replacer is the write side of the session store.
type Replacer interface {
	Replace(client services.PlaybackClient)
}

// AuthorizerFactory builds an unauthenticated authorizer from the application credentials.
type AuthorizerFactory func() (services.Authorizer, error)

// AuthFlowOpts holds the dependencies of an [AuthFlow]. Recorder, Logger and Updates are optional.
type AuthFlowOpts struct {
	Store      Replacer
	Authorizer AuthorizerFactory
	Recorder   AuthRecorder
	Logger     *log.Logger
	Window     time.Duration // defaults to [AuthWindow]
	Updates    chan<- Update
}

// AuthFlow runs the interactive authorization-code handshake.
type AuthFlow struct {
	store      Replacer
	authorizer AuthorizerFactory
	recorder   AuthRecorder
	logger     *log.Logger
	window     time.Duration
	updates    chan<- Update
}

// NewAuthFlow creates an [AuthFlow].
func NewAuthFlow(opts AuthFlowOpts) *AuthFlow {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	window := opts.Window
	if window <= 0 {
		window = AuthWindow
	}
	return &AuthFlow{
		store:      opts.Store,
		authorizer: opts.Authorizer,
		recorder:   opts.Recorder,
		logger:     logger,
		window:     window,
		updates:    opts.Updates,
	}
}

// Run executes one invocation.
//
// It returns nil when the trigger window elapses or ctx is cancelled. Configuration problems
// wrap [shared.ErrInvalidConfig] and end the invocation before anything is sent.
func (f *AuthFlow) Run(ctx context.Context, in Interaction) error {
	authorizer, err := f.authorizer()
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
	}

	req := NewAuthorizationRequest(authorizer, f.window)
	logger := shared.WithLogger(f.logger, "user", in.User(), "action", req.ActionID)

	if err := in.Prompt(ctx, formatter.AuthPrompt(req.URL, req.ActionID, time.Now())); err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}

	for cycle := 1; ; cycle++ {
		sendUpdate(f.updates, awaitingTriggerUpdate(cycle))

		activation, err := f.awaitTrigger(ctx, in, req)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			logger.Debug("authentication window closed", "cycle", cycle)
			return nil
		}
		if err != nil {
			return err
		}

		if err := f.accept(ctx, in, authorizer, req, activation, cycle, logger); err != nil {
			if ctx.Err() != nil {
				logger.Debug("authentication cancelled", "err", err)
				return nil
			}
			return err
		}
	}
}

func (f *AuthFlow) awaitTrigger(ctx context.Context, in Interaction, req AuthorizationRequest) (Activation, error) {
	windowCtx, cancel := context.WithTimeout(ctx, req.Window)
	defer cancel()
	return in.AwaitAction(windowCtx, req.ActionID)
}

// accept handles one activation. Only errors that end the invocation are returned.
func (f *AuthFlow) accept(ctx context.Context, in Interaction, authorizer services.Authorizer, req AuthorizationRequest, activation Activation, cycle int, logger *log.Logger) error {
	sendUpdate(f.updates, awaitingFormUpdate(cycle))

	form := formatter.CodeForm(req.FormID)
	code, err := activation.OpenForm(ctx, form)
	switch {
	case errors.Is(err, shared.ErrDismissedInput):
		logger.Info("code form dismissed")
		f.record(in.User(), models.AuthDismissed, "", logger)
		return in.Reply(ctx, DismissedText)
	case err != nil:
		return fmt.Errorf("failed to open code form: %w", err)
	}

	if !form.Accepts(code) {
		logger.Warn("rejected code", "length", len([]rune(code)))
		f.record(in.User(), models.AuthRejected, fmt.Sprintf("length %d", len([]rune(code))), logger)
		return in.Reply(ctx, InvalidCodeText(form))
	}

	sendUpdate(f.updates, exchangingUpdate(cycle))
	logger.Info("received code")

	client, err := exchange(ctx, authorizer, code)
	if err != nil {
		logger.Warn("code exchange failed", "err", err)
		f.record(in.User(), models.AuthFailed, err.Error(), logger)
		return in.Reply(ctx, FailedText(err))
	}

	f.store.Replace(client)
	logger.Info("installed new session")
	f.record(in.User(), models.AuthSucceeded, "", logger)
	return in.Reply(ctx, SucceededText)
}

func exchange(ctx context.Context, authorizer services.Authorizer, code string) (services.PlaybackClient, error) {
	client, err := authorizer.Exchange(ctx, code)
	if err != nil {
		if !errors.Is(err, shared.ErrAuthExchange) {
			err = fmt.Errorf("%w: %w", shared.ErrAuthExchange, err)
		}
		return nil, err
	}
	return client, nil
}

// record writes an audit event. Failures are logged and ignored.
func (f *AuthFlow) record(userID string, outcome models.AuthOutcome, detail string, logger *log.Logger) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.Create(models.NewAuthEvent(0, userID, outcome, detail)); err != nil {
		logger.Warn("failed to record auth event", "outcome", outcome, "err", err)
	}
}

// FailedText formats an exchange failure for the user.
func FailedText(err error) string {
	detail := strings.TrimPrefix(err.Error(), shared.ErrAuthExchange.Error()+": ")
	return failedPrefix + detail
}

// InvalidCodeText tells the user why a code was rejected.
func InvalidCodeText(form formatter.Form) string {
	return fmt.Sprintf("The code must be between %d and %d characters long.", form.MinLength, form.MaxLength)
}
