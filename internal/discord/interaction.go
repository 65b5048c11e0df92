package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/delegatify/internal/formatter"
	"github.com/desertthunder/delegatify/internal/shared"
	"github.com/desertthunder/delegatify/internal/tasks"
)

// Responder is the part of [discordgo.Session] used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	_ Responder         = (*discordgo.Session)(nil)
	_ tasks.Interaction = (*Interaction)(nil)
	_ tasks.Activation  = (*activation)(nil)
)

// BusyText answers a trigger pressed while its invocation is still handling the last press.
const BusyText = "Still working on the previous step, try again in a moment."

// Interaction implements [tasks.Interaction] for one application command.
type Interaction struct {
	rs          Responder
	collector   *Collector
	raw         *discordgo.Interaction
	formTimeout time.Duration
	logger      *log.Logger
	done        chan struct{}

	mu        sync.Mutex
	responded bool

	triggersMu sync.Mutex
	triggers   map[string]chan *discordgo.Interaction
	closed     bool
}

func newInteraction(rs Responder, collector *Collector, raw *discordgo.Interaction, formTimeout time.Duration, logger *log.Logger) *Interaction {
	return &Interaction{
		rs:          rs,
		collector:   collector,
		raw:         raw,
		formTimeout: formTimeout,
		logger:      logger,
		done:        make(chan struct{}),
		triggers:    make(map[string]chan *discordgo.Interaction),
	}
}

func (in *Interaction) User() string { return UserID(in.raw) }

// Prompt sends an ephemeral embed with buttons.
func (in *Interaction) Prompt(ctx context.Context, prompt formatter.Prompt) error {
	data := &discordgo.InteractionResponseData{
		Flags:      discordgo.MessageFlagsEphemeral,
		Components: toComponents(prompt.Actions),
	}
	if embed := toEmbed(prompt.Embed); embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{embed}
	}
	return in.respond(ctx, data)
}

// AwaitAction waits for a press of the button with custom id id.
//
// The button stays registered until the invocation ends. Presses that arrive while no
// AwaitAction call is waiting are answered with [BusyText].
func (in *Interaction) AwaitAction(ctx context.Context, id string) (tasks.Activation, error) {
	presses := in.trigger(id)

	select {
	case press := <-presses:
		return &activation{in: in, raw: press}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-in.done:
		return nil, context.Canceled
	}
}

// trigger returns the hand-off channel for id, registering it on first use.
func (in *Interaction) trigger(id string) <-chan *discordgo.Interaction {
	in.triggersMu.Lock()
	defer in.triggersMu.Unlock()

	if ch, ok := in.triggers[id]; ok {
		return ch
	}

	handoff := make(chan *discordgo.Interaction)
	in.triggers[id] = handoff
	if in.closed {
		return handoff
	}

	presses, stop := in.collector.Register(id)
	go func() {
		defer stop()
		for {
			select {
			case press := <-presses:
				select {
				case handoff <- press:
				default:
					in.answerBusy(press)
				}
			case <-in.done:
				return
			}
		}
	}()
	return handoff
}

func (in *Interaction) answerBusy(press *discordgo.Interaction) {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: textData(BusyText, true),
	}
	if err := in.rs.InteractionRespond(press, resp); err != nil {
		in.logger.Warn("failed to answer busy trigger", "custom_id", CustomID(press), "err", err)
	}
}

// close releases the buttons registered by AwaitAction.
func (in *Interaction) close() {
	in.triggersMu.Lock()
	defer in.triggersMu.Unlock()
	if !in.closed {
		in.closed = true
		close(in.done)
	}
}

// Defer acknowledges the command with a loading state visible to the channel.
func (in *Interaction) Defer(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.responded {
		return nil
	}
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if err := in.rs.InteractionRespond(in.raw, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	in.responded = true
	return nil
}

// Reply sends an ephemeral text message.
func (in *Interaction) Reply(ctx context.Context, text string) error {
	return in.respond(ctx, textData(text, true))
}

// Send sends card to the channel.
func (in *Interaction) Send(ctx context.Context, card formatter.Card) error {
	return in.respond(ctx, cardData(card))
}

// Responded reports whether the interaction response was already sent.
func (in *Interaction) Responded() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.responded
}

func (in *Interaction) respond(ctx context.Context, data *discordgo.InteractionResponseData) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.responded {
		resp := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		}
		if err := in.rs.InteractionRespond(in.raw, resp, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		in.responded = true
		return nil
	}

	params := &discordgo.WebhookParams{
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
		Flags:      data.Flags,
	}
	if _, err := in.rs.FollowupMessageCreate(in.raw, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

type activation struct {
	in  *Interaction
	raw *discordgo.Interaction
}

// OpenForm answers the button press with a modal and waits for its submission.
//
// Discord does not report a closed modal, so a form that is not submitted within the form
// timeout counts as dismissed.
func (a *activation) OpenForm(ctx context.Context, form formatter.Form) (string, error) {
	submits, stop := a.in.collector.Register(form.ID)
	defer stop()

	if err := a.in.rs.InteractionRespond(a.raw, toModal(form), discordgo.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	timer := time.NewTimer(a.in.formTimeout)
	defer timer.Stop()

	select {
	case submit := <-submits:
		ack := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
		if err := a.in.rs.InteractionRespond(submit, ack, discordgo.WithContext(ctx)); err != nil {
			a.in.logger.Warn("failed to acknowledge form", "form", form.ID, "err", err)
		}
		return formValue(submit.ModalSubmitData()), nil
	case <-timer.C:
		return "", shared.ErrDismissedInput
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
