package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/delegatify/internal/shared"
)

// ExpiredText answers buttons and forms that no invocation is waiting for.
const ExpiredText = "This prompt has expired. Run the command again."

// Request is a single slash command invocation.
type Request struct {
	Command     string
	UserID      string
	Interaction *Interaction
	Logger      *log.Logger
}

// HandlerFunc handles a slash command.
type HandlerFunc func(ctx context.Context, req *Request) error

// Middleware wraps a [HandlerFunc] with additional behavior.
type Middleware func(HandlerFunc) HandlerFunc

type route struct {
	command *discordgo.ApplicationCommand
	handler HandlerFunc
}

// Router dispatches interactions to command handlers and waiting invocations.
type Router struct {
	routes      map[string]route
	order       []string
	middlewares []Middleware
	collector   *Collector
	formTimeout time.Duration
	logger      *log.Logger
}

// NewRouter creates a [Router]. formTimeout bounds how long a form stays open.
func NewRouter(logger *log.Logger, formTimeout time.Duration) *Router {
	return &Router{
		routes:      make(map[string]route),
		middlewares: []Middleware{},
		collector:   NewCollector(),
		formTimeout: formTimeout,
		logger:      logger,
	}
}

// Use adds [Middleware] applied to every command, in the order it's added.
func (r *Router) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for command. Route middleware runs inside the router's.
func (r *Router) Handle(command *discordgo.ApplicationCommand, handler HandlerFunc, middleware ...Middleware) {
	if _, ok := r.routes[command.Name]; !ok {
		r.order = append(r.order, command.Name)
	}
	r.routes[command.Name] = route{
		command: command,
		handler: r.Apply(apply(handler, middleware)),
	}
}

// Commands returns the registered commands in registration order.
func (r *Router) Commands() []*discordgo.ApplicationCommand {
	commands := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, name := range r.order {
		commands = append(commands, r.routes[name].command)
	}
	return commands
}

// Collector returns the router's [Collector].
func (r *Router) Collector() *Collector {
	return r.collector
}

// Apply wraps handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *Router) Apply(handler HandlerFunc) HandlerFunc {
	return apply(handler, r.middlewares)
}

func apply(handler HandlerFunc, middlewares []Middleware) HandlerFunc {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// Dispatch handles one interaction. It blocks until the command handler returns.
func (r *Router) Dispatch(ctx context.Context, rs Responder, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.dispatchCommand(ctx, rs, i)
	case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
		if r.collector.Deliver(i) {
			return
		}
		r.logger.Debug("no waiter for interaction", "custom_id", CustomID(i), "user", UserID(i))
		resp := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: textData(ExpiredText, true),
		}
		if err := rs.InteractionRespond(i, resp, discordgo.WithContext(ctx)); err != nil {
			r.logger.Warn("failed to answer expired interaction", "err", err)
		}
	}
}

func (r *Router) dispatchCommand(ctx context.Context, rs Responder, i *discordgo.Interaction) {
	name := i.ApplicationCommandData().Name
	rt, ok := r.routes[name]
	if !ok {
		r.logger.Warn("unknown command", "command", name)
		return
	}

	logger := shared.WithLogger(r.logger, "command", name, "user", UserID(i))
	req := &Request{
		Command:     name,
		UserID:      UserID(i),
		Interaction: newInteraction(rs, r.collector, i, r.formTimeout, logger),
		Logger:      logger,
	}
	defer req.Interaction.close()

	if err := rt.handler(ctx, req); err != nil {
		logger.Error("command failed", "err", err)
		if err := req.Interaction.Reply(ctx, ErrorText(err)); err != nil {
			logger.Error("failed to report error", "err", err)
		}
	}
}

// ErrorText is the message shown for a failed command.
func ErrorText(err error) string {
	return "Something went wrong: " + err.Error()
}
