// Package discord connects the tasks to Discord through discordgo.
//
// # Router
//
// [Router] maps slash commands to [HandlerFunc] values and wraps them with [Middleware], in
// the order the middleware was added (last added runs innermost). Handler errors are logged
// and reported to the invoking user once.
//
// # Collector
//
// Message components and modal submissions are not tied to a running handler by Discord.
// The [Collector] routes them by custom id to whichever invocation registered that id. An
// interaction nobody waits for is answered with an expiry notice.
//
// # Interaction
//
// [Interaction] implements tasks.Interaction for one application command. The first message
// becomes the interaction response and later ones are sent as follow-ups.
package discord
