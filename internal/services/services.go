// package services defines the streaming-service clients used by the bot
package services

import (
	"context"
)

// Authorizer starts and completes the OAuth2 authorization-code flow.
type Authorizer interface {
	// AuthURL returns the URL the user opens to grant access. state is echoed back on the redirect.
	AuthURL(state string) string

	// Exchange trades an authorization code for tokens and returns a client bound to them.
	// Failures wrap [shared.ErrAuthExchange].
	Exchange(ctx context.Context, code string) (PlaybackClient, error)
}

// PlaybackClient is an authenticated handle able to read the user's player.
type PlaybackClient interface {
	// CurrentPlayback returns the player state, or nil when nothing is active.
	CurrentPlayback(ctx context.Context) (*PlaybackState, error)
}
