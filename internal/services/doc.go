// Package services implements the Spotify Web API client used by the bot.
//
// # OAuth
//
// [SpotifyService] holds the application credentials and implements [Authorizer]. It builds
// authorization URLs and exchanges the code a user pastes into Discord for tokens. Each
// successful exchange yields a [SpotifyClient] whose [oauth2] transport refreshes the access
// token on its own.
//
// # Player
//
// [SpotifyClient.CurrentPlayback] reads GET /me/player with additional_types=episode. The
// response item is polymorphic: [PlaybackState.Item] holds a [*SpotifyTrack], a
// [*SpotifyEpisode], or nil for ads and unknown types. A 204 response means no active
// device and yields a nil state.
//
// # Errors
//
// Errors wrap the sentinels from the shared package:
//   - [shared.ErrMissingCredentials] : client id or secret absent
//   - [shared.ErrAuthExchange] : the provider rejected the code
//   - [shared.ErrTokenExpired] : 401 from the API
//   - [shared.ErrAPIRequest] : any other transport or API failure
package services
