// Spotify Web API implementation of [Authorizer] and [PlaybackClient]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/delegatify/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultRedirectURI = "http://127.0.0.1:3000/callback"
	defaultHTTPTimeout = 10 * time.Second
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	URI        string          `json:"uri"`
}

// SpotifyShow represents the podcast an episode belongs to.
type SpotifyShow struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Publisher string         `json:"publisher"`
	Images    []SpotifyImage `json:"images"`
}

// SpotifyEpisode represents a podcast episode.
type SpotifyEpisode struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	DurationMS int            `json:"duration_ms"`
	Images     []SpotifyImage `json:"images"`
	Show       SpotifyShow    `json:"show"`
	URI        string         `json:"uri"`
}

// PlayableItem is the item slot of the player: a [*SpotifyTrack] or a [*SpotifyEpisode].
type PlayableItem interface {
	ItemType() string
}

func (*SpotifyTrack) ItemType() string   { return "track" }
func (*SpotifyEpisode) ItemType() string { return "episode" }

// SpotifyDevice is the device currently hosting playback.
type SpotifyDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent *int   `json:"volume_percent"`
}

// PlaybackState represents the response of GET /me/player.
type PlaybackState struct {
	Device               *SpotifyDevice `json:"device"`
	RepeatState          string         `json:"repeat_state"` // off, track, context
	ShuffleState         bool           `json:"shuffle_state"`
	Timestamp            int64          `json:"timestamp"`
	ProgressMS           *int           `json:"progress_ms"`
	IsPlaying            bool           `json:"is_playing"`
	CurrentlyPlayingType string         `json:"currently_playing_type"`

	// Item is nil during ads or when the provider returns no item.
	Item PlayableItem `json:"-"`
}

// UnmarshalJSON decodes the polymorphic item by its "type" discriminator.
func (p *PlaybackState) UnmarshalJSON(data []byte) error {
	type plain PlaybackState
	aux := struct {
		*plain
		Item json.RawMessage `json:"item"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	item, err := decodePlayableItem(aux.Item)
	if err != nil {
		return err
	}
	p.Item = item
	return nil
}

func decodePlayableItem(raw json.RawMessage) (PlayableItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("failed to decode item type: %w", err)
	}

	switch head.Type {
	case "track":
		var track SpotifyTrack
		if err := json.Unmarshal(raw, &track); err != nil {
			return nil, fmt.Errorf("failed to decode track: %w", err)
		}
		return &track, nil
	case "episode":
		var episode SpotifyEpisode
		if err := json.Unmarshal(raw, &episode); err != nil {
			return nil, fmt.Errorf("failed to decode episode: %w", err)
		}
		return &episode, nil
	default:
		return nil, nil
	}
}

// SpotifyService implements [Authorizer] for the Spotify accounts service.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// httpClient bounds every token and API round trip; nil uses a client with a 10 second timeout.
func NewSpotifyService(credentials map[string]string, httpClient *http.Client) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-playback-state",
			"user-read-currently-playing",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: httpClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and returns a [SpotifyClient].
//
// The returned client refreshes its access token through the same HTTP client.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (PlaybackClient, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthExchange, err)
	}

	return s.clientFor(token), nil
}

func (s *SpotifyService) clientFor(token *oauth2.Token) *SpotifyClient {
	refreshCtx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
	httpClient := s.config.Client(refreshCtx, token)
	httpClient.Timeout = s.httpClient.Timeout

	return &SpotifyClient{
		httpClient: httpClient,
		baseURL:    s.baseURL,
		obtainedAt: time.Now(),
	}
}

// SpotifyClient is an authenticated Spotify Web API handle.
type SpotifyClient struct {
	httpClient *http.Client
	baseURL    string
	obtainedAt time.Time
}

// ObtainedAt reports when the tokens behind this client were issued.
func (c *SpotifyClient) ObtainedAt() time.Time {
	return c.obtainedAt
}

// doRequest performs an authenticated GET request and decodes the JSON body into result.
//
// Returns false without decoding when the API answers 204 No Content.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return false, fmt.Errorf("%w: %w: status %d", shared.ErrAPIRequest, shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("%w: spotify status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return true, nil
}

// CurrentPlayback retrieves the user's player state including episodes.
func (c *SpotifyClient) CurrentPlayback(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	ok, err := c.doRequest(ctx, "/me/player?additional_types=episode", &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}
