// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/desertthunder/delegatify/internal/services"
)

// MockPlaybackClient is a test double for [services.PlaybackClient]
//
// When Release is set, CurrentPlayback blocks until it is closed or ctx is done.
type MockPlaybackClient struct {
	mu      sync.Mutex
	State   *services.PlaybackState
	Err     error
	Release <-chan struct{}
	calls   int
}

func (m *MockPlaybackClient) CurrentPlayback(ctx context.Context) (*services.PlaybackState, error) {
	if err := wait(ctx, m.Release); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.State, m.Err
}

// Calls returns how many times CurrentPlayback was invoked.
func (m *MockPlaybackClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockAuthorizer is a test double for [services.Authorizer]
//
// When Release is set, Exchange blocks until it is closed or ctx is done.
type MockAuthorizer struct {
	mu      sync.Mutex
	URL     string
	Client  services.PlaybackClient
	Err     error
	Release <-chan struct{}
	codes   []string
}

func (m *MockAuthorizer) AuthURL(state string) string {
	if m.URL != "" {
		return m.URL
	}
	return "https://accounts.example.test/authorize?state=" + state
}

func (m *MockAuthorizer) Exchange(ctx context.Context, code string) (services.PlaybackClient, error) {
	if err := wait(ctx, m.Release); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Client, nil
}

// Codes returns every code passed to Exchange, in order.
func (m *MockAuthorizer) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.codes...)
}

func wait(ctx context.Context, release <-chan struct{}) error {
	if release == nil {
		return nil
	}
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Track builds a playing track state with the given progress.
func Track(name string, progress time.Duration, artists ...string) *services.PlaybackState {
	track := &services.SpotifyTrack{Name: name, DurationMS: 215000}
	for _, a := range artists {
		track.Artists = append(track.Artists, services.SpotifyArtist{Name: a})
	}
	ms := int(progress / time.Millisecond)
	return &services.PlaybackState{
		RepeatState: "off",
		ProgressMS:  &ms,
		IsPlaying:   true,
		Item:        track,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
