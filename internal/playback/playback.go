// package playback reads the player of the authenticated account and normalizes it for display.
package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/delegatify/internal/services"
	"github.com/desertthunder/delegatify/internal/shared"
)

// RepeatMode mirrors the provider's three repeat states.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatTrack
	RepeatContext
)

// ParseRepeatMode maps the API's repeat_state. Unknown values read as [RepeatOff].
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "track":
		return RepeatTrack
	case "context":
		return RepeatContext
	default:
		return RepeatOff
	}
}

func (r RepeatMode) String() string {
	switch r {
	case RepeatTrack:
		return "Track"
	case RepeatContext:
		return "Context"
	default:
		return "Off"
	}
}

// Item is the display projection shared by tracks and episodes.
type Item struct {
	Name       string
	Artists    []string
	Duration   time.Duration
	ArtworkURL string // empty when the provider has no artwork
}

// Snapshot combines the item with the player flags at query time.
type Snapshot struct {
	Item
	Elapsed time.Duration
	Shuffle bool
	Repeat  RepeatMode
}

// Status classifies the result of [Fetch].
type Status int

const (
	Unauthenticated Status = iota
	NothingPlaying
	Playing
)

func (s Status) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case NothingPlaying:
		return "nothing playing"
	default:
		return "playing"
	}
}

// Outcome is what the card renderer consumes. Snapshot is set only when Status is [Playing].
type Outcome struct {
	Status   Status
	Snapshot *Snapshot
}

// Reader is the read side of the session store.
type Reader interface {
	Read() (services.PlaybackClient, bool)
}

// Fetch reads the current playback of the stored session.
//
// An empty store is not an error: it yields [Unauthenticated]. Provider failures are
// returned once, wrapped with [shared.ErrAPIRequest], and never retried.
func Fetch(ctx context.Context, store Reader) (Outcome, error) {
	client, ok := store.Read()
	if !ok {
		return Outcome{Status: Unauthenticated}, nil
	}

	state, err := client.CurrentPlayback(ctx)
	if err != nil {
		return Outcome{}, wrapQueryError(err)
	}

	snapshot, ok := NewSnapshot(state)
	if !ok {
		return Outcome{Status: NothingPlaying}, nil
	}

	return Outcome{Status: Playing, Snapshot: snapshot}, nil
}

// NewSnapshot builds a [Snapshot] from raw player state.
//
// It reports false when there is nothing meaningful to show: no state, no item (ads), or
// no progress value.
func NewSnapshot(state *services.PlaybackState) (*Snapshot, bool) {
	if state == nil || state.Item == nil || state.ProgressMS == nil {
		return nil, false
	}

	item, ok := Normalize(state.Item)
	if !ok {
		return nil, false
	}

	return &Snapshot{
		Item:    item,
		Elapsed: time.Duration(*state.ProgressMS) * time.Millisecond,
		Shuffle: state.ShuffleState,
		Repeat:  ParseRepeatMode(state.RepeatState),
	}, true
}

// Normalize projects a track or an episode onto [Item]. Episodes credit their show as the only artist.
func Normalize(raw services.PlayableItem) (Item, bool) {
	switch v := raw.(type) {
	case *services.SpotifyTrack:
		if v == nil {
			return Item{}, false
		}
		artists := make([]string, 0, len(v.Artists))
		for _, a := range v.Artists {
			artists = append(artists, a.Name)
		}
		return Item{
			Name:       v.Name,
			Artists:    artists,
			Duration:   time.Duration(v.DurationMS) * time.Millisecond,
			ArtworkURL: firstImage(v.Album.Images),
		}, true
	case *services.SpotifyEpisode:
		if v == nil {
			return Item{}, false
		}
		artwork := firstImage(v.Images)
		if artwork == "" {
			artwork = firstImage(v.Show.Images)
		}
		return Item{
			Name:       v.Name,
			Artists:    []string{v.Show.Name},
			Duration:   time.Duration(v.DurationMS) * time.Millisecond,
			ArtworkURL: artwork,
		}, true
	default:
		return Item{}, false
	}
}

// firstImage picks the first entry; the API orders images widest first.
func firstImage(images []services.SpotifyImage) string {
	for _, img := range images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

func wrapQueryError(err error) error {
	if errors.Is(err, shared.ErrAPIRequest) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
