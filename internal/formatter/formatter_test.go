package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/delegatify/internal/playback"
)

func snapshot() *playback.Snapshot {
	return &playback.Snapshot{
		Item: playback.Item{
			Name:       "Song",
			Artists:    []string{"A", "B"},
			Duration:   3*time.Minute + 35*time.Second,
			ArtworkURL: "https://i.scdn.co/image/abc",
		},
		Elapsed: 61 * time.Second,
		Shuffle: true,
		Repeat:  playback.RepeatContext,
	}
}

func TestFormatDelta(t *testing.T) {
	tt := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{7 * time.Second, "00:07"},
		{61 * time.Second, "01:01"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour, "1:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{12*time.Hour + 5*time.Second, "12:00:05"},
		{-5 * time.Second, "00:00"},
	}

	for _, tc := range tt {
		t.Run(tc.in.String(), func(t *testing.T) {
			if got := FormatDelta(tc.in); got != tc.want {
				t.Errorf("FormatDelta(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	t.Run("below an hour is always mm:ss", func(t *testing.T) {
		for d := time.Duration(0); d < time.Hour; d += 17 * time.Second {
			got := FormatDelta(d)
			if len(got) != 5 || got[2] != ':' {
				t.Fatalf("FormatDelta(%v) = %q, want mm:ss", d, got)
			}
		}
	})

	t.Run("from an hour is always h:mm:ss", func(t *testing.T) {
		for d := time.Hour; d < 30*time.Hour; d += 7*time.Minute + 13*time.Second {
			if parts := strings.Split(FormatDelta(d), ":"); len(parts) != 3 {
				t.Fatalf("FormatDelta(%v) = %q, want h:mm:ss", d, FormatDelta(d))
			}
		}
	})
}

func TestRender(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("Unauthenticated", func(t *testing.T) {
		card := RenderAt(playback.Outcome{Status: playback.Unauthenticated, Snapshot: snapshot()}, now)
		if !card.IsText() {
			t.Fatal("expected plain text card")
		}
		if card.Text != NotAuthenticatedText {
			t.Errorf("unexpected text %q", card.Text)
		}
	})

	t.Run("NothingPlaying", func(t *testing.T) {
		card := RenderAt(playback.Outcome{Status: playback.NothingPlaying}, now)
		if !card.IsText() || card.Text != NothingPlayingText {
			t.Errorf("expected nothing playing text, got %+v", card)
		}
	})

	t.Run("Playing without snapshot falls back to text", func(t *testing.T) {
		card := RenderAt(playback.Outcome{Status: playback.Playing}, now)
		if !card.IsText() {
			t.Error("expected plain text card")
		}
	})

	t.Run("Snapshot", func(t *testing.T) {
		card := RenderAt(playback.Outcome{Status: playback.Playing, Snapshot: snapshot()}, now)
		if card.IsText() {
			t.Fatal("expected embed card")
		}
		embed := card.Embed

		if embed.Title != "Song - A, B" {
			t.Errorf("expected title 'Song - A, B', got %q", embed.Title)
		}
		if embed.Thumbnail != "https://i.scdn.co/image/abc" {
			t.Errorf("unexpected thumbnail %q", embed.Thumbnail)
		}
		if embed.Color != ColorPlayback || embed.Color == ColorPrompt {
			t.Errorf("unexpected color %#x", embed.Color)
		}
		if !embed.Timestamp.Equal(now) {
			t.Errorf("expected timestamp %v, got %v", now, embed.Timestamp)
		}
		if embed.Footer != Footer {
			t.Errorf("expected footer %q, got %q", Footer, embed.Footer)
		}

		want := []Field{
			{Name: "Duration", Value: "01:01 / 03:35"},
			{Name: "Shuffle", Value: "On"},
			{Name: "Repeat", Value: "Context", Inline: true},
		}
		if len(embed.Fields) != len(want) {
			t.Fatalf("expected %d fields, got %d", len(want), len(embed.Fields))
		}
		for i, f := range want {
			if embed.Fields[i] != f {
				t.Errorf("field %d = %+v, want %+v", i, embed.Fields[i], f)
			}
		}
	})

	t.Run("Snapshot without artwork has no thumbnail", func(t *testing.T) {
		s := snapshot()
		s.ArtworkURL = ""
		s.Shuffle = false
		s.Repeat = playback.RepeatOff

		embed := RenderAt(playback.Outcome{Status: playback.Playing, Snapshot: s}, now).Embed
		if embed.Thumbnail != "" {
			t.Errorf("expected no thumbnail, got %q", embed.Thumbnail)
		}
		if embed.Fields[1].Value != "Off" || embed.Fields[2].Value != "Off" {
			t.Errorf("expected Off/Off, got %s/%s", embed.Fields[1].Value, embed.Fields[2].Value)
		}
	})

	t.Run("same snapshot renders the same card", func(t *testing.T) {
		a := RenderAt(playback.Outcome{Status: playback.Playing, Snapshot: snapshot()}, now)
		b := RenderAt(playback.Outcome{Status: playback.Playing, Snapshot: snapshot()}, now)
		if a.Embed.Title != b.Embed.Title || a.Embed.Fields[0] != b.Embed.Fields[0] {
			t.Error("expected identical cards")
		}
	})
}

func TestTitle(t *testing.T) {
	if got := Title("Monday", []string{"Daily News"}); got != "Monday - Daily News" {
		t.Errorf("Title() = %q", got)
	}
}

func TestAuthPrompt(t *testing.T) {
	prompt := AuthPrompt("https://accounts.spotify.com/authorize?x=1", "auth:abcd1234", time.Now())

	if prompt.Embed.Color != ColorPrompt {
		t.Errorf("expected prompt accent, got %#x", prompt.Embed.Color)
	}
	if len(prompt.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(prompt.Actions))
	}

	link, trigger := prompt.Actions[0], prompt.Actions[1]
	if link.Style != ActionLink || link.URL != "https://accounts.spotify.com/authorize?x=1" {
		t.Errorf("unexpected link action %+v", link)
	}
	if trigger.ID != "auth:abcd1234" || trigger.Label != "Authenticate" {
		t.Errorf("unexpected trigger action %+v", trigger)
	}
}

func TestFormAccepts(t *testing.T) {
	form := CodeForm("auth:abcd1234:code")

	tt := []struct {
		n    int
		want bool
	}{
		{0, false},
		{63, false},
		{64, true},
		{70, true},
		{512, true},
		{513, false},
	}

	for _, tc := range tt {
		if got := form.Accepts(strings.Repeat("x", tc.n)); got != tc.want {
			t.Errorf("Accepts(len %d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}
