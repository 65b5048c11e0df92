// package formatter renders playback outcomes and prompts into platform-neutral cards
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/delegatify/internal/playback"
)

// Accent colors. Prompts and playback cards never share one.
const (
	ColorPrompt   = 0x3498DB // blue
	ColorPlayback = 0x1F8B4C // dark green
)

const (
	Footer = "Delegatify"

	NotAuthenticatedText = "The application isn't authenticated.\nrun '/authenticate' to connect."
	NothingPlayingText   = "Nothing Playing"
)

// Card is a message body: plain text when Embed is nil.
type Card struct {
	Text  string
	Embed *Embed
}

// IsText reports whether the card carries no structured embed.
func (c Card) IsText() bool {
	return c.Embed == nil
}

// Embed is a structured card.
type Embed struct {
	Title       string
	Description string
	Color       int
	Thumbnail   string
	Fields      []Field
	Footer      string
	Timestamp   time.Time
}

// Field is a named value inside an [Embed].
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Render formats outcome with the current time as the generation timestamp.
func Render(outcome playback.Outcome) Card {
	return RenderAt(outcome, time.Now())
}

// RenderAt is [Render] with an explicit timestamp.
func RenderAt(outcome playback.Outcome, now time.Time) Card {
	switch outcome.Status {
	case playback.Unauthenticated:
		return Card{Text: NotAuthenticatedText}
	case playback.Playing:
		if outcome.Snapshot != nil {
			return Card{Embed: snapshotEmbed(outcome.Snapshot, now)}
		}
	}
	return Card{Text: NothingPlayingText}
}

func snapshotEmbed(s *playback.Snapshot, now time.Time) *Embed {
	return &Embed{
		Title:     Title(s.Name, s.Artists),
		Color:     ColorPlayback,
		Thumbnail: s.ArtworkURL,
		Footer:    Footer,
		Timestamp: now,
		Fields: []Field{
			{Name: "Duration", Value: fmt.Sprintf("%s / %s", FormatDelta(s.Elapsed), FormatDelta(s.Duration))},
			{Name: "Shuffle", Value: OnOff(s.Shuffle)},
			{Name: "Repeat", Value: s.Repeat.String(), Inline: true},
		},
	}
}

// Title joins the item name and its artists as "name - a1, a2".
func Title(name string, artists []string) string {
	return name + " - " + strings.Join(artists, ", ")
}

func OnOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

// FormatDelta formats d as mm:ss, or h:mm:ss from one hour up. Negative values format as zero.
func FormatDelta(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
