package formatter

import "time"

// ActionStyle selects how an [Action] is drawn.
type ActionStyle int

const (
	ActionLink ActionStyle = iota
	ActionPrimary
	ActionSuccess
)

// Action is a button on a [Prompt]. Link actions carry a URL, the others an ID.
type Action struct {
	Label string
	Style ActionStyle
	URL   string
	ID    string
}

// Prompt is an ephemeral message with actions attached.
type Prompt struct {
	Embed   *Embed
	Actions []Action
}

// Form is a modal with a single text field.
type Form struct {
	ID        string
	Title     string
	Label     string
	MinLength int
	MaxLength int
}

// Accepts reports whether value satisfies the length bounds of the form.
func (f Form) Accepts(value string) bool {
	n := len([]rune(value))
	return n >= f.MinLength && n <= f.MaxLength
}

// AuthPrompt builds the authentication prompt: a link to authorizeURL and a trigger with triggerID.
func AuthPrompt(authorizeURL, triggerID string, now time.Time) Prompt {
	return Prompt{
		Embed: &Embed{
			Title:       "Authenticating Delegatify",
			Description: "In order for the application to work, a spotify account must be connected",
			Color:       ColorPrompt,
			Timestamp:   now,
			Fields: []Field{
				{
					Name:  "Open URL Button",
					Value: "This button opens a link to receive an authentication code. When you receive the code, click on the Authenticate button.",
				},
				{
					Name:  "Authenticate Button",
					Value: "This is the button you click when you have the code. It will ask you to input the code, and then you are good to go.",
				},
			},
		},
		Actions: []Action{
			{Label: "Open URL", Style: ActionLink, URL: authorizeURL},
			{Label: "Authenticate", Style: ActionSuccess, ID: triggerID},
		},
	}
}

// CodeForm builds the code entry form. Codes are between 64 and 512 characters.
func CodeForm(id string) Form {
	return Form{
		ID:        id,
		Title:     "Spotify Authentication",
		Label:     "Paste the code that you received here",
		MinLength: 64,
		MaxLength: 512,
	}
}
