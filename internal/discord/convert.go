package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/desertthunder/delegatify/internal/formatter"
)

const formInputID = "value"

func toEmbed(e *formatter.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	if e.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return embed
}

func toComponents(actions []formatter.Action) []discordgo.MessageComponent {
	if len(actions) == 0 {
		return nil
	}

	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, a := range actions {
		button := discordgo.Button{Label: a.Label}
		switch a.Style {
		case formatter.ActionLink:
			button.Style = discordgo.LinkButton
			button.URL = a.URL
		case formatter.ActionSuccess:
			button.Style = discordgo.SuccessButton
			button.CustomID = a.ID
		default:
			button.Style = discordgo.PrimaryButton
			button.CustomID = a.ID
		}
		buttons = append(buttons, button)
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func toModal(form formatter.Form) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: form.ID,
			Title:    form.Title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  formInputID,
							Label:     form.Label,
							Style:     discordgo.TextInputShort,
							Required:  true,
							MinLength: form.MinLength,
							MaxLength: form.MaxLength,
						},
					},
				},
			},
		},
	}
}

// formValue extracts the text field of a submitted form.
func formValue(data discordgo.ModalSubmitInteractionData) string {
	for _, row := range data.Components {
		var children []discordgo.MessageComponent
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			children = r.Components
		case discordgo.ActionsRow:
			children = r.Components
		}
		for _, c := range children {
			switch input := c.(type) {
			case *discordgo.TextInput:
				if input.CustomID == formInputID {
					return input.Value
				}
			case discordgo.TextInput:
				if input.CustomID == formInputID {
					return input.Value
				}
			}
		}
	}
	return ""
}

func textData(text string, ephemeral bool) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{Content: text}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

func cardData(card formatter.Card) *discordgo.InteractionResponseData {
	if card.IsText() {
		return textData(card.Text, false)
	}
	return &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{toEmbed(card.Embed)}}
}
