package discord

import "github.com/bwmarrin/discordgo"

// AuthenticateCommand connects the Spotify account.
var AuthenticateCommand = &discordgo.ApplicationCommand{
	Name:        "authenticate",
	Description: "Authenticates the application with a Spotify account",
}

// CurrentCommand shows the current playback.
var CurrentCommand = &discordgo.ApplicationCommand{
	Name:        "current",
	Description: "Check the current playback",
}
