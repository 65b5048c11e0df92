// Package ui styles terminal output of the CLI with lipgloss.
//
// The bot itself has no terminal interface; the palette is used by commands that print to
// the operator, such as the authentication audit listing.
package ui
