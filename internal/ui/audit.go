package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/delegatify/internal/models"
)

var auditHeaders = []string{"#", "When", "User", "Outcome", "Detail"}

// Outcome colors an authentication outcome.
func Outcome(o models.AuthOutcome) string {
	switch o {
	case models.AuthSucceeded:
		return Success(string(o))
	case models.AuthFailed:
		return Error(string(o))
	default:
		return Warning(string(o))
	}
}

// AuditTable renders events as a bordered table, newest first as given.
func AuditTable(events []*models.AuthEvent) string {
	if len(events) == 0 {
		return Help("No authentication events recorded.")
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			strconv.Itoa(e.Sequence()),
			e.CreatedAt().Local().Format(time.DateTime),
			e.UserID(),
			Outcome(e.Outcome()),
			truncate(e.Detail(), 48),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(NewStyle("#626262")).
		Headers(auditHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	return t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
