package ui

import (
	"strings"
	"testing"

	"github.com/desertthunder/delegatify/internal/models"
)

func TestAuditTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if out := AuditTable(nil); !strings.Contains(out, "No authentication events") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("rows", func(t *testing.T) {
		events := []*models.AuthEvent{
			models.NewAuthEvent(2, "1001", models.AuthFailed, "invalid_grant"),
			models.NewAuthEvent(1, "1002", models.AuthSucceeded, ""),
		}

		out := AuditTable(events)
		for _, want := range []string{"Outcome", "1001", "1002", "invalid_grant", "succeeded", "failed"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})
}

func TestTruncate(t *testing.T) {
	tt := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
	}

	for _, tc := range tt {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
