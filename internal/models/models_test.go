package models

import "testing"

func TestAuthEvent(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name    string
			id      string
			userID  string
			outcome AuthOutcome
			wantErr bool
		}{
			{"valid", "id-1", "42", AuthSucceeded, false},
			{"missing id", "", "42", AuthFailed, true},
			{"missing user", "id-1", "", AuthDismissed, true},
			{"unknown outcome", "id-1", "42", AuthOutcome("exploded"), true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				event := NewAuthEvent(0, tc.userID, tc.outcome, "")
				event.SetID(tc.id)
				if err := event.Validate(); (err != nil) != tc.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
			})
		}
	})

	t.Run("timestamps start equal", func(t *testing.T) {
		event := NewAuthEvent(1, "42", AuthRejected, "code too short")
		if !event.CreatedAt().Equal(event.UpdatedAt()) {
			t.Error("expected created and updated timestamps to match on creation")
		}
		if event.DeletedAt() != nil {
			t.Error("new event should not be deleted")
		}
	})
}
