package reconcile

import (
	"testing"

	"go-donorsync/internal/crm"
)

func TestFindBestMatch(t *testing.T) {
	byPlatformID := crm.Contact{ID: "c1", PlatformContactID: "42"}
	byEmail := crm.Contact{ID: "c2", Email: "Jane@Example.com"}
	byWorkEmail := crm.Contact{ID: "c3", WorkEmail: "jane@work.example"}
	byPhone := crm.Contact{ID: "c4", Phone: "(555) 123-4567"}
	nameOnly := crm.Contact{ID: "c5", FirstName: "Jane", LastName: "Doe"}

	tests := []struct {
		name       string
		candidates []crm.Contact
		hints      MatchHints
		wantID     string
		wantOk     bool
	}{
		{
			name:       "PlatformIDBeatsEmail",
			candidates: []crm.Contact{byEmail, byPlatformID},
			hints:      MatchHints{PlatformContactID: "42", Emails: []string{"jane@example.com"}},
			wantID:     "c1",
			wantOk:     true,
		},
		{
			name:       "EmailCaseInsensitive",
			candidates: []crm.Contact{byEmail},
			hints:      MatchHints{Emails: []string{"JANE@EXAMPLE.COM"}},
			wantID:     "c2",
			wantOk:     true,
		},
		{
			name:       "WorkEmailCounts",
			candidates: []crm.Contact{byWorkEmail},
			hints:      MatchHints{Emails: []string{"jane@work.example"}},
			wantID:     "c3",
			wantOk:     true,
		},
		{
			name:       "EmailBeatsPhone",
			candidates: []crm.Contact{byPhone, byEmail},
			hints:      MatchHints{Emails: []string{"jane@example.com"}, Phone: "5551234567"},
			wantID:     "c2",
			wantOk:     true,
		},
		{
			name:       "PhoneIgnoresFormatting",
			candidates: []crm.Contact{byPhone},
			hints:      MatchHints{Phone: "555-123-4567"},
			wantID:     "c4",
			wantOk:     true,
		},
		{
			name:       "NameAloneNeverMatches",
			candidates: []crm.Contact{nameOnly},
			hints:      MatchHints{Name: "Jane Doe", Emails: []string{"other@example.com"}},
			wantOk:     false,
		},
		{
			name:       "NoCandidates",
			candidates: nil,
			hints:      MatchHints{PlatformContactID: "42"},
			wantOk:     false,
		},
		{
			name:       "EmptyHintEmailNeverMatchesEmptyField",
			candidates: []crm.Contact{{ID: "c6"}},
			hints:      MatchHints{Emails: []string{""}},
			wantOk:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBestMatch(tt.candidates, tt.hints)
			if ok != tt.wantOk {
				t.Fatalf("FindBestMatch() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("FindBestMatch() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}
