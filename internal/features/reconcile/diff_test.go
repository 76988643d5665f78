package reconcile

import (
	"testing"

	"go-donorsync/internal/crm"
)

func TestDiffFields(t *testing.T) {
	tests := []struct {
		name     string
		current  crm.Fields
		expected crm.Fields
		want     crm.Fields
	}{
		{
			name:     "NoChanges",
			current:  crm.Fields{"FirstName": "Jane", "Amount": 25.0},
			expected: crm.Fields{"FirstName": "Jane", "Amount": 25.0},
			want:     crm.Fields{},
		},
		{
			name:     "ChangedValue",
			current:  crm.Fields{"FirstName": "Jane"},
			expected: crm.Fields{"FirstName": "Janet"},
			want:     crm.Fields{"FirstName": "Janet"},
		},
		{
			name:     "MissingKey",
			current:  crm.Fields{},
			expected: crm.Fields{"Phone": "555"},
			want:     crm.Fields{"Phone": "555"},
		},
		{
			name:     "NumericKindsEqual",
			current:  crm.Fields{"Amount": int64(25)},
			expected: crm.Fields{"Amount": 25.0},
			want:     crm.Fields{},
		},
		{
			name:     "NilClearsStoredValue",
			current:  crm.Fields{"MailingCountry": "Atlantis"},
			expected: crm.Fields{"MailingCountry": nil},
			want:     crm.Fields{"MailingCountry": nil},
		},
		{
			name:     "NilMatchesEmptyStored",
			current:  crm.Fields{"MailingCountry": ""},
			expected: crm.Fields{"MailingCountry": nil},
			want:     crm.Fields{},
		},
		{
			name:     "UnexpectedStoredFieldsUntouched",
			current:  crm.Fields{"FirstName": "Jane", "Notes": "long-time donor"},
			expected: crm.Fields{"FirstName": "Jane"},
			want:     crm.Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffFields(tt.current, tt.expected)
			if len(got) != len(tt.want) {
				t.Fatalf("DiffFields() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				have, ok := got[k]
				if !ok || have != v {
					t.Errorf("DiffFields()[%s] = %v (present=%v), want %v", k, have, ok, v)
				}
			}
		})
	}
}
