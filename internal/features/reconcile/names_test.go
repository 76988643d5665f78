package reconcile

import "testing"

func TestParseHumanName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ParsedName
	}{
		{
			name: "First Last",
			raw:  "Jane Doe",
			want: ParsedName{First: "Jane", Last: "Doe"},
		},
		{
			name: "Last Comma First",
			raw:  "Doe, Jane",
			want: ParsedName{First: "Jane", Last: "Doe"},
		},
		{
			name: "Middle Name",
			raw:  "Jane Marie Doe",
			want: ParsedName{First: "Jane", Middle: "Marie", Last: "Doe"},
		},
		{
			name: "Salutation Stripped",
			raw:  "Dr. Jane Doe",
			want: ParsedName{First: "Jane", Last: "Doe"},
		},
		{
			name: "Generational Suffix",
			raw:  "John Doe Jr.",
			want: ParsedName{First: "John", Last: "Doe", Suffix: "Jr."},
		},
		{
			name: "Salutation And Suffix",
			raw:  "Rev. John Q. Public III",
			want: ParsedName{First: "John", Middle: "Q.", Last: "Public", Suffix: "III"},
		},
		{
			name: "Single Token",
			raw:  "Cher",
			want: ParsedName{First: "Cher"},
		},
		{
			name: "Lone Salutation Kept",
			raw:  "Dr",
			want: ParsedName{First: "Dr"},
		},
		{
			name: "Extra Whitespace",
			raw:  "  Jane   Doe  ",
			want: ParsedName{First: "Jane", Last: "Doe"},
		},
		{
			name: "Empty",
			raw:  "",
			want: ParsedName{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHumanName(tt.raw)
			if got != tt.want {
				t.Errorf("ParseHumanName(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
