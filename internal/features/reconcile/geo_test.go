package reconcile

import "testing"

func TestExpandState(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOk bool
	}{
		{"CA", "California", true},
		{"ca", "California", true},
		{" ny ", "New York", true},
		{"DC", "District of Columbia", true},
		{"PR", "Puerto Rico", true},
		{"AE", "Armed Forces Europe", true},
		{"XX", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ExpandState(tt.code)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("ExpandState(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestTwoLetterCountryCode(t *testing.T) {
	tests := []struct {
		country string
		want    string
		wantOk  bool
	}{
		{"US", "US", true},
		{"us", "US", true},
		{"USA", "US", true},
		{"GBR", "GB", true},
		{"DEU", "DE", true},
		{"Germany", "", false},
		{"United States", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			got, ok := TwoLetterCountryCode(tt.country)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("TwoLetterCountryCode(%q) = (%q, %v), want (%q, %v)", tt.country, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
