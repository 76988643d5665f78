package crm

import "testing"

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "Jane Doe", "Jane Doe"},
		{"SingleQuote", "O'Brien", `O\'Brien`},
		{"DoubleQuote", `say "hi"`, `say \"hi\"`},
		{"Backslash", `a\b`, `a\\b`},
		{"Newline", "line1\nline2", `line1\nline2`},
		{"Tab", "a\tb", `a\tb`},
		{"ControlCharDropped", "a\x01b", "ab"},
		{"InjectionAttempt", "' OR Name LIKE '%", `\' OR Name LIKE \'%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeString(tt.in); got != tt.want {
				t.Errorf("EscapeString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClauseBuilders(t *testing.T) {
	if got := Eq("Email", "jane@example.com"); got != "Email = 'jane@example.com'" {
		t.Errorf("Eq() = %q", got)
	}
	if got := Eq("LastName", "O'Brien"); got != `LastName = 'O\'Brien'` {
		t.Errorf("Eq() = %q", got)
	}
	if got := In("Email", []string{"a@x.com", "b@x.com"}); got != "Email IN ('a@x.com', 'b@x.com')" {
		t.Errorf("In() = %q", got)
	}
	if got := In("Email", nil); got != "" {
		t.Errorf("In() with no values = %q, want empty", got)
	}
	if got := Like("Name", "Jane"); got != "Name LIKE '%Jane%'" {
		t.Errorf("Like() = %q", got)
	}
}

func TestOr(t *testing.T) {
	got := Or(Eq("Phone", "555"), "", Like("Name", "Jane"))
	want := "Phone = '555' OR Name LIKE '%Jane%'"
	if got != want {
		t.Errorf("Or() = %q, want %q", got, want)
	}

	if got := Or("", ""); got != "" {
		t.Errorf("Or() of empties = %q, want empty", got)
	}
}
