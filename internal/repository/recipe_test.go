package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "pasta", "pasta"},
		{"percent", "100% rye", `100\% rye`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `a\b`, `a\\b`},
		{"mixed", `%_\`, `\%\_\\`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := escapeLike(tt.input); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
