package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		limit int
		want  string
	}{
		"non-positive limit":       {input: "Go developer", limit: 0, want: ""},
		"fits":                     {input: "Go developer", limit: 20, want: "Go developer"},
		"cut":                      {input: "Go developer", limit: 2, want: "Go..."},
		"multi-line posting":       {input: "Senior Go\n\n  remote\tonly ", limit: 100, want: "Senior Go remote only"},
		"counts runes not bytes":   {input: "Вакансия Go", limit: 8, want: "Вакансия..."},
		"whitespace only is empty": {input: " \n\t ", limit: 5, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}
