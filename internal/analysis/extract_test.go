package analysis

import "testing"

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose wrapped", `Sure! Here you go: {"a": 1} Hope that helps.`, `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"no braces", "plain text", ""},
		{"reversed braces", "} backwards {", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONObject(tc.in); got != tc.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8.5", 8.5, true},
		{"Score: 7", 7, true},
		{"I'd say 9.2/10 for this one", 9.2, true},
		{"-2", -2, true},
		{"no digits here", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := extractScore(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("extractScore(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClampScore(t *testing.T) {
	if clampScore(-1) != 0 {
		t.Error("negative score should clamp to 0")
	}
	if clampScore(11) != 10 {
		t.Error("overshoot should clamp to 10")
	}
	if clampScore(5.5) != 5.5 {
		t.Error("in-range score should pass through")
	}
}
