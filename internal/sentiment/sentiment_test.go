package sentiment

import "testing"

func TestLabel(t *testing.T) {
	a := New()

	tests := []struct {
		text string
		want string
	}{
		{"Record profits and excellent growth this quarter", Positive},
		{"Catastrophic losses trigger terrible layoffs", Negative},
		{"The company published its quarterly report", Neutral},
		{"", ""},
	}
	for _, tt := range tests {
		if got := a.Label(tt.text); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLabelNonEnglishFallsBackToNeutral(t *testing.T) {
	a := New()
	if got := a.Label("한국캐피탈 3분기 실적 발표"); got != Neutral {
		t.Errorf("expected neutral for non-English text, got %q", got)
	}
}
