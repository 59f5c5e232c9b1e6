package registration

import "testing"

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
		tone     string
		width    string
	}{
		{"", 0, "Weak", "weak", "0%"},
		{"abc", 0, "Weak", "weak", "0%"},
		{"abcdefgh", 1, "Fair", "fair", "25%"},
		{"Abc", 1, "Fair", "fair", "25%"},
		{"Abcdefgh", 2, "Good", "good", "50%"},
		{"Abcdefg1", 3, "Strong", "strong", "75%"},
		{"Abcdefg1!", 4, "Strong", "strong", "100%"},
		{"รหัสผ่านยาวมาก", 2, "Good", "good", "50%"},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := PasswordStrength(tt.password)
			if got.Score != tt.score || got.Label != tt.label || got.Tone != tt.tone || got.Width != tt.width {
				t.Errorf("PasswordStrength(%q) = %+v, want %d/%s/%s/%s",
					tt.password, got, tt.score, tt.label, tt.tone, tt.width)
			}
		})
	}
}

func TestStrengthFor_OutOfRange(t *testing.T) {
	for _, score := range []int{-1, 5} {
		if got := strengthFor(score); got.Label != "Weak" {
			t.Errorf("strengthFor(%d).Label = %q, want Weak", score, got.Label)
		}
	}
	if got := strengthFor(-3); got.Width != "0%" {
		t.Errorf("negative width = %q", got.Width)
	}
}

func TestPasswordStrength_Deterministic(t *testing.T) {
	a := PasswordStrength("Hello World 42")
	b := PasswordStrength("Hello World 42")
	if a != b {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}
