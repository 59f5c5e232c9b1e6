package registration

import (
	"strconv"
	"unicode/utf8"
)

// Strength is the result of PasswordStrength.
type Strength struct {
	Score int
	Label string // Weak, Fair, Good or Strong
	Tone  string // weak, fair, good or strong
	Width string // score/4 as a CSS percentage
}

var strengthBuckets = []struct{ label, tone string }{
	{"Fair", "fair"},
	{"Good", "good"},
	{"Strong", "strong"},
	{"Strong", "strong"},
}

// PasswordStrength scores a password by counting satisfied predicates:
// at least 8 characters, an ASCII uppercase letter, a digit and a
// character outside [A-Za-z0-9].
func PasswordStrength(password string) Strength {
	score := 0
	if utf8.RuneCountInString(password) >= MinPasswordLength {
		score++
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			symbol = true
		}
	}
	for _, ok := range []bool{upper, digit, symbol} {
		if ok {
			score++
		}
	}

	return strengthFor(score)
}

func strengthFor(score int) Strength {
	s := Strength{
		Score: score,
		Label: "Weak",
		Tone:  "weak",
		Width: strconv.Itoa(score*100/4) + "%",
	}
	if score >= 1 && score <= len(strengthBuckets) {
		s.Label = strengthBuckets[score-1].label
		s.Tone = strengthBuckets[score-1].tone
	}
	if score < 0 {
		s.Width = "0%"
	}
	return s
}
