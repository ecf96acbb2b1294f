package resolve

import (
	"strings"

	"newsdesk/internal/config"
)

// Validator decides whether extracted text is a real article body.
// It is a pure predicate: its only use is gating tier advancement in the
// resolver chain.
type Validator struct {
	cfg config.Validator
}

// NewValidator creates a validator with the given constants. The
// thresholds are empirically chosen and configurable, not invariants.
func NewValidator(cfg config.Validator) *Validator {
	return &Validator{cfg: cfg}
}

// Valid reports whether text looks like a substantive article body.
// Rejections: too short; at least two distinct boilerplate markers
// (share labels, login/subscribe prompts mean we scraped chrome, not an
// article); too few source-script glyphs (a stub page); too short after
// whitespace normalization.
func (v *Validator) Valid(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < v.cfg.MinChars {
		return false
	}

	markers := 0
	for _, m := range v.cfg.BoilerplateMarkers {
		if strings.Contains(trimmed, m) {
			markers++
			if markers >= 2 {
				return false
			}
		}
	}

	if scriptGlyphs(trimmed) < v.cfg.MinScriptChars {
		return false
	}

	normalized := strings.Join(strings.Fields(trimmed), "")
	if len([]rune(normalized)) < v.cfg.MinNormalizedChars {
		return false
	}

	return true
}

// scriptGlyphs counts Hangul and CJK ideograph runes.
func scriptGlyphs(text string) int {
	n := 0
	for _, r := range text {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
			n++
		case r >= 0x1100 && r <= 0x11FF: // Hangul jamo
			n++
		case r >= 0x3130 && r <= 0x318F: // Hangul compatibility jamo
			n++
		case r >= 0x4E00 && r <= 0x9FFF: // CJK ideographs
			n++
		}
	}
	return n
}
