package sentiment

import "github.com/jonreiter/govader"

// Labels stored in the optional sentiment column.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

const compoundThreshold = 0.05

// Analyzer tags items with a coarse sentiment label. Best-effort: the
// underlying lexicon is English, so non-English text lands on neutral.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// New creates a sentiment analyzer.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Label classifies text as positive, negative or neutral by compound
// polarity. Empty text gets no label.
func (a *Analyzer) Label(text string) string {
	if text == "" {
		return ""
	}

	compound := a.vader.PolarityScores(text).Compound
	switch {
	case compound >= compoundThreshold:
		return Positive
	case compound <= -compoundThreshold:
		return Negative
	default:
		return Neutral
	}
}
