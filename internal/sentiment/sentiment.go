// Package sentiment scores tweet text for polarity and subjectivity.
package sentiment

import govader "github.com/jonreiter/govader"

// Score holds the sentiment of one piece of text. Polarity ranges over
// [-1, 1] (negative to positive); Subjectivity over [0, 1] (objective
// to subjective).
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Scorer computes a sentiment score for a piece of text. Implementations
// must be pure: the same text always yields the same score.
type Scorer interface {
	Score(text string) Score
}

// VaderScorer scores text with the VADER lexicon. Polarity is VADER's
// normalized compound score. VADER has no direct subjectivity measure,
// so the non-neutral proportion of the text (positive + negative) is
// reported as subjectivity.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader creates a VADER-backed scorer.
func NewVader() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements Scorer.
func (v *VaderScorer) Score(text string) Score {
	s := v.analyzer.PolarityScores(text)
	return Score{
		Polarity:     clamp(s.Compound, -1, 1),
		Subjectivity: clamp(s.Positive+s.Negative, 0, 1),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
