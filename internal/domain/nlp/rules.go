package nlp

import (
	"strings"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
)

// Rule classifier confidences
const (
	RuleWinnerConfidence = 0.6
	RuleTieConfidence    = 0.5
)

// RuleVerdict is the outcome of the indicator rules
type RuleVerdict struct {
	Label            entity.Label
	Confidence       float64
	Probabilities    map[entity.Label]float64
	SensationalCount int
	FactualCount     int
}

// RuleClassifier labels text by counting sensational and factual indicator
// words. It is the last resort when no model backend answers.
type RuleClassifier struct {
	sensational []string
	factual     []string
}

// NewRuleClassifier creates a rule classifier from the lexicon indicators
func NewRuleClassifier(lex *Lexicon) *RuleClassifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &RuleClassifier{
		sensational: lex.SensationalIndicators,
		factual:     lex.FactualIndicators,
	}
}

// Classify counts how many distinct indicators of each kind occur in text.
// Ties go to hoax. Probabilities are always an even split.
func (r *RuleClassifier) Classify(text string) RuleVerdict {
	lower := strings.ToLower(text)
	s := countPresent(lower, r.sensational)
	f := countPresent(lower, r.factual)

	v := RuleVerdict{
		Label:            entity.LabelHoax,
		Confidence:       RuleTieConfidence,
		SensationalCount: s,
		FactualCount:     f,
		Probabilities:    EvenSplit(),
	}
	switch {
	case s > f:
		v.Confidence = RuleWinnerConfidence
	case f > s:
		v.Label = entity.LabelFactual
		v.Confidence = RuleWinnerConfidence
	}
	return v
}

// EvenSplit returns equal probability for every label
func EvenSplit() map[entity.Label]float64 {
	p := make(map[entity.Label]float64, len(entity.LabelSet))
	for _, l := range entity.LabelSet {
		p[l] = 1 / float64(len(entity.LabelSet))
	}
	return p
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			n++
		}
	}
	return n
}
