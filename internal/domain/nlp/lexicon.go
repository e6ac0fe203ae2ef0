package nlp

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the word lists used by normalization, keyword ranking and
// the rule-based classifier.
type Lexicon struct {
	Stopwords             []string `yaml:"stopwords"`
	KeywordStopwords      []string `yaml:"keyword_stopwords"`
	SensationalIndicators []string `yaml:"sensational_indicators"`
	FactualIndicators     []string `yaml:"factual_indicators"`
}

// DefaultLexicon returns the built-in Indonesian lexicon
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Stopwords: []string{
			"yang", "dan", "atau", "dengan", "untuk", "dari", "ke", "di", "pada", "oleh",
			"sebagai", "dalam", "adalah", "itu", "ini", "mereka", "kami", "kita", "anda",
			"saya", "dia", "ia",
		},
		KeywordStopwords: []string{
			"yang", "dan", "atau", "dengan", "untuk", "dari", "ke", "di", "pada", "oleh",
			"sebagai", "dalam", "adalah", "itu", "ini", "akan", "sudah", "masih", "belum",
			"tidak", "bukan",
		},
		SensationalIndicators: []string{"viral", "heboh", "mengagetkan", "terungkap", "bocor", "rahasia"},
		FactualIndicators:     []string{"resmi", "konfirmasi", "bukti", "data", "penelitian", "studi"},
	}
}

// LoadLexicon reads a YAML lexicon file. Lists missing from the file keep
// their built-in values.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := DefaultLexicon()
	if len(override.Stopwords) > 0 {
		lex.Stopwords = lowerAll(override.Stopwords)
	}
	if len(override.KeywordStopwords) > 0 {
		lex.KeywordStopwords = lowerAll(override.KeywordStopwords)
	}
	if len(override.SensationalIndicators) > 0 {
		lex.SensationalIndicators = lowerAll(override.SensationalIndicators)
	}
	if len(override.FactualIndicators) > 0 {
		lex.FactualIndicators = lowerAll(override.FactualIndicators)
	}
	return lex, nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

type wordSet map[string]struct{}

func newWordSet(lists ...[]string) wordSet {
	set := make(wordSet)
	for _, list := range lists {
		for _, w := range list {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}
