package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

const maxPromptRunes = 4000

// SystemInstruction frames the LLM as a news verifier
const SystemInstruction = "Anda adalah pemeriksa fakta berita berbahasa Indonesia. " +
	"Jawab hanya dengan satu objek JSON yang valid."

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ErrNoJSON is returned when an LLM reply carries no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

// BuildPrompt renders the classification prompt for text
func BuildPrompt(text string) string {
	if utf8.RuneCountInString(text) > maxPromptRunes {
		text = string([]rune(text)[:maxPromptRunes]) + "..."
	}

	return fmt.Sprintf(`Analisis teks berikut untuk menentukan apakah ini adalah berita hoax atau faktual.

Teks: %q

Berikan analisis dalam format JSON dengan struktur berikut:
{
  "label": "hoax" atau "faktual",
  "confidence": nilai antara 0-1,
  "probabilities": {
    "hoax": nilai antara 0-1,
    "faktual": nilai antara 0-1
  },
  "rationale": "penjelasan singkat mengapa teks ini diklasifikasikan sebagai hoax atau faktual"
}

Pertimbangkan faktor-faktor berikut:
1. Kredibilitas sumber
2. Bahasa yang digunakan (sensasional, emosional, atau objektif)
3. Fakta yang dapat diverifikasi
4. Struktur dan gaya penulisan
5. Keberadaan bias atau agenda tersembunyi

Berikan hanya respons JSON tanpa teks tambahan.`, text)
}

type llmVerdict struct {
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Rationale     string             `json:"rationale"`
}

// ParseVerdict turns a raw LLM reply into a classification result.
// Probabilities are clamped to [0,1] and rescaled to sum to one; when the
// reply omits them they are derived from the stated confidence.
func ParseVerdict(raw, model string) (*service.ClassificationResult, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	obj := jsonObject.FindString(clean)
	if obj == "" {
		return nil, ErrNoJSON
	}

	var v llmVerdict
	if err := json.Unmarshal([]byte(obj), &v); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}

	label := entity.Label(strings.ToLower(strings.TrimSpace(v.Label)))
	if !label.Valid() {
		return nil, fmt.Errorf("invalid label %q in verdict", v.Label)
	}

	probs := make(map[entity.Label]float64, len(entity.LabelSet))
	total := 0.0
	for _, l := range entity.LabelSet {
		p := clampUnit(v.Probabilities[string(l)])
		probs[l] = p
		total += p
	}

	if total > 0 {
		for l, p := range probs {
			probs[l] = p / total
		}
	} else {
		conf := clampUnit(v.Confidence)
		if conf == 0 {
			conf = 0.5
		}
		for _, l := range entity.LabelSet {
			if l == label {
				probs[l] = conf
			} else {
				probs[l] = (1 - conf) / float64(len(entity.LabelSet)-1)
			}
		}
	}

	return &service.ClassificationResult{
		Label:         label,
		Probabilities: probs,
		ModelVersion:  model,
	}, nil
}

func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
