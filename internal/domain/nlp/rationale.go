package nlp

import (
	"fmt"
	"math"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
)

// ConfidenceTier names a confidence band in Indonesian
func ConfidenceTier(confidence float64) string {
	switch {
	case confidence > 0.8:
		return "sangat tinggi"
	case confidence > 0.6:
		return "tinggi"
	default:
		return "sedang"
	}
}

// Explain renders a one-sentence rationale for a label and confidence.
// Unknown labels get the hoax wording with a fixed "sedang" tier.
func Explain(label entity.Label, confidence float64) string {
	c := clamp01(confidence)
	pct := fmt.Sprintf("%.1f%%", c*100)

	switch label {
	case entity.LabelHoax, entity.LabelFactual:
		return fmt.Sprintf("Teks ini diklasifikasikan sebagai berita %s dengan tingkat kepercayaan %s (%s).",
			label, ConfidenceTier(c), pct)
	default:
		return fmt.Sprintf("Teks ini diklasifikasikan sebagai berita hoax dengan tingkat kepercayaan sedang (%s).", pct)
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
