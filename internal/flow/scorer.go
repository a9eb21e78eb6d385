package flow

import (
	"fmt"
	"math"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

// Feedback tiers for pronunciation scoring.
const (
	TierFull    = "full"
	TierPartial = "partial"
	TierNone    = "none"
)

// Score compares recognized tokens against the target word list.
// Matching is case-insensitive, order-independent, and each target counts
// at most once no matter how often it appears in the input.
func Score(recognized, targets []string) domain.STTFeedback {
	seen := make(map[string]bool, len(recognized))
	for _, tok := range recognized {
		tok = normalizeToken(tok)
		if tok != "" {
			seen[tok] = true
		}
	}

	matched := make([]string, 0, len(targets))
	for _, target := range targets {
		if seen[normalizeToken(target)] {
			matched = append(matched, target)
		}
	}

	var accuracy float64
	if len(targets) > 0 {
		accuracy = float64(len(matched)) / float64(len(targets)) * 100
	}
	accuracy = math.Round(accuracy*10) / 10

	tier, feedback := feedbackFor(len(matched), len(targets))
	return domain.STTFeedback{
		Accuracy:   accuracy,
		Matched:    matched,
		TotalWords: len(targets),
		Tier:       tier,
		Feedback:   feedback,
	}
}

// Tokenize splits recognized speech text into scoring tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

func normalizeToken(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".,!?;:\"'()")
}

func feedbackFor(matched, total int) (tier, feedback string) {
	switch {
	case total > 0 && matched == total:
		return TierFull, fmt.Sprintf("Perfect! You pronounced all %d words correctly.", total)
	case matched > 0:
		return TierPartial, fmt.Sprintf("Good effort! You pronounced %d out of %d words correctly. Keep practicing!", matched, total)
	default:
		return TierNone, "Keep practicing! Listen to the audio once more and try again."
	}
}
