package scoring

import (
	"strings"
	"unicode"
)

// Keyword vocabularies for the context-quality heuristic.
var (
	positiveKeywords = []string{
		"seminal", "pioneering", "landmark", "influential", "important",
		"significant", "novel", "foundational", "breakthrough", "state-of-the-art",
		"robust", "effective", "elegant", "comprehensive", "builds on",
	}
	negativeKeywords = []string{
		"however", "limitation", "flawed", "fails", "failed", "incorrect",
		"inconsistent", "contrary", "questionable", "weak", "unclear",
		"does not", "in contrast",
	}
	methodologyKeywords = []string{
		"method", "approach", "framework", "algorithm", "technique",
		"model", "dataset", "experiment", "evaluation", "analysis",
		"protocol", "benchmark",
	}
)

// Context-quality constants.
const (
	contextBaseline       = 0.5
	perKeywordStep        = 0.1
	maxPositiveBoost      = 0.5
	maxNegativePenalty    = 0.5
	maxMethodologyBoost   = 0.3
	influentialFloor      = 0.8
	neutralContextQuality = 0.5
)

// words splits lower-cased text into words. Hyphens stay inside words so
// "state-of-the-art" is one token.
func words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := fields[:0]
	for _, w := range fields {
		if w = strings.Trim(w, "-"); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// countHits returns how many distinct keywords from vocab occur in tokens.
// Single-word keywords match whole words or their plural; phrases match a
// run of consecutive words. Each keyword contributes at most once.
func countHits(tokens []string, vocab []string) int {
	present := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		present[w] = true
	}
	joined := " " + strings.Join(tokens, " ") + " "

	hits := 0
	for _, kw := range vocab {
		var found bool
		if strings.Contains(kw, " ") {
			found = strings.Contains(joined, " "+kw+" ")
		} else {
			found = present[kw] || present[kw+"s"]
		}
		if found {
			hits++
		}
	}
	return hits
}

// ContextQuality scores a citation context in [0,1] from keyword sentiment.
// An empty context is neutral (0.5). Influential citations never score below 0.8.
func ContextQuality(context string, influential bool) float64 {
	score := neutralContextQuality
	text := strings.ToLower(strings.TrimSpace(context))
	if text != "" {
		tokens := words(text)
		score = contextBaseline
		score += min(float64(countHits(tokens, positiveKeywords))*perKeywordStep, maxPositiveBoost)
		score -= min(float64(countHits(tokens, negativeKeywords))*perKeywordStep, maxNegativePenalty)
		score += min(float64(countHits(tokens, methodologyKeywords))*perKeywordStep, maxMethodologyBoost)
		score = clamp01(score)
	}
	if influential {
		score = max(score, influentialFloor)
	}
	return score
}
