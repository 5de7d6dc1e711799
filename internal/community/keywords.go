package community

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords is the number of representative keywords kept per community.
const MaxKeywords = 5

// minKeywordLen excludes short words; words must be longer than this.
const minKeywordLen = 3

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "against": true,
	"among": true, "based": true, "been": true, "before": true, "being": true,
	"between": true, "both": true, "could": true, "does": true, "doing": true,
	"during": true, "each": true, "from": true, "further": true, "have": true,
	"having": true, "here": true, "into": true, "more": true, "most": true,
	"only": true, "other": true, "over": true, "same": true, "should": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "until": true,
	"using": true, "very": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "with": true, "within": true,
	"without": true, "would": true, "your": true, "toward": true, "towards": true,
	"via": true, "also": true, "will": true, "can": true, "new": true,
}

// Keywords returns up to limit representative words from titles, by
// frequency and then alphabetically. Words of three characters or fewer and
// stop words are ignored.
func Keywords(titles []string, limit int) []string {
	counts := make(map[string]int)
	for _, title := range titles {
		words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
		})
		for _, w := range words {
			w = strings.Trim(w, "-")
			if len([]rune(w)) <= minKeywordLen || stopWords[w] {
				continue
			}
			counts[w]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
