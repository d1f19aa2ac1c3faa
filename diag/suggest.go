package diag

import (
	"fmt"
	"strings"
)

// Suggest proposes the closest candidate to an unknown name using
// Levenshtein distance, or lists a few candidates when nothing is close.
func Suggest(unknown string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	minDistance := 1000
	var best string
	for _, c := range candidates {
		d := levenshtein(strings.ToLower(unknown), strings.ToLower(c))
		if d < minDistance {
			minDistance = d
			best = c
		}
	}

	if minDistance <= max(2, len(unknown)/3) {
		return fmt.Sprintf("Did you mean '%s'?", best)
	}
	if len(candidates) > 5 {
		return fmt.Sprintf("Valid names include: %s, ...", strings.Join(candidates[:5], ", "))
	}
	return fmt.Sprintf("Valid names: %s", strings.Join(candidates, ", "))
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
