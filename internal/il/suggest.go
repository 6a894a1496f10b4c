// Completion: 100% - Utility module complete
package il

import "sort"

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}

// findSimilar returns up to max candidates within edit distance 2 of name,
// closest first
func findSimilar(name string, candidates []string, max int) []string {
	type suggestion struct {
		name     string
		distance int
	}

	var suggestions []suggestion
	for _, c := range candidates {
		if d := levenshteinDistance(name, c); d > 0 && d <= 2 {
			suggestions = append(suggestions, suggestion{c, d})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance == suggestions[j].distance {
			return suggestions[i].name < suggestions[j].name
		}
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, max)
	for i := 0; i < len(suggestions) && i < max; i++ {
		result = append(result, suggestions[i].name)
	}
	return result
}
