package app

import "strings"

// Relevance tiers. Lower is more relevant; ScoreUnranked marks no match.
// Rule and group names are independently maintained strings in two
// systems with no foreign-key link, so name similarity is the only
// available ranking signal.
const (
	ScoreExact      = 1
	ScorePrefix     = 2
	ScoreSubstring  = 3
	ScoreSharedWord = 4
	ScoreUnranked   = 999
)

// ServerScore ranks a rule name against an assignment-group name with the
// three-tier scheme used for raw API consumers: exact match beats prefix
// beats substring. Comparison is case-insensitive. An empty group or rule
// name leaves the rule unranked.
func ServerScore(ruleName, groupName string) int {
	if ruleName == "" || groupName == "" {
		return ScoreUnranked
	}

	rn := strings.ToLower(ruleName)
	gn := strings.ToLower(groupName)

	switch {
	case rn == gn:
		return ScoreExact
	case strings.HasPrefix(rn, gn):
		return ScorePrefix
	case strings.Contains(rn, gn):
		return ScoreSubstring
	}
	return ScoreUnranked
}

// DisplayScore ranks for interactive filtering. It extends ServerScore
// with a fourth tier: both names are split into word tokens and any shared
// token longer than two characters counts as a weak match. The 3-vs-4 tier
// split between the two scorers is deliberate and kept as is.
func DisplayScore(ruleName, groupName string) int {
	score := ServerScore(ruleName, groupName)
	if score != ScoreUnranked {
		return score
	}

	ruleWords := splitWords(strings.ToLower(ruleName))
	groupWords := splitWords(strings.ToLower(groupName))
	for _, rw := range ruleWords {
		if len(rw) <= 2 {
			continue
		}
		for _, gw := range groupWords {
			if rw == gw {
				return ScoreSharedWord
			}
		}
	}
	return ScoreUnranked
}

// splitWords tokenizes a name on whitespace, hyphens and underscores.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == '_'
	})
}
