package match

import (
	"reflect"
	"sort"
)

// Member is something a missing name could have meant: a field or method name and, when
// known, its value type.
type Member struct {
	Name string
	Type reflect.Type
}

// Candidate is one ranked alternative for a missing member.
type Candidate struct {
	Member

	// Scoring components
	NameScore  float64           // normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibility // zero when either type is unknown

	// Combined score for ranking (higher is better)
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// DefaultMinNameScore is the name similarity below which a candidate is not worth
// suggesting.
const DefaultMinNameScore = 0.5

// RankCandidates scores every member against the wanted name and type and sorts them best
// first. Ties are broken by name.
func RankCandidates(name string, typ reflect.Type, members []Member) CandidateList {
	candidates := make(CandidateList, 0, len(members))

	for _, m := range members {
		nameScore := NormalizedLevenshteinScore(name, m.Name)

		compat := TypeIncompatible
		if typ != nil && m.Type != nil {
			compat = ScoreTypeCompatibility(m.Type, typ)
		}

		candidates = append(candidates, Candidate{
			Member:        m,
			NameScore:     nameScore,
			TypeCompat:    compat,
			CombinedScore: calculateCombinedScore(nameScore, compat),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit member names close enough to name to be offered as a
// "did you mean" hint.
func Suggest(name string, typ reflect.Type, members []Member, limit int) []string {
	ranked := RankCandidates(name, typ, members).AboveNameScore(DefaultMinNameScore).Top(limit)

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}

// calculateCombinedScore weighs name similarity at 60% and type compatibility at 40%.
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	var typeScore float64
	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveNameScore keeps the candidates whose name similarity reaches threshold.
func (c CandidateList) AboveNameScore(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.NameScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
