package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/reviewlens/reviewlens/apimodels"
)

// maxConsensusItems caps each consensus list.
const maxConsensusItems = 3

// Compare merges per-provider results into summary statistics and a
// best-effort consensus of findings. Providers that errored are excluded
// from the average, not counted as zero.
func (a *Analyzer) Compare(results map[string]apimodels.AnalysisResult) apimodels.ComparisonSummary {
	return Compare(results)
}

// Compare is the pure aggregation; exported for direct use and testing.
func Compare(results map[string]apimodels.AnalysisResult) apimodels.ComparisonSummary {
	summary := apimodels.ComparisonSummary{
		ProviderScores:    make(map[string]int),
		ConsensusBugs:     []string{},
		ConsensusSecurity: []string{},
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		total     int
		succeeded int
		bestScore int
		bugs      []finding
		security  []finding
	)
	for _, id := range ids {
		res := results[id]
		summary.AnalysisTime += res.ExecutionTime
		if res.Failed() {
			continue
		}

		summary.ProviderScores[id] = res.QualityScore
		total += res.QualityScore
		succeeded++
		if summary.BestProvider == "" || res.QualityScore > bestScore {
			summary.BestProvider = id
			bestScore = res.QualityScore
		}

		for _, text := range res.Bugs {
			bugs = append(bugs, finding{provider: id, text: text})
		}
		for _, text := range res.SecurityVulnerabilities {
			security = append(security, finding{provider: id, text: text})
		}
	}

	if succeeded > 0 {
		summary.AverageScore = math.Round(float64(total)/float64(succeeded)*10) / 10
	}
	summary.ConsensusBugs = consensus(bugs)
	summary.ConsensusSecurity = consensus(security)
	return summary
}

type finding struct {
	provider string
	text     string
}

type findingGroup struct {
	text      string
	providers map[string]bool
}

// consensus collapses findings whose text is a case-insensitive substring
// of one another and keeps those mentioned by more than one provider,
// ranked by how many providers agreed. This is a textual heuristic, not
// semantic clustering; opposite statements sharing a substring can
// collapse together.
func consensus(items []finding) []string {
	var groups []*findingGroup
	for _, item := range items {
		var matched *findingGroup
		for _, g := range groups {
			if substringMatch(g.text, item.text) {
				matched = g
				break
			}
		}
		if matched == nil {
			groups = append(groups, &findingGroup{
				text:      item.text,
				providers: map[string]bool{item.provider: true},
			})
			continue
		}
		matched.providers[item.provider] = true
		// The shorter phrasing is the common core of the group.
		if len(item.text) < len(matched.text) {
			matched.text = item.text
		}
	}

	agreed := groups[:0]
	for _, g := range groups {
		if len(g.providers) > 1 {
			agreed = append(agreed, g)
		}
	}
	sort.SliceStable(agreed, func(i, j int) bool {
		return len(agreed[i].providers) > len(agreed[j].providers)
	})

	out := []string{}
	for _, g := range agreed {
		if len(out) == maxConsensusItems {
			break
		}
		out = append(out, g.text)
	}
	return out
}

func substringMatch(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
