// Package parse extracts structured review records from unstructured model
// replies. Extraction is a layered cascade of increasingly permissive
// strategies: tagged-section match, bullet-list match, freeform-line match,
// then naive sentence splitting. Precision degrades gracefully; the parser
// never fails and always returns a well-typed result, no matter how far the
// reply deviates from the requested template.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultScore is used when the reply carries no recognizable score.
	DefaultScore = 75

	// MaxItems bounds every list-valued section.
	MaxItems = 4

	minBulletItemLen = 5
	minFreeformLen   = 15
)

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)quality[_\s]*score[:\s]*(\d+)(?:\s*/\s*100)?`),
	regexp.MustCompile(`(?i)(?:score|rating)[:\s]*(\d+)(?:\s*/\s*100)?`),
}

var languagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DETECTED_LANGUAGE[:\s]*([A-Za-z#+]+)`),
	regexp.MustCompile(`(?im)^\s*language[:\s]+([A-Za-z#+]+)`),
	regexp.MustCompile(`(?i)programming\s+language(?:\s+is)?[:\s]*([A-Za-z#+]+)`),
}

// knownLanguages is the allow-list for the model-reported language. A token
// outside this set is discarded rather than guessed.
var knownLanguages = map[string]bool{
	"python": true, "javascript": true, "typescript": true, "java": true,
	"c": true, "cpp": true, "c++": true, "csharp": true, "c#": true,
	"go": true, "golang": true, "rust": true, "ruby": true, "php": true,
	"swift": true, "kotlin": true, "scala": true, "sql": true, "html": true,
	"css": true, "shell": true, "bash": true, "perl": true, "r": true,
	"dart": true, "lua": true, "haskell": true, "elixir": true,
}

// sectionPattern captures a section body up to the next numbered or all-caps
// header, or end of text. Go's RE2 has no lookahead, so the terminator is
// consumed; that is harmless because every section is matched independently
// against the full text.
func sectionPattern(anchors string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(?:` + anchors + `)[:\s]*(.+?)(?:\n\s*(?-is:(?:\d+\.|[A-Z_]{2,}:))|\z)`)
}

var (
	hashMarksRE    = regexp.MustCompile(`#+\s*`)
	emphasisRE     = regexp.MustCompile(`\*\*`)
	leadingStarsRE = regexp.MustCompile(`^\*+\s*`)
	leadingPunctRE = regexp.MustCompile(`^[:\-\s]+`)
	sentenceEndRE  = regexp.MustCompile(`[.!?]+`)
)

var bulletPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[-•*]\s+(.+)$`),
	regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`),
	regexp.MustCompile(`^\s*[◦▪▫]\s*(.+)$`),
}

// sentinels are placeholder lines that mean "nothing to report"; they are
// excluded rather than kept as findings.
var sentinels = map[string]bool{
	"none":               true,
	"none found":         true,
	"n/a":                true,
	"skip if none found": true,
}

// extractScore returns the first numeric score match, clamped to [0,100].
// Non-numeric captures are treated as no match, never as an error.
func extractScore(text string) int {
	for _, re := range scorePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n < 0 {
			return 0
		}
		if n > 100 {
			return 100
		}
		return n
	}
	return DefaultScore
}

// extractLanguage returns the model-reported language, lowercased, or ""
// when no anchor matches or the captured token is not a known language.
func extractLanguage(text string) string {
	for _, re := range languagePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		token := strings.ToLower(strings.TrimSpace(m[1]))
		if knownLanguages[token] {
			return token
		}
	}
	return ""
}

// findSection returns a section's captured body and whether it was found.
func findSection(text string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// stripMarkdown removes heading markers and bold emphasis from a line
// without touching bullet glyphs.
func stripMarkdown(line string) string {
	line = hashMarksRE.ReplaceAllString(line, "")
	line = emphasisRE.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// stripDecoration additionally removes leading stars, colons and dashes.
func stripDecoration(line string) string {
	line = stripMarkdown(line)
	line = leadingStarsRE.ReplaceAllString(line, "")
	line = leadingPunctRE.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// cleanItem finalizes one extracted finding.
func cleanItem(s string) string {
	s = stripDecoration(s)
	return strings.TrimSuffix(s, ".")
}

// itemsFromBlock turns a captured section body into a bounded list of
// findings: bullet lines first, substantial freeform lines next, and a
// sentence-split pass when the block yielded nothing at all.
func itemsFromBlock(block string) []string {
	items := []string{}

	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || sentinels[strings.ToLower(strings.TrimSuffix(line, "."))] {
			continue
		}
		line = stripMarkdown(line)

		matched := false
		for _, re := range bulletPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			item := cleanItem(m[len(m)-1])
			if len(item) > minBulletItemLen {
				items = append(items, item)
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		// Freeform models often answer in paragraphs, not bullets.
		if item := cleanItem(line); len(item) > minFreeformLen {
			items = append(items, item)
		}
	}

	if len(items) == 0 && strings.TrimSpace(block) != "" {
		items = splitSentences(block)
	}
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return items
}

// splitSentences is the last-resort strategy for run-on paragraphs.
func splitSentences(block string) []string {
	items := []string{}
	for _, sentence := range sentenceEndRE.Split(block, -1) {
		item := stripDecoration(sentence)
		if len(item) > minFreeformLen {
			items = append(items, item)
		}
	}
	return items
}

// firstLine reduces a section body to its first decorated-stripped line.
func firstLine(block string) string {
	line, _, _ := strings.Cut(block, "\n")
	return stripDecoration(line)
}
