package parse

// Analysis is the parsed shape of a single-snippet review reply.
type Analysis struct {
	QualityScore            int
	DetectedLanguage        string
	Summary                 string
	Bugs                    []string
	QualityIssues           []string
	SecurityVulnerabilities []string
	QuickFixes              []string
}

// Section anchors accept the exact tag the prompt requests plus close
// synonyms, since models frequently rename headers.
var (
	summaryRE  = sectionPattern(`SUMMARY`)
	bugsRE     = sectionPattern(`BUG_DETECTION|bugs?|logical\s+errors?`)
	qualityRE  = sectionPattern(`CODE_QUALITY_ISSUES|quality\s+issues?|readability`)
	securityRE = sectionPattern(`SECURITY_VULNERABILITIES|security\s+vulnerabilit\w*|security\s+risks?`)
	fixesRE    = sectionPattern(`QUICK_FIXES|improvements?|suggestions?`)
)

// ParseAnalysis extracts a structured review from raw model text. It is a
// total function: any input, including empty or pathological text, yields a
// well-typed result with the neutral default score and empty lists.
func ParseAnalysis(text string) Analysis {
	a := Analysis{
		QualityScore:            extractScore(text),
		DetectedLanguage:        extractLanguage(text),
		Bugs:                    []string{},
		QualityIssues:           []string{},
		SecurityVulnerabilities: []string{},
		QuickFixes:              []string{},
	}

	if block, ok := findSection(text, summaryRE); ok {
		// The summary is a single sentence by construction, never a list.
		a.Summary = firstLine(block)
	}
	if block, ok := findSection(text, bugsRE); ok {
		a.Bugs = itemsFromBlock(block)
	}
	if block, ok := findSection(text, qualityRE); ok {
		a.QualityIssues = itemsFromBlock(block)
	}
	if block, ok := findSection(text, securityRE); ok {
		a.SecurityVulnerabilities = itemsFromBlock(block)
	}
	if block, ok := findSection(text, fixesRE); ok {
		a.QuickFixes = itemsFromBlock(block)
	}
	return a
}
