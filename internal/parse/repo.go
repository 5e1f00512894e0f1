package parse

import "regexp"

// Repository is the parsed shape of a whole-repository review reply.
type Repository struct {
	ProjectOverview       string
	ArchitectureQuality   []string
	CriticalIssues        []string
	ImprovementPriorities []string
	OnboardingGuide       []string
	TechStack             []string
	APIEndpoints          []string
}

var (
	overviewRE     = sectionPattern(`PROJECT_OVERVIEW|project\s+overview`)
	architectureRE = sectionPattern(`ARCHITECTURE_QUALITY|architecture|structure`)
	criticalRE     = sectionPattern(`CRITICAL_ISSUES|critical|major\s+issues?`)
	prioritiesRE   = sectionPattern(`IMPROVEMENT_PRIORITIES|improvements?|priorit\w*`)
	onboardingRE   = sectionPattern(`ONBOARDING_GUIDE|onboarding|getting\s+started`)
	techStackRE    = sectionPattern(`TECH_STACK|tech\s+stack|technology\s+choices`)
	endpointsRE    = sectionPattern(`API_ENDPOINTS|api\s+endpoints?|endpoint\s+summary`)

	// An explicit "this is not a web service" statement is an answer, not
	// noise, and must survive as the sole item of the endpoint section.
	notWebServiceRE = regexp.MustCompile(`(?i)not\s+a\s+web\s+(?:service|application|app)|no\s+(?:http\s+)?(?:api\s+)?endpoints?|does\s+not\s+expose`)
)

// ParseRepository extracts a structured repository review from raw model
// text using the same cascade as ParseAnalysis over a different section set.
func ParseRepository(text string) Repository {
	r := Repository{
		ArchitectureQuality:   []string{},
		CriticalIssues:        []string{},
		ImprovementPriorities: []string{},
		OnboardingGuide:       []string{},
		TechStack:             []string{},
		APIEndpoints:          []string{},
	}

	if block, ok := findSection(text, overviewRE); ok {
		r.ProjectOverview = firstLine(block)
	}
	if block, ok := findSection(text, architectureRE); ok {
		r.ArchitectureQuality = itemsFromBlock(block)
	}
	if block, ok := findSection(text, criticalRE); ok {
		r.CriticalIssues = itemsFromBlock(block)
	}
	if block, ok := findSection(text, prioritiesRE); ok {
		r.ImprovementPriorities = itemsFromBlock(block)
	}
	if block, ok := findSection(text, onboardingRE); ok {
		r.OnboardingGuide = itemsFromBlock(block)
	}
	if block, ok := findSection(text, techStackRE); ok {
		r.TechStack = itemsFromBlock(block)
	}
	if block, ok := findSection(text, endpointsRE); ok {
		r.APIEndpoints = endpointItems(block)
	}
	return r
}

// endpointItems preserves an explicit negative statement ("not a web
// service") even when it is shorter than the usual minimum item length.
func endpointItems(block string) []string {
	line := firstLine(block)
	if notWebServiceRE.MatchString(line) {
		return []string{line}
	}
	return itemsFromBlock(block)
}
