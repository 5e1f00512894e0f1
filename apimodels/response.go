package apimodels

// AnalysisResult is the structured review of one snippet by one provider.
// Either the analysis fields or Error is populated, never both.
type AnalysisResult struct {
	// Provider is the registry id of the backend that produced this result.
	Provider string `json:"provider"`

	// Model is the display name of the model that answered.
	Model string `json:"model,omitempty"`

	// QualityScore is 0-100; 75 when the reply carried no score.
	QualityScore int `json:"quality_score"`

	// DetectedLanguage is reported by the model, absent when it could not
	// be extracted.
	DetectedLanguage string `json:"detected_language,omitempty"`

	// Summary is a single sentence describing the code.
	Summary string `json:"summary,omitempty"`

	Bugs                    []string `json:"bugs"`
	QualityIssues           []string `json:"quality_issues"`
	SecurityVulnerabilities []string `json:"security_vulnerabilities"`
	QuickFixes              []string `json:"quick_fixes"`

	// RawResponse is the unmodified model reply. The parser is lossy, so
	// this is the ground truth for human inspection.
	RawResponse string `json:"raw_response,omitempty"`

	// ExecutionTime is seconds observed by the caller.
	ExecutionTime float64 `json:"execution_time"`

	CodeLength int `json:"code_length,omitempty"`
	LineCount  int `json:"line_count,omitempty"`

	// FromCache marks a result served from the on-disk cache.
	FromCache bool `json:"from_cache,omitempty"`

	// Error is set only on failure.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the result carries an error instead of an analysis.
func (r AnalysisResult) Failed() bool {
	return r.Error != ""
}

// ErrorResult builds a failure-shaped result for a provider.
func ErrorResult(provider string, err error, elapsed float64) AnalysisResult {
	return AnalysisResult{
		Provider:                provider,
		ExecutionTime:           elapsed,
		Bugs:                    []string{},
		QualityIssues:           []string{},
		SecurityVulnerabilities: []string{},
		QuickFixes:              []string{},
		Error:                   err.Error(),
	}
}

// RepositoryInfo is basic metadata about an analyzed repository.
type RepositoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Size        int    `json:"size"`
}

// RepositoryAnalysis is the structured review of a whole repository.
type RepositoryAnalysis struct {
	Repository *RepositoryInfo `json:"repository,omitempty"`
	RepoURL    string          `json:"repo_url,omitempty"`
	Provider   string          `json:"provider"`
	Model      string          `json:"model,omitempty"`

	// ProjectOverview is a single sentence, never a list.
	ProjectOverview string `json:"project_overview,omitempty"`

	ArchitectureQuality   []string `json:"architecture_quality"`
	CriticalIssues        []string `json:"critical_issues"`
	ImprovementPriorities []string `json:"improvement_priorities"`
	OnboardingGuide       []string `json:"onboarding_guide"`
	TechStack             []string `json:"tech_stack"`
	APIEndpoints          []string `json:"api_endpoints"`

	RawResponse   string  `json:"raw_response,omitempty"`
	ExecutionTime float64 `json:"execution_time"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether the repository analysis carries an error.
func (r RepositoryAnalysis) Failed() bool {
	return r.Error != ""
}

// ComparisonSummary aggregates results from multiple providers.
type ComparisonSummary struct {
	// AverageScore is the mean over providers that succeeded.
	AverageScore float64 `json:"average_score"`

	// ProviderScores maps provider id to its quality score.
	ProviderScores map[string]int `json:"provider_scores"`

	// BestProvider is the highest-scoring provider id.
	BestProvider string `json:"best_provider,omitempty"`

	// ConsensusBugs and ConsensusSecurity hold findings reported by more
	// than one provider, collapsed by case-insensitive substring match.
	// This is a best-effort heuristic, not semantic clustering.
	ConsensusBugs     []string `json:"consensus_bugs"`
	ConsensusSecurity []string `json:"consensus_security"`

	// AnalysisTime is the summed execution time of all results.
	AnalysisTime float64 `json:"analysis_time"`
}
