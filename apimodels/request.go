package apimodels

// AnalyzeRequest asks for a review of a single source snippet.
type AnalyzeRequest struct {
	// Code is the raw source text to review.
	Code string `json:"code"`

	// Provider selects the backend, or "all" to fan out to every
	// configured provider.
	Provider string `json:"provider,omitempty"`

	// Language is an optional hint. When empty, language identification
	// is delegated to the model.
	Language string `json:"language,omitempty"`
}

// RepositoryRequest asks for a review of a public GitHub repository.
type RepositoryRequest struct {
	URL string `json:"url"`

	// Provider selects the backend; the first available provider is used
	// when empty.
	Provider string `json:"provider,omitempty"`
}

// CompareRequest merges per-provider results into a comparison summary.
type CompareRequest struct {
	Results map[string]AnalysisResult `json:"results"`
}
