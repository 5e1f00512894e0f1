// Package analyzer orchestrates the review pipeline: prompt building,
// provider resolution, the network call, response parsing and caching. All
// expected failures travel as data inside the result structs; nothing here
// panics or leaks errors across the API boundary.
package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/reviewlens/reviewlens/apimodels"
	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/llm"
	"github.com/reviewlens/reviewlens/internal/parse"
	"github.com/reviewlens/reviewlens/internal/prompt"
)

const (
	// maxCodeBytes bounds snippet input before prompting.
	maxCodeBytes = 50_000

	defaultTemperature = 0.1

	// fanOutWorkers bounds concurrent provider calls in AnalyzeAll.
	// Provider calls share no mutable state, so running them in parallel
	// only shortens the wall-clock wait.
	fanOutWorkers = 4
)

type Analyzer struct {
	registry *llm.Registry
	store    *cache.Store
	fetcher  *github.Fetcher
	logger   *slog.Logger
}

func New(registry *llm.Registry, store *cache.Store, fetcher *github.Fetcher) *Analyzer {
	return &Analyzer{
		registry: registry,
		store:    store,
		fetcher:  fetcher,
		logger:   slog.Default().With("component", "analyzer"),
	}
}

// AvailableProviders returns the id to display-name mapping of providers
// whose credentials were present at startup.
func (a *Analyzer) AvailableProviders() map[string]string {
	return a.registry.Available()
}

// AnalyzeSnippet reviews one snippet with one provider. The result always
// comes back as a value; failures populate the Error field.
func (a *Analyzer) AnalyzeSnippet(ctx context.Context, code, providerID, language string) apimodels.AnalysisResult {
	start := time.Now()
	if len(code) > maxCodeBytes {
		code = code[:maxCodeBytes]
	}

	client, err := a.registry.Client(providerID)
	if err != nil {
		return apimodels.ErrorResult(providerID, err, seconds(start))
	}

	key := cache.Key(providerID, client.ModelID(), code)
	if a.store != nil {
		if cached, ok := a.store.Get(key); ok {
			a.logger.Info("serving cached analysis", "provider", providerID)
			cached.FromCache = true
			return cached
		}
	}

	a.logger.Info("starting analysis", "provider", providerID, "code_length", len(code))
	resp, err := client.Query(ctx, prompt.Snippet(code, language), defaultTemperature)
	elapsed := seconds(start)
	if err != nil {
		a.logger.Error("analysis failed", "provider", providerID, "error", err)
		return apimodels.ErrorResult(providerID, err, elapsed)
	}

	parsed := parse.ParseAnalysis(resp.Content)
	detected := parsed.DetectedLanguage
	if language != "" {
		detected = language
	}

	result := apimodels.AnalysisResult{
		Provider:                providerID,
		Model:                   resp.Model,
		QualityScore:            parsed.QualityScore,
		DetectedLanguage:        detected,
		Summary:                 parsed.Summary,
		Bugs:                    parsed.Bugs,
		QualityIssues:           parsed.QualityIssues,
		SecurityVulnerabilities: parsed.SecurityVulnerabilities,
		QuickFixes:              parsed.QuickFixes,
		RawResponse:             resp.Content,
		ExecutionTime:           elapsed,
		CodeLength:              len(code),
		LineCount:               len(strings.Split(code, "\n")),
	}

	if a.store != nil {
		if err := a.store.Put(key, result); err != nil {
			a.logger.Warn("cache write failed", "error", err)
		}
	}
	return result
}

// AnalyzeAll fans the snippet out to every available provider. Failures are
// isolated per provider: an errored backend contributes an error-shaped
// entry and never hides the others' results.
func (a *Analyzer) AnalyzeAll(ctx context.Context, code, language string) map[string]apimodels.AnalysisResult {
	ids := a.registry.IDs()
	results := make(map[string]apimodels.AnalysisResult, len(ids))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	sem := make(chan struct{}, fanOutWorkers)

	for _, id := range ids {
		sem <- struct{}{}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := a.AnalyzeSnippet(ctx, code, id, language)
			mu.Lock()
			results[id] = res
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return results
}

// AnalyzeRepository reviews a public GitHub repository. Repository
// snapshots are built fresh per request and never cached.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, rawURL, providerID string) apimodels.RepositoryAnalysis {
	start := time.Now()
	fail := func(err error) apimodels.RepositoryAnalysis {
		a.logger.Error("repository analysis failed", "url", rawURL, "error", err)
		return repoError(providerID, rawURL, err, seconds(start))
	}

	owner, repo, err := github.ParseRepoURL(rawURL)
	if err != nil {
		return fail(err)
	}

	if providerID == "" {
		ids := a.registry.IDs()
		if len(ids) == 0 {
			return fail(llm.ErrNoProviders)
		}
		providerID = ids[0]
	}
	client, err := a.registry.Client(providerID)
	if err != nil {
		return fail(err)
	}

	snap, err := a.fetcher.Fetch(ctx, owner, repo)
	if err != nil {
		return fail(err)
	}

	a.logger.Info("starting repository analysis", "repo", owner+"/"+repo, "provider", providerID)
	resp, err := client.Query(ctx, prompt.Repository(snap.Structure, snap.KeyFiles), defaultTemperature)
	if err != nil {
		return fail(err)
	}

	parsed := parse.ParseRepository(resp.Content)
	info := snap.Info
	return apimodels.RepositoryAnalysis{
		Repository:            &info,
		RepoURL:               rawURL,
		Provider:              providerID,
		Model:                 resp.Model,
		ProjectOverview:       parsed.ProjectOverview,
		ArchitectureQuality:   parsed.ArchitectureQuality,
		CriticalIssues:        parsed.CriticalIssues,
		ImprovementPriorities: parsed.ImprovementPriorities,
		OnboardingGuide:       parsed.OnboardingGuide,
		TechStack:             parsed.TechStack,
		APIEndpoints:          parsed.APIEndpoints,
		RawResponse:           resp.Content,
		ExecutionTime:         seconds(start),
	}
}

func repoError(providerID, rawURL string, err error, elapsed float64) apimodels.RepositoryAnalysis {
	return apimodels.RepositoryAnalysis{
		Provider:              providerID,
		RepoURL:               rawURL,
		ArchitectureQuality:   []string{},
		CriticalIssues:        []string{},
		ImprovementPriorities: []string{},
		OnboardingGuide:       []string{},
		TechStack:             []string{},
		APIEndpoints:          []string{},
		ExecutionTime:         elapsed,
		Error:                 err.Error(),
	}
}

func seconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}
