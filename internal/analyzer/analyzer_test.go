package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/llm"
)

const cannedReply = `1. DETECTED_LANGUAGE: Python

2. QUALITY_SCORE: 40

3. SUMMARY: Divides two numbers without checking the denominator.

4. BUG_DETECTION:
- Division by zero if b is 0.

5. CODE_QUALITY_ISSUES:
- No type validation on the inputs

6. SECURITY_VULNERABILITIES:
None found

7. QUICK_FIXES:
- Raise a clear error when b is 0 before dividing
`

// stubClient satisfies llm.Client with a canned reply.
type stubClient struct {
	id      string
	display string
	model   string
	reply   string
	err     error
	calls   int
	prompts []string
}

func (s *stubClient) Query(ctx context.Context, prompt string, temperature float64) (llm.Response, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Content: s.reply, Model: s.display}, nil
}

func (s *stubClient) ID() string          { return s.id }
func (s *stubClient) DisplayName() string { return s.display }
func (s *stubClient) ModelID() string     { return s.model }

func newTestAnalyzer(t *testing.T, clients ...llm.Client) *Analyzer {
	t.Helper()
	store, err := cache.New(t.TempDir())
	require.NoError(t, err)
	return New(llm.NewStaticRegistry(clients...), store, github.NewFetcher(""))
}

func TestAnalyzeSnippetParsesReply(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	a := newTestAnalyzer(t, stub)

	code := "def divide(a, b):\n    return a / b"
	res := a.AnalyzeSnippet(context.Background(), code, "openai", "")

	require.False(t, res.Failed())
	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, "OpenAI GPT-4o-mini", res.Model)
	assert.Equal(t, 40, res.QualityScore)
	assert.Equal(t, "python", res.DetectedLanguage)
	assert.Equal(t, []string{"Division by zero if b is 0"}, res.Bugs)
	assert.Equal(t, []string{}, res.SecurityVulnerabilities)
	assert.Equal(t, cannedReply, res.RawResponse)
	assert.Equal(t, len(code), res.CodeLength)
	assert.Equal(t, 2, res.LineCount)
	assert.False(t, res.FromCache)

	// The snippet itself must reach the backend.
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], code)
}

func TestAnalyzeSnippetLanguageHintWins(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	a := newTestAnalyzer(t, stub)

	res := a.AnalyzeSnippet(context.Background(), "SELECT 1", "openai", "sql")
	assert.Equal(t, "sql", res.DetectedLanguage)
}

func TestAnalyzeSnippetServesFromCache(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	a := newTestAnalyzer(t, stub)

	first := a.AnalyzeSnippet(context.Background(), "x = 1", "openai", "")
	require.False(t, first.Failed())
	assert.False(t, first.FromCache)

	second := a.AnalyzeSnippet(context.Background(), "x = 1", "openai", "")
	assert.True(t, second.FromCache)
	assert.Equal(t, first.QualityScore, second.QualityScore)
	assert.Equal(t, first.Bugs, second.Bugs)
	assert.Equal(t, 1, stub.calls)

	// Different code misses the cache.
	a.AnalyzeSnippet(context.Background(), "x = 2", "openai", "")
	assert.Equal(t, 2, stub.calls)
}

func TestAnalyzeSnippetFailureShape(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", err: assert.AnError}
	a := newTestAnalyzer(t, stub)

	res := a.AnalyzeSnippet(context.Background(), "x = 1", "openai", "")
	require.True(t, res.Failed())
	assert.Equal(t, "openai", res.Provider)
	assert.NotNil(t, res.Bugs)
	assert.NotNil(t, res.SecurityVulnerabilities)

	// Failures are never cached, so the next request retries the backend.
	a.AnalyzeSnippet(context.Background(), "x = 1", "openai", "")
	assert.Equal(t, 2, stub.calls)
}

func TestAnalyzeSnippetUnknownProvider(t *testing.T) {
	a := newTestAnalyzer(t)

	res := a.AnalyzeSnippet(context.Background(), "x = 1", "not-a-provider", "")
	require.True(t, res.Failed())
	assert.Contains(t, res.Error, "unknown provider")
}

func TestAnalyzeSnippetTruncatesOversizedInput(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	a := newTestAnalyzer(t, stub)

	res := a.AnalyzeSnippet(context.Background(), strings.Repeat("a", maxCodeBytes+5000), "openai", "")
	require.False(t, res.Failed())
	assert.Equal(t, maxCodeBytes, res.CodeLength)
}

func TestAnalyzeAllIsolatesFailures(t *testing.T) {
	good := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	alsoGood := &stubClient{id: "deepseek", display: "DeepSeek Coder V2", model: "deepseek-coder-v2", reply: cannedReply}
	broken := &stubClient{id: "anthropic", display: "Claude 3.5 Haiku", model: "claude-3-5-haiku-20241022", err: assert.AnError}
	a := newTestAnalyzer(t, good, alsoGood, broken)

	results := a.AnalyzeAll(context.Background(), "x = 1", "")
	require.Len(t, results, 3)

	assert.False(t, results["openai"].Failed())
	assert.False(t, results["deepseek"].Failed())
	assert.True(t, results["anthropic"].Failed())
	assert.Equal(t, 40, results["openai"].QualityScore)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, 1, alsoGood.calls)
}

func TestAnalyzeRepositoryRejectsInvalidURL(t *testing.T) {
	stub := &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", model: "gpt-4o-mini", reply: cannedReply}
	a := newTestAnalyzer(t, stub)

	res := a.AnalyzeRepository(context.Background(), "https://gitlab.com/owner/repo", "")
	require.True(t, res.Failed())
	assert.Contains(t, res.Error, "invalid GitHub repository URL")
	assert.Equal(t, 0, stub.calls)
}

func TestAnalyzeRepositoryNoProviders(t *testing.T) {
	a := newTestAnalyzer(t)

	res := a.AnalyzeRepository(context.Background(), "https://github.com/owner/repo", "")
	require.True(t, res.Failed())
	assert.Contains(t, res.Error, "no providers configured")
}
