package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens/apimodels"
	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/llm"
)

const cannedReply = `1. DETECTED_LANGUAGE: Python

2. QUALITY_SCORE: 40

3. SUMMARY: Divides two numbers without checking the denominator.

4. BUG_DETECTION:
- Division by zero if b is 0.
`

type stubClient struct {
	id      string
	display string
	err     error
}

func (s *stubClient) Query(ctx context.Context, prompt string, temperature float64) (llm.Response, error) {
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Content: cannedReply, Model: s.display}, nil
}

func (s *stubClient) ID() string          { return s.id }
func (s *stubClient) DisplayName() string { return s.display }
func (s *stubClient) ModelID() string     { return s.id + "-model" }

func newTestServer(t *testing.T, clients ...llm.Client) *httptest.Server {
	t.Helper()
	store, err := cache.New(t.TempDir())
	require.NoError(t, err)

	a := analyzer.New(llm.NewStaticRegistry(clients...), store, github.NewFetcher(""))
	srv := New(config.Config{}, a)

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestProvidersEndpoint(t *testing.T) {
	ts := newTestServer(t,
		&stubClient{id: "openai", display: "OpenAI GPT-4o-mini"},
		&stubClient{id: "deepseek", display: "DeepSeek Coder V2"},
	)

	resp, err := http.Get(ts.URL + "/api/v1/providers")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]map[string]string](t, resp)
	assert.Equal(t, map[string]string{
		"openai":   "OpenAI GPT-4o-mini",
		"deepseek": "DeepSeek Coder V2",
	}, body["providers"])
}

func TestAnalyzeRejectsMissingCode(t *testing.T) {
	ts := newTestServer(t, &stubClient{id: "openai", display: "OpenAI GPT-4o-mini"})

	resp := postJSON(t, ts.URL+"/api/v1/analyze", apimodels.AnalyzeRequest{Provider: "openai"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t, &stubClient{id: "openai", display: "OpenAI GPT-4o-mini"})

	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeSingleProvider(t *testing.T) {
	ts := newTestServer(t, &stubClient{id: "openai", display: "OpenAI GPT-4o-mini"})

	resp := postJSON(t, ts.URL+"/api/v1/analyze", apimodels.AnalyzeRequest{
		Code:     "def divide(a, b):\n    return a / b",
		Provider: "openai",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeBody[apimodels.AnalysisResult](t, resp)
	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, 40, res.QualityScore)
	assert.Equal(t, []string{"Division by zero if b is 0"}, res.Bugs)
	assert.Empty(t, res.Error)
}

func TestAnalyzeEmptyProviderFansOut(t *testing.T) {
	ts := newTestServer(t,
		&stubClient{id: "openai", display: "OpenAI GPT-4o-mini"},
		&stubClient{id: "deepseek", display: "DeepSeek Coder V2"},
	)

	resp := postJSON(t, ts.URL+"/api/v1/analyze", apimodels.AnalyzeRequest{Code: "x = 1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeBody[map[string]apimodels.AnalysisResult](t, resp)
	require.Len(t, results, 2)
	assert.Equal(t, 40, results["openai"].QualityScore)
	assert.Equal(t, 40, results["deepseek"].QualityScore)
}

func TestAnalyzeAllEndpoint(t *testing.T) {
	ts := newTestServer(t,
		&stubClient{id: "openai", display: "OpenAI GPT-4o-mini"},
		&stubClient{id: "anthropic", display: "Claude 3.5 Haiku", err: assert.AnError},
	)

	resp := postJSON(t, ts.URL+"/api/v1/analyze/all", apimodels.AnalyzeRequest{Code: "x = 1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeBody[map[string]apimodels.AnalysisResult](t, resp)
	require.Len(t, results, 2)
	assert.Empty(t, results["openai"].Error)
	assert.NotEmpty(t, results["anthropic"].Error)
}

func TestAnalysisFailureIsStillHTTP200(t *testing.T) {
	ts := newTestServer(t, &stubClient{id: "openai", display: "OpenAI GPT-4o-mini", err: assert.AnError})

	resp := postJSON(t, ts.URL+"/api/v1/analyze", apimodels.AnalyzeRequest{Code: "x = 1", Provider: "openai"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeBody[apimodels.AnalysisResult](t, resp)
	assert.NotEmpty(t, res.Error)
}

func TestAnalyzeRepositoryRejectsMissingURL(t *testing.T) {
	ts := newTestServer(t, &stubClient{id: "openai", display: "OpenAI GPT-4o-mini"})

	resp := postJSON(t, ts.URL+"/api/v1/analyze/repository", apimodels.RepositoryRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/compare", apimodels.CompareRequest{
		Results: map[string]apimodels.AnalysisResult{
			"openai":   {QualityScore: 80, Bugs: []string{"division by zero"}},
			"deepseek": {QualityScore: 90, Bugs: []string{"Division by zero in the helper"}},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[apimodels.ComparisonSummary](t, resp)
	assert.Equal(t, 85.0, summary.AverageScore)
	assert.Equal(t, "deepseek", summary.BestProvider)
	assert.Equal(t, []string{"division by zero"}, summary.ConsensusBugs)
}
