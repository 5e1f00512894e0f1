package llm

import (
	"context"
	"fmt"
	"strings"
)

// candidate is one (endpoint, model) pair in a fallback chain. Chains are
// fixed constants so that client behavior stays deterministic and testable.
type candidate struct {
	Endpoint string
	Model    string
}

// runFallback walks an ordered candidate list and returns the first
// successful reply. Attempts are strictly sequential; the first success
// short-circuits the rest. On total failure the returned error preserves
// every attempt's failure reason.
func runFallback(ctx context.Context, cands []candidate, call func(context.Context, candidate) (string, error)) (string, candidate, error) {
	if len(cands) == 0 {
		return "", candidate{}, fmt.Errorf("no candidates to try")
	}

	var attempts []string
	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			return "", candidate{}, err
		}
		content, err := call(ctx, cand)
		if err == nil {
			return content, cand, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s @ %s: %v", cand.Model, cand.Endpoint, err))
	}
	return "", candidate{}, consolidateFailures(cands, attempts)
}

// consolidateFailures builds the final error for an exhausted chain. When
// every attempt failed with a service-unavailable signature the message
// names the systemic outage instead of the generic one.
func consolidateFailures(cands []candidate, attempts []string) error {
	if allServiceUnavailable(attempts) {
		return fmt.Errorf("service returned 503 across all endpoints and is likely down; tried endpoints: %s",
			strings.Join(uniqueEndpoints(cands), ", "))
	}
	return fmt.Errorf("all attempts failed: %s", strings.Join(attempts, "; "))
}

func allServiceUnavailable(attempts []string) bool {
	for _, a := range attempts {
		lower := strings.ToLower(a)
		if !strings.Contains(lower, "503") && !strings.Contains(lower, "service unavailable") {
			return false
		}
	}
	return len(attempts) > 0
}

func uniqueEndpoints(cands []candidate) []string {
	seen := make(map[string]bool, len(cands))
	var endpoints []string
	for _, cand := range cands {
		if !seen[cand.Endpoint] {
			seen[cand.Endpoint] = true
			endpoints = append(endpoints, cand.Endpoint)
		}
	}
	return endpoints
}
