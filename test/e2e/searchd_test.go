// Package e2e contains end-to-end tests that exercise a running search
// service over HTTP, with whatever corpus, Redis, and Kafka it was started
// with.
//
// Run with:
//
//	go test -v -tags=e2e -timeout=60s ./test/e2e/...
//
// The service address defaults to http://localhost:8080 and can be set with
// E2E_SEARCHD_URL.
package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

func serviceURL() string {
	if v := os.Getenv("E2E_SEARCHD_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

var client = &http.Client{Timeout: 10 * time.Second}

// skipIfDown skips the test when the service is not reachable.
func skipIfDown(t *testing.T) {
	t.Helper()
	resp, err := client.Get(serviceURL() + "/health/live")
	if err != nil {
		t.Skipf("skipping e2e test: service unreachable: %v", err)
	}
	resp.Body.Close()
}

func TestServiceHealth(t *testing.T) {
	skipIfDown(t)

	resp, err := client.Get(serviceURL() + "/health/ready")
	if err != nil {
		t.Fatalf("readiness request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding readiness response: %v", err)
	}
	if body.Status == "" {
		t.Error("readiness response missing status")
	}
}

func TestSearchEndpoint(t *testing.T) {
	skipIfDown(t)

	url := fmt.Sprintf("%s/api/v1/search?q=%s&threshold=0.5&limit=5",
		serviceURL(), "search")
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}

	var body struct {
		Query           string `json:"query"`
		RequiredMatches int    `json:"required_matches"`
		Results         []struct {
			Score float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	for i := 1; i < len(body.Results); i++ {
		if body.Results[i].Score > body.Results[i-1].Score {
			t.Errorf("results out of order at %d: %v > %v",
				i, body.Results[i].Score, body.Results[i-1].Score)
		}
	}
}

func TestSearchRejectsBadThreshold(t *testing.T) {
	skipIfDown(t)

	resp, err := client.Get(serviceURL() + "/api/v1/search?q=search&threshold=2")
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCacheStatsEndpoint(t *testing.T) {
	skipIfDown(t)

	resp, err := client.Get(serviceURL() + "/api/v1/cache/stats")
	if err != nil {
		t.Fatalf("cache stats request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
