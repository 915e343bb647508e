package deepseek

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"sinapsis/config"
)

func testConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		DeepSeekAPIKey:  apiKey,
		DeepSeekBaseURL: baseURL,
		DeepSeekTopK:    10,
	}
}

func TestMissingKeyShortCircuits(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL, ""), zap.NewNop())
	defer f.Close()

	results := f.Search(context.Background(), "asimetría")
	if len(results) != 0 {
		t.Errorf("expected empty results without a key, got %v", results)
	}
	if hits != 0 {
		t.Errorf("no outbound request expected without a key, got %d", hits)
	}
}

func TestResultsWithoutIDsAreFilteredOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":0,"score":0.9},{"id":7,"score":0.8},{"score":0.7}]}`))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL, "ds-key"), zap.NewNop())
	defer f.Close()

	results := f.Search(context.Background(), "ciberespacio")
	if len(results) != 1 {
		t.Fatalf("expected 1 usable result, got %d", len(results))
	}
	if results[0].ArticleID != 7 {
		t.Errorf("expected article id 7, got %d", results[0].ArticleID)
	}
}

func TestProviderErrorDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL, "ds-key"), zap.NewNop())
	defer f.Close()

	if results := f.Search(context.Background(), "riesgo"); len(results) != 0 {
		t.Errorf("expected empty results on provider error, got %v", results)
	}
}

func TestUnreachableProviderDegradesToEmpty(t *testing.T) {
	f := NewFetcher(testConfig("http://127.0.0.1:1", "ds-key"), zap.NewNop())
	defer f.Close()

	if results := f.Search(context.Background(), "riesgo"); len(results) != 0 {
		t.Errorf("expected empty results on transport error, got %v", results)
	}
}
