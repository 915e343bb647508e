package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sinapsis/models"
	"sinapsis/providers"
)

type fakeSource struct {
	recent    []models.ArticleSummary
	all       []models.ArticleSummary
	byIDs     []models.ArticleSummary
	fulltext  []models.ArticleSummary
	fulltextE error

	recentCalls   int
	allCalls      int
	byIDsCalls    int
	fulltextCalls int
	lastIDs       []uint
}

func (f *fakeSource) RecentArticles(limit int) ([]models.ArticleSummary, error) {
	f.recentCalls++
	return f.recent, nil
}

func (f *fakeSource) AllArticleSummaries() ([]models.ArticleSummary, error) {
	f.allCalls++
	return f.all, nil
}

func (f *fakeSource) ArticlesByIDs(ids []uint) ([]models.ArticleSummary, error) {
	f.byIDsCalls++
	f.lastIDs = ids
	return f.byIDs, nil
}

func (f *fakeSource) FullTextSearch(query string) ([]models.ArticleSummary, error) {
	f.fulltextCalls++
	return f.fulltext, f.fulltextE
}

type fakeProvider struct {
	results []providers.Result
	calls   int
}

func (f *fakeProvider) Search(ctx context.Context, query string) []providers.Result {
	f.calls++
	return f.results
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestSearch(source *fakeSource, provider *fakeProvider) *SearchService {
	return NewSearchService(source, provider, 50, zap.NewNop())
}

func TestEmptyQueryReturnsRecentListing(t *testing.T) {
	source := &fakeSource{recent: []models.ArticleSummary{{ID: 1}}}
	provider := &fakeProvider{}
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("expected recent listing, got %v", results)
	}
	if provider.calls != 0 {
		t.Errorf("provider must not be called for an empty query, got %d calls", provider.calls)
	}
}

func TestSemanticStageStopsChain(t *testing.T) {
	source := &fakeSource{byIDs: []models.ArticleSummary{{ID: 7}, {ID: 3}}}
	provider := &fakeProvider{results: []providers.Result{{ArticleID: 7}, {ArticleID: 3}}}
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "asimetría")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(source.lastIDs) != 2 || source.lastIDs[0] != 7 || source.lastIDs[1] != 3 {
		t.Errorf("expected provider ids to be resolved, got %v", source.lastIDs)
	}
	// later stages must never run once an earlier one produced results
	if source.fulltextCalls != 0 || source.allCalls != 0 {
		t.Errorf("later stages invoked: fulltext=%d substring=%d", source.fulltextCalls, source.allCalls)
	}
}

func TestFulltextStageRunsAfterEmptySemantic(t *testing.T) {
	source := &fakeSource{fulltext: []models.ArticleSummary{{ID: 9}}}
	provider := &fakeProvider{} // no semantic hits
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "riesgo")
	if err != nil {
		t.Fatal(err)
	}
	if provider.calls != 1 {
		t.Errorf("semantic stage must run first, got %d calls", provider.calls)
	}
	if source.fulltextCalls != 1 {
		t.Errorf("expected fulltext stage to run once, got %d", source.fulltextCalls)
	}
	if len(results) != 1 || results[0].ID != 9 {
		t.Errorf("expected fulltext results, got %v", results)
	}
	if source.allCalls != 0 {
		t.Errorf("substring stage must not run after a fulltext hit")
	}
}

func TestSubstringFallbackIsCaseFolded(t *testing.T) {
	source := &fakeSource{
		all: []models.ArticleSummary{
			{ID: 1, Title: "Geopolítica del Ciberespacio", Author: "Pérez"},
			{ID: 2, Title: "Otro tema", Author: "García"},
		},
	}
	provider := &fakeProvider{}
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "CIBERESPACIO")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("expected a single case-folded title match, got %v", results)
	}

	results, err = svc.Search(context.Background(), "garcía")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != 2 {
		t.Errorf("expected a single author match, got %v", results)
	}
}

func TestStageErrorFallsThroughToNextStage(t *testing.T) {
	source := &fakeSource{
		fulltextE: errors.New("function search_articles does not exist"),
		all:       []models.ArticleSummary{{ID: 4, Title: "Mapeando el Mañana"}},
	}
	provider := &fakeProvider{}
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "mañana")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != 4 {
		t.Errorf("expected substring fallback after fulltext error, got %v", results)
	}
}

func TestExhaustedChainReturnsEmptyNotError(t *testing.T) {
	source := &fakeSource{}
	provider := &fakeProvider{}
	svc := newTestSearch(source, provider)

	results, err := svc.Search(context.Background(), "nada")
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil result set, got %v", results)
	}
}
