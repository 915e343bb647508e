package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sinapsis/models"
	"sinapsis/providers"
)

// ArticleSource sind die Lesezugriffe, die die Suchkaskade braucht.
// Implementiert von store.Store.
type ArticleSource interface {
	RecentArticles(limit int) ([]models.ArticleSummary, error)
	AllArticleSummaries() ([]models.ArticleSummary, error)
	ArticlesByIDs(ids []uint) ([]models.ArticleSummary, error)
	FullTextSearch(query string) ([]models.ArticleSummary, error)
}

// SearchService implementiert die dreistufige Suchkaskade des Katalogs:
// semantische Suche, serverseitige Volltextsuche, Substring-Filter. Die Stufen
// laufen in fester Reihenfolge; die erste mit nicht-leerem Ergebnis gewinnt.
type SearchService struct {
	Source   ArticleSource
	Provider providers.Provider
	Limit    int
	Logger   *zap.Logger
}

// NewSearchService erstellt eine neue Instanz der Suchkaskade.
func NewSearchService(source ArticleSource, provider providers.Provider, limit int, logger *zap.Logger) *SearchService {
	return &SearchService{Source: source, Provider: provider, Limit: limit, Logger: logger}
}

// searchStage ist eine Stufe der Kaskade. nil-Ergebnis ohne Fehler heißt
// "nichts gefunden, nächste Stufe".
type searchStage struct {
	name string
	run  func(ctx context.Context, query string) ([]models.ArticleSummary, error)
}

// Search führt die Kaskade für eine Query aus. Eine leere Query setzt auf die
// aktuelle Katalog-Liste zurück. Stufenfehler werden geloggt und führen zur
// nächsten Stufe, nie zu einem Fehler beim Aufrufer.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.ArticleSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Source.RecentArticles(s.Limit)
	}

	stages := []searchStage{
		{name: "semantic", run: s.semanticStage},
		{name: "fulltext", run: s.fulltextStage},
		{name: "substring", run: s.substringStage},
	}

	for _, stage := range stages {
		results, err := stage.run(ctx, query)
		if err != nil {
			s.Logger.Warn("Suchstufe fehlgeschlagen",
				zap.String("stage", stage.name), zap.String("query", query), zap.Error(err))
			continue
		}
		if len(results) > 0 {
			s.Logger.Info("Suchstufe lieferte Treffer",
				zap.String("stage", stage.name), zap.Int("count", len(results)))
			return results, nil
		}
	}

	return []models.ArticleSummary{}, nil
}

// semanticStage fragt den Provider und löst die Treffer-IDs in Projektionen auf.
func (s *SearchService) semanticStage(ctx context.Context, query string) ([]models.ArticleSummary, error) {
	hits := s.Provider.Search(ctx, query)
	if len(hits) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ArticleID)
	}
	return s.Source.ArticlesByIDs(ids)
}

// fulltextStage ruft die serverseitige Volltextsuche auf.
func (s *SearchService) fulltextStage(_ context.Context, query string) ([]models.ArticleSummary, error) {
	return s.Source.FullTextSearch(query)
}

// substringStage filtert alle Projektionen nach Titel oder Autor,
// Groß/Kleinschreibung spielt keine Rolle.
func (s *SearchService) substringStage(_ context.Context, query string) ([]models.ArticleSummary, error) {
	all, err := s.Source.AllArticleSummaries()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var matches []models.ArticleSummary
	for _, summary := range all {
		if strings.Contains(strings.ToLower(summary.Title), needle) ||
			strings.Contains(strings.ToLower(summary.Author), needle) {
			matches = append(matches, summary)
		}
	}
	return matches, nil
}
