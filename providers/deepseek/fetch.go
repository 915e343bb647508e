package deepseek

import (
	"context"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"sinapsis/config"
	"sinapsis/providers"
)

const searchPath = "/v1/search"

// searchRequest ist der Request-Body der DeepSeek-Suche.
type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// searchResponse ist die JSON-Antwort der DeepSeek-Suche.
type searchResponse struct {
	Results []struct {
		ID    uint    `json:"id"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// Fetcher kapselt die DeepSeek-Anbindung.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *resty.Client
}

// NewFetcher erstellt einen neuen DeepSeek-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	client := resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         5 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		IdleConnTimeout:       30 * time.Second,
	})
	return &Fetcher{Config: cfg, Logger: logger, client: client}
}

// Name gibt den Provider-Namen zurück.
func (f *Fetcher) Name() string {
	return "deepseek"
}

// Close gibt die Transport-Ressourcen des Clients frei.
func (f *Fetcher) Close() error {
	return f.client.Close()
}

// Search führt die semantische Suche aus. Ohne konfigurierten Key wird kein
// Request abgesetzt; jeder Fehler degradiert zu einem leeren Ergebnis.
func (f *Fetcher) Search(ctx context.Context, query string) []providers.Result {
	if f.Config.DeepSeekAPIKey == "" {
		f.Logger.Debug("DeepSeek-Key fehlt, semantische Suche übersprungen.")
		return nil
	}

	res, err := f.client.R().
		WithContext(ctx).
		SetAuthToken(f.Config.DeepSeekAPIKey).
		SetBody(searchRequest{Query: query, TopK: f.Config.DeepSeekTopK}).
		SetResult(&searchResponse{}).
		Post(f.Config.DeepSeekBaseURL + searchPath)
	if err != nil {
		f.Logger.Warn("DeepSeek-Request fehlgeschlagen", zap.Error(err))
		return nil
	}
	if res.IsError() {
		f.Logger.Warn("DeepSeek antwortete mit Fehlerstatus",
			zap.Int("status", res.StatusCode()), zap.String("body", res.String()))
		return nil
	}

	body := res.Result().(*searchResponse)
	results := make([]providers.Result, 0, len(body.Results))
	for _, r := range body.Results {
		// Treffer ohne Artikel-ID sind für uns wertlos
		if r.ID == 0 {
			continue
		}
		results = append(results, providers.Result{ArticleID: r.ID, Score: r.Score})
	}
	return results
}
