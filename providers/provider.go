package providers

import "context"

// Result ist ein einzelner Treffer eines Such-Providers. Treffer ohne
// Artikel-ID werden vom Provider bereits herausgefiltert.
type Result struct {
	ArticleID uint    `json:"id"`
	Score     float64 `json:"score,omitempty"`
}

// Provider ist das Interface für externe semantische Such-Provider.
type Provider interface {
	// Search liefert eine möglicherweise leere Trefferliste. Transport- und
	// Provider-Fehler werden intern geloggt und als leeres Ergebnis gemeldet,
	// nie als error an den Aufrufer propagiert.
	Search(ctx context.Context, query string) []Result

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "deepseek").
	Name() string
}
