package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sinapsis/models"
)

// Wie viele Interventionen geladen bzw. angezeigt werden.
const (
	interventionFetchLimit   = 200
	interventionDisplayLimit = 20
)

// DashboardNotice ist der einzelne Sammel-Hinweis bei teilweise
// fehlgeschlagenen Dashboard-Abfragen.
const DashboardNotice = "No se pudieron cargar todos los datos del panel"

// DashboardSource sind die Lesezugriffe des Dashboards. Implementiert von store.Store.
type DashboardSource interface {
	AllReactions() ([]models.Reaction, error)
	RecentInterventions(limit int) ([]models.Intervention, error)
	CountArticles() (int64, error)
}

// InterventionItem ist ein Eintrag der "Últimas intervenciones"-Liste.
type InterventionItem struct {
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// DashboardSummary ist das View-Modell des Dashboards.
type DashboardSummary struct {
	ReactionCount     int                `json:"reaction_count"`
	InterventionCount int                `json:"intervention_count"`
	ArticleCount      int                `json:"article_count"`
	Recent            []InterventionItem `json:"recent"`
	Notice            string             `json:"notice,omitempty"`
}

// DashboardService aggregiert Reaktionen, Interventionen und Artikel zu
// Kennzahlen für das Panel.
type DashboardService struct {
	Source DashboardSource
	Logger *zap.Logger
}

// NewDashboardService erstellt einen neuen DashboardService.
func NewDashboardService(source DashboardSource, logger *zap.Logger) *DashboardService {
	return &DashboardService{Source: source, Logger: logger}
}

// Load holt die drei Datensätze unabhängig voneinander. Fällt einer aus,
// bleiben die anderen Kennzahlen stehen und es erscheint genau ein Hinweis.
func (s *DashboardService) Load() DashboardSummary {
	var summary DashboardSummary
	failed := false

	reactions, err := s.Source.AllReactions()
	if err != nil {
		s.Logger.Error("Dashboard: Reaktionen konnten nicht geladen werden", zap.Error(err))
		failed = true
	} else {
		summary.ReactionCount = len(reactions)
	}

	interventions, err := s.Source.RecentInterventions(interventionFetchLimit)
	if err != nil {
		s.Logger.Error("Dashboard: Interventionen konnten nicht geladen werden", zap.Error(err))
		failed = true
	} else {
		summary.InterventionCount = len(interventions)
		for i, intervention := range interventions {
			if i >= interventionDisplayLimit {
				break
			}
			summary.Recent = append(summary.Recent, InterventionItem{
				UserName:  DisplayName(intervention.UserName),
				Content:   intervention.Content,
				Timestamp: intervention.CreatedAt.Format("02/01/2006 15:04"),
			})
		}
	}

	articleCount, err := s.Source.CountArticles()
	if err != nil {
		s.Logger.Error("Dashboard: Artikel konnten nicht gezählt werden", zap.Error(err))
		failed = true
	} else {
		summary.ArticleCount = int(articleCount)
	}

	if failed {
		summary.Notice = DashboardNotice
	}
	return summary
}

// Report rendert den Text-Report aus bereits geladenen Kennzahlen.
// Reine Formatierung, kein weiterer Datenzugriff.
func (s *DashboardService) Report(summary DashboardSummary) string {
	var b strings.Builder
	b.WriteString("Reporte Sinapsis\n")
	b.WriteString(strings.Repeat("=", 16) + "\n\n")
	fmt.Fprintf(&b, "Reacciones totales: %d\n", summary.ReactionCount)
	fmt.Fprintf(&b, "Intervenciones totales: %d\n", summary.InterventionCount)
	fmt.Fprintf(&b, "Artículos: %d\n", summary.ArticleCount)
	return b.String()
}
