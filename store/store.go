package store

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sinapsis/models"
)

// summaryColumns sind die Projektionsfelder für Katalog und Suche (kein Volltext).
const summaryColumns = "id, title, author, affiliation, cover_url, author_photo_url, author_orcid"

// Store bündelt alle Datenbankzugriffe der Revista.
type Store struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// New erstellt einen neuen Store.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{DB: db, Logger: logger}
}

// RecentArticles liefert die neuesten Artikel als leichte Projektion,
// absteigend nach ID.
func (s *Store) RecentArticles(limit int) ([]models.ArticleSummary, error) {
	var summaries []models.ArticleSummary
	err := s.DB.Model(&models.Article{}).
		Select(summaryColumns).
		Order("id desc").
		Limit(limit).
		Find(&summaries).Error
	return summaries, err
}

// AllArticleSummaries liefert die Projektion aller Artikel (Fallback-Suche, Dashboard).
func (s *Store) AllArticleSummaries() ([]models.ArticleSummary, error) {
	var summaries []models.ArticleSummary
	err := s.DB.Model(&models.Article{}).
		Select(summaryColumns).
		Order("id desc").
		Find(&summaries).Error
	return summaries, err
}

// ArticlesByIDs liefert die Projektion der Artikel mit den gegebenen IDs.
// Die Reihenfolge ist nicht garantiert (Mengen-Zugehörigkeit, keine Rangfolge).
func (s *Store) ArticlesByIDs(ids []uint) ([]models.ArticleSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var summaries []models.ArticleSummary
	err := s.DB.Model(&models.Article{}).
		Select(summaryColumns).
		Where("id IN ?", ids).
		Find(&summaries).Error
	return summaries, err
}

// ArticleByID liefert genau einen Artikel. Nicht gefundene Artikel melden
// gorm.ErrRecordNotFound, damit der Aufrufer 404 von DB-Fehlern trennen kann.
func (s *Store) ArticleByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := s.DB.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// FullTextSearch ist die serverseitige Volltextsuche über Titel, Autor und
// Abstract (Stufe 2 der Suchkaskade).
func (s *Store) FullTextSearch(query string) ([]models.ArticleSummary, error) {
	var summaries []models.ArticleSummary
	err := s.DB.Raw(`
		SELECT `+summaryColumns+`
		FROM articles
		WHERE to_tsvector('spanish', coalesce(title,'') || ' ' || coalesce(author,'') || ' ' || coalesce(abstract,''))
		      @@ plainto_tsquery('spanish', ?)
		ORDER BY id DESC`, query).
		Scan(&summaries).Error
	return summaries, err
}

// CreateArticle legt einen neuen Artikel an (Redaktions-Endpunkt).
func (s *Store) CreateArticle(article *models.Article) error {
	return s.DB.Create(article).Error
}

// CountArticles zählt alle Artikel.
func (s *Store) CountArticles() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Article{}).Count(&count).Error
	return count, err
}

// AddReaction hängt eine Leser-Reaktion an. Append-only.
func (s *Store) AddReaction(reaction *models.Reaction) error {
	return s.DB.Create(reaction).Error
}

// AddIntervention hängt einen Logeintrag an. Append-only, pro Aktion genau einer.
func (s *Store) AddIntervention(intervention *models.Intervention) error {
	return s.DB.Create(intervention).Error
}

// AddBibliographyReaction hängt eine Bibliografie-Markierung an. Append-only.
func (s *Store) AddBibliographyReaction(reaction *models.BibliographyReaction) error {
	return s.DB.Create(reaction).Error
}

// AllReactions liefert alle Reaktionen (Dashboard-Zählung).
func (s *Store) AllReactions() ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := s.DB.Find(&reactions).Error
	return reactions, err
}

// RecentInterventions liefert die jüngsten Logeinträge, absteigend nach Zeitstempel.
func (s *Store) RecentInterventions(limit int) ([]models.Intervention, error) {
	var interventions []models.Intervention
	err := s.DB.Order("created_at desc").Limit(limit).Find(&interventions).Error
	return interventions, err
}

// UpsertContact legt einen Simposio-Kontakt an oder überschreibt Name und
// Institution, wenn die E-Mail bereits registriert ist.
func (s *Store) UpsertContact(contact *models.SymposiumContact) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":        contact.Name,
			"institution": contact.Institution,
			"updated_at":  gorm.Expr("NOW()"),
		}),
	}).Create(contact).Error
}
