package models

import "time"

// Feste Etiketten für Bibliografie-Einträge.
const (
	BibliographyTagRelevant = "Relevante"
	BibliographyTagBiased   = "Sesgo"
)

// BibliographyReaction markiert eine Bibliografie-Zeile eines Artikels als
// relevant oder tendenziös. Append-only.
type BibliographyReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID uint `json:"article_id" gorm:"index;not null"`
	// Die wörtliche Bibliografie-Zeile
	Reference string `json:"reference" gorm:"type:text;not null"`
	Tag       string `json:"tag" gorm:"not null"`
	UserName  string `json:"user_name"`
}

// TableName gibt explizit den Tabellennamen an.
func (BibliographyReaction) TableName() string {
	return "bibliography_reactions"
}
