package models

import (
	"time"

	"gorm.io/datatypes"
)

// Article repräsentiert einen redaktionellen Beitrag der Revista.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" gorm:"not null"`
	Author      string `json:"author" gorm:"index"`
	Affiliation string `json:"affiliation,omitempty"`

	// Kontakt & Identität des Autors
	AuthorEmail    string `json:"author_email,omitempty"`
	AuthorPhotoURL string `json:"author_photo_url,omitempty"`
	AuthorORCID    string `json:"author_orcid,omitempty"`

	CoverURL string `json:"cover_url,omitempty"`
	Abstract string `json:"abstract,omitempty" gorm:"type:text"`
	DOI      string `json:"doi,omitempty" gorm:"column:doi;index"`

	// Keywords als JSON-Array von Strings
	Keywords datatypes.JSON `json:"keywords,omitempty" gorm:"type:jsonb"`

	// Strukturierte Abschnitte [{title, body}]. Fehlen sie, wird in der
	// Detailansicht ein einzelner Abschnitt aus Body synthetisiert.
	Sections datatypes.JSON `json:"sections,omitempty" gorm:"type:jsonb"`

	// Flacher Volltext als Fallback für Artikel ohne Abschnitte
	Body string `json:"body,omitempty" gorm:"type:text"`

	// Bibliografie als JSON-Array von Freitext-Zeilen
	Bibliography datatypes.JSON `json:"bibliography,omitempty" gorm:"type:jsonb"`
}

// TableName gibt explizit den Tabellennamen an.
func (Article) TableName() string {
	return "articles"
}

// Section ist die entmarshallte Form eines Eintrags in Article.Sections.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ArticleSummary ist die leichte Projektion für Katalog und Suche (ohne Volltext).
type ArticleSummary struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Affiliation    string `json:"affiliation,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
	AuthorPhotoURL string `json:"author_photo_url,omitempty"`
	AuthorORCID    string `json:"author_orcid,omitempty"`
}
