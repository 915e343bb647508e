package services

import (
	"encoding/json"
	"strings"

	"sinapsis/models"
)

// DefaultSectionTitle ist der Titel des synthetisierten Abschnitts für
// Artikel ohne strukturierte Abschnitte.
const DefaultSectionTitle = "Contenido"

// AnonymousName ist der Anzeigename für Einsender ohne Namen.
const AnonymousName = "Anónimo"

// ReactionKinds sind die drei Reaktions-Angebote pro Absatz.
var ReactionKinds = []string{
	models.ReactionInteresting,
	models.ReactionDebatable,
	models.ReactionQuestion,
}

// BibliographyTags sind die beiden Etiketten pro Bibliografie-Zeile.
var BibliographyTags = []string{
	models.BibliographyTagRelevant,
	models.BibliographyTagBiased,
}

// ParagraphView ist ein Absatz mit seinen Reaktions-Angeboten.
type ParagraphView struct {
	Text      string   `json:"text"`
	Reactions []string `json:"reactions"`
}

// SectionView ist ein gerenderter Abschnitt der Detailansicht.
type SectionView struct {
	Title      string          `json:"title"`
	Paragraphs []ParagraphView `json:"paragraphs"`
}

// BibliographyView ist eine Bibliografie-Zeile mit ihren Etiketten.
type BibliographyView struct {
	Reference string   `json:"reference"`
	Tags      []string `json:"tags"`
}

// ArticleView ist das vollständige View-Modell der Artikel-Detailansicht.
type ArticleView struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Author         string             `json:"author"`
	Affiliation    string             `json:"affiliation,omitempty"`
	AuthorPhotoURL string             `json:"author_photo_url,omitempty"`
	AuthorORCID    string             `json:"author_orcid,omitempty"`
	DOI            string             `json:"doi,omitempty"`
	Abstract       string             `json:"abstract,omitempty"`
	Keywords       []string           `json:"keywords"`
	Sections       []SectionView      `json:"sections"`
	Bibliography   []BibliographyView `json:"bibliography"`
}

// DisplayName liefert den Anzeigenamen eines Einsenders, "Anónimo" bei leerem Namen.
func DisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return AnonymousName
	}
	return name
}

// SplitParagraphs zerlegt einen Abschnittstext an Leerzeilen in Absätze.
// Leere Stücke werden verworfen.
func SplitParagraphs(body string) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(body, "\n\n") {
		if p := strings.TrimSpace(chunk); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// DecodeSections liest die strukturierten Abschnitte eines Artikels. Fehlen sie
// (oder sind sie nicht lesbar), wird genau ein Abschnitt aus dem flachen Body
// synthetisiert.
func DecodeSections(article *models.Article) []models.Section {
	if len(article.Sections) > 0 {
		var sections []models.Section
		if err := json.Unmarshal(article.Sections, &sections); err == nil && len(sections) > 0 {
			return sections
		}
	}
	return []models.Section{{Title: DefaultSectionTitle, Body: article.Body}}
}

// decodeStrings liest ein JSONB-String-Array, nil bei fehlendem oder kaputtem Feld.
func decodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

// BuildArticleView baut das View-Modell der Detailansicht: Abschnitte werden
// in Absätze zerlegt, jeder Absatz trägt die drei Reaktions-Angebote.
func BuildArticleView(article *models.Article) ArticleView {
	view := ArticleView{
		ID:             article.ID,
		Title:          article.Title,
		Author:         article.Author,
		Affiliation:    article.Affiliation,
		AuthorPhotoURL: article.AuthorPhotoURL,
		AuthorORCID:    article.AuthorORCID,
		DOI:            article.DOI,
		Abstract:       article.Abstract,
		Keywords:       decodeStrings(article.Keywords),
	}

	for _, section := range DecodeSections(article) {
		sectionView := SectionView{Title: section.Title}
		for _, paragraph := range SplitParagraphs(section.Body) {
			sectionView.Paragraphs = append(sectionView.Paragraphs, ParagraphView{
				Text:      paragraph,
				Reactions: ReactionKinds,
			})
		}
		view.Sections = append(view.Sections, sectionView)
	}

	for _, reference := range decodeStrings(article.Bibliography) {
		view.Bibliography = append(view.Bibliography, BibliographyView{
			Reference: reference,
			Tags:      BibliographyTags,
		})
	}

	return view
}
