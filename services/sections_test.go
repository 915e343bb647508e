package services

import (
	"testing"

	"gorm.io/datatypes"

	"sinapsis/models"
)

func TestBuildArticleViewSynthesizesSectionFromFlatBody(t *testing.T) {
	article := &models.Article{
		ID:    1,
		Title: "Umbral",
		Body:  "Para1\n\nPara2",
	}

	view := BuildArticleView(article)

	if len(view.Sections) != 1 {
		t.Fatalf("expected exactly 1 synthesized section, got %d", len(view.Sections))
	}
	section := view.Sections[0]
	if section.Title != DefaultSectionTitle {
		t.Errorf("expected synthesized title %q, got %q", DefaultSectionTitle, section.Title)
	}
	if len(section.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(section.Paragraphs))
	}
	if section.Paragraphs[0].Text != "Para1" || section.Paragraphs[1].Text != "Para2" {
		t.Errorf("unexpected paragraph texts: %q, %q", section.Paragraphs[0].Text, section.Paragraphs[1].Text)
	}
	for i, paragraph := range section.Paragraphs {
		if len(paragraph.Reactions) != 3 {
			t.Errorf("paragraph %d: expected 3 reaction affordances, got %d", i, len(paragraph.Reactions))
		}
	}
}

func TestBuildArticleViewKeepsStructuredSections(t *testing.T) {
	article := &models.Article{
		ID:       2,
		Sections: datatypes.JSON(`[{"title":"Introducción","body":"Uno"},{"title":"Método","body":"Dos\n\nTres"}]`),
		Body:     "should be ignored",
	}

	view := BuildArticleView(article)

	if len(view.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(view.Sections))
	}
	if view.Sections[0].Title != "Introducción" {
		t.Errorf("unexpected first section title %q", view.Sections[0].Title)
	}
	if len(view.Sections[1].Paragraphs) != 2 {
		t.Errorf("expected 2 paragraphs in second section, got %d", len(view.Sections[1].Paragraphs))
	}
}

func TestBuildArticleViewDecodesBibliography(t *testing.T) {
	article := &models.Article{
		ID:           3,
		Body:         "texto",
		Bibliography: datatypes.JSON(`["Clausewitz (1832)","Sun Tzu"]`),
	}

	view := BuildArticleView(article)

	if len(view.Bibliography) != 2 {
		t.Fatalf("expected 2 bibliography lines, got %d", len(view.Bibliography))
	}
	if view.Bibliography[0].Reference != "Clausewitz (1832)" {
		t.Errorf("unexpected reference %q", view.Bibliography[0].Reference)
	}
	for _, line := range view.Bibliography {
		if len(line.Tags) != 2 {
			t.Errorf("expected 2 tags per line, got %d", len(line.Tags))
		}
	}
}

func TestSplitParagraphsDropsEmptyChunks(t *testing.T) {
	paragraphs := SplitParagraphs("Uno\n\n\n\nDos\n\n   \n\nTres")
	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %v", len(paragraphs), paragraphs)
	}
}

func TestSplitParagraphsEmptyBody(t *testing.T) {
	if got := SplitParagraphs(""); len(got) != 0 {
		t.Errorf("expected no paragraphs for empty body, got %v", got)
	}
}

func TestDisplayNameDefaultsToAnonymous(t *testing.T) {
	if got := DisplayName(""); got != AnonymousName {
		t.Errorf("expected %q for blank name, got %q", AnonymousName, got)
	}
	if got := DisplayName("   "); got != AnonymousName {
		t.Errorf("expected %q for whitespace name, got %q", AnonymousName, got)
	}
	if got := DisplayName("Ana"); got != "Ana" {
		t.Errorf("expected name to pass through, got %q", got)
	}
}
