package models

import "time"

// Aktionsarten im Interventions-Log.
const (
	ActionComment      = "comentario"
	ActionRegistration = "registro"
)

// Intervention ist ein append-only Logeintrag einer Nutzeraktion (Kommentar
// oder Simposio-Anmeldung). Dient zugleich als Datenquelle für das Dashboard.
type Intervention struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Optionaler Artikelbezug inkl. Titel-Snapshot zum Zeitpunkt der Aktion
	ArticleID    *uint  `json:"article_id,omitempty" gorm:"index"`
	ArticleTitle string `json:"article_title,omitempty"`

	ActionKind string `json:"action_kind" gorm:"index;not null"`
	Content    string `json:"content" gorm:"type:text"`

	UserName        string `json:"user_name"`
	UserEmail       string `json:"user_email,omitempty"`
	UserInstitution string `json:"user_institution,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Intervention) TableName() string {
	return "interventions"
}
