package models

import "time"

// Feste Reaktionsarten, wie sie in der Detailansicht angeboten werden.
const (
	ReactionInteresting = "Interesante"
	ReactionDebatable   = "Debatible"
	ReactionQuestion    = "Duda"
)

// Reaction ist eine absatzbezogene Leser-Reaktion. Append-only, es gibt
// keinen Update- oder Löschpfad.
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID uint   `json:"article_id" gorm:"index;not null"`
	Kind      string `json:"kind" gorm:"not null"`
	// Der exakte Absatztext, auf den reagiert wurde
	Excerpt   string `json:"excerpt" gorm:"type:text"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Reaction) TableName() string {
	return "reactions"
}
