package models

import "time"

// SymposiumContact ist ein Anmeldekontakt für das Simposio Internacional.
// Upsert per E-Mail: eine erneute Anmeldung überschreibt Name und Institution.
type SymposiumContact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"not null"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	Institution string `json:"institution,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (SymposiumContact) TableName() string {
	return "symposium_contacts"
}
