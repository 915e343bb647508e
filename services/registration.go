package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"sinapsis/models"
)

// ErrMissingRegistrationFields meldet eine Anmeldung ohne Name oder E-Mail.
// In diesem Fall wird nichts persistiert.
var ErrMissingRegistrationFields = errors.New("nombre y correo son obligatorios")

// RegistrationStore sind die Schreibzugriffe der Anmeldung. Implementiert von store.Store.
type RegistrationStore interface {
	UpsertContact(contact *models.SymposiumContact) error
	AddIntervention(intervention *models.Intervention) error
}

// RegistrationInput sind die Felder des Anmeldeformulars.
type RegistrationInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
}

// RegistrationService nimmt Symposiums-Anmeldungen an: Upsert per E-Mail,
// danach genau ein "registro"-Logeintrag pro Einreichung. Wiederholte
// Anmeldungen mit derselben E-Mail ergeben genau einen Kontakt mit den
// jeweils letzten Angaben.
type RegistrationService struct {
	Store  RegistrationStore
	Logger *zap.Logger
}

// NewRegistrationService erstellt einen neuen RegistrationService.
func NewRegistrationService(store RegistrationStore, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{Store: store, Logger: logger}
}

// Register validiert und persistiert eine Anmeldung. Der Kontakt muss
// bestätigt sein, bevor der Logeintrag geschrieben wird; schlägt der Upsert
// fehl, wird bewusst kein "registro" geloggt.
func (s *RegistrationService) Register(input RegistrationInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	institution := strings.TrimSpace(input.Institution)
	if name == "" || email == "" {
		return ErrMissingRegistrationFields
	}

	contact := &models.SymposiumContact{Name: name, Email: email, Institution: institution}
	if err := s.Store.UpsertContact(contact); err != nil {
		return err
	}

	intervention := &models.Intervention{
		ActionKind:      models.ActionRegistration,
		Content:         "Inscripción al Simposio vía web",
		UserName:        name,
		UserEmail:       email,
		UserInstitution: institution,
	}
	if err := s.Store.AddIntervention(intervention); err != nil {
		// Die Anmeldung selbst ist persistiert; der fehlende Logeintrag ist
		// kein Nutzerfehler.
		s.Logger.Warn("Registration intervention not logged", zap.String("email", email), zap.Error(err))
	}
	return nil
}
