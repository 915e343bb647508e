package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"sinapsis/mailer"
	"sinapsis/models"
)

// ErrMissingFields meldet einen Kommentar mit fehlendem Pflichtfeld.
// In diesem Fall wird kein Datensatz geschrieben und keine Mail versucht.
var ErrMissingFields = errors.New("nombre, correo y comentario son obligatorios")

// InterventionAppender schreibt Logeinträge. Implementiert von store.Store.
type InterventionAppender interface {
	AddIntervention(intervention *models.Intervention) error
}

// Notifier verschickt die Autoren-Benachrichtigung. Implementiert von mailer.Mailer.
type Notifier interface {
	SendCommentNotification(ctx context.Context, n mailer.CommentNotification) mailer.Disposition
}

// CommentInput sind die vom Leser eingereichten Kommentar-Felder.
type CommentInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"text"`
}

// CommentService nimmt öffentliche Kommentare an: validieren, Intervention
// anhängen, danach den Autor benachrichtigen. Die Benachrichtigung läuft als
// Fire-and-forget-Task; ihr Ausgang wird geloggt, aber nie dem Leser gemeldet.
type CommentService struct {
	Store    InterventionAppender
	Notifier Notifier
	Logger   *zap.Logger

	// OnDisposition wird (falls gesetzt) mit dem Mail-Ausgang aufgerufen, z.B.
	// für Metriken.
	OnDisposition func(d mailer.Disposition)

	notifyTasks sync.WaitGroup
}

// NewCommentService erstellt einen neuen CommentService.
func NewCommentService(store InterventionAppender, notifier Notifier, logger *zap.Logger) *CommentService {
	return &CommentService{Store: store, Notifier: notifier, Logger: logger}
}

// Submit nimmt einen Kommentar zu einem Artikel an. Die Intervention muss
// bestätigt sein, bevor die Benachrichtigung angestoßen wird; deren Fehlschlag
// ändert nichts am bereits gemeldeten Erfolg.
func (s *CommentService) Submit(ctx context.Context, article *models.Article, input CommentInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	text := strings.TrimSpace(input.Text)
	if name == "" || email == "" || text == "" {
		return ErrMissingFields
	}

	articleID := article.ID
	intervention := &models.Intervention{
		ArticleID:    &articleID,
		ArticleTitle: article.Title,
		ActionKind:   models.ActionComment,
		Content:      text,
		UserName:     name,
		UserEmail:    email,
	}
	if err := s.Store.AddIntervention(intervention); err != nil {
		return err
	}

	notification := mailer.CommentNotification{
		ArticleID:   article.ID,
		Comment:     text,
		AuthorEmail: article.AuthorEmail,
		AuthorName:  article.Author,
	}
	s.notifyTasks.Add(1)
	go func() {
		defer s.notifyTasks.Done()
		// Eigener Kontext: die Benachrichtigung überlebt den Request.
		disposition := s.Notifier.SendCommentNotification(context.Background(), notification)
		s.Logger.Info("Autoren-Benachrichtigung abgeschlossen",
			zap.Uint("article_id", article.ID),
			zap.String("status", string(disposition.Status)),
			zap.String("detail", disposition.Detail))
		if s.OnDisposition != nil {
			s.OnDisposition(disposition)
		}
	}()

	return nil
}

// Wait blockiert, bis alle angestoßenen Benachrichtigungen abgeschlossen sind
// (Shutdown und Tests).
func (s *CommentService) Wait() {
	s.notifyTasks.Wait()
}
