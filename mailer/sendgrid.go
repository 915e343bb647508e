package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sinapsis/config"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

const sendPath = "/v3/mail/send"

// Status ist die Disposition eines Zustellversuchs. Kein Ausgang ist für den
// Aufrufer fatal; die Kommentar-Quittung hängt nie am Mail-Ergebnis.
type Status string

const (
	StatusSkipped       Status = "skipped_no_recipient"
	StatusNotConfigured Status = "not_configured"
	StatusSent          Status = "sent"
	StatusFailed        Status = "send_failed"
)

// Disposition beschreibt den Ausgang eines Zustellversuchs, bei Fehlschlag
// inklusive Provider-Diagnose.
type Disposition struct {
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// CommentNotification sind die Daten für eine Autoren-Benachrichtigung.
type CommentNotification struct {
	ArticleID   uint
	Comment     string
	AuthorEmail string
	AuthorName  string
}

// Mailer verschickt Autoren-Benachrichtigungen über die SendGrid-API.
type Mailer struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewMailer erstellt einen neuen Mailer.
func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	return &Mailer{Config: cfg, Logger: logger}
}

// Configured meldet, ob Zustell-Credentials vorhanden sind.
func (m *Mailer) Configured() bool {
	return m.Config.SendGridAPIKey != ""
}

// sendGridPayload entspricht dem SendGrid v3 Mail-Send-Schema.
type sendGridPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Content          []contentPart     `json:"content"`
}

type personalization struct {
	To      []emailAddress `json:"to"`
	Subject string         `json:"subject"`
}

type contentPart struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendCommentNotification benachrichtigt den Autor über einen neuen Kommentar.
// Ohne Empfänger wird kein Request abgesetzt; ohne Key wird "not configured"
// gemeldet statt eines Versuchs.
func (m *Mailer) SendCommentNotification(ctx context.Context, n CommentNotification) Disposition {
	if n.AuthorEmail == "" {
		return Disposition{Status: StatusSkipped}
	}
	if !m.Configured() {
		m.Logger.Warn("SendGrid-Key fehlt, Benachrichtigung nicht möglich.")
		return Disposition{Status: StatusNotConfigured}
	}

	log := m.Logger.With(zap.Uint("article_id", n.ArticleID), zap.String("to", n.AuthorEmail))

	bodyText := fmt.Sprintf("Estimado/a %s,\n\nHa recibido un nuevo comentario:\n\n%s\n\nSaludos,\n%s",
		n.AuthorName, n.Comment, m.Config.EmailFromName)
	payload := sendGridPayload{
		Personalizations: []personalization{{
			To:      []emailAddress{{Email: n.AuthorEmail}},
			Subject: "Nuevo comentario en su artículo",
		}},
		From:    emailAddress{Email: m.Config.EmailFrom, Name: m.Config.EmailFromName},
		Content: []contentPart{{Type: "text/plain", Value: bodyText}},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Disposition{Status: StatusFailed, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Config.SendGridBaseURL+sendPath, bytes.NewReader(raw))
	if err != nil {
		return Disposition{Status: StatusFailed, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+m.Config.SendGridAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Warn("SendGrid-Request fehlgeschlagen", zap.Error(err))
		return Disposition{Status: StatusFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		diagnostic, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn("SendGrid lehnte die Mail ab",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", diagnostic))
		return Disposition{
			Status: StatusFailed,
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, string(diagnostic)),
		}
	}

	log.Info("Autoren-Benachrichtigung verschickt.")
	return Disposition{Status: StatusSent}
}
