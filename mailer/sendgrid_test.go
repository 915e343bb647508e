package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sinapsis/config"
)

func testConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		SendGridAPIKey:  apiKey,
		SendGridBaseURL: baseURL,
		EmailFrom:       "revista@sinapsis.org",
		EmailFromName:   "Sinapsis",
	}
}

func TestMissingRecipientSkipsWithoutRequest(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	m := NewMailer(testConfig(server.URL, "key"), zap.NewNop())
	d := m.SendCommentNotification(context.Background(), CommentNotification{
		ArticleID: 1, Comment: "hola", AuthorEmail: "",
	})

	if d.Status != StatusSkipped {
		t.Errorf("expected %q, got %q", StatusSkipped, d.Status)
	}
	if hits != 0 {
		t.Errorf("no provider request expected, got %d", hits)
	}
}

func TestMissingKeyReportsNotConfigured(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	m := NewMailer(testConfig(server.URL, ""), zap.NewNop())
	d := m.SendCommentNotification(context.Background(), CommentNotification{
		ArticleID: 1, Comment: "hola", AuthorEmail: "autor@example.org",
	})

	if d.Status != StatusNotConfigured {
		t.Errorf("expected %q, got %q", StatusNotConfigured, d.Status)
	}
	if hits != 0 {
		t.Errorf("no provider request expected without credentials, got %d", hits)
	}
}

func TestSuccessfulSend(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := NewMailer(testConfig(server.URL, "sg-key"), zap.NewNop())
	d := m.SendCommentNotification(context.Background(), CommentNotification{
		ArticleID:   3,
		Comment:     "Muy interesante",
		AuthorEmail: "autor@example.org",
		AuthorName:  "Rodríguez",
	})

	if d.Status != StatusSent {
		t.Fatalf("expected %q, got %q (%s)", StatusSent, d.Status, d.Detail)
	}
	if gotAuth != "Bearer sg-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	raw, _ := json.Marshal(gotPayload)
	body := string(raw)
	if !strings.Contains(body, "autor@example.org") {
		t.Errorf("payload missing recipient: %s", body)
	}
	if !strings.Contains(body, "Muy interesante") {
		t.Errorf("payload missing comment text: %s", body)
	}
}

func TestProviderRejectionCarriesDiagnostic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"bad from address"}]}`))
	}))
	defer server.Close()

	m := NewMailer(testConfig(server.URL, "sg-key"), zap.NewNop())
	d := m.SendCommentNotification(context.Background(), CommentNotification{
		ArticleID: 3, Comment: "hola", AuthorEmail: "autor@example.org",
	})

	if d.Status != StatusFailed {
		t.Fatalf("expected %q, got %q", StatusFailed, d.Status)
	}
	if !strings.Contains(d.Detail, "400") || !strings.Contains(d.Detail, "bad from address") {
		t.Errorf("expected provider diagnostic in detail, got %q", d.Detail)
	}
}
