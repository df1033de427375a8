package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *ResendDispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d := NewResendDispatcher("re_test_key", "Rume Health <noreply@rumehealth.com>", zerolog.Nop())
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	d.client.BaseURL = base
	return d
}

func TestSend_ReturnsEmailID(t *testing.T) {
	var captured map[string]any
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer re_test_key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "email-abc-123"})
	})

	id, err := d.Send(context.Background(), Message{
		To:      "ops@rumehealth.com",
		Subject: "Bupe Intake Report - Event evt-001",
		Text:    "Attached is the intake report.",
		Attachments: []Attachment{
			{Filename: "bupe_intake_evt-001.pdf", Content: []byte("%PDF-1.4"), ContentType: "application/pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "email-abc-123" {
		t.Errorf("email id = %q, want %q", id, "email-abc-123")
	}

	if got := captured["subject"]; got != "Bupe Intake Report - Event evt-001" {
		t.Errorf("subject = %v", got)
	}
	if got := captured["from"]; got != "Rume Health <noreply@rumehealth.com>" {
		t.Errorf("from = %v", got)
	}
	atts, ok := captured["attachments"].([]any)
	if !ok || len(atts) != 1 {
		t.Fatalf("attachments = %v, want one entry", captured["attachments"])
	}
	att := atts[0].(map[string]any)
	if att["filename"] != "bupe_intake_evt-001.pdf" {
		t.Errorf("attachment filename = %v", att["filename"])
	}
	if att["content_type"] != "application/pdf" {
		t.Errorf("attachment content type = %v", att["content_type"])
	}
}

func TestSend_ProviderError(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	})

	_, err := d.Send(context.Background(), Message{To: "ops@rumehealth.com", Subject: "x", Text: "y"})
	if err == nil {
		t.Fatal("expected error from provider failure")
	}
}
