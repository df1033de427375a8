// Package elation is a client for the Elation EMR REST API: patient search,
// create, full-record update, and message threads. Every call acquires a
// fresh bearer token through a TokenProvider.
package elation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Patient is the demographic record shape the patient endpoints exchange.
type Patient struct {
	ID                string `json:"id,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DOB               string `json:"dob"`
	Sex               string `json:"sex"`
	PrimaryPhysician  string `json:"primary_physician"`
	CaregiverPractice string `json:"caregiver_practice"`
}

// ThreadMember identifies a participant on a message thread.
type ThreadMember struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ThreadMessage is a single message inside a thread.
type ThreadMessage struct {
	Body     string    `json:"body"`
	SendDate time.Time `json:"send_date"`
	Sender   int64     `json:"sender"`
}

// MessageThread is the payload for the message thread endpoint.
type MessageThread struct {
	Patient      string          `json:"patient"`
	Sender       int64           `json:"sender"`
	Practice     int64           `json:"practice"`
	DocumentDate time.Time       `json:"document_date"`
	ChartDate    time.Time       `json:"chart_date"`
	Members      []ThreadMember  `json:"members"`
	Messages     []ThreadMessage `json:"messages"`
	IsUrgent     bool            `json:"is_urgent"`
}

type Client struct {
	patientURL string
	messageURL string
	tokens     TokenProvider
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(patientURL, messageURL string, tokens TokenProvider, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		patientURL: strings.TrimRight(patientURL, "/"),
		messageURL: messageURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindPatients searches by exact last name, first name and date of birth
// (YYYY-MM-DD). An empty result is not an error: callers distinguish "no
// match" from "search failed".
func (c *Client) FindPatients(ctx context.Context, lastName, firstName, dob string) ([]Patient, error) {
	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("last_name", lastName)
	params.Set("first_name", firstName)
	params.Set("dob", dob)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.patientURL+"/patients/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build patient search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read patient search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var patients []Patient
	if err := json.Unmarshal(body, &patients); err != nil {
		return nil, &ProtocolError{Reason: "decode patient search response: " + err.Error()}
	}

	c.log.Debug().
		Str("last_name", lastName).
		Str("dob", dob).
		Int("matches", len(patients)).
		Msg("patient search")
	return patients, nil
}

// CreatePatient submits a new patient record and returns it with the
// EMR-assigned identifier.
func (c *Client) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	p.ID = ""
	created, err := c.submitPatient(ctx, http.MethodPost, c.patientURL+"/patients/", p)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("patient_id", created.ID).Msg("created patient")
	return created, nil
}

// UpdatePatient replaces the entire record at the patient-id path. Callers
// must supply every field, unchanged ones included.
func (c *Client) UpdatePatient(ctx context.Context, id string, p Patient) (*Patient, error) {
	p.ID = id
	updated, err := c.submitPatient(ctx, http.MethodPut, c.patientURL+"/patients/"+id, p)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("patient_id", id).Msg("updated patient")
	return updated, nil
}

func (c *Client) submitPatient(ctx context.Context, method, endpoint string, p Patient) (*Patient, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal patient: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build patient request: %w", err)
	}

	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit patient: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read patient response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Patient
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ProtocolError{Reason: "decode patient response: " + err.Error()}
	}
	if out.ID == "" {
		return nil, &ProtocolError{Reason: "patient response missing id"}
	}
	return &out, nil
}

// CreateMessageThread posts a thread to the messaging endpoint.
func (c *Client) CreateMessageThread(ctx context.Context, thread MessageThread) error {
	if c.messageURL == "" {
		return fmt.Errorf("message endpoint not configured")
	}

	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("marshal message thread: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.messageURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build message thread request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create message thread: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.log.Info().Str("patient_id", thread.Patient).Msg("created message thread")
	return nil
}
