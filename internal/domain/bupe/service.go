// Package bupe coordinates the intake pipeline: load the submission,
// render the consent form, reconcile the patient in Elation, and email
// the report to the care team.
package bupe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rumehealth/bupe-relay/internal/domain/intake"
	"github.com/rumehealth/bupe-relay/internal/domain/patient"
	"github.com/rumehealth/bupe-relay/internal/platform/elation"
	"github.com/rumehealth/bupe-relay/internal/platform/email"
)

// Renderer produces the consent form document for one submission.
type Renderer interface {
	RenderConsentForm(rec *intake.Record) ([]byte, error)
}

// Reconciler finds or writes the patient in the EMR.
type Reconciler interface {
	Reconcile(ctx context.Context, d patient.Demographics) (*patient.Result, error)
}

// Messenger posts a message thread to the patient's chart.
type Messenger interface {
	CreateMessageThread(ctx context.Context, thread elation.MessageThread) error
}

// Options carries the delivery settings the service needs from config.
type Options struct {
	NotifyEmail string
	// SenderID and PracticeID enable chart message threads when both are set.
	SenderID   int64
	PracticeID int64
}

// Outcome reports what one pipeline run did.
type Outcome struct {
	EmailID       string
	PatientAction patient.Action
	PatientID     string
}

type Service struct {
	intakes   intake.Repository
	render    Renderer
	reconcile Reconciler
	messenger Messenger
	mail      email.Dispatcher
	opts      Options
	log       zerolog.Logger
}

func NewService(intakes intake.Repository, render Renderer, reconcile Reconciler, messenger Messenger, mail email.Dispatcher, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		intakes:   intakes,
		render:    render,
		reconcile: reconcile,
		messenger: messenger,
		mail:      mail,
		opts:      opts,
		log:       logger.With().Str("component", "bupe").Logger(),
	}
}

// requiredFields are the demographics Elation will not accept a patient
// without. Checked before any rendering or network work happens.
var requiredFields = []struct {
	name  string
	value func(*intake.Record) string
}{
	{"last_name", func(r *intake.Record) string { return r.LastName }},
	{"first_name", func(r *intake.Record) string { return r.FirstName }},
	{"sex", func(r *intake.Record) string { return r.Sex }},
	{"date_of_birth", func(r *intake.Record) string { return r.DateOfBirth }},
	{"primary_physician", func(r *intake.Record) string { return r.PrimaryPhysician }},
	{"caregiver_practice", func(r *intake.Record) string { return r.CaregiverPractice }},
}

func validateRecord(rec *intake.Record) error {
	for _, f := range requiredFields {
		if f.value(rec) == "" {
			return &patient.ValidationError{Field: f.name, Reason: "missing"}
		}
	}
	if _, err := patient.NormalizeDOB(rec.DateOfBirth); err != nil {
		return err
	}
	return nil
}

// Process runs the full pipeline for one intake event.
func (s *Service) Process(ctx context.Context, eventID string) (*Outcome, error) {
	rec, err := s.intakes.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	doc, err := s.render.RenderConsentForm(rec)
	if err != nil {
		return nil, err
	}

	res, err := s.reconcile.Reconcile(ctx, patient.Demographics{
		LastName:          rec.LastName,
		FirstName:         rec.FirstName,
		Sex:               rec.Sex,
		DateOfBirth:       rec.DateOfBirth,
		PrimaryPhysician:  rec.PrimaryPhysician,
		CaregiverPractice: rec.CaregiverPractice,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("event_id", eventID).
		Str("patient_id", res.Patient.ID).
		Str("action", string(res.Action)).
		Msg("patient reconciled")

	// Chart notes are best effort. A failed thread must not block the
	// email that the care team relies on.
	s.postThread(ctx, rec, res.Patient.ID)

	emailID, err := s.mail.Send(ctx, email.Message{
		To:      s.opts.NotifyEmail,
		Subject: fmt.Sprintf("Bupe Intake Report - Event %s", eventID),
		Text: fmt.Sprintf(
			"A buprenorphine intake form was submitted for %s %s. The completed consent form is attached.",
			rec.FirstName, rec.LastName),
		Attachments: []email.Attachment{{
			Filename:    fmt.Sprintf("bupe_intake_%s.pdf", eventID),
			Content:     doc,
			ContentType: "application/pdf",
		}},
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		EmailID:       emailID,
		PatientAction: res.Action,
		PatientID:     res.Patient.ID,
	}, nil
}

func (s *Service) threadsEnabled() bool {
	return s.messenger != nil && s.opts.SenderID != 0 && s.opts.PracticeID != 0
}

func (s *Service) postThread(ctx context.Context, rec *intake.Record, patientID string) {
	if !s.threadsEnabled() {
		return
	}

	now := time.Now().UTC()
	err := s.messenger.CreateMessageThread(ctx, elation.MessageThread{
		Patient:      patientID,
		Sender:       s.opts.SenderID,
		Practice:     s.opts.PracticeID,
		DocumentDate: now,
		ChartDate:    now,
		Members: []elation.ThreadMember{
			{ID: s.opts.SenderID, Status: "active"},
		},
		Messages: []elation.ThreadMessage{{
			Body: fmt.Sprintf(
				"Buprenorphine intake form received for %s %s (event %s). The signed consent form was emailed to the care team.",
				rec.FirstName, rec.LastName, rec.EventID),
			SendDate: now,
			Sender:   s.opts.SenderID,
		}},
		IsUrgent: false,
	})
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("event_id", rec.EventID).
			Str("patient_id", patientID).
			Msg("message thread not posted")
	}
}
