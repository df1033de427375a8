// Package patient decides, for one intake submission, whether the EMR
// patient record is created or updated.
package patient

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rumehealth/bupe-relay/internal/platform/elation"
)

// Directory is the subset of the EMR API the reconciler needs.
type Directory interface {
	FindPatients(ctx context.Context, lastName, firstName, dob string) ([]elation.Patient, error)
	CreatePatient(ctx context.Context, p elation.Patient) (*elation.Patient, error)
	UpdatePatient(ctx context.Context, id string, p elation.Patient) (*elation.Patient, error)
}

// Demographics is the full demographic payload for one patient. Every field
// is submitted on both create and update (the EMR update is a full-record
// replace).
type Demographics struct {
	LastName          string
	FirstName         string
	Sex               string
	DateOfBirth       string
	PrimaryPhysician  string
	CaregiverPractice string
}

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Result pairs the action taken with the resulting EMR record.
type Result struct {
	Action  Action
	Patient *elation.Patient
}

type Reconciler struct {
	dir Directory
	log zerolog.Logger
}

func NewReconciler(dir Directory, logger zerolog.Logger) *Reconciler {
	return &Reconciler{dir: dir, log: logger}
}

// Reconcile looks the patient up by (last name, first name, date of birth)
// and either updates the first match or creates a new record. Exactly one of
// the two happens per invocation; any component failure propagates unchanged.
func (r *Reconciler) Reconcile(ctx context.Context, d Demographics) (*Result, error) {
	dob, err := NormalizeDOB(d.DateOfBirth)
	if err != nil {
		return nil, err
	}

	matches, err := r.dir.FindPatients(ctx, d.LastName, d.FirstName, dob)
	if err != nil {
		return nil, err
	}

	payload := elation.Patient{
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		DOB:               dob,
		Sex:               d.Sex,
		PrimaryPhysician:  d.PrimaryPhysician,
		CaregiverPractice: d.CaregiverPractice,
	}

	if len(matches) > 0 {
		// First match wins; the search key is treated as identity.
		if len(matches) > 1 {
			r.log.Warn().
				Int("matches", len(matches)).
				Str("patient_id", matches[0].ID).
				Msg("multiple patients matched, updating first")
		}
		updated, err := r.dir.UpdatePatient(ctx, matches[0].ID, payload)
		if err != nil {
			return nil, err
		}
		return &Result{Action: ActionUpdate, Patient: updated}, nil
	}

	created, err := r.dir.CreatePatient(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &Result{Action: ActionCreate, Patient: created}, nil
}
