package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowQuerier is the slice of the pgx pool the repository needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type intakeRepoPG struct{ db rowQuerier }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &intakeRepoPG{db: pool}
}

const intakeCols = `event_id, submitted_at, first_name, last_name, phone_number, email,
	date_of_birth, sex, primary_physician, caregiver_practice, signature,
	bupe_risks_explained, bupe_refill_policy_agreement, office_hours_agreement,
	medication_use_agreement, medical_disclosure_agreement, emergency_contact_agreement,
	dental_treatment_agreement, abstinence_agreement, pharmacy_check_consent,
	medication_count_agreement, appointment_agreement, medication_storage_agreement,
	stolen_reporting_agreement, relapse_reporting_agreement, treatment_discontinuation_understanding,
	relapse_risk_understanding, overdose_risk_understanding, treatment_program_recommendation,
	pharmacy_recommendation_agreement, conduct_agreement, motor_vehicle_safety_agreement,
	pregnancy_medication_agreement, care_coordination_agreement, program_rules_agreement`

func (r *intakeRepoPG) scanRow(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.EventID, &rec.SubmittedAt, &rec.FirstName, &rec.LastName, &rec.PhoneNumber, &rec.Email,
		&rec.DateOfBirth, &rec.Sex, &rec.PrimaryPhysician, &rec.CaregiverPractice, &rec.Signature,
		&rec.BupeRisksExplained, &rec.BupeRefillPolicyAgreement, &rec.OfficeHoursAgreement,
		&rec.MedicationUseAgreement, &rec.MedicalDisclosureAgreement, &rec.EmergencyContactAgreement,
		&rec.DentalTreatmentAgreement, &rec.AbstinenceAgreement, &rec.PharmacyCheckConsent,
		&rec.MedicationCountAgreement, &rec.AppointmentAgreement, &rec.MedicationStorageAgreement,
		&rec.StolenReportingAgreement, &rec.RelapseReportingAgreement, &rec.TreatmentDiscontinuationUnderstanding,
		&rec.RelapseRiskUnderstanding, &rec.OverdoseRiskUnderstanding, &rec.TreatmentProgramRecommendation,
		&rec.PharmacyRecommendationAgreement, &rec.ConductAgreement, &rec.MotorVehicleSafetyAgreement,
		&rec.PregnancyMedicationAgreement, &rec.CareCoordinationAgreement, &rec.ProgramRulesAgreement)
	return &rec, err
}

func (r *intakeRepoPG) GetByEventID(ctx context.Context, eventID string) (*Record, error) {
	rec, err := r.scanRow(r.db.QueryRow(ctx,
		`SELECT `+intakeCols+` FROM rumex.bupe_intake WHERE event_id = $1`, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query intake %s: %w", eventID, err)
	}
	return rec, nil
}
