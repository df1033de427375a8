package intake

import "time"

// Record maps to the rumex.bupe_intake table: one submitted buprenorphine
// consent/intake form. Rows are written by the intake form system; this
// service only ever reads them.
type Record struct {
	EventID     string    `db:"event_id" json:"event_id"`
	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`

	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
	Email       string `db:"email" json:"email"`
	// Raw date of birth as submitted (text column); normalization happens
	// at reconciliation time.
	DateOfBirth       string `db:"date_of_birth" json:"date_of_birth"`
	Sex               string `db:"sex" json:"sex"`
	PrimaryPhysician  string `db:"primary_physician" json:"primary_physician"`
	CaregiverPractice string `db:"caregiver_practice" json:"caregiver_practice"`

	Signature string `db:"signature" json:"signature"`

	// Consent acknowledgements, one per agreement paragraph on the form.
	BupeRisksExplained                   bool `db:"bupe_risks_explained" json:"bupe_risks_explained"`
	BupeRefillPolicyAgreement            bool `db:"bupe_refill_policy_agreement" json:"bupe_refill_policy_agreement"`
	OfficeHoursAgreement                 bool `db:"office_hours_agreement" json:"office_hours_agreement"`
	MedicationUseAgreement               bool `db:"medication_use_agreement" json:"medication_use_agreement"`
	MedicalDisclosureAgreement           bool `db:"medical_disclosure_agreement" json:"medical_disclosure_agreement"`
	EmergencyContactAgreement            bool `db:"emergency_contact_agreement" json:"emergency_contact_agreement"`
	DentalTreatmentAgreement             bool `db:"dental_treatment_agreement" json:"dental_treatment_agreement"`
	AbstinenceAgreement                  bool `db:"abstinence_agreement" json:"abstinence_agreement"`
	PharmacyCheckConsent                 bool `db:"pharmacy_check_consent" json:"pharmacy_check_consent"`
	MedicationCountAgreement             bool `db:"medication_count_agreement" json:"medication_count_agreement"`
	AppointmentAgreement                 bool `db:"appointment_agreement" json:"appointment_agreement"`
	MedicationStorageAgreement           bool `db:"medication_storage_agreement" json:"medication_storage_agreement"`
	StolenReportingAgreement             bool `db:"stolen_reporting_agreement" json:"stolen_reporting_agreement"`
	RelapseReportingAgreement            bool `db:"relapse_reporting_agreement" json:"relapse_reporting_agreement"`
	TreatmentDiscontinuationUnderstanding bool `db:"treatment_discontinuation_understanding" json:"treatment_discontinuation_understanding"`
	RelapseRiskUnderstanding             bool `db:"relapse_risk_understanding" json:"relapse_risk_understanding"`
	OverdoseRiskUnderstanding            bool `db:"overdose_risk_understanding" json:"overdose_risk_understanding"`
	TreatmentProgramRecommendation       bool `db:"treatment_program_recommendation" json:"treatment_program_recommendation"`
	PharmacyRecommendationAgreement      bool `db:"pharmacy_recommendation_agreement" json:"pharmacy_recommendation_agreement"`
	ConductAgreement                     bool `db:"conduct_agreement" json:"conduct_agreement"`
	MotorVehicleSafetyAgreement          bool `db:"motor_vehicle_safety_agreement" json:"motor_vehicle_safety_agreement"`
	PregnancyMedicationAgreement         bool `db:"pregnancy_medication_agreement" json:"pregnancy_medication_agreement"`
	CareCoordinationAgreement            bool `db:"care_coordination_agreement" json:"care_coordination_agreement"`
	ProgramRulesAgreement                bool `db:"program_rules_agreement" json:"program_rules_agreement"`
}
