// Package pdf renders the fixed-layout buprenorphine consent form.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/rumehealth/bupe-relay/internal/domain/intake"
)

const (
	pageMargin  = 72.0
	lineHeight  = 13.0
	titleSize   = 18.0
	sectionSize = 14.0
	bodySize    = 10.0
	fieldSize   = 12.0
)

// agreement pairs one consent paragraph with the flag recording the
// patient's answer.
type agreement struct {
	text     string
	accepted func(*intake.Record) bool
}

var agreements = []agreement{
	{
		"My medical provider has explained the risks, benefits and alternatives to buprenorphine treatment.",
		func(r *intake.Record) bool { return r.BupeRisksExplained },
	},
	{
		"I understand that buprenorphine can only be prescribed by a specially licensed medical professional (buprenorphine provider). I can only get buprenorphine refills during scheduled office visits with my buprenorphine provider and I will not be able to obtain buprenorphine refills during walk in visits, from the emergency room, or after regular clinic hours. If I am unable to make it to my scheduled appointment, I must notify Rume Wellness 24 hours prior (or ASAP in an emergency situation) to make arrangements. I understand that I cannot get any early refills on my medication.",
		func(r *intake.Record) bool { return r.BupeRefillPolicyAgreement },
	},
	{
		"I understand that Rume Wellness office hours are: Monday - Friday 8:00 am - 4:30 pm.",
		func(r *intake.Record) bool { return r.OfficeHoursAgreement },
	},
	{
		"I will take buprenorphine only as prescribed by my medical provider. I will not take buprenorphine prescribed for someone else. I will take my prescribed dose daily and I will not adjust the dose on my own. If I wish a dosage change, I will discuss this with the medical provider during my appointment. I understand that if any member of Rume Wellness's treatment team receives information that I have been involved with any kind of diversion (selling, giving away or sharing buprenorphine with another patient), I may be transitioned to monthly injectable buprenorphine or referred for a higher level of specialty care.",
		func(r *intake.Record) bool { return r.MedicationUseAgreement },
	},
	{
		"I agree to inform my treatment provider, whether in outpatient treatment, inpatient treatment, in the ER, or in a dental office that I am taking prescribed buprenorphine and participating in an MAT program as part of the intake information.",
		func(r *intake.Record) bool { return r.MedicalDisclosureAgreement },
	},
	{
		"I agree to contact Rume Wellness program IMMEDIATELY if I experience a medical emergency that necessitates the use of opioid pain medication. I agree to allow my buprenorphine prescriber to provide consultation, where necessary, to any other medical provider who is recommending the use of opioid pain medication or a benzodiazepine or need for anesthesia.",
		func(r *intake.Record) bool { return r.EmergencyContactAgreement },
	},
	{
		"I understand that dental treatment, including tooth extraction, is not a reason to use opioid pain medication since better pain relief can be accomplished in other ways. Use of pain medication for dental treatment will be considered a relapse on opioid medication.",
		func(r *intake.Record) bool { return r.DentalTreatmentAgreement },
	},
	{
		"I understand that to participate in Rume Wellness's treatment program, I must be willing to work towards abstinence from all mind-altering substances, and alcohol. I agree to work on abstinence from all substances with understanding that it may take some time to reach the goal of complete abstinence.",
		func(r *intake.Record) bool { return r.AbstinenceAgreement },
	},
	{
		"As required by California State law, I understand that I am giving consent for random pharmacy checks. The discovery of controlled substance being dispensed to me without the explicit knowledge of Rume Wellness is cause for immediate referral to a higher level of care.",
		func(r *intake.Record) bool { return r.PharmacyCheckConsent },
	},
	{
		"I will comply with all the required medication counts and urine tests. Urine testing is a mandatory part of office maintenance visits; I agree to be prepared to give a urine sample for testing for opioids and other drugs, including the presence of buprenorphine and its metabolites at each clinic visit. I agree to show my current medication bottles for a pill count - including reserve medications, if asked. Urine testing will occur at each appointment or per medical provider's request and may be witnessed.",
		func(r *intake.Record) bool { return r.MedicationCountAgreement },
	},
	{
		"I will attend all scheduled appointments and will call to cancel within 24 hours if I am unable to attend.",
		func(r *intake.Record) bool { return r.AppointmentAgreement },
	},
	{
		"I agree to store medication properly. Medication may be harmful to children, household members, and pets. The films/pills will be stored in a safe place (preferably locked) out of the reach of children. If anyone besides me ingests this medication I will call 911 immediately for medical assistance.",
		func(r *intake.Record) bool { return r.MedicationStorageAgreement },
	},
	{
		"I agree to notify my medical provider immediately if my medication is lost or stolen. If my medication is stolen, I must furnish a copy of the police report to add to my medical record.",
		func(r *intake.Record) bool { return r.StolenReportingAgreement },
	},
	{
		"I will notify my medical provider immediately if I use any controlled substances. Relapse to opioids can be life threatening and an appropriate treatment plan must be developed as soon as possible. I will tell my medical provider about a relapse BEFORE any urine test shows use. If I do not inform my treatment team about use of a substance, and there is a positive result on a urine screen, this may be a cause for a change to my plan of care.",
		func(r *intake.Record) bool { return r.RelapseReportingAgreement },
	},
	{
		"I understand that buprenorphine treatment does not work for everyone, and if my medical provider determines that I am no longer receiving appropriate benefit from the medication they reserve the right to discontinue the medication at any time.",
		func(r *intake.Record) bool { return r.TreatmentDiscontinuationUnderstanding },
	},
	{
		"I understand the risk of relapse to opioid use after stopping buprenorphine can be as high as 95%, and that I should not stop taking my medication without speaking with my medical provider to make an appropriate withdrawal management and follow up care plan.",
		func(r *intake.Record) bool { return r.RelapseRiskUnderstanding },
	},
	{
		"I understand that if I stop taking buprenorphine and resume opioid use that my risk of opioid overdose death is high. I agree to always keep a naloxone rescue kit with me and to teach my friends and family how to use it.",
		func(r *intake.Record) bool { return r.OverdoseRiskUnderstanding },
	},
	{
		"I understand that my treatment team recommends that I be involved in a chemical dependency treatment program. Participation in a community-based program (such as AA, NA) while I am taking buprenorphine is also highly recommended.",
		func(r *intake.Record) bool { return r.TreatmentProgramRecommendation },
	},
	{
		"My provider has recommended that I obtain my buprenorphine from a single pharmacy. The clinic does not keep any buprenorphine in stock. I am responsible for paying for my own medications.",
		func(r *intake.Record) bool { return r.PharmacyRecommendationAgreement },
	},
	{
		"I agree to conduct myself in a courteous manner in the medical provider's office. Lewd, rude or threatening comments made to staff will result in termination from the program.",
		func(r *intake.Record) bool { return r.ConductAgreement },
	},
	{
		"I understand that buprenorphine can cause drowsiness and it may be dangerous to operate a motor vehicle or heavy equipment while taking it. I will not operate a motor vehicle until I have a better understanding of how buprenorphine will affect me.",
		func(r *intake.Record) bool { return r.MotorVehicleSafetyAgreement },
	},
	{
		"(Female patients only) I understand that buprenorphine/naloxone has unknown safety in pregnancy and plain buprenorphine is currently recommended instead. I agree to develop a contraception plan with my provider so that I do not become pregnant during treatment. If I become pregnant I will tell my provider right away so that medication adjustments can be made.",
		func(r *intake.Record) bool { return r.PregnancyMedicationAgreement },
	},
	{
		"I agree to sign a release of information and consent to a coordination of care phone call for any other providers that are prescribing a controlled substance. This is for patient safety, and coordination of care calls are always conducted in a courteous and compassionate manner with the goal of preserving the relationship with all health care providers.",
		func(r *intake.Record) bool { return r.CareCoordinationAgreement },
	},
	{
		"I have reviewed the outline of Rume Wellness's outpatient based opioid treatment program thoroughly. I have had the opportunity to ask questions regarding the program and have had them answered by my treatment team. I agree to abide by all the rules and expectations reviewed and signed by me.",
		func(r *intake.Record) bool { return r.ProgramRulesAgreement },
	},
}

var infoParagraphs = []string{
	"Buprenorphine (aka: Suboxone, Subutex, Zubsolv, Sublocade) is an FDA approved medication used for the medically assisted treatment (MAT) of opioid use disorder (addiction to heroin, fentanyl, Tramadol, Kratom and prescription painkillers).",
	"Buprenorphine can be used for detoxification or for maintenance therapy. Maintenance can be continued for as long as medically necessary. There are other medical treatments for opioid addiction, including methadone and naltrexone. Medication alone may not be sufficient to treat addiction. For best results, you should also participate in recovery support therapy, which may include individual therapy, group therapy, peer support activities, narcotics anonymous meetings and residential rehabilitation. The risk of relapse to opioid use is very high when patients stop taking buprenorphine, so you should not stop taking your medication without discussing it with your medical provider first.",
	"Buprenorphine is a partial opioid agonist. It binds very strongly to the opioid receptors in your brain and body, which helps to prevent cravings for opioids. It also blocks other opioids from binding to those receptors so if you try to use other opioids they will not work (you cannot get high). Because buprenorphine binds more strongly to the receptors than other opioids do, if you take buprenorphine while you still have other drugs in your system it will knock those drugs off the receptors which can cause withdrawal. If you are dependent on opioids, you should be in as much withdrawal as possible when you take the first dose of buprenorphine, and it will help you feel better. If you are not already in withdrawal, buprenorphine can cause severe opioid withdrawal.",
	"Some patients find it takes several days to get used to the transition from the opioid they have been using to buprenorphine. During that time, any use of other opioids can cause an increase in symptoms. After you become stabilized on buprenorphine, other opioids will have less effect, and attempts to override the effects of buprenorphine by taking more opioids can result in fatal overdose. IV injection of buprenorphine/naloxone can cause severe withdrawal symptoms. The beneficial effects of buprenorphine plateau at higher doses, and taking more than prescribed will not relieve your symptoms.",
	"If you take buprenorphine daily your body will develop a physical dependence to it. Once you have stabilized on it, if you discontinue buprenorphine suddenly, you will likely experience withdrawal.",
	"The most common side effects of buprenorphine are headache, nausea, sedation and constipation. These side effects tend to get better over time as your body adjusts to the medication. You need to discuss these with your medical provider so they can help you to manage these side effects safely.",
	"Combining buprenorphine with alcohol or other sedating medications is dangerous. The combination of buprenorphine with benzodiazepines (such as Xanax, Valium, Ativan, Klonopin, etc.) has resulted in death.",
	"Buprenorphine tablets and strips must be held under the tongue until they dissolve completely which can take 15 minutes. Do not eat or drink anything for at least 30 minutes after taking buprenorphine. If you swallow buprenorphine it will not be properly absorbed and it will not work well.",
	"I understand that I have been prescribed a medication that will cause drug dependency and can be misused. To help reduce my risk of harm from these medications I agree to the following rules:",
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderConsentForm produces the consent form for one intake record. Output
// is deterministic for a given record.
func (r *Renderer) RenderConsentForm(rec *intake.Record) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)

	doc.SetTitle("Buprenorphine Form", false)
	doc.SetAuthor("Rume Health", false)
	doc.SetSubject("Buprenorphine Intake Form", false)
	doc.SetKeywords("Buprenorphine, Intake Form", false)
	// Pin the creation date to the submission so repeated renders of the
	// same record produce identical bytes.
	doc.SetCreationDate(rec.SubmittedAt)
	doc.SetModificationDate(rec.SubmittedAt)

	doc.AddPage()
	r.header(doc, rec)
	r.patientData(doc, rec)
	r.information(doc)
	r.agreements(doc, rec)
	r.signature(doc, rec)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render consent form: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(doc *fpdf.Fpdf, rec *intake.Record) {
	doc.SetFont("Helvetica", "B", 24)
	doc.SetTextColor(31, 48, 81)
	doc.Text(pageMargin, pageMargin+24, "rume")

	doc.SetFont("Helvetica", "B", titleSize)
	doc.Text(pageMargin, pageMargin+58, "Buprenorphine Form")

	// Event info box, top right
	pageW, _ := doc.GetPageSize()
	boxW, boxH := 200.0, 60.0
	boxX := pageW - pageMargin - boxW
	boxY := pageMargin
	doc.SetFillColor(240, 240, 240)
	doc.SetDrawColor(128, 128, 128)
	doc.RoundedRect(boxX, boxY, boxW, boxH, 8, "1234", "FD")

	doc.SetFont("Helvetica", "", bodySize)
	doc.SetTextColor(0, 0, 0)
	doc.Text(boxX+10, boxY+22, "Event ID: "+rec.EventID)
	doc.Text(boxX+10, boxY+42, "Submitted: "+rec.SubmittedAt.Format("Jan 2, 2006 15:04 MST"))

	doc.SetY(pageMargin + 80)
}

func (r *Renderer) patientData(doc *fpdf.Fpdf, rec *intake.Record) {
	doc.Ln(lineHeight)
	doc.SetFont("Helvetica", "B", sectionSize)
	doc.SetTextColor(31, 48, 81)
	doc.CellFormat(0, lineHeight+4, "Patient Data", "", 1, "L", false, 0, "")
	doc.Ln(4)

	fields := []struct{ label, value string }{
		{"First Name", rec.FirstName},
		{"Last Name", rec.LastName},
		{"Phone Number", rec.PhoneNumber},
		{"Email", rec.Email},
		{"Date of Birth", rec.DateOfBirth},
		{"Sex", rec.Sex},
	}
	for _, f := range fields {
		doc.SetFont("Helvetica", "B", fieldSize)
		doc.SetTextColor(31, 48, 81)
		doc.CellFormat(110, lineHeight+2, f.label+":", "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", fieldSize)
		doc.SetTextColor(0, 0, 0)
		value := f.value
		if value == "" {
			value = "Not provided"
		}
		doc.CellFormat(0, lineHeight+2, value, "", 1, "L", false, 0, "")
	}
}

func (r *Renderer) information(doc *fpdf.Fpdf) {
	doc.Ln(lineHeight * 2)
	doc.SetFont("Helvetica", "B", sectionSize)
	doc.SetTextColor(31, 48, 81)
	doc.MultiCell(0, lineHeight+2, "Important Information about Buprenorphine:", "", "L", false)
	doc.Ln(6)

	doc.SetFont("Helvetica", "", bodySize)
	doc.SetTextColor(0, 0, 0)
	for _, p := range infoParagraphs {
		doc.MultiCell(0, lineHeight, p, "", "L", false)
		doc.Ln(lineHeight)
	}

	// Rule line before the agreement section
	pageW, _ := doc.GetPageSize()
	doc.SetDrawColor(0, 0, 0)
	doc.Line(pageMargin, doc.GetY(), pageW-pageMargin, doc.GetY())
	doc.Ln(lineHeight)
}

func (r *Renderer) agreements(doc *fpdf.Fpdf, rec *intake.Record) {
	for _, a := range agreements {
		doc.SetFont("Helvetica", "", bodySize)
		doc.SetTextColor(0, 0, 0)
		doc.MultiCell(0, lineHeight, a.text+" This question is required.*", "", "L", false)

		if a.accepted(rec) {
			doc.SetFont("Helvetica", "B", bodySize)
			doc.MultiCell(0, lineHeight, "I accept", "", "L", false)
		} else {
			doc.SetFont("Helvetica", "", bodySize)
			doc.MultiCell(0, lineHeight, "I do not accept", "", "L", false)
		}
		doc.Ln(lineHeight)
	}
}

func (r *Renderer) signature(doc *fpdf.Fpdf, rec *intake.Record) {
	doc.SetFont("Helvetica", "", bodySize)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, lineHeight,
		"By typing your name you confirm that you or someone you have authorized has completed this form. This question is required.*",
		"", "L", false)
	doc.SetFont("Helvetica", "B", fieldSize)
	doc.MultiCell(0, lineHeight+4, rec.Signature, "", "L", false)
}
