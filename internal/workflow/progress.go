package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Progress is the per-job record of completed workflow steps. Flags are
// monotonic: once true they are never reset by normal flow.
//
// SMSSent doubles as the completion flag for the in-route step and as the
// record of whether a notification actually went out. A submit with an ETA
// edited beyond the skew limit advances CurrentStep but leaves SMSSent false,
// so the sequencer re-offers in-route on the next load.
type Progress struct {
	JobID                       uuid.UUID `json:"job_id"`
	EquipmentChecklistCompleted bool      `json:"equipment_checklist_completed"`
	SMSSent                     bool      `json:"sms_sent"`
	JHACompleted                bool      `json:"jha_completed"`
	SilicaFormCompleted         bool      `json:"silica_form_completed"`
	WorkPerformedCompleted      bool      `json:"work_performed_completed"`
	PicturesSubmitted           bool      `json:"pictures_submitted"`
	CustomerSignatureReceived   bool      `json:"customer_signature_received"`
	CurrentStep                 Step      `json:"current_step"`
	ETAWarning                  bool      `json:"eta_warning"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// StepFlags carries the extra flags a step submission may set alongside its
// completion flag.
type StepFlags struct {
	SMSSent    bool
	ETAWarning bool
}

// Done reports whether the completion flag for s is set.
func (p Progress) Done(s Step) bool {
	switch s {
	case StepEquipmentChecklist:
		return p.EquipmentChecklistCompleted
	case StepInRoute:
		return p.SMSSent
	case StepJobHazardAnalysis:
		return p.JHACompleted
	case StepSilicaForm:
		return p.SilicaFormCompleted
	case StepWorkPerformed:
		return p.WorkPerformedCompleted
	case StepPictures:
		return p.PicturesSubmitted
	case StepCustomerSignature:
		return p.CustomerSignatureReceived
	default:
		return false
	}
}

// Apply marks the completed step's flag, advances CurrentStep and merges the
// extra flags. Flags only ever flip to true, so applying the same step twice
// leaves the record unchanged beyond the second write itself.
func Apply(p Progress, completed Step, current Step, flags StepFlags) Progress {
	switch completed {
	case StepEquipmentChecklist:
		p.EquipmentChecklistCompleted = true
	case StepInRoute:
		// sms_sent records an actual dispatch, not mere step completion.
		p.SMSSent = p.SMSSent || flags.SMSSent
	case StepJobHazardAnalysis:
		p.JHACompleted = true
	case StepSilicaForm:
		p.SilicaFormCompleted = true
	case StepWorkPerformed:
		p.WorkPerformedCompleted = true
	case StepPictures:
		p.PicturesSubmitted = true
	case StepCustomerSignature:
		p.CustomerSignatureReceived = true
	}
	p.CurrentStep = current
	p.ETAWarning = p.ETAWarning || flags.ETAWarning
	return p
}
