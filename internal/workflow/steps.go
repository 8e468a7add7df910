// Package workflow is the operator job workflow progression engine: the
// canonical step order, the per-job progress record and the rules governing
// which transitions are legal and what side effects they fire.
package workflow

// Step identifies one operator-facing workflow step.
type Step string

const (
	StepEquipmentChecklist Step = "equipment_checklist"
	StepInRoute            Step = "in_route"
	StepJobHazardAnalysis  Step = "job_hazard_analysis"
	StepSilicaForm         Step = "silica_form"
	StepWorkPerformed      Step = "work_performed"
	StepPictures           Step = "pictures"
	StepCustomerSignature  Step = "customer_signature"
	StepCompleteJob        Step = "complete_job"
)

// Order is the canonical step sequence. StepCompleteJob is the terminal
// marker returned once every flagged step is done.
var Order = []Step{
	StepEquipmentChecklist,
	StepInRoute,
	StepJobHazardAnalysis,
	StepSilicaForm,
	StepWorkPerformed,
	StepPictures,
	StepCustomerSignature,
	StepCompleteJob,
}

// Valid reports whether s is one of the canonical steps.
func Valid(s Step) bool {
	for _, o := range Order {
		if o == s {
			return true
		}
	}
	return false
}

// NextStep returns the first step whose completion flag is false. A zero
// Progress (no row yet) yields the first step; all flags true yields
// StepCompleteJob. Pure function of the flags.
func NextStep(p Progress) Step {
	for _, s := range Order {
		if s == StepCompleteJob {
			break
		}
		if !p.Done(s) {
			return s
		}
	}
	return StepCompleteJob
}

// Resolve applies the forward auto-redirect rule: landing on a step that is
// already completed redirects to the next unfinished step. Landing on an
// unfinished step renders it; backward navigation is never forced.
func Resolve(requested Step, p Progress) Step {
	if !Valid(requested) || p.Done(requested) {
		return NextStep(p)
	}
	return requested
}

// Following returns the step after s in the canonical order. The UI advances
// to it on submit regardless of whether the completion flag was set (the
// in-route step can move forward with sms_sent still false).
func Following(s Step) Step {
	for i, o := range Order {
		if o == s && i+1 < len(Order) {
			return Order[i+1]
		}
	}
	return StepCompleteJob
}
