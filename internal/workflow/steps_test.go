package workflow

import "testing"

func allDone() Progress {
	return Progress{
		EquipmentChecklistCompleted: true,
		SMSSent:                     true,
		JHACompleted:                true,
		SilicaFormCompleted:         true,
		WorkPerformedCompleted:      true,
		PicturesSubmitted:           true,
		CustomerSignatureReceived:   true,
	}
}

func TestNextStepEmptyProgress(t *testing.T) {
	if got := NextStep(Progress{}); got != StepEquipmentChecklist {
		t.Fatalf("expected %s on empty progress, got %s", StepEquipmentChecklist, got)
	}
}

func TestNextStepAllDone(t *testing.T) {
	if got := NextStep(allDone()); got != StepCompleteJob {
		t.Fatalf("expected terminal %s, got %s", StepCompleteJob, got)
	}
}

func TestNextStepDeterministic(t *testing.T) {
	p := Progress{EquipmentChecklistCompleted: true, SMSSent: true}
	first := NextStep(p)
	for i := 0; i < 10; i++ {
		if got := NextStep(p); got != first {
			t.Fatalf("NextStep not deterministic: %s then %s", first, got)
		}
	}
	if first != StepJobHazardAnalysis {
		t.Fatalf("expected %s after checklist+sms, got %s", StepJobHazardAnalysis, first)
	}
}

func TestNextStepStopsAtUnsentSMS(t *testing.T) {
	// Checklist done but no notification dispatched: sequencer holds at in_route.
	p := Progress{EquipmentChecklistCompleted: true}
	if got := NextStep(p); got != StepInRoute {
		t.Fatalf("expected %s, got %s", StepInRoute, got)
	}
}

func TestNextStepOrder(t *testing.T) {
	p := Progress{}
	expected := []Step{
		StepEquipmentChecklist, StepInRoute, StepJobHazardAnalysis, StepSilicaForm,
		StepWorkPerformed, StepPictures, StepCustomerSignature,
	}
	for _, want := range expected {
		if got := NextStep(p); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
		p = Apply(p, want, Following(want), StepFlags{SMSSent: want == StepInRoute})
	}
	if got := NextStep(p); got != StepCompleteJob {
		t.Fatalf("expected terminal after full walk, got %s", got)
	}
}

func TestResolveRedirectsForwardOnly(t *testing.T) {
	p := Progress{EquipmentChecklistCompleted: true}
	// Landing on a completed step redirects forward.
	if got := Resolve(StepEquipmentChecklist, p); got != StepInRoute {
		t.Fatalf("expected forward redirect to %s, got %s", StepInRoute, got)
	}
	// Landing on the pending step renders it.
	if got := Resolve(StepInRoute, p); got != StepInRoute {
		t.Fatalf("expected %s to render, got %s", StepInRoute, got)
	}
	// A later unfinished step is reachable by explicit navigation.
	if got := Resolve(StepSilicaForm, p); got != StepSilicaForm {
		t.Fatalf("expected explicit navigation to stand, got %s", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	p := Apply(Progress{}, StepEquipmentChecklist, StepInRoute, StepFlags{})
	again := Apply(p, StepEquipmentChecklist, StepInRoute, StepFlags{})
	if !again.EquipmentChecklistCompleted {
		t.Fatalf("flag toggled off on repeat apply")
	}
	if again != p {
		t.Fatalf("repeat apply changed the record: %+v vs %+v", again, p)
	}
}

func TestApplyFlagsAreMonotonic(t *testing.T) {
	p := Apply(Progress{}, StepInRoute, StepJobHazardAnalysis, StepFlags{SMSSent: true})
	if !p.SMSSent {
		t.Fatalf("sms_sent not set")
	}
	// A later write with SMSSent=false must not clear the flag.
	p = Apply(p, StepInRoute, StepJobHazardAnalysis, StepFlags{SMSSent: false})
	if !p.SMSSent {
		t.Fatalf("sms_sent cleared by a later write")
	}
}

func TestFollowing(t *testing.T) {
	if got := Following(StepCustomerSignature); got != StepCompleteJob {
		t.Fatalf("expected %s, got %s", StepCompleteJob, got)
	}
	if got := Following(StepEquipmentChecklist); got != StepInRoute {
		t.Fatalf("expected %s, got %s", StepInRoute, got)
	}
}
