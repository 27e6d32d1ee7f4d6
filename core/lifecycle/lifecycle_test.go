package lifecycle

import (
	"testing"
)

func TestInterventionOutcome(t *testing.T) {
	cases := map[EventType]Status{
		EventDiagnostic: StatusDiagnosed,
		EventRepair:     StatusRepaired,
		EventQA:         StatusQAPassed,
		EventFailedQA:   StatusQAFailed,
	}
	for et, want := range cases {
		got, ok := InterventionOutcome(et)
		if !ok || got != want {
			t.Errorf("InterventionOutcome(%s) = %s, %v; want %s", et, got, ok, want)
		}
	}
	if _, ok := InterventionOutcome(EventTransfer); ok {
		t.Errorf("TRANSFER must not be accepted as an intervention")
	}
	if _, ok := InterventionOutcome("BOGUS"); ok {
		t.Errorf("Unknown event type must not be accepted as an intervention")
	}
}

func TestForwardOnlyStates(t *testing.T) {
	if CanIntervene(StatusTransferred) {
		t.Errorf("Interventions must be rejected after transfer to institution")
	}
	if CanIntervene(StatusAssigned) {
		t.Errorf("Interventions must be rejected once assigned")
	}
	if CanAssign(StatusAssigned) {
		t.Errorf("ASSIGNED is terminal, re-assignment must be rejected")
	}
	if CanTransfer(StatusAssigned) {
		t.Errorf("Transfer of an assigned asset must be rejected")
	}
	if !CanAssign(StatusTransferred) {
		t.Errorf("Assignment after transfer must be allowed")
	}
}

func TestHubPhaseLoops(t *testing.T) {
	// A failed QA may be followed by another diagnostic or repair.
	for _, s := range []Status{StatusIntaked, StatusDiagnosed, StatusRepaired, StatusQAPassed, StatusQAFailed} {
		if !CanIntervene(s) {
			t.Errorf("Intervention from %s should be allowed", s)
		}
	}
	if !CanIntake(StatusDonated) {
		t.Errorf("Intake from DONATED should be allowed")
	}
	if CanIntake(StatusIntaked) {
		t.Errorf("Double intake should be rejected")
	}
}

func TestAuthorized(t *testing.T) {
	if !Authorized(OpRegisterDonation, RoleDonor) {
		t.Errorf("DONOR must be allowed to register a donation")
	}
	if Authorized(OpRegisterDonation, RoleTechnician) {
		t.Errorf("TECHNICIAN must not register donations")
	}
	if !Authorized(OpRecordIntervention, RoleTechnician) {
		t.Errorf("TECHNICIAN must record interventions")
	}
	if Authorized(OpAssignToBeneficiary, RoleDonor) {
		t.Errorf("DONOR must not assign to beneficiaries")
	}
	// ADMIN is allowed everywhere.
	for _, op := range MutatingOperations() {
		if !Authorized(op, RoleAdmin) {
			t.Errorf("ADMIN must be allowed for %s", op)
		}
	}
	if Authorized("NoSuchOperation", RoleAdmin) {
		t.Errorf("Unknown operations must never be authorized")
	}
}
