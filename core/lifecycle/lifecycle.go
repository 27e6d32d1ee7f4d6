package lifecycle

// Status is the current lifecycle state of a tracked asset.
// The custody chain runs donor -> intake/repair hub -> institution -> beneficiary:
//
//	DONATED -> INTAKED -> DIAGNOSED -> REPAIRED -> QA_PASSED | QA_FAILED
//	        -> TRANSFERRED_TO_INSTITUTION -> ASSIGNED
//
// The hub phase (INTAKED through QA_FAILED) may loop, e.g. a second
// diagnostic after a failed QA. TRANSFERRED_TO_INSTITUTION and ASSIGNED are
// forward-only; no transition leads back out of ASSIGNED.
type Status string

const (
	StatusDonated     Status = "DONATED"
	StatusIntaked     Status = "INTAKED"
	StatusDiagnosed   Status = "DIAGNOSED"
	StatusRepaired    Status = "REPAIRED"
	StatusQAPassed    Status = "QA_PASSED"
	StatusQAFailed    Status = "QA_FAILED"
	StatusTransferred Status = "TRANSFERRED_TO_INSTITUTION"
	StatusAssigned    Status = "ASSIGNED"
)

// Role is the role of the caller invoking an operation.
type Role string

const (
	RoleDonor      Role = "DONOR"
	RoleTechnician Role = "TECHNICIAN"
	RoleIPSS       Role = "IPSS"
	RoleAdmin      Role = "ADMIN"
)

// EventType is the closed set of lifecycle events recorded in an asset's log.
type EventType string

const (
	EventDonationRegistered EventType = "DONATION_REGISTERED"
	EventIntake             EventType = "INTAKE"
	EventDiagnostic         EventType = "DIAGNOSTIC"
	EventRepair             EventType = "REPAIR"
	EventQA                 EventType = "QA"
	EventFailedQA           EventType = "FAILED_QA"
	EventTransfer           EventType = "TRANSFER"
	EventAssigned           EventType = "ASSIGNED_TO_BENEFICIARY"
)

// OwnerType is the custodian class currently holding the asset. It names a
// class, never an identity.
type OwnerType string

const (
	OwnerHub         OwnerType = "HUB"
	OwnerInstitution OwnerType = "INSTITUTION"
	OwnerBeneficiary OwnerType = "BENEFICIARY"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDonated, StatusIntaked, StatusDiagnosed, StatusRepaired,
		StatusQAPassed, StatusQAFailed, StatusTransferred, StatusAssigned:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleTechnician, RoleIPSS, RoleAdmin:
		return true
	}
	return false
}

// InterventionOutcome maps an intervention event type to the status it
// produces. Only the four hub-phase intervention events are accepted.
func InterventionOutcome(eventType EventType) (Status, bool) {
	switch eventType {
	case EventDiagnostic:
		return StatusDiagnosed, true
	case EventRepair:
		return StatusRepaired, true
	case EventQA:
		return StatusQAPassed, true
	case EventFailedQA:
		return StatusQAFailed, true
	}
	return "", false
}

// hubPhase reports whether the asset is still in the intake/repair/QA loop.
func hubPhase(s Status) bool {
	switch s {
	case StatusDonated, StatusIntaked, StatusDiagnosed, StatusRepaired,
		StatusQAPassed, StatusQAFailed:
		return true
	}
	return false
}

// CanIntake: intake is only valid on a freshly donated asset.
func CanIntake(s Status) bool {
	return s == StatusDonated
}

// CanIntervene: interventions may repeat while the asset is at the hub, but
// an asset that has moved to an institution or a beneficiary never comes back.
func CanIntervene(s Status) bool {
	return hubPhase(s)
}

// CanTransfer: an already-assigned asset cannot be transferred.
func CanTransfer(s Status) bool {
	return s != StatusAssigned
}

// CanAssign: ASSIGNED is terminal, re-assignment is rejected.
func CanAssign(s Status) bool {
	return s != StatusAssigned
}
