package lifecycle

// Operation names, shared by the authorization policy, the operation
// registry and the HTTP gateway.
const (
	OpInitLedger            = "InitLedger"
	OpRegisterDonation      = "RegisterDonation"
	OpIntake                = "Intake"
	OpRecordIntervention    = "RecordIntervention"
	OpTransferToInstitution = "TransferToInstitution"
	OpAssignToBeneficiary   = "AssignToBeneficiary"
	OpReadCurrent           = "ReadCurrent"
	OpQueryByStatus         = "QueryByStatus"
	OpQueryByKeyRange       = "QueryByKeyRange"
	OpGetHistory            = "GetHistory"
)

// allowedRoles is the role policy per mutating operation. Queries are open
// to any authenticated caller and are not listed.
var allowedRoles = map[string][]Role{
	OpInitLedger:            {RoleAdmin},
	OpRegisterDonation:      {RoleDonor, RoleAdmin},
	OpIntake:                {RoleIPSS, RoleTechnician, RoleAdmin},
	OpRecordIntervention:    {RoleTechnician, RoleAdmin},
	OpTransferToInstitution: {RoleIPSS, RoleAdmin},
	OpAssignToBeneficiary:   {RoleIPSS, RoleAdmin},
}

// Authorized reports whether role may invoke the named operation.
// Unknown operations are never authorized.
func Authorized(op string, role Role) bool {
	roles, ok := allowedRoles[op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// MutatingOperations returns the operation names that change ledger state,
// in a fixed order. The registry uses this to verify it is complete.
func MutatingOperations() []string {
	return []string{
		OpInitLedger,
		OpRegisterDonation,
		OpIntake,
		OpRecordIntervention,
		OpTransferToInstitution,
		OpAssignToBeneficiary,
	}
}

// QueryOperations returns the read-only operation names.
func QueryOperations() []string {
	return []string{
		OpReadCurrent,
		OpQueryByStatus,
		OpQueryByKeyRange,
		OpGetHistory,
	}
}
