package auth

import "studentkeep/core/lifecycle"

// CallerContext identifies the authenticated caller for one ledger call.
// It is passed explicitly into every operation; the core never reads caller
// identity from ambient state.
type CallerContext struct {
	Role        lifecycle.Role
	IdentityRef string // opaque digest of the caller identity, never plaintext
	Org         string
}
