package ledger

import (
	"errors"
	"fmt"
	"sort"

	"studentkeep/core/auth"
	"studentkeep/core/lifecycle"
)

// ErrUnknownOperation is returned by Dispatch for a name the registry does
// not carry.
var ErrUnknownOperation = errors.New("unknown operation")

// Handler executes one named operation from string arguments, mirroring the
// flat argument lists the wire protocol uses.
type Handler func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error)

// Registry maps operation names to handlers. Built once at startup and
// validated for completeness against the lifecycle operation lists, so a
// missing wiring is a boot failure rather than a runtime 404.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() (*Registry, error) {
	r := &Registry{handlers: map[string]Handler{
		lifecycle.OpInitLedger: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			created, err := l.InitLedger(caller)
			if err != nil {
				return nil, err
			}
			return map[string]int{"created": created}, nil
		},
		lifecycle.OpRegisterDonation: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.RegisterDonation(caller, args["assetId"], args["serial"], args["make"], args["model"], args["donorId"], args["metadataRef"])
		},
		lifecycle.OpIntake: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.Intake(caller, args["assetId"], args["evidenceRef"], args["location"])
		},
		lifecycle.OpRecordIntervention: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.RecordIntervention(caller, args["assetId"], lifecycle.EventType(args["eventType"]), args["technicianId"], args["reportRef"], args["location"])
		},
		lifecycle.OpTransferToInstitution: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.TransferToInstitution(caller, args["assetId"], args["institutionId"], args["proofRef"])
		},
		lifecycle.OpAssignToBeneficiary: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.AssignToBeneficiary(caller, args["assetId"], args["beneficiaryId"], args["proofRef"])
		},
		lifecycle.OpReadCurrent: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.ReadCurrent(args["assetId"])
		},
		lifecycle.OpQueryByStatus: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			iter, err := l.QueryByStatus(lifecycle.Status(args["status"]))
			if err != nil {
				return nil, err
			}
			return iter.Drain()
		},
		lifecycle.OpQueryByKeyRange: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			iter, err := l.QueryByKeyRange(args["startKey"], args["endKey"])
			if err != nil {
				return nil, err
			}
			return iter.Drain()
		},
		lifecycle.OpGetHistory: func(l *Ledger, caller auth.CallerContext, args map[string]string) (interface{}, error) {
			return l.GetHistory(args["assetId"])
		},
	}}

	for _, op := range append(lifecycle.MutatingOperations(), lifecycle.QueryOperations()...) {
		if _, ok := r.handlers[op]; !ok {
			return nil, fmt.Errorf("operation registry incomplete: missing %s", op)
		}
	}
	return r, nil
}

func (r *Registry) Has(op string) bool {
	_, ok := r.handlers[op]
	return ok
}

// Operations lists the registered names, sorted.
func (r *Registry) Operations() []string {
	out := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the named operation.
func (r *Registry) Dispatch(l *Ledger, caller auth.CallerContext, op string, args map[string]string) (interface{}, error) {
	handler, ok := r.handlers[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if args == nil {
		args = map[string]string{}
	}
	return handler(l, caller, args)
}
