package ledger

import (
	"encoding/json"
	"errors"

	"studentkeep/core/asset"
	"studentkeep/core/audit"
	"studentkeep/core/auth"
	"studentkeep/core/clock"
	"studentkeep/core/hashing"
	"studentkeep/core/lifecycle"
	"studentkeep/core/notify"
	"studentkeep/core/storage"
)

const (
	// DefaultRangeScanLimit caps QueryByKeyRange results.
	DefaultRangeScanLimit = 1000

	// DefaultHubLocation is where newly registered donations sit.
	DefaultHubLocation = "DONATION_HUB"
)

// Ledger applies guarded lifecycle transitions against the durable store.
// Each call is one atomic unit of work on one asset key: read projection,
// validate, write projection + history entry in a single commit, emit one
// notification. Conflicting writes to the same key are serialized by the
// store, the ledger never locks.
type Ledger struct {
	store      storage.StateStore
	clock      clock.Clock
	emitter    notify.Emitter
	auditor    audit.AuditLogger
	rangeLimit int
}

// Config wires the ledger's collaborators. Zero fields get working defaults
// except Store, which is required.
type Config struct {
	Store          storage.StateStore
	Clock          clock.Clock
	Emitter        notify.Emitter
	AuditLogger    audit.AuditLogger
	RangeScanLimit int
}

func New(cfg Config) *Ledger {
	l := &Ledger{
		store:      cfg.Store,
		clock:      cfg.Clock,
		emitter:    cfg.Emitter,
		auditor:    cfg.AuditLogger,
		rangeLimit: cfg.RangeScanLimit,
	}
	if l.clock == nil {
		l.clock = clock.System{}
	}
	if l.emitter == nil {
		l.emitter = notify.LogEmitter{}
	}
	if l.auditor == nil {
		l.auditor = audit.NewStdoutAuditLogger()
	}
	if l.rangeLimit <= 0 {
		l.rangeLimit = DefaultRangeScanLimit
	}
	return l
}

// RegisterDonation creates the asset at DONATED with custody at the hub.
// The serial number and donor id are hashed before anything is persisted.
func (l *Ledger) RegisterDonation(caller auth.CallerContext, id, serial, makeName, model, donorID, metadataRef string) (asset.Asset, error) {
	const op = lifecycle.OpRegisterDonation
	if err := l.authorize(op, id, caller); err != nil {
		return asset.Asset{}, err
	}
	exists, err := l.store.Has(id)
	if err != nil {
		return asset.Asset{}, errStoreUnavailable(op, id, err)
	}
	if exists {
		return asset.Asset{}, errAlreadyExists(op, id)
	}

	now := l.clock.Now()
	a := asset.Asset{
		ID:          id,
		SerialHash:  hashing.Hash(serial),
		DonorIDHash: hashing.Hash(donorID),
		Make:        makeName,
		Model:       model,
		MetadataRef: metadataRef,
		Status:      lifecycle.StatusDonated,
		OwnerType:   lifecycle.OwnerHub,
		Location:    DefaultHubLocation,
		Events:      []asset.Event{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	a = asset.AppendEvent(a, asset.Event{
		EventType:   lifecycle.EventDonationRegistered,
		ActorRole:   caller.Role,
		ActorIDRef:  caller.IdentityRef,
		EvidenceRef: metadataRef,
		Location:    a.Location,
		Timestamp:   now,
	})

	if err := l.write(op, a); err != nil {
		return asset.Asset{}, err
	}
	l.emit("DonationRegistered", map[string]string{"assetId": a.ID, "serialHash": a.SerialHash})
	return a, nil
}

// Intake accepts a donated asset into the hub inventory.
func (l *Ledger) Intake(caller auth.CallerContext, id, evidenceRef, location string) (asset.Asset, error) {
	const op = lifecycle.OpIntake
	if err := l.authorize(op, id, caller); err != nil {
		return asset.Asset{}, err
	}
	a, err := l.readCurrent(op, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !lifecycle.CanIntake(a.Status) {
		return asset.Asset{}, errInvalidState(op, id, "intake requires status DONATED, have "+string(a.Status))
	}

	now := l.clock.Now()
	a.Status = lifecycle.StatusIntaked
	if location != "" {
		a.Location = location
	}
	a = asset.AppendEvent(a, asset.Event{
		EventType:   lifecycle.EventIntake,
		ActorRole:   caller.Role,
		ActorIDRef:  caller.IdentityRef,
		EvidenceRef: evidenceRef,
		Location:    a.Location,
		Timestamp:   now,
	})

	if err := l.write(op, a); err != nil {
		return asset.Asset{}, err
	}
	l.emit("IntakeRecorded", map[string]string{"assetId": a.ID})
	return a, nil
}

// RecordIntervention records a hub-phase intervention (DIAGNOSTIC, REPAIR,
// QA, FAILED_QA) and moves the asset to the corresponding status. The
// technician id is hashed into the event's actor reference.
func (l *Ledger) RecordIntervention(caller auth.CallerContext, id string, eventType lifecycle.EventType, technicianID, reportRef, location string) (asset.Asset, error) {
	const op = lifecycle.OpRecordIntervention
	if err := l.authorize(op, id, caller); err != nil {
		return asset.Asset{}, err
	}
	next, ok := lifecycle.InterventionOutcome(eventType)
	if !ok {
		return asset.Asset{}, errInvalidState(op, id, "unknown intervention type "+string(eventType))
	}
	a, err := l.readCurrent(op, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !lifecycle.CanIntervene(a.Status) {
		return asset.Asset{}, errInvalidState(op, id, "asset left the hub, current status "+string(a.Status))
	}

	now := l.clock.Now()
	a.Status = next
	if location != "" {
		a.Location = location
	}
	actorRef := caller.IdentityRef
	if technicianID != "" {
		actorRef = hashing.Hash(technicianID)
	}
	a = asset.AppendEvent(a, asset.Event{
		EventType:   eventType,
		ActorRole:   caller.Role,
		ActorIDRef:  actorRef,
		EvidenceRef: reportRef,
		Location:    a.Location,
		Timestamp:   now,
	})

	if err := l.write(op, a); err != nil {
		return asset.Asset{}, err
	}
	l.emit("InterventionRecorded", map[string]string{"assetId": a.ID, "eventType": string(eventType)})
	return a, nil
}

// TransferToInstitution hands custody to a receiving institution. The
// institution id is stored only as a digest, and the location tag carries
// its short form.
func (l *Ledger) TransferToInstitution(caller auth.CallerContext, id, institutionID, proofRef string) (asset.Asset, error) {
	const op = lifecycle.OpTransferToInstitution
	if err := l.authorize(op, id, caller); err != nil {
		return asset.Asset{}, err
	}
	// Unlike the donor id on registration, the receiving institution is not
	// optional: custody outside the hub always names an owner digest.
	if institutionID == "" {
		return asset.Asset{}, errInvalidState(op, id, "institution id is required")
	}
	a, err := l.readCurrent(op, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !lifecycle.CanTransfer(a.Status) {
		return asset.Asset{}, errInvalidState(op, id, "asset already assigned to a beneficiary")
	}

	now := l.clock.Now()
	a.Status = lifecycle.StatusTransferred
	a.OwnerType = lifecycle.OwnerInstitution
	a.OwnerIDHash = hashing.Hash(institutionID)
	a.Location = "INSTITUTION:" + hashing.ShortTag(institutionID)
	a = asset.AppendEvent(a, asset.Event{
		EventType:   lifecycle.EventTransfer,
		ActorRole:   caller.Role,
		ActorIDRef:  caller.IdentityRef,
		EvidenceRef: proofRef,
		Location:    a.Location,
		Timestamp:   now,
	})

	if err := l.write(op, a); err != nil {
		return asset.Asset{}, err
	}
	l.emit("TransferredToInstitution", map[string]string{"assetId": a.ID, "institutionHash": a.OwnerIDHash})
	return a, nil
}

// AssignToBeneficiary is the terminal custody transition. Only the digest of
// the beneficiary id ever reaches the store.
func (l *Ledger) AssignToBeneficiary(caller auth.CallerContext, id, beneficiaryID, proofRef string) (asset.Asset, error) {
	const op = lifecycle.OpAssignToBeneficiary
	if err := l.authorize(op, id, caller); err != nil {
		return asset.Asset{}, err
	}
	if beneficiaryID == "" {
		return asset.Asset{}, errInvalidState(op, id, "beneficiary id is required")
	}
	a, err := l.readCurrent(op, id)
	if err != nil {
		return asset.Asset{}, err
	}
	if !lifecycle.CanAssign(a.Status) {
		return asset.Asset{}, errInvalidState(op, id, "asset already assigned")
	}

	now := l.clock.Now()
	beneficiaryHash := hashing.Hash(beneficiaryID)
	a.Status = lifecycle.StatusAssigned
	a.OwnerType = lifecycle.OwnerBeneficiary
	a.OwnerIDHash = beneficiaryHash
	a.Location = "BENEFICIARY:" + hashing.ShortTag(beneficiaryID)
	a = asset.AppendEvent(a, asset.Event{
		EventType:   lifecycle.EventAssigned,
		ActorRole:   caller.Role,
		ActorIDRef:  caller.IdentityRef,
		EvidenceRef: proofRef,
		Location:    a.Location,
		Timestamp:   now,
	})

	if err := l.write(op, a); err != nil {
		return asset.Asset{}, err
	}
	l.emit("AssignedToBeneficiary", map[string]string{"assetId": a.ID, "beneficiaryHash": beneficiaryHash})
	return a, nil
}

// Exists reports whether an asset key is registered.
func (l *Ledger) Exists(id string) (bool, error) {
	ok, err := l.store.Has(id)
	if err != nil {
		return false, errStoreUnavailable("Exists", id, err)
	}
	return ok, nil
}

// InitLedger seeds a handful of sample assets for demos and smoke tests.
// Existing keys are left alone. ADMIN only.
func (l *Ledger) InitLedger(caller auth.CallerContext) (int, error) {
	const op = lifecycle.OpInitLedger
	if err := l.authorize(op, "", caller); err != nil {
		return 0, err
	}
	seeds := []struct{ id, serial, makeName, model string }{
		{"sample-0", "SERIAL-0000", "ExampleMake", "ExModel"},
	}
	created := 0
	for _, s := range seeds {
		exists, err := l.store.Has(s.id)
		if err != nil {
			return created, errStoreUnavailable(op, s.id, err)
		}
		if exists {
			continue
		}
		if _, err := l.RegisterDonation(auth.CallerContext{Role: lifecycle.RoleAdmin, IdentityRef: caller.IdentityRef, Org: caller.Org}, s.id, s.serial, s.makeName, s.model, "", ""); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (l *Ledger) authorize(op, key string, caller auth.CallerContext) error {
	if lifecycle.Authorized(op, caller.Role) {
		return nil
	}
	audit.LogRejection(l.auditor, op, key, string(caller.Role), "role not in allowed set")
	return errUnauthorized(op, key, string(caller.Role))
}

func (l *Ledger) readCurrent(op, id string) (asset.Asset, error) {
	data, err := l.store.Get(id)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return asset.Asset{}, errNotFound(op, id)
	}
	if err != nil {
		return asset.Asset{}, errStoreUnavailable(op, id, err)
	}
	a, err := asset.Deserialize(data)
	if err != nil {
		return asset.Asset{}, errStoreUnavailable(op, id, err)
	}
	return a, nil
}

func (l *Ledger) write(op string, a asset.Asset) error {
	data, err := a.Serialize()
	if err != nil {
		return errStoreUnavailable(op, a.ID, err)
	}
	if err := l.store.Put(a.ID, data); err != nil {
		return errStoreUnavailable(op, a.ID, err)
	}
	return nil
}

func (l *Ledger) emit(event string, payload map[string]string) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	l.emitter.Emit(event, data)
}
