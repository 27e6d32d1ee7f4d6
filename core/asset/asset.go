package asset

import (
	"encoding/json"
	"fmt"
	"time"

	"studentkeep/core/lifecycle"
)

// Event is one immutable record in an asset's lifecycle log. Events are
// only ever appended; historical entries are never rewritten.
type Event struct {
	EventType   lifecycle.EventType `json:"eventType"`
	ActorRole   lifecycle.Role      `json:"actorRole"`
	ActorIDRef  string              `json:"actorIdRef,omitempty"`
	EvidenceRef string              `json:"evidenceRef,omitempty"`
	Location    string              `json:"location,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// Asset is the current-state projection of one tracked unit of donated
// equipment. Identifier fields hold digests, never plaintext; see
// core/hashing. The JSON shape below is the wire format served to audit
// tooling and must stay flat, with events in append order.
type Asset struct {
	ID          string              `json:"id"`
	SerialHash  string              `json:"serialHash"`
	DonorIDHash string              `json:"donorIdHash,omitempty"`
	OwnerIDHash string              `json:"ownerIdHash,omitempty"`
	Make        string              `json:"make"`
	Model       string              `json:"model"`
	MetadataRef string              `json:"metadataRef,omitempty"`
	Status      lifecycle.Status    `json:"status"`
	OwnerType   lifecycle.OwnerType `json:"ownerType"`
	Location    string              `json:"location"`
	Events      []Event             `json:"events"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// AppendEvent returns a copy of a with e appended to its event log and
// UpdatedAt advanced to the event's timestamp. The input asset is left
// untouched, callers always work on the returned projection.
func AppendEvent(a Asset, e Event) Asset {
	events := make([]Event, len(a.Events), len(a.Events)+1)
	copy(events, a.Events)
	a.Events = append(events, e)
	a.UpdatedAt = e.Timestamp
	return a
}

// Serialize encodes the projection for storage.
func (a Asset) Serialize() ([]byte, error) {
	return json.Marshal(a)
}

// Deserialize decodes a stored projection.
func Deserialize(data []byte) (Asset, error) {
	var a Asset
	if err := json.Unmarshal(data, &a); err != nil {
		return Asset{}, fmt.Errorf("corrupt asset record: %w", err)
	}
	return a, nil
}
