package asset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentkeep/core/lifecycle"
)

func TestAppendEvent_DoesNotMutateInput(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	a := Asset{
		ID:        "A1",
		Status:    lifecycle.StatusDonated,
		Events:    []Event{{EventType: lifecycle.EventDonationRegistered, Timestamp: t0}},
		UpdatedAt: t0,
	}

	t1 := t0.Add(time.Hour)
	next := AppendEvent(a, Event{EventType: lifecycle.EventIntake, Timestamp: t1})

	require.Len(t, a.Events, 1, "input asset must not be mutated")
	require.Equal(t, t0, a.UpdatedAt)
	require.Len(t, next.Events, 2)
	require.Equal(t, lifecycle.EventIntake, next.Events[1].EventType)
	require.Equal(t, t1, next.UpdatedAt)
}

func TestAppendEvent_SharedBackingArray(t *testing.T) {
	a := Asset{Events: make([]Event, 1, 4)}
	b := AppendEvent(a, Event{EventType: lifecycle.EventIntake})
	c := AppendEvent(a, Event{EventType: lifecycle.EventRepair})
	// Appending twice from the same base must not overwrite either log.
	require.Equal(t, lifecycle.EventIntake, b.Events[1].EventType)
	require.Equal(t, lifecycle.EventRepair, c.Events[1].EventType)
}

func TestWireFormat(t *testing.T) {
	a := Asset{
		ID:         "A1",
		SerialHash: "abc",
		Make:       "Acme",
		Model:      "X1",
		Status:     lifecycle.StatusDonated,
		OwnerType:  lifecycle.OwnerHub,
		Location:   "DONATION_HUB",
		Events:     []Event{{EventType: lifecycle.EventDonationRegistered, ActorRole: lifecycle.RoleDonor}},
	}
	data, err := a.Serialize()
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	for _, key := range []string{"id", "serialHash", "make", "model", "status", "ownerType", "location", "events"} {
		require.Contains(t, flat, key)
	}
	events, ok := flat["events"].([]interface{})
	require.True(t, ok, "events must serialize as an array")
	require.Len(t, events, 1)

	back, err := Deserialize(data)
	require.NoError(t, err)
	require.Equal(t, a.ID, back.ID)
	require.Equal(t, a.Status, back.Status)
}

func TestDeserialize_Corrupt(t *testing.T) {
	_, err := Deserialize([]byte("{not json"))
	require.Error(t, err)
}
