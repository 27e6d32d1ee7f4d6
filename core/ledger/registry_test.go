package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studentkeep/core/asset"
	"studentkeep/core/lifecycle"
)

func TestRegistry_Complete(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	for _, op := range append(lifecycle.MutatingOperations(), lifecycle.QueryOperations()...) {
		require.True(t, r.Has(op), "missing handler for %s", op)
	}
	require.Len(t, r.Operations(), len(lifecycle.MutatingOperations())+len(lifecycle.QueryOperations()))
}

func TestRegistry_Dispatch(t *testing.T) {
	f := newFixture(t)
	r, err := NewRegistry()
	require.NoError(t, err)

	result, err := r.Dispatch(f.ledger, donor, lifecycle.OpRegisterDonation, map[string]string{
		"assetId": "A1", "serial": "SN-1", "make": "Acme", "model": "X1", "donorId": "donor7",
	})
	require.NoError(t, err)
	a, ok := result.(asset.Asset)
	require.True(t, ok)
	require.Equal(t, lifecycle.StatusDonated, a.Status)

	result, err = r.Dispatch(f.ledger, tech, lifecycle.OpReadCurrent, map[string]string{"assetId": "A1"})
	require.NoError(t, err)
	require.Equal(t, "A1", result.(asset.Asset).ID)

	result, err = r.Dispatch(f.ledger, tech, lifecycle.OpQueryByStatus, map[string]string{"status": "DONATED"})
	require.NoError(t, err)
	require.Len(t, result.([]KeyedAsset), 1)
}

func TestRegistry_DispatchErrors(t *testing.T) {
	f := newFixture(t)
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Dispatch(f.ledger, donor, "MintGold", nil)
	require.ErrorIs(t, err, ErrUnknownOperation)

	// Ledger error kinds pass through dispatch untouched.
	_, err = r.Dispatch(f.ledger, tech, lifecycle.OpRegisterDonation, map[string]string{"assetId": "A1"})
	require.True(t, IsKind(err, KindUnauthorized), "got %v", err)
}
