package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeedKeepsRecentEmissions(t *testing.T) {
	feed := NewFeed(3)
	for i := 0; i < 5; i++ {
		feed.Emit(fmt.Sprintf("Event%d", i), []byte(`{"assetId":"A1"}`))
	}
	recent := feed.Recent()
	require.Len(t, recent, 3)
	require.Equal(t, "Event2", recent[0].Event)
	require.Equal(t, "Event4", recent[2].Event)
}

func TestMultiFansOut(t *testing.T) {
	a := NewFeed(8)
	b := NewFeed(8)
	Multi{a, b}.Emit("DonationRegistered", []byte(`{}`))
	require.Len(t, a.Recent(), 1)
	require.Len(t, b.Recent(), 1)
}
