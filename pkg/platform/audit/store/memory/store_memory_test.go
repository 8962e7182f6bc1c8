package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlink/pkg/domain"
	audit "trustlink/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	alice := domain.Principal{1}
	bob := domain.Principal{2}

	require.NoError(t, store.Append(ctx, audit.Event{Principal: alice, Action: string(audit.EventRegistryUserAdded)}))
	require.NoError(t, store.Append(ctx, audit.Event{Principal: alice, Action: string(audit.EventVerificationStored)}))
	require.NoError(t, store.Append(ctx, audit.Event{Principal: bob, Action: string(audit.EventDocumentStored)}))

	events, err := store.ListByPrincipal(ctx, alice)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventRegistryUserAdded), events[0].Action)

	recent, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, bob, recent[1].Principal)

	store.Clear()
	events, err = store.ListByPrincipal(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, events)
}
