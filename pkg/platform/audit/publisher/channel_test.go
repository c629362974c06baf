package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteguard/pkg/platform/audit"
)

func TestChannelPublisherDelivers(t *testing.T) {
	p := NewChannel(2, nil)

	require.NoError(t, p.Emit(context.Background(), audit.Event{Action: audit.ActionReportStored}))

	select {
	case e := <-p.Inbox():
		assert.Equal(t, audit.ActionReportStored, e.Action)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	p := NewChannel(1, nil)
	ctx := context.Background()

	require.NoError(t, p.Emit(ctx, audit.Event{Action: audit.ActionSubmissionValidated}))
	// Buffer is full; the second emit drops instead of blocking.
	require.NoError(t, p.Emit(ctx, audit.Event{Action: audit.ActionReportStored}))

	assert.Len(t, p.Inbox(), 1)
}

func TestChannelPublisherCloseEndsInbox(t *testing.T) {
	p := NewChannel(1, nil)
	require.NoError(t, p.Close())

	_, ok := <-p.Inbox()
	assert.False(t, ok)
}
