package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteguard/pkg/platform/audit"
	"quoteguard/pkg/platform/audit/store/memory"
)

func TestWorkerDrainsInboxIntoStore(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 4)

	inbox <- audit.Event{ReportID: uuid.New(), Action: audit.ActionSubmissionValidated}
	inbox <- audit.Event{ReportID: uuid.New(), Action: audit.ActionReportStored}
	close(inbox)

	err := NewWorker(store, inbox).Run(context.Background())
	require.NoError(t, err)

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewWorker(store, inbox).Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
