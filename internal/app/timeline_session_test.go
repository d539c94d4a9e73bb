package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/example/dutybridge/internal/models"
	"github.com/example/dutybridge/internal/ports/primary"
)

// blockingAPI holds the person lookup open until released, signalling when
// the lookup has started.
type blockingAPI struct {
	mockFlashdutyAPI
	started chan struct{}
	release chan struct{}
}

func (m *blockingAPI) PersonNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	close(m.started)
	<-m.release
	return m.mockFlashdutyAPI.PersonNames(ctx, ids)
}

func TestTimelineSession_SupersededSelectionIsDiscarded(t *testing.T) {
	api := &blockingAPI{
		mockFlashdutyAPI: mockFlashdutyAPI{persons: map[int64]string{1: "Alice"}},
		started:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	session := NewTimelineSession(NewTimelineService(api, zap.NewNop()))

	type result struct {
		timeline *primary.Timeline
		err      error
	}
	firstDone := make(chan result, 1)

	go func() {
		tl, err := session.Select(context.Background(), []models.EscalationLayer{layerWithPersons(5, 1)})
		firstDone <- result{tl, err}
	}()

	// Wait until the first selection is resolving, then supersede it with
	// a selection that completes without any lookup.
	<-api.started
	timeline, err := session.Select(context.Background(), nil)
	if err != nil {
		t.Fatalf("second Select failed: %v", err)
	}
	if timeline.Message != primary.NoTargetsMessage {
		t.Errorf("second selection message = %q", timeline.Message)
	}

	close(api.release)
	first := <-firstDone
	if !errors.Is(first.err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the stale selection, got %v", first.err)
	}
	if first.timeline != nil {
		t.Error("stale selection must not produce a timeline")
	}
}

func TestTimelineSession_CurrentSelectionRenders(t *testing.T) {
	api := &mockFlashdutyAPI{persons: map[int64]string{1: "Alice"}}
	session := NewTimelineSession(NewTimelineService(api, zap.NewNop()))

	timeline, err := session.Select(context.Background(), []models.EscalationLayer{layerWithPersons(5, 1)})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(timeline.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(timeline.Entries))
	}
}

func TestTimelineSession_ResetInvalidatesInFlight(t *testing.T) {
	api := &blockingAPI{
		mockFlashdutyAPI: mockFlashdutyAPI{persons: map[int64]string{1: "Alice"}},
		started:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	session := NewTimelineSession(NewTimelineService(api, zap.NewNop()))

	done := make(chan error, 1)
	go func() {
		_, err := session.Select(context.Background(), []models.EscalationLayer{layerWithPersons(5, 1)})
		done <- err
	}()

	<-api.started
	session.Reset()
	close(api.release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded after Reset, got %v", err)
	}
}
