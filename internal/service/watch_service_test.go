package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/engine"
	"github.com/alanyoungcy/perpcost/internal/notify"
)

type stubAdapter struct {
	venue domain.VenueID

	mu        sync.Mutex
	spreadBps float64
	err       error
}

func (s *stubAdapter) Venue() domain.VenueID { return s.venue }

func (s *stubAdapter) Fetch(context.Context, string) (domain.MarketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.MarketSnapshot{}, s.err
	}
	return domain.NewOracleSnapshot(s.venue, "", domain.OracleQuote{Price: 1.08, SpreadBps: s.spreadBps}, time.Now()), nil
}

func (s *stubAdapter) set(spreadBps float64, err error) {
	s.mu.Lock()
	s.spreadBps = spreadBps
	s.err = err
	s.mu.Unlock()
}

type recordingSender struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(_ context.Context, title, _ string) error {
	r.mu.Lock()
	r.titles = append(r.titles, title)
	r.mu.Unlock()
	return nil
}

func (r *recordingSender) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

type recordingPublisher struct {
	mu      sync.Mutex
	results []domain.ComparisonResult
}

func (r *recordingPublisher) Publish(result domain.ComparisonResult) {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func newWatchFixture(t *testing.T, ostium, avantis *stubAdapter) (*WatchService, *recordingSender, *recordingPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := engine.New([]domain.Adapter{ostium, avantis}, engine.Options{}, logger)

	sender := &recordingSender{}
	publisher := &recordingPublisher{}
	notifier := notify.NewNotifier([]notify.Sender{sender}, nil, logger)

	svc := NewWatchService(agg, notifier, publisher, WatchConfig{
		Interval:      time.Minute,
		Assets:        []string{"EURUSD"},
		OrderSizesUsd: []float64{10_000},
	}, logger)
	return svc, sender, publisher
}

func TestWatchService_FirstSweepDoesNotAlert(t *testing.T) {
	ostium := &stubAdapter{venue: domain.VenueOstium, spreadBps: 1}
	avantis := &stubAdapter{venue: domain.VenueAvantis, spreadBps: 5}
	svc, sender, publisher := newWatchFixture(t, ostium, avantis)

	svc.RunOnce(context.Background())

	assert.Empty(t, sender.sent())
	assert.Equal(t, 1, publisher.count())
}

func TestWatchService_AlertsOnBestVenueChange(t *testing.T) {
	// Fees are flat within the comparison, so the cheaper spread wins.
	ostium := &stubAdapter{venue: domain.VenueOstium, spreadBps: 1}
	avantis := &stubAdapter{venue: domain.VenueAvantis, spreadBps: 50}
	svc, sender, _ := newWatchFixture(t, ostium, avantis)

	ctx := context.Background()
	svc.RunOnce(ctx)
	require.Empty(t, sender.sent())

	// Flip the ordering: ostium spread blows out.
	ostium.set(100, nil)
	svc.RunOnce(ctx)

	sent := sender.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Best venue changed")

	// Stable ranking on the next sweep stays quiet.
	svc.RunOnce(ctx)
	assert.Len(t, sender.sent(), 1)
}

func TestWatchService_AlertsWhenAllVenuesFail(t *testing.T) {
	ostium := &stubAdapter{venue: domain.VenueOstium, err: context.DeadlineExceeded}
	avantis := &stubAdapter{venue: domain.VenueAvantis, err: context.DeadlineExceeded}
	svc, sender, publisher := newWatchFixture(t, ostium, avantis)

	svc.RunOnce(context.Background())

	sent := sender.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "All venues failed")
	// The empty result is still published for dashboard consumers.
	assert.Equal(t, 1, publisher.count())
}

func TestWatchService_RecoveryAfterOutageDoesNotAlert(t *testing.T) {
	ostium := &stubAdapter{venue: domain.VenueOstium, spreadBps: 1}
	avantis := &stubAdapter{venue: domain.VenueAvantis, spreadBps: 50}
	svc, sender, _ := newWatchFixture(t, ostium, avantis)

	ctx := context.Background()
	svc.RunOnce(ctx)

	// Total outage clears the tracked best.
	ostium.set(0, context.DeadlineExceeded)
	avantis.set(0, context.DeadlineExceeded)
	svc.RunOnce(ctx)
	require.Len(t, sender.sent(), 1) // the all-failed alert

	// Recovery with a different winner is treated as a fresh baseline, not a
	// change.
	ostium.set(100, nil)
	avantis.set(1, nil)
	svc.RunOnce(ctx)
	assert.Len(t, sender.sent(), 1)
}
