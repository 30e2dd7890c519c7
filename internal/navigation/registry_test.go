package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ippo/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 5, 18, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type screens struct {
	mu   sync.Mutex
	seen []platform.Content
}

func (s *screens) deliver(_ context.Context, screen platform.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, screen)
	return nil
}

func (s *screens) last() platform.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[len(s.seen)-1]
}

func (s *screens) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func newTestRegistry(t *testing.T) (*Registry, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return NewRegistry(testCatalog(t), WithClock(clock.Now)), clock
}

func TestRegistry_NavigateToCommandDetail(t *testing.T) {
	r, _ := newTestRegistry(t)
	out := &screens{}
	ctx := context.Background()
	r.Open("msg-1", owner)

	res := r.Dispatch(ctx, "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, out.deliver)
	require.Equal(t, OutcomeTransitioned, res.Outcome)
	res = r.Dispatch(ctx, "msg-1", owner.ID, Input{Kind: EventPickCategory, Value: "moderation"}, out.deliver)
	require.Equal(t, OutcomeTransitioned, res.Outcome)
	res = r.Dispatch(ctx, "msg-1", owner.ID, Input{Kind: EventPickCommand, Value: "ban"}, out.deliver)
	require.Equal(t, OutcomeTransitioned, res.Outcome)

	assert.Equal(t, Node{Kind: NodeCommandDetail, Category: "moderation", Command: "ban"}, res.Node)
	assert.Equal(t, "**Command:** ban\n**Description:** Ban a user from the server", out.last().Description)
	assert.Equal(t, 3, out.count())
}

func TestRegistry_BackOnMainIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	out := &screens{}
	r.Open("msg-1", owner)

	first := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventBack}, out.deliver)
	second := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventBack}, out.deliver)

	assert.Equal(t, OutcomeTransitioned, first.Outcome)
	assert.Equal(t, Main, first.Node)
	assert.Equal(t, Main, second.Node)
	require.Equal(t, 2, out.count())
	assert.Equal(t, out.seen[0], out.seen[1])
}

func TestRegistry_NonOwnerNeverMoves(t *testing.T) {
	r, _ := newTestRegistry(t)
	out := &screens{}
	s := r.Open("msg-1", owner)

	for _, in := range []Input{{Kind: EventOpenCatalog}, {Kind: EventClose}, {Kind: EventBack}} {
		res := r.Dispatch(context.Background(), "msg-1", "999", in, out.deliver)
		assert.Equal(t, OutcomeUnauthorized, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrNotOwner)
	}
	snap := s.Snapshot()
	assert.Equal(t, Main, snap.Node)
	assert.Equal(t, StateActive, snap.State)
	assert.Zero(t, out.count())
}

func TestRegistry_RejectedInputKeepsNode(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := r.Open("msg-1", owner)

	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventPickCommand, Value: "ban"}, nil)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrCategoryRequired)
	assert.Equal(t, "Please select a category first.", Notice(res.Err))
	assert.Equal(t, Main, s.Snapshot().Node)
}

func TestRegistry_ExpiredSessionIsDropped(t *testing.T) {
	r, clock := newTestRegistry(t)
	out := &screens{}
	r.Open("msg-1", owner)

	clock.Advance(DefaultTTL)
	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, out.deliver)

	assert.Equal(t, OutcomeExpired, res.Outcome)
	assert.Zero(t, out.count())
	assert.Zero(t, r.Len())
	_, ok := r.Get("msg-1")
	assert.False(t, ok)

	res = r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, out.deliver)
	assert.Equal(t, OutcomeAbsent, res.Outcome)
}

func TestRegistry_JustBeforeExpiryStillWorks(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Open("msg-1", owner)

	clock.Advance(DefaultTTL - time.Millisecond)
	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, nil)
	assert.Equal(t, OutcomeTransitioned, res.Outcome)
}

func TestRegistry_ReopenClosesPrevious(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.Open("msg-1", owner)
	second := r.Open("msg-1", owner)

	assert.Equal(t, StateClosed, first.Snapshot().State)
	assert.Equal(t, StateActive, second.Snapshot().State)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("msg-1")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistry_CloseTransition(t *testing.T) {
	r, _ := newTestRegistry(t)
	out := &screens{}
	r.Open("msg-1", owner)

	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventClose}, out.deliver)
	assert.Equal(t, OutcomeClosed, res.Outcome)
	assert.Equal(t, "Help menu closed", out.last().Footer)
	assert.Empty(t, out.last().Controls)
	assert.Zero(t, r.Len())

	res = r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventBack}, out.deliver)
	assert.Equal(t, OutcomeAbsent, res.Outcome)
}

func TestRegistry_DeliveryErrorIsReported(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Open("msg-1", owner)
	boom := errors.New("unknown interaction")

	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, func(context.Context, platform.Content) error {
		return boom
	})
	assert.Equal(t, OutcomeUndelivered, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
}

func TestRegistry_FailedDeliveryKeepsVisibleScreen(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := r.Open("msg-1", owner)
	ctx := context.Background()
	failing := func(context.Context, platform.Content) error { return platform.ErrDeliveryFailed }

	res := r.Dispatch(ctx, "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, failing)
	require.Equal(t, OutcomeUndelivered, res.Outcome)
	assert.Equal(t, Main, res.Node)
	assert.Equal(t, Main, s.Snapshot().Node)

	// The user still sees Main, so pressing Commands again must work.
	out := &screens{}
	res = r.Dispatch(ctx, "msg-1", owner.ID, Input{Kind: EventOpenCatalog}, out.deliver)
	require.Equal(t, OutcomeTransitioned, res.Outcome)
	assert.Equal(t, NodeCategoryList, s.Snapshot().Node.Kind)
	assert.Equal(t, 1, out.count())
}

func TestRegistry_FailedCloseKeepsSession(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := r.Open("msg-1", owner)
	failing := func(context.Context, platform.Content) error { return platform.ErrDeliveryFailed }

	res := r.Dispatch(context.Background(), "msg-1", owner.ID, Input{Kind: EventClose}, failing)
	assert.Equal(t, OutcomeUndelivered, res.Outcome)
	assert.Equal(t, StateActive, s.Snapshot().State)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Close(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Open("msg-1", owner)

	assert.True(t, r.Close("msg-1"))
	assert.False(t, r.Close("msg-1"))
	assert.Zero(t, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Open("old", owner)
	clock.Advance(DefaultTTL / 2)
	r.Open("new", owner)
	clock.Advance(DefaultTTL / 2)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("new")
	assert.True(t, ok)
}

func TestRegistry_TimerExpiresSession(t *testing.T) {
	r := NewRegistry(testCatalog(t), WithTTL(20*time.Millisecond))
	defer r.Shutdown()
	s := r.Open("msg-1", owner)

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateExpired, s.Snapshot().State)
}

func TestRegistry_CloseStopsTimer(t *testing.T) {
	r := NewRegistry(testCatalog(t), WithTTL(20*time.Millisecond))
	s := r.Open("msg-1", owner)
	require.True(t, r.Close("msg-1"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateClosed, s.Snapshot().State)
}

func TestRegistry_ConcurrentDispatchIsSerialized(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Open("msg-1", owner)
	r.Open("msg-2", owner)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, surface := range []string{"msg-1", "msg-2"} {
			wg.Add(1)
			go func(surface string) {
				defer wg.Done()
				r.Dispatch(context.Background(), surface, owner.ID, Input{Kind: EventBack}, nil)
			}(surface)
		}
	}
	wg.Wait()
	assert.Equal(t, 2, r.Len())
}

func TestRunSweeper_StopsOnCancel(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Open("msg-1", owner)
	clock.Advance(DefaultTTL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
