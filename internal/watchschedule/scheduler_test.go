package watchschedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/basket/configwatch/internal/watchschedule"
)

// waitFor polls check at short intervals until it returns true or the deadline
// elapses. This avoids fixed time.Sleep calls that cause flaky tests.
func waitFor(t *testing.T, deadline time.Duration, check func() bool) {
	t.Helper()
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestScheduler_FiresRepeatedly(t *testing.T) {
	var count int32

	s, err := watchschedule.New("1s", nil, func(ctx context.Context) {
		atomic.AddInt32(&count, 1)
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool {
		return atomic.LoadInt32(&count) >= 2
	})
}

func TestScheduler_StopWaitsForInFlightTick(t *testing.T) {
	started := make(chan struct{}, 1)
	finished := int32(0)

	s, err := watchschedule.New("1s", nil, func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(50 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()

	<-started
	s.Stop()

	if atomic.LoadInt32(&finished) != 1 {
		t.Fatal("expected Stop to wait for the in-flight tick to finish")
	}
}

func TestNew_InvalidInterval(t *testing.T) {
	_, err := watchschedule.New("not-a-duration", nil, func(ctx context.Context) {})
	if err == nil {
		t.Fatal("expected an error for an invalid @every duration")
	}
}
