package geo_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/presencehq/presence/core/geo"
	testutil "github.com/presencehq/presence/tests"
)

type fakeLocator struct {
	coord geo.Coordinate
	err   error

	calls   int32
	started chan struct{} // closed when the first lookup begins
	release chan struct{} // lookups block until closed, when set
	once    sync.Once
}

func (l *fakeLocator) Locate(ctx context.Context) (geo.Coordinate, error) {
	atomic.AddInt32(&l.calls, 1)
	if l.started != nil {
		l.once.Do(func() { close(l.started) })
	}
	if l.release != nil {
		<-l.release
	}
	if l.err != nil {
		return geo.Coordinate{}, l.err
	}
	return l.coord, nil
}

func (l *fakeLocator) callCount() int32 { return atomic.LoadInt32(&l.calls) }

func TestAcquirer_cachesCoordinate(t *testing.T) {
	locator := &fakeLocator{coord: geo.Coordinate{Latitude: -23.55, Longitude: -46.63}}
	a := geo.NewAcquirer(locator, testutil.NewLogger())

	ctx := context.Background()
	first, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	second, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	if first != second {
		t.Errorf("Acquire() = %+v then %+v, want identical", first, second)
	}
	if got := locator.callCount(); got != 1 {
		t.Errorf("locator called %d times, want 1", got)
	}
	if coord, ok := a.Coordinate(); !ok || coord != first {
		t.Errorf("Coordinate() = %+v, %v; want %+v, true", coord, ok, first)
	}
}

func TestAcquirer_failureStaysRetryable(t *testing.T) {
	locator := &fakeLocator{err: geo.ErrPermissionDenied}
	a := geo.NewAcquirer(locator, testutil.NewLogger())

	ctx := context.Background()
	if _, err := a.Acquire(ctx); !errors.Is(err, geo.ErrPermissionDenied) {
		t.Fatalf("Acquire() error = %v, want ErrPermissionDenied", err)
	}
	if _, ok := a.Coordinate(); ok {
		t.Error("Coordinate() cached after a failure")
	}
	if !errors.Is(a.Err(), geo.ErrPermissionDenied) {
		t.Errorf("Err() = %v, want ErrPermissionDenied", a.Err())
	}

	// the user grants permission; the manual retry succeeds
	locator.err = nil
	locator.coord = geo.Coordinate{Latitude: 1, Longitude: 2}
	coord, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() retry failed: %v", err)
	}
	if coord != locator.coord {
		t.Errorf("Acquire() = %+v, want %+v", coord, locator.coord)
	}
	if a.Err() != nil {
		t.Errorf("Err() = %v after success, want nil", a.Err())
	}
}

func TestAcquirer_concurrentRequestsCoalesce(t *testing.T) {
	locator := &fakeLocator{
		coord:   geo.Coordinate{Latitude: 10, Longitude: 20},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	a := geo.NewAcquirer(locator, testutil.NewLogger())

	var wg sync.WaitGroup
	results := make([]geo.Coordinate, 5)
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.Acquire(context.Background())
		}(i)
	}

	<-locator.started
	// let the remaining goroutines join the in-flight lookup
	time.Sleep(50 * time.Millisecond)
	close(locator.release)
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("Acquire() #%d failed: %v", i, errs[i])
		}
		if results[i] != locator.coord {
			t.Errorf("Acquire() #%d = %+v, want %+v", i, results[i], locator.coord)
		}
	}
	if got := locator.callCount(); got != 1 {
		t.Errorf("locator called %d times, want 1", got)
	}
}

func TestAcquirer_resetClearsCache(t *testing.T) {
	locator := &fakeLocator{coord: geo.Coordinate{Latitude: 1, Longitude: 1}}
	a := geo.NewAcquirer(locator, testutil.NewLogger())

	if _, err := a.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	a.Reset()
	if _, ok := a.Coordinate(); ok {
		t.Error("Coordinate() still cached after Reset")
	}
	if _, err := a.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() after reset failed: %v", err)
	}
	if got := locator.callCount(); got != 2 {
		t.Errorf("locator called %d times, want 2", got)
	}
}

func TestMessage(t *testing.T) {
	if got := geo.Message(geo.ErrPermissionDenied); got != "Allow location access to continue." {
		t.Errorf("Message(ErrPermissionDenied) = %q", got)
	}
	if got := geo.Message(geo.ErrUnavailable); got != "Location unavailable. Allow location access and try again." {
		t.Errorf("Message(ErrUnavailable) = %q", got)
	}
}
