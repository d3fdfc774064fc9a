package geoloc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

// stepClock is advanced by hand between calls.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

type countingSource struct {
	coords domain.Coordinates
	err    error
	calls  int
}

func (s *countingSource) Position(context.Context) (domain.Coordinates, error) {
	s.calls++
	if s.err != nil {
		return domain.Coordinates{}, s.err
	}
	return s.coords, nil
}

func TestProvider_CurrentPosition(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

	t.Run("reuses a fix inside the cache window", func(t *testing.T) {
		clk := &stepClock{now: start}
		src := &countingSource{coords: domain.Coordinates{Lat: 38.7, Lng: -9.1}}
		p := NewProvider(src, clk)

		for i := 0; i < 3; i++ {
			c, err := p.CurrentPosition(ctx)
			if err != nil {
				t.Fatalf("CurrentPosition: %v", err)
			}
			if c.Lat != 38.7 {
				t.Fatalf("unexpected coordinates: %+v", c)
			}
			clk.now = clk.now.Add(time.Minute)
		}
		if src.calls != 1 {
			t.Fatalf("expected 1 source query, got %d", src.calls)
		}
	})

	t.Run("re-queries once the fix is stale", func(t *testing.T) {
		clk := &stepClock{now: start}
		src := &countingSource{coords: domain.Coordinates{Lat: 38.7, Lng: -9.1}}
		p := NewProvider(src, clk)

		if _, err := p.CurrentPosition(ctx); err != nil {
			t.Fatalf("CurrentPosition: %v", err)
		}
		clk.now = clk.now.Add(5 * time.Minute)
		if _, err := p.CurrentPosition(ctx); err != nil {
			t.Fatalf("CurrentPosition: %v", err)
		}
		if src.calls != 2 {
			t.Fatalf("expected 2 source queries, got %d", src.calls)
		}
	})

	t.Run("denied source surfaces and caches nothing", func(t *testing.T) {
		clk := &stepClock{now: start}
		p := NewProvider(DeniedSource{}, clk)

		if _, err := p.CurrentPosition(ctx); !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
		if _, err := p.CurrentPosition(ctx); !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied again, got %v", err)
		}
	})

	t.Run("static source reports its fixed position", func(t *testing.T) {
		clk := &stepClock{now: start}
		p := NewProvider(StaticSource{Coords: DefaultView()}, clk)

		c, err := p.CurrentPosition(ctx)
		if err != nil {
			t.Fatalf("CurrentPosition: %v", err)
		}
		if c != DefaultView() {
			t.Fatalf("unexpected coordinates: %+v", c)
		}
	})
}
