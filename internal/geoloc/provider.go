// Package geoloc provides the session's current position with a short cache
// window, mirroring the client-side geolocation behavior: a fix younger than
// five minutes is reused instead of re-querying, acquisition is bounded, and
// a denied source surfaces as domain.ErrPermissionDenied.
package geoloc

import (
	"context"
	"sync"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/clock"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

const (
	cacheWindow    = 5 * time.Minute
	acquireTimeout = 5 * time.Second
)

// DefaultView is the fallback map center when no position can be acquired.
func DefaultView() domain.Coordinates {
	return domain.Coordinates{Lat: 51.505, Lng: -0.09}
}

// Source produces a raw position fix.
type Source interface {
	Position(ctx context.Context) (domain.Coordinates, error)
}

// StaticSource always reports a fixed position. Used when the deployment has
// no real positioning capability.
type StaticSource struct {
	Coords domain.Coordinates
}

func (s StaticSource) Position(context.Context) (domain.Coordinates, error) {
	return s.Coords, nil
}

// DeniedSource simulates a refused platform capability.
type DeniedSource struct{}

func (DeniedSource) Position(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrPermissionDenied
}

// Provider caches the last good fix for the cache window.
type Provider struct {
	source Source
	clock  clock.Clock

	mu     sync.Mutex
	last   domain.Coordinates
	lastAt time.Time
	cached bool
}

func NewProvider(source Source, clk clock.Clock) *Provider {
	return &Provider{
		source: source,
		clock:  clk,
	}
}

// CurrentPosition returns a cached fix when it is recent enough, otherwise
// queries the source with a bounded wait.
func (p *Provider) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	p.mu.Lock()
	if p.cached && p.clock.Now().Sub(p.lastAt) < cacheWindow {
		c := p.last
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	c, err := p.source.Position(acquireCtx)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if !c.Valid() {
		return domain.Coordinates{}, domain.ErrInvalidCoordinates
	}

	p.mu.Lock()
	p.last = c
	p.lastAt = p.clock.Now()
	p.cached = true
	p.mu.Unlock()

	return c, nil
}
