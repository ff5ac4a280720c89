package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/metrics"

	"go.uber.org/zap"
)

// RefreshState is the lifecycle state of the refresh controller.
type RefreshState string

const (
	StateIdle    RefreshState = "idle"
	StateLoading RefreshState = "loading"
	StateReady   RefreshState = "ready"
	StateErrored RefreshState = "errored"
)

// refreshCycle is one in-flight aggregation. Joiners wait on done; the
// owning goroutine fills result/err before closing it.
type refreshCycle struct {
	address  string
	networks []string
	cancel   context.CancelFunc
	done     chan struct{}
	result   *entity.WalletPortfolio
	err      error
}

// RefreshController owns the current portfolio snapshot for one wallet
// address. It is the only stateful component of the engine: snapshots
// are immutable and replaced wholesale under a mutex held only for the
// swap, never across network calls. Concurrent Refresh calls for the
// same address coalesce onto one upstream cycle; a call for a different
// address cancels the in-flight cycle and its late result is discarded.
type RefreshController struct {
	svc    port.PortfolioService
	logger *zap.Logger

	mu           sync.Mutex
	state        RefreshState
	current      *entity.WalletPortfolio
	previous     *entity.WalletPortfolio
	lastErr      error
	inflight     *refreshCycle
	lastAddress  string
	lastNetworks []string
	subscribers  []chan *entity.WalletPortfolio
	autoCancel   context.CancelFunc
	watchedAddr  string
}

// NewRefreshController creates a new controller in the Idle state.
func NewRefreshController(svc port.PortfolioService, logger *zap.Logger) *RefreshController {
	return &RefreshController{
		svc:    svc,
		logger: logger.Named("RefreshController"),
		state:  StateIdle,
	}
}

// Refresh triggers an aggregation cycle for the address and blocks
// until the cycle (owned or joined) completes. The ctx only governs the
// caller's wait; the cycle itself runs detached so that one joiner
// giving up does not abort the shared work.
func (c *RefreshController) Refresh(ctx context.Context, address string, networks []string) (*entity.WalletPortfolio, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		c.mu.Lock()
		// A malformed address is rejected without disturbing a cycle
		// already running for a valid one.
		if c.inflight == nil {
			c.state = StateErrored
			c.lastErr = err
		}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	if c.inflight != nil {
		if c.inflight.address == normalized {
			cycle := c.inflight
			c.mu.Unlock()
			metrics.RefreshCoalesced.Inc()
			c.logger.Debug("Joining in-flight refresh", zap.String("address", normalized))
			return c.await(ctx, cycle)
		}
		// Address changed: the old cycle is obsolete, cancel it and
		// discard whatever it produces.
		c.logger.Info("Cancelling in-flight refresh for superseded address",
			zap.String("oldAddress", c.inflight.address),
			zap.String("newAddress", normalized))
		c.inflight.cancel()
	}

	cycleCtx, cancel := context.WithCancel(context.Background())
	cycle := &refreshCycle{
		address:  normalized,
		networks: networks,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	c.inflight = cycle
	c.state = StateLoading
	c.lastAddress = normalized
	c.lastNetworks = networks

	// Moving to a new address stops any periodic refresh watching the
	// old one.
	if c.watchedAddr != "" && c.watchedAddr != normalized && c.autoCancel != nil {
		c.autoCancel()
		c.autoCancel = nil
		c.watchedAddr = ""
	}
	c.mu.Unlock()

	go c.run(cycleCtx, cycle)
	return c.await(ctx, cycle)
}

// run executes one aggregation cycle and applies its outcome, unless
// the cycle was superseded while in flight.
func (c *RefreshController) run(ctx context.Context, cycle *refreshCycle) {
	snapshot, err := c.svc.GetUserPortfolio(ctx, cycle.address, cycle.networks)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != cycle {
		// Superseded: do not apply the late result.
		cycle.err = entity.ErrCycleCancelled
		close(cycle.done)
		return
	}
	c.inflight = nil

	switch {
	case err == nil:
		c.previous = c.current
		c.current = snapshot
		c.state = StateReady
		c.lastErr = nil
		cycle.result = snapshot
		c.notifyLocked(snapshot)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		c.markStaleLocked()
		c.state = StateErrored
		c.lastErr = entity.ErrCycleCancelled
		cycle.err = entity.ErrCycleCancelled
	default:
		// Keep the last good snapshot, flagged as possibly outdated.
		c.markStaleLocked()
		c.state = StateErrored
		c.lastErr = err
		cycle.err = err
	}
	close(cycle.done)
}

// await blocks until the cycle finishes or the caller's ctx expires.
func (c *RefreshController) await(ctx context.Context, cycle *refreshCycle) (*entity.WalletPortfolio, error) {
	select {
	case <-cycle.done:
		return cycle.result, cycle.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// markStaleLocked flags the cached snapshot as stale. Snapshots are
// immutable, so a flagged copy replaces the current one.
func (c *RefreshController) markStaleLocked() {
	if c.current == nil || c.current.Stale {
		return
	}
	stale := *c.current
	stale.Stale = true
	c.current = &stale
}

// notifyLocked delivers the new snapshot to subscribers without
// blocking; a subscriber that has fallen behind misses the update.
func (c *RefreshController) notifyLocked(snapshot *entity.WalletPortfolio) {
	for _, ch := range c.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Subscribe returns a channel receiving each successfully applied
// snapshot. The channel is buffered; slow consumers drop updates rather
// than stalling the controller.
func (c *RefreshController) Subscribe() <-chan *entity.WalletPortfolio {
	ch := make(chan *entity.WalletPortfolio, 1)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// Current returns the cached snapshot (nil before the first successful
// cycle), the controller state and the last error.
func (c *RefreshController) Current() (*entity.WalletPortfolio, RefreshState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.state, c.lastErr
}

// Previous returns the snapshot that preceded the current one, for
// diffing against the latest cycle.
func (c *RefreshController) Previous() *entity.WalletPortfolio {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previous
}

// State returns the controller lifecycle state.
func (c *RefreshController) State() RefreshState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartAutoRefresh schedules periodic refreshes of the last-used
// address on the given interval. It is a no-op for a non-positive
// interval or when no address has been refreshed yet. Scheduling stops
// on Stop or when a refresh moves to a different address.
func (c *RefreshController) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	if c.lastAddress == "" {
		c.mu.Unlock()
		return
	}
	if c.autoCancel != nil {
		c.autoCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.autoCancel = cancel
	c.watchedAddr = c.lastAddress
	address, networks := c.lastAddress, c.lastNetworks
	c.mu.Unlock()

	c.logger.Info("Starting periodic refresh",
		zap.String("address", address), zap.Duration("interval", interval))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.Refresh(ctx, address, networks); err != nil && !errors.Is(err, entity.ErrCycleCancelled) {
					c.logger.Warn("Periodic refresh failed", zap.String("address", address), zap.Error(err))
				}
			}
		}
	}()
}

// EnsureAutoRefresh starts periodic refreshing of the last-used address
// unless a ticker is already watching it, so callers can invoke it
// after every applied snapshot without restarting the schedule.
func (c *RefreshController) EnsureAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	watching := c.autoCancel != nil && c.watchedAddr == c.lastAddress
	c.mu.Unlock()
	if watching {
		return
	}
	c.StartAutoRefresh(interval)
}

// Stop tears down periodic refreshing and cancels any in-flight cycle.
func (c *RefreshController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoCancel != nil {
		c.autoCancel()
		c.autoCancel = nil
		c.watchedAddr = ""
	}
	if c.inflight != nil {
		c.inflight.cancel()
	}
}
