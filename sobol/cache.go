// SPDX-License-Identifier: MIT

package sobol

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// intervalEntry is one cached computation: the config used and both intervals.
type intervalEntry struct {
	cfg   IntervalConfig
	first Interval
	total Interval
}

// intervalCache memoizes the interval pair for the most recent configuration.
//
// Invariants:
//   - entry is replaced as a whole under mu; readers never observe a first
//     interval from one config paired with a total interval from another.
//   - concurrent misses for the same config share one computation (singleflight).
//   - a request for a different config discards the entry before recomputing.
type intervalCache struct {
	mu    sync.Mutex
	entry *intervalEntry
	group singleflight.Group
}

// intervalComputeFunc produces a fresh interval pair for cfg.
type intervalComputeFunc func(ctx context.Context, cfg IntervalConfig) (Interval, Interval, error)

// lookup returns the cached pair for cfg. invalidated reports that an entry
// for another config was dropped.
func (c *intervalCache) lookup(cfg IntervalConfig) (e *intervalEntry, invalidated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return nil, false
	}
	if c.entry.cfg == cfg {
		return c.entry, false
	}
	c.entry = nil

	return nil, true
}

// get returns the interval pair for cfg, computing it at most once per
// concurrent wave of callers. Returned intervals are private copies.
//
// The shared computation runs under the context of the caller that started
// it. Every caller waits on its own ctx; a follower whose ctx is still live
// and that receives the leader's cancellation starts a new wave. led is
// written before the result is sent on ch, so reading it after the receive is
// race free. Singleflight removes a finished call before delivering its
// result, so the retry needs no Forget.
func (c *intervalCache) get(ctx context.Context, cfg IntervalConfig, compute intervalComputeFunc) (first, total Interval, hit, invalidated bool, err error) {
	key := cfg.key()
	for {
		cached, dropped := c.lookup(cfg)
		invalidated = invalidated || dropped
		if cached != nil {
			return cached.first.clone(), cached.total.clone(), true, invalidated, nil
		}

		led := false
		ch := c.group.DoChan(key, func() (any, error) {
			led = true
			// A concurrent wave may have published while we waited for the group.
			if e, _ := c.lookup(cfg); e != nil {
				return e, nil
			}
			fo, to, err := compute(ctx, cfg)
			if err != nil {
				return nil, err
			}
			e := &intervalEntry{cfg: cfg, first: fo, total: to}

			c.mu.Lock()
			c.entry = e
			c.mu.Unlock()

			return e, nil
		})

		select {
		case <-ctx.Done():
			return Interval{}, Interval{}, false, invalidated, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				if !led && isContextError(res.Err) && ctx.Err() == nil {
					continue
				}
				return Interval{}, Interval{}, false, invalidated, res.Err
			}
			e := res.Val.(*intervalEntry)
			return e.first.clone(), e.total.clone(), false, invalidated, nil
		}
	}
}

// isContextError reports a cancellation or deadline anywhere in err's chain.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// reset drops the cached entry.
func (c *intervalCache) reset() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
