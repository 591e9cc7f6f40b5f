package main

import (
	"context"

	"github.com/dnsscience/dnswalker/internal/eventbus"
)

// statsCollector subscribes to the resolver's event bus and tallies query,
// referral and cache-update counts for the session-exit summary.
type statsCollector struct {
	cancel context.CancelFunc
	done   chan struct{}

	queries, referrals, cacheUpdates int
}

func newStatsCollector(bus *eventbus.Bus) *statsCollector {
	ctx, cancel := context.WithCancel(context.Background())
	s := &statsCollector{cancel: cancel, done: make(chan struct{})}

	queries := bus.Subscribe(ctx, eventbus.TopicQuery)
	referrals := bus.Subscribe(ctx, eventbus.TopicReferral)
	cacheUpdates := bus.Subscribe(ctx, eventbus.TopicCache)

	go func() {
		defer close(s.done)
		for {
			select {
			case _, ok := <-queries.Ch:
				if ok {
					s.queries++
				}
			case _, ok := <-referrals.Ch:
				if ok {
					s.referrals++
				}
			case _, ok := <-cacheUpdates.Ch:
				if ok {
					s.cacheUpdates++
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return s
}

// Stop unsubscribes from the bus and waits for the tallying goroutine to
// exit before returning, so the final counts are safe to read. Events still
// buffered when Stop is called are not counted.
func (s *statsCollector) Stop() {
	s.cancel()
	<-s.done
}
