package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dreamware/shardgraph/internal/shard"
)

// ShardHealth tracks the liveness status of a single shard.
type ShardHealth struct {
	ShardID          int
	Status           string // "healthy", "unhealthy", or "unknown"
	LastCheck        time.Time
	LastHealthy      time.Time
	ConsecutiveFails int
}

// Monitor performs periodic liveness checks against a fixed set of shards,
// tracking consecutive round-trip timeouts per shard and invoking a
// callback the first time a shard crosses the unhealthy threshold.
type Monitor struct {
	shards      []*shard.Shard
	interval    time.Duration
	timeout     time.Duration
	maxFailures int
	checkFunc   func(ctx context.Context, s *shard.Shard) error
	onUnhealthy func(shardID int)

	mu     sync.RWMutex
	health map[int]*ShardHealth
}

// New returns a Monitor over shards, checking every interval with a
// per-check timeout of 2s and marking a shard unhealthy after 3
// consecutive failures — the same defaults the teacher corpus ships for
// its HTTP health checks.
func New(shards []*shard.Shard, interval time.Duration) *Monitor {
	return &Monitor{
		shards:      shards,
		interval:    interval,
		timeout:     2 * time.Second,
		maxFailures: 3,
		health:      make(map[int]*ShardHealth),
	}
}

// SetOnUnhealthy sets the callback invoked (in its own goroutine) the
// first time a shard transitions into the unhealthy state.
func (m *Monitor) SetOnUnhealthy(callback func(shardID int)) {
	m.onUnhealthy = callback
}

// SetCheckFunction overrides the default no-op round-trip check, mainly
// for tests that want to simulate a wedged shard without actually
// blocking one.
func (m *Monitor) SetCheckFunction(checkFunc func(ctx context.Context, s *shard.Shard) error) {
	m.checkFunc = checkFunc
}

// Run blocks, checking all shards immediately and then every interval,
// until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if m.checkFunc == nil {
		m.checkFunc = m.defaultCheck
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkAll(ctx)
	for {
		select {
		case <-ticker.C:
			m.checkAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) checkAll(ctx context.Context) {
	for _, s := range m.shards {
		m.checkShard(ctx, s)
	}
}

func (m *Monitor) checkShard(ctx context.Context, s *shard.Shard) {
	m.mu.Lock()
	health, exists := m.health[s.ID]
	if !exists {
		health = &ShardHealth{ShardID: s.ID, Status: "unknown", LastCheck: time.Now(), LastHealthy: time.Now()}
		m.health[s.ID] = health
	}
	m.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.checkFunc(checkCtx, s)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	health.LastCheck = time.Now()

	if err != nil {
		health.ConsecutiveFails++
		log.Printf("shard %d liveness check failed (attempt %d/%d): %v", s.ID, health.ConsecutiveFails, m.maxFailures, err)
		if health.ConsecutiveFails >= m.maxFailures {
			previous := health.Status
			health.Status = "unhealthy"
			if previous != "unhealthy" && m.onUnhealthy != nil {
				go m.onUnhealthy(s.ID)
			}
		}
		return
	}

	health.Status = "healthy"
	health.ConsecutiveFails = 0
	health.LastHealthy = time.Now()
}

// defaultCheck round-trips a no-op job through s's mailbox.
func (m *Monitor) defaultCheck(ctx context.Context, s *shard.Shard) error {
	_, err := shard.Call(ctx, s, func() struct{} { return struct{}{} })
	return err
}

// Health returns a copy of shardID's current liveness record, or nil if
// shardID has never been checked.
func (m *Monitor) Health(shardID int) *ShardHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.health[shardID]
	if !ok {
		return nil
	}
	cp := *h
	return &cp
}

// AllHealth returns a copy of every shard's current liveness record.
func (m *Monitor) AllHealth() map[int]*ShardHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int]*ShardHealth, len(m.health))
	for id, h := range m.health {
		cp := *h
		out[id] = &cp
	}
	return out
}

// IsHealthy reports whether shardID is currently known to be healthy.
func (m *Monitor) IsHealthy(shardID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.health[shardID]
	return ok && h.Status == "healthy"
}
