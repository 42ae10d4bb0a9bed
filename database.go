package shardgraph

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dreamware/shardgraph/internal/monitor"
	"github.com/dreamware/shardgraph/internal/router"
	"github.com/dreamware/shardgraph/internal/shard"
)

// healthCheckInterval is how often the background Monitor round-trips a
// no-op job through each shard's mailbox.
const healthCheckInterval = 5 * time.Second

// Database is a shard-per-core graph: numShards goroutines, each owning
// its own slice of node/relationship storage, fanned out across by a
// Router and watched by a Monitor.
type Database struct {
	router  *router.Router
	monitor *monitor.Monitor

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Open starts numShards shard goroutines and returns a Database ready for
// use. numShards <= 0 defaults to runtime.NumCPU(). Callers must call
// Close when done to stop the shard and monitor goroutines.
func Open(numShards int) *Database {
	if numShards <= 0 {
		numShards = runtime.NumCPU()
	}

	shards := make([]*shard.Shard, numShards)
	for i := range shards {
		shards[i] = shard.New(i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	db := &Database{cancel: cancel}

	db.wg.Add(len(shards))
	for _, s := range shards {
		s := s
		go func() {
			defer db.wg.Done()
			s.Run(ctx)
		}()
	}

	db.router = router.New(shards)
	db.monitor = monitor.New(shards, healthCheckInterval)
	db.wg.Add(1)
	go func() {
		defer db.wg.Done()
		db.monitor.Run(ctx)
	}()

	return db
}

// Close cancels every shard's and the monitor's Run loop and waits for
// them to exit. A Database must not be used after Close returns.
func (db *Database) Close() {
	db.cancel()
	db.wg.Wait()
}

// NumShards returns the number of shards this Database was opened with.
func (db *Database) NumShards() int {
	return db.router.NumShards()
}

// ShardHealth returns a snapshot of every shard's current liveness
// record, keyed by shard id, as tracked by the background Monitor.
func (db *Database) ShardHealth() map[int]*ShardHealth {
	return db.monitor.AllHealth()
}
