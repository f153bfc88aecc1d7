package flusher

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"people-api/internal/domains/person"
	"people-api/pkg/queue"
)

// BatchStore is the slice of the repository the flusher needs: one
// transactional bulk insert that skips uniqueness conflicts.
type BatchStore interface {
	BulkInsert(ctx context.Context, events []person.CreationEvent) error
}

// Flusher converts queued creation events into durable rows: drain, dedup
// by nickname, one bulk insert per cycle. It is the only consumer of the
// ingestion queue and the only writer of the people table.
type Flusher struct {
	queue        *queue.Queue[person.CreationEvent]
	store        BatchStore
	interval     time.Duration
	flushTimeout time.Duration
}

// New tạo flusher instance
func New(
	q *queue.Queue[person.CreationEvent],
	store BatchStore,
	interval time.Duration,
	flushTimeout time.Duration,
) *Flusher {
	return &Flusher{
		queue:        q,
		store:        store,
		interval:     interval,
		flushTimeout: flushTimeout,
	}
}

// Run executes flush cycles on a fixed period until ctx is cancelled.
// Cycles are serialized: a cycle fully finishes (commit or abandon) before
// the next one starts. When a cycle completes and the queue is already
// non-empty again, the next cycle runs immediately instead of sleeping.
func (f *Flusher) Run(ctx context.Context) {
	log.Info().
		Dur("interval", f.interval).
		Msg("[FLUSHER] Started")

	for {
		select {
		case <-ctx.Done():
			// Final drain so a graceful shutdown does not widen the
			// accepted data-loss window unnecessarily.
			f.flushCycle(context.WithoutCancel(ctx))
			log.Info().Msg("[FLUSHER] Stopped")
			return
		case <-time.After(f.interval):
		}

		if f.queue.Len() == 0 {
			continue // idle cycle, no transaction opened
		}

		f.flushCycle(ctx)
		for ctx.Err() == nil && f.queue.Len() > 0 {
			f.flushCycle(ctx)
		}
	}
}

// FlushOnce runs a single drain-dedup-commit cycle synchronously.
func (f *Flusher) FlushOnce(ctx context.Context) {
	f.flushCycle(ctx)
}

// flushCycle runs exactly one drain-dedup-commit cycle.
// On store failure the whole batch is abandoned: the drained events are
// lost, never requeued and never partially committed. Their callers were
// acknowledged long ago and cannot be notified retroactively.
func (f *Flusher) flushCycle(ctx context.Context) {
	events := f.queue.DrainAll()
	if len(events) == 0 {
		return
	}

	batch := dedupeByNickname(events)

	flushCtx, cancel := context.WithTimeout(ctx, f.flushTimeout)
	defer cancel()

	if err := f.store.BulkInsert(flushCtx, batch); err != nil {
		log.Error().
			Err(err).
			Int("dropped", len(events)).
			Msg("[FLUSHER] Cycle abandoned, batch lost")
		return
	}

	log.Info().
		Int("drained", len(events)).
		Int("inserted", len(batch)).
		Msg("[FLUSHER] Cycle committed")
}

// dedupeByNickname keeps the first occurrence of each nickname in arrival
// order and silently drops the rest. First-writer-wins is scoped to one
// cycle only; collisions with already-durable nicknames are resolved by the
// store constraint during the insert.
func dedupeByNickname(events []person.CreationEvent) []person.CreationEvent {
	seen := make(map[string]struct{}, len(events))
	batch := events[:0:0]
	for _, e := range events {
		if _, dup := seen[e.Payload.Nickname]; dup {
			continue
		}
		seen[e.Payload.Nickname] = struct{}{}
		batch = append(batch, e)
	}
	return batch
}
