package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"people-api/internal/domains/person"
	"people-api/pkg/cache"
	"people-api/pkg/logger"
	"people-api/pkg/queue"
)

// personService implement person.Service interface
// The service owns the latency-critical admission path: everything between
// receiving a validated payload and acknowledging it happens here, in memory
// plus one cache round trip. Durability is the flusher's job.
type personService struct {
	repo             person.Repository
	cache            cache.Cache
	queue            *queue.Queue[person.CreationEvent]
	countSettleDelay time.Duration
}

// NewPersonService tạo service instance
// countSettleDelay: chờ trước khi đếm, cho phép in-flight flush cycles land.
func NewPersonService(
	repo person.Repository,
	cache cache.Cache,
	queue *queue.Queue[person.CreationEvent],
	countSettleDelay time.Duration,
) person.Service {
	return &personService{
		repo:             repo,
		cache:            cache,
		queue:            queue,
		countSettleDelay: countSettleDelay,
	}
}

// Create runs the admission state machine:
// Received -> Validated -> UniquenessChecked -> Enqueued -> Acknowledged.
//
// The uniqueness pre-check is optimistic. Two concurrent requests with the
// same nickname can both pass it before either sets the marker; within-batch
// dedup and the store constraint pick exactly one durable winner later. That
// window is part of the design, not a bug to lock away.
func (s *personService) Create(ctx context.Context, req person.CreatePersonRequest) (string, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return "", err
	}

	// 2. UNIQUENESS PRE-CHECK (best-effort, non-authoritative)
	markerKey := person.NicknameMarkerPrefix + req.Nickname
	_, found, err := s.cache.Get(ctx, markerKey)
	if err != nil {
		// Cache tier down: admit optimistically, the store constraint
		// still arbitrates at flush time.
		logger.Warn("nickname pre-check skipped, cache unavailable", err)
	}
	if found {
		return "", person.ErrNicknameTaken
	}

	// 3. ISSUE ID, SERIALIZE
	id := uuid.NewString()
	body, err := json.Marshal(person.NewPerson(id, req))
	if err != nil {
		return "", fmt.Errorf("serialize person: %w", err)
	}

	// 4. POPULATE CACHE SYNCHRONOUSLY
	// Both entries in one round trip: the record (read-after-write via the
	// cache from the moment of acknowledgment) and the nickname marker.
	// Failure here is observable to nothing but logs.
	if err := s.cache.MSet(ctx, id, string(body), markerKey, person.NicknameMarkerValue); err != nil {
		logger.Warn("cache populate failed on create", err)
	}

	// 5. ENQUEUE AND ACKNOWLEDGE
	s.queue.Push(person.CreationEvent{
		ID:       id,
		Payload:  req,
		StackCol: person.EncodeStack(req.Stack),
	})

	return id, nil
}

// GetByID là cache-aside read path: cache verbatim, store fallback,
// best-effort repopulation.
func (s *personService) GetByID(ctx context.Context, id string) ([]byte, error) {
	cached, found, err := s.cache.Get(ctx, id)
	if err != nil {
		// Miss and unavailability degrade the same way: hit the store.
		logger.Warn("cache lookup failed, falling back to store", err)
	}
	if found {
		return []byte(cached), nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("serialize person %s: %w", id, err)
	}

	// Repopulate best-effort; a failed write must not fail the read.
	if err := s.cache.Set(ctx, id, string(body)); err != nil {
		logger.Warn("cache repopulate failed", err)
	}

	return body, nil
}

// Search always targets the durable store; the cache tier is only used by
// creation and point lookups.
func (s *personService) Search(ctx context.Context, term string) ([]person.Person, error) {
	if term == "" {
		return nil, person.ErrMissingSearchTerm
	}
	return s.repo.Search(ctx, term, person.SearchLimit)
}

// Count reflects committed rows only, never queued-but-unflushed ones.
func (s *personService) Count(ctx context.Context) (int64, error) {
	if s.countSettleDelay > 0 {
		select {
		case <-time.After(s.countSettleDelay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return s.repo.CountExcludingPrefix(ctx, person.WarmupNicknamePrefix)
}
