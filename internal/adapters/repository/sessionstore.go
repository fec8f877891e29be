package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"

	"github.com/Raj7122/dealsense/internal/domain/engagement"
	"github.com/Raj7122/dealsense/internal/domain/model"
	"github.com/Raj7122/dealsense/pkg/metrics"
)

// Default shard count for the session map.
const defaultShardCount = 8

// SessionStore is a sharded in-memory Store. Each shard guards its own map
// with an RWMutex, so sessions hashing to different shards never contend.
// Mutations to a single session serialize on its shard lock, which preserves
// the one-turn-at-a-time ownership model for the record.
type SessionStore struct {
	shards []*shard
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*model.BehaviorRecord
}

// NewSessionStore creates an empty session store.
func NewSessionStore(_ context.Context, opts ...StoreOption) *SessionStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &SessionStore{shards: make([]*shard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*model.BehaviorRecord)}
	}
	metrics.UpdateSessionShardCount(cfg.shardCount)
	return s
}

func (s *SessionStore) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Create registers a new session with a zeroed behavior record.
func (s *SessionStore) Create(_ context.Context) (string, error) {
	id := uuid.New().String()
	sh := s.shardFor(id)
	sh.mu.Lock()
	sh.sessions[id] = &model.BehaviorRecord{}
	sh.mu.Unlock()
	metrics.RecordSessionCreated()
	return id, nil
}

// Get returns a snapshot copy of the session's record.
func (s *SessionStore) Get(_ context.Context, sessionID string) (model.BehaviorRecord, error) {
	sh := s.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return model.BehaviorRecord{}, ErrSessionNotFound
	}
	return rec.Clone(), nil
}

// ApplyTurn folds one visitor utterance into the record.
func (s *SessionStore) ApplyTurn(_ context.Context, sessionID string, tags []string, questioned bool, interests []string) (model.BehaviorRecord, error) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return model.BehaviorRecord{}, ErrSessionNotFound
	}

	rec.ConversionSignals = append(rec.ConversionSignals, tags...)
	rec.MessagesSent++
	if questioned {
		rec.QuestionsAsked++
	}
	for _, in := range interests {
		if !containsString(rec.SpecificInterests, in) {
			rec.SpecificInterests = append(rec.SpecificInterests, in)
		}
	}
	rec.EngagementScore = engagement.Score(*rec)
	return rec.Clone(), nil
}

// RecordVideo increments the watched-video counter.
func (s *SessionStore) RecordVideo(_ context.Context, sessionID string) (model.BehaviorRecord, error) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return model.BehaviorRecord{}, ErrSessionNotFound
	}
	rec.VideosWatched++
	rec.EngagementScore = engagement.Score(*rec)
	return rec.Clone(), nil
}

// Tick updates the session duration, keeping it monotonically non-decreasing.
func (s *SessionStore) Tick(_ context.Context, sessionID string, durationSeconds int) (model.BehaviorRecord, error) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.sessions[sessionID]
	if !ok {
		return model.BehaviorRecord{}, ErrSessionNotFound
	}
	if durationSeconds > rec.SessionDurationSeconds {
		rec.SessionDurationSeconds = durationSeconds
	}
	rec.EngagementScore = engagement.Score(*rec)
	return rec.Clone(), nil
}

// End discards the session's record.
func (s *SessionStore) End(_ context.Context, sessionID string) error {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(sh.sessions, sessionID)
	metrics.RecordSessionEnded()
	return nil
}

// Count returns the number of live sessions across all shards.
func (s *SessionStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
