// Package repository defines the session store interface and errors.
package repository

import (
	"context"

	"github.com/Raj7122/dealsense/internal/domain/model"
)

// Store provides access to per-visitor behavior records. Every mutating
// operation recomputes the engagement score before returning, so a record
// read from the store always satisfies the score-is-cache invariant.
type Store interface {
	// Create registers a new session and returns its id.
	Create(ctx context.Context) (string, error)

	// Get returns a snapshot copy of the session's behavior record.
	// Returns ErrSessionNotFound if the session is unknown.
	Get(ctx context.Context, sessionID string) (model.BehaviorRecord, error)

	// ApplyTurn folds one visitor utterance into the record: appends the
	// extracted signal tags, bumps the message counter, bumps the question
	// counter when questioned is true, and merges any interest tags.
	// Returns the updated snapshot.
	ApplyTurn(ctx context.Context, sessionID string, tags []string, questioned bool, interests []string) (model.BehaviorRecord, error)

	// RecordVideo increments the watched-video counter.
	RecordVideo(ctx context.Context, sessionID string) (model.BehaviorRecord, error)

	// Tick updates the session duration. Durations are monotonic; a value
	// below the current one is ignored.
	Tick(ctx context.Context, sessionID string, durationSeconds int) (model.BehaviorRecord, error)

	// End discards the session's record.
	End(ctx context.Context, sessionID string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
