package service

import (
	"context"
	"fmt"

	"github.com/splitly/splitly/internal/storage"
)

// resolveParticipants validates and deduplicates the requested
// participant IDs, keeping first-seen order. The payer must not appear in
// the list, and every ID must resolve in the user directory even when the
// caller claims to know it already; an unvalidated ID forged by a client
// must never end up on a share.
//
// This is a pure validation pass plus one directory lookup per distinct
// ID. It runs before any expense lock is taken.
func resolveParticipants(ctx context.Context, dir storage.Directory, payerID string, participantIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(participantIDs))
	resolved := make([]string, 0, len(participantIDs))

	for _, id := range participantIDs {
		if id == payerID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePayer, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		exists, err := dir.UserExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participant %s: %w", id, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParticipant, id)
		}

		resolved = append(resolved, id)
	}

	return resolved, nil
}
