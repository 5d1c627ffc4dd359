package room

import (
	"context"
	"time"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository"
)

// Advance performs the dequeue-and-play transition for a room. It returns
// nil when the room stayed as it was: either its deadline has not elapsed
// yet, or its queue is empty and the room went idle.
func (s *service) Advance(ctx context.Context, room string) (*repository.MediaItem, error) {
	item, err := s.roomRepo.Advance(ctx, &repository.AdvanceParams{
		Room:   room,
		Now:    time.Now().UnixMilli(),
		Buffer: s.bufferTime.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	s.logger.InfoContext(ctx, "playing", "room", room, "id", item.Id, "endTime", item.EndTime)

	s.publish(ctx, room, domain.Event{Type: domain.EventUpdateVotes, Payload: repository.VoteTally{}})
	s.publish(ctx, room, domain.Event{Type: domain.EventPlay, Payload: item})

	return item, nil
}

// Run drives the periodic sweep until the context is canceled. The sweep
// guarantees progress for every room even with no client activity.
func (s *service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep advances every room whose deadline elapsed. A failure on one room
// never aborts the rest of the tick.
func (s *service) sweep(ctx context.Context) {
	deadlines, err := s.roomRepo.GetDeadlines(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get deadlines", "error", err)
		return
	}

	now := time.Now().UnixMilli()
	for room, deadline := range deadlines {
		if deadline >= now {
			continue
		}

		if _, err := s.Advance(ctx, room); err != nil {
			s.logger.ErrorContext(ctx, "failed to advance", "room", room, "error", err)
		}
		s.publish(ctx, room, domain.Event{Type: domain.EventDequeue})
	}
}
